package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/keiprogram/English-Test-App/internal/app"
	"github.com/keiprogram/English-Test-App/internal/domain"
	pgstore "github.com/keiprogram/English-Test-App/internal/infra/postgres"
	pgmigrations "github.com/keiprogram/English-Test-App/internal/infra/postgres/migrations"
	infraredis "github.com/keiprogram/English-Test-App/internal/infra/redis"
)

func TestRoundAgainstPostgresAndRedis(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedWords(t, ctx, pgURL, sampleWords(150))

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	loader := pgstore.NewVocabularyLoader(pool)
	vocab := infraredis.NewVocabularyRepository(redisClient, loader, "postgres", 5*time.Minute, nil)
	players := infraredis.NewPlayerStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(players, vocab, app.Options{}, nil)

	ranges, err := service.Ranges(ctx)
	if err != nil {
		t.Fatalf("ranges: %v", err)
	}
	if len(ranges) != 2 || ranges[1] != (domain.Range{Start: 101, End: 150}) {
		t.Fatalf("unexpected ranges %+v", ranges)
	}
	if n, err := redisClient.HLen(ctx, "vocab:postgres:terms").Result(); err != nil || n != 150 {
		t.Fatalf("expected vocabulary cached in redis, n=%d err=%v", n, err)
	}

	round, err := service.Start(ctx, "u1", app.StartRequest{Mode: domain.ModeTermToMeaning, RangeIndex: 1, Count: 3})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < round.Total; i++ {
		q, err := service.Question(ctx, "u1")
		if err != nil {
			t.Fatalf("question: %v", err)
		}
		if _, err := service.Answer(ctx, "u1", app.AnswerSubmission{Position: q.Position, Option: domain.UnknownOption}); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}

	missed, err := service.Missed(ctx, "u1")
	if err != nil {
		t.Fatalf("missed: %v", err)
	}
	if len(missed) != 3 {
		t.Fatalf("expected 3 missed words, got %d", len(missed))
	}

	if _, err := service.Start(ctx, "u1", app.StartRequest{Mode: domain.ModeReview}); err != nil {
		t.Fatalf("start review: %v", err)
	}
	for i := 0; i < len(missed); i++ {
		q, err := service.Question(ctx, "u1")
		if err != nil {
			t.Fatalf("review question: %v", err)
		}
		answer := "meaning-" + strings.TrimPrefix(q.Prompt, "term-")
		if _, err := service.Answer(ctx, "u1", app.AnswerSubmission{Position: q.Position, Option: answer}); err != nil {
			t.Fatalf("review answer: %v", err)
		}
	}
	if missed, _ := service.Missed(ctx, "u1"); len(missed) != 0 {
		t.Fatalf("expected review to clear missed words, got %+v", missed)
	}

	active, err := players.ActivePlayers(ctx)
	if err != nil || active != 1 {
		t.Fatalf("expected one active player, got %d err=%v", active, err)
	}
}

func TestSeedUpsertsWords(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	words := sampleWords(3)
	seedWords(t, ctx, pgURL, words)
	words[0].Meaning = "updated"
	seedWords(t, ctx, pgURL, words)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loaded, err := pgstore.NewVocabularyLoader(pool).LoadVocabulary(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 3 || loaded[0].Meaning != "updated" {
		t.Fatalf("expected upserted rows, got %+v", loaded)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

// seedWords applies the migrations and upserts words, the way the seed command does.
func seedWords(t *testing.T, ctx context.Context, dsn string, words []domain.WordEntry) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	n, err := pgstore.NewWordWriter(db).Upsert(ctx, words)
	if err != nil {
		t.Fatalf("upsert words: %v", err)
	}
	if n != len(words) {
		t.Fatalf("expected %d rows written, got %d", len(words), n)
	}
}

func sampleWords(n int) []domain.WordEntry {
	words := make([]domain.WordEntry, 0, n)
	for i := 1; i <= n; i++ {
		s := strconv.Itoa(i)
		words = append(words, domain.WordEntry{ID: i, Term: "term-" + s, Meaning: "meaning-" + s})
	}
	return words
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

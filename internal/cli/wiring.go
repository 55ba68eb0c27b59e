package cli

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"github.com/keiprogram/English-Test-App/internal/app"
	"github.com/keiprogram/English-Test-App/internal/config"
	"github.com/keiprogram/English-Test-App/internal/infra/memory"
	pgstore "github.com/keiprogram/English-Test-App/internal/infra/postgres"
	rediscache "github.com/keiprogram/English-Test-App/internal/infra/redis"
	"github.com/keiprogram/English-Test-App/internal/infra/xlsx"
	"github.com/keiprogram/English-Test-App/internal/logger"
)

// runtime bundles the dependencies shared by the play and start commands.
type runtime struct {
	cfg     config.Config
	log     *zap.Logger
	service *app.QuizService
	redis   *redis.Client
	closers []func()

	// set only when players are marked in Redis
	liveness *rediscache.PlayerStore
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.log.Sync()
}

func loadConfigAndLogger(configPath string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// newRuntime wires the vocabulary source, the optional Redis cache and the player store.
// useRedis is false for the terminal client, which never shares state.
func newRuntime(ctx context.Context, cfg config.Config, log *zap.Logger, useRedis bool) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: log}

	loader, err := rt.vocabularyLoader(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	vocabTTL := config.TTLDuration(cfg.Vocabulary.TTL, 10*time.Minute)
	playerTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var vocab app.VocabularyRepository
	var players app.PlayerRepository
	if useRedis && cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = rt.redis.Close() })
		if err := rt.redis.Ping(ctx).Err(); err != nil {
			rt.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		vocab = rediscache.NewVocabularyRepository(rt.redis, loader, cacheSource(cfg), vocabTTL, log)
		rt.liveness = rediscache.NewPlayerStore(rt.redis, playerTTL)
		players = rt.liveness
		log.Info("using redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		vocab = memory.NewVocabularyRepository(loader, vocabTTL)
		players = memory.NewPlayerStore()
	}

	rt.service = app.NewQuizService(players, vocab, app.Options{
		RangeSize:            cfg.Quiz.RangeSize,
		OptionCount:          cfg.Quiz.OptionCount,
		DefaultQuestionCount: cfg.Quiz.QuestionCount,
	}, log)
	return rt, nil
}

func (r *runtime) vocabularyLoader(ctx context.Context) (memory.VocabularyLoader, error) {
	switch r.cfg.Vocabulary.Source {
	case config.SourcePostgres:
		pool, err := pgxpool.Connect(ctx, r.cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		r.closers = append(r.closers, pool.Close)
		r.log.Info("vocabulary source", zap.String("source", "postgres"))
		return pgstore.NewVocabularyLoader(pool), nil
	default:
		r.log.Info("vocabulary source",
			zap.String("source", "xlsx"),
			zap.String("path", r.cfg.Vocabulary.Path),
		)
		return xlsx.NewLoader(r.cfg.Vocabulary.Path, r.cfg.Vocabulary.Sheet, r.log), nil
	}
}

// cacheSource names the Redis cache namespace after the vocabulary source, e.g. "xlsx:pass1".
func cacheSource(cfg config.Config) string {
	if cfg.Vocabulary.Source != config.SourceXLSX {
		return cfg.Vocabulary.Source
	}
	base := filepath.Base(cfg.Vocabulary.Path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if cfg.Vocabulary.Sheet != "" {
		name += ":" + cfg.Vocabulary.Sheet
	}
	return config.SourceXLSX + ":" + name
}

func openBun(cfg config.Config) (*bun.DB, error) {
	if cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("postgres url not configured")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keiprogram/English-Test-App/internal/domain"
	"github.com/keiprogram/English-Test-App/internal/infra/memory"
)

func TestVocabularyRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{VocabularyLoader: memory.NewStaticVocabularyLoader(sampleWords())}
	repo := NewVocabularyRepository(client, loader, "pass1", time.Minute, nil)

	v, err := repo.GetVocabulary(context.Background())
	if err != nil {
		t.Fatalf("get vocabulary: %v", err)
	}
	if v.Len() != 3 {
		t.Fatalf("expected 3 words, got %d", v.Len())
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if got := mr.HGet("vocab:pass1:terms", "2"); got != "abundant" {
		t.Fatalf("expected cached term, got %q", got)
	}
	if got := mr.HGet("vocab:pass1:meanings", "3"); got != "加速する" {
		t.Fatalf("expected cached meaning, got %q", got)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetVocabulary(context.Background())
	if err != nil {
		t.Fatalf("get cached vocabulary: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.MinID() != 1 || cached.MaxID() != 3 {
		t.Fatalf("unexpected cached ids %d..%d", cached.MinID(), cached.MaxID())
	}
}

func TestVocabularyRepositoryReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{VocabularyLoader: memory.NewStaticVocabularyLoader(sampleWords())}
	repo := NewVocabularyRepository(newClient(mr), loader, "pass1", time.Minute, nil)

	if _, err := repo.GetVocabulary(context.Background()); err != nil {
		t.Fatalf("get vocabulary: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := repo.GetVocabulary(context.Background()); err != nil {
		t.Fatalf("get vocabulary after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

func TestVocabularyRepositoryIgnoresCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	mr.HSet("vocab:pass1:terms", "not-a-number", "oops")

	loader := &countingLoader{VocabularyLoader: memory.NewStaticVocabularyLoader(sampleWords())}
	repo := NewVocabularyRepository(newClient(mr), loader, "pass1", time.Minute, nil)

	v, err := repo.GetVocabulary(context.Background())
	if err != nil {
		t.Fatalf("get vocabulary: %v", err)
	}
	if loader.calls != 1 || v.Len() != 3 {
		t.Fatalf("expected fallback to loader, calls=%d len=%d", loader.calls, v.Len())
	}
}

type countingLoader struct {
	memory.VocabularyLoader
	calls int
}

func (l *countingLoader) LoadVocabulary(ctx context.Context) ([]domain.WordEntry, error) {
	l.calls++
	return l.VocabularyLoader.LoadVocabulary(ctx)
}

func sampleWords() []domain.WordEntry {
	return []domain.WordEntry{
		{ID: 1, Term: "abandon", Meaning: "見捨てる"},
		{ID: 2, Term: "abundant", Meaning: "豊富な"},
		{ID: 3, Term: "accelerate", Meaning: "加速する"},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

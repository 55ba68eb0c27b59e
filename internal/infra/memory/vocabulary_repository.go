package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/keiprogram/English-Test-App/internal/domain"
	"github.com/keiprogram/English-Test-App/internal/quiz"
)

const vocabularyKey = "vocabulary"

// VocabularyLoader fetches word entries from a backing store (spreadsheet, Postgres).
type VocabularyLoader interface {
	LoadVocabulary(ctx context.Context) ([]domain.WordEntry, error)
}

// VocabularyRepository caches the vocabulary with TTL to avoid re-reading the source on every event.
type VocabularyRepository struct {
	loader VocabularyLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	vocab     *quiz.Vocabulary
	expiresAt time.Time
}

// NewVocabularyRepository caches loader's result for ttl; a ttl of zero caches forever.
func NewVocabularyRepository(loader VocabularyLoader, ttl time.Duration) *VocabularyRepository {
	return &VocabularyRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *VocabularyRepository) GetVocabulary(ctx context.Context) (*quiz.Vocabulary, error) {
	if v, ok := r.cached(r.clock()); ok {
		return v, nil
	}

	result, err, _ := r.sf.Do(vocabularyKey, func() (interface{}, error) {
		now := r.clock()
		if v, ok := r.cached(now); ok {
			return v, nil
		}

		entries, err := r.loader.LoadVocabulary(ctx)
		if err != nil {
			return nil, err
		}
		vocab, err := quiz.NewVocabulary(entries)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.vocab = vocab
		r.expiresAt = time.Time{}
		if r.ttl > 0 {
			r.expiresAt = now.Add(r.ttlWithJitter())
		}
		r.mu.Unlock()
		return vocab, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*quiz.Vocabulary), nil
}

func (r *VocabularyRepository) cached(now time.Time) (*quiz.Vocabulary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.vocab == nil {
		return nil, false
	}
	if !r.expiresAt.IsZero() && !r.expiresAt.After(now) {
		return nil, false
	}
	return r.vocab, true
}

func (r *VocabularyRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticVocabularyLoader is a simple loader backed by a fixed slice (useful for tests/demos).
type StaticVocabularyLoader struct {
	entries []domain.WordEntry
}

func NewStaticVocabularyLoader(entries []domain.WordEntry) *StaticVocabularyLoader {
	return &StaticVocabularyLoader{entries: entries}
}

func (l *StaticVocabularyLoader) LoadVocabulary(_ context.Context) ([]domain.WordEntry, error) {
	if len(l.entries) == 0 {
		return nil, fmt.Errorf("%w: static vocabulary is empty", domain.ErrDataUnavailable)
	}
	out := make([]domain.WordEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

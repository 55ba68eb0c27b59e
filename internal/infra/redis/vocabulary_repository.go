package redis

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/keiprogram/English-Test-App/internal/domain"
	"github.com/keiprogram/English-Test-App/internal/quiz"
)

// VocabularyLoader fetches word entries from a backing store (spreadsheet, Postgres).
type VocabularyLoader interface {
	LoadVocabulary(ctx context.Context) ([]domain.WordEntry, error)
}

// VocabularyRepository caches the vocabulary in Redis and falls back to a loader on cache miss.
// Terms are stored as:    HSET vocab:{source}:terms    {id} {term}
// Meanings are stored as: HSET vocab:{source}:meanings {id} {meaning}
type VocabularyRepository struct {
	client *redis.Client
	loader VocabularyLoader
	source string
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	log    *zap.Logger
}

func NewVocabularyRepository(client *redis.Client, loader VocabularyLoader, source string, ttl time.Duration, logger *zap.Logger) *VocabularyRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VocabularyRepository{
		client: client,
		loader: loader,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    logger,
	}
}

func (r *VocabularyRepository) GetVocabulary(ctx context.Context) (*quiz.Vocabulary, error) {
	if v, ok := r.fromCache(ctx); ok {
		return v, nil
	}

	result, err, _ := r.sf.Do(r.source, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if v, ok := r.fromCache(ctx); ok {
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

		ttl := r.ttlWithJitter()
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, r.termsKey(), r.meaningsKey())
		for _, w := range vocab.Entries() {
			id := strconv.Itoa(w.ID)
			pipe.HSet(ctx, r.termsKey(), id, w.Term)
			pipe.HSet(ctx, r.meaningsKey(), id, w.Meaning)
		}
		if ttl > 0 {
			pipe.Expire(ctx, r.termsKey(), ttl)
			pipe.Expire(ctx, r.meaningsKey(), ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			// the source of truth is the loader; a cold cache only costs a reload
			r.log.Warn("cache vocabulary in redis", zap.String("source", r.source), zap.Error(err))
		}

		return vocab, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*quiz.Vocabulary), nil
}

func (r *VocabularyRepository) fromCache(ctx context.Context) (*quiz.Vocabulary, bool) {
	terms, err := r.client.HGetAll(ctx, r.termsKey()).Result()
	if err != nil || len(terms) == 0 {
		return nil, false
	}
	meanings, err := r.client.HGetAll(ctx, r.meaningsKey()).Result()
	if err != nil {
		return nil, false
	}
	entries, err := buildEntriesFromCache(terms, meanings)
	if err != nil {
		r.log.Warn("discard corrupt vocabulary cache", zap.String("source", r.source), zap.Error(err))
		return nil, false
	}
	vocab, err := quiz.NewVocabulary(entries)
	if err != nil {
		return nil, false
	}
	return vocab, true
}

func (r *VocabularyRepository) termsKey() string {
	return "vocab:" + r.source + ":terms"
}

func (r *VocabularyRepository) meaningsKey() string {
	return "vocab:" + r.source + ":meanings"
}

func buildEntriesFromCache(terms, meanings map[string]string) ([]domain.WordEntry, error) {
	entries := make([]domain.WordEntry, 0, len(terms))
	for rawID, term := range terms {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			return nil, fmt.Errorf("cached id %q: %w", rawID, err)
		}
		meaning, ok := meanings[rawID]
		if !ok {
			return nil, fmt.Errorf("cached id %d has no meaning", id)
		}
		entries = append(entries, domain.WordEntry{ID: id, Term: term, Meaning: meaning})
	}
	return entries, nil
}

func (r *VocabularyRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

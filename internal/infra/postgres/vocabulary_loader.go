package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

// VocabularyLoader loads the word list from the words table.
type VocabularyLoader struct {
	pool *pgxpool.Pool
}

func NewVocabularyLoader(pool *pgxpool.Pool) *VocabularyLoader {
	return &VocabularyLoader{pool: pool}
}

func (l *VocabularyLoader) LoadVocabulary(ctx context.Context) ([]domain.WordEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, term, meaning FROM words ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query words: %v", domain.ErrDataUnavailable, err)
	}
	defer rows.Close()

	var entries []domain.WordEntry
	for rows.Next() {
		var w domain.WordEntry
		if err := rows.Scan(&w.ID, &w.Term, &w.Meaning); err != nil {
			return nil, fmt.Errorf("%w: scan word: %v", domain.ErrDataUnavailable, err)
		}
		entries = append(entries, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read words: %v", domain.ErrDataUnavailable, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: words table is empty", domain.ErrDataUnavailable)
	}
	return entries, nil
}

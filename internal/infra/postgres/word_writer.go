package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

type wordRow struct {
	bun.BaseModel `bun:"table:words"`

	ID      int    `bun:"id,pk"`
	Term    string `bun:"term,notnull"`
	Meaning string `bun:"meaning,notnull"`
}

// WordWriter upserts vocabulary rows, used to import a spreadsheet into Postgres.
type WordWriter struct {
	db        *bun.DB
	batchSize int
}

func NewWordWriter(db *bun.DB) *WordWriter {
	return &WordWriter{db: db, batchSize: 500}
}

// Upsert inserts entries, replacing term and meaning of existing ids. It returns the row count written.
func (w *WordWriter) Upsert(ctx context.Context, entries []domain.WordEntry) (int, error) {
	rows := make([]wordRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, wordRow{ID: e.ID, Term: e.Term, Meaning: e.Meaning})
	}

	written := 0
	err := w.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(rows); start += w.batchSize {
			end := start + w.batchSize
			if end > len(rows) {
				end = len(rows)
			}
			batch := rows[start:end]
			if _, err := tx.NewInsert().
				Model(&batch).
				On("CONFLICT (id) DO UPDATE").
				Set("term = EXCLUDED.term").
				Set("meaning = EXCLUDED.meaning").
				Exec(ctx); err != nil {
				return fmt.Errorf("upsert words %d-%d: %w", start, end, err)
			}
			written += len(batch)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

package quiz

import (
	"fmt"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

// SelectPool picks the candidate words for a round: the missed words in review mode,
// otherwise the words of vocab inside r.
func SelectPool(mode domain.Mode, r domain.Range, vocab *Vocabulary, missed domain.MissedWords) (domain.Pool, error) {
	if mode == domain.ModeReview {
		if len(missed) == 0 {
			return nil, domain.ErrNoMissedWords
		}
		return domain.Pool(missed.Entries()), nil
	}

	if r.Start > r.End {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRange, r)
	}
	pool := vocab.Within(r)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyPool, r)
	}
	return pool, nil
}

package quiz

import (
	"fmt"
	"math/rand"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

// StartRound draws min(requested, len(pool)) words without replacement in random order.
// A pool smaller than requested is reported as a notice, not an error.
func StartRound(rnd *rand.Rand, pool domain.Pool, requested int, mode domain.Mode) (domain.SessionState, []domain.Notice, error) {
	if requested < 1 {
		return domain.SessionState{}, nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuestionCount, requested)
	}
	if len(pool) == 0 {
		return domain.SessionState{}, nil, domain.ErrEmptyPool
	}

	var notices []domain.Notice
	n := requested
	if len(pool) < requested {
		n = len(pool)
		notices = append(notices, domain.Notice{
			Kind: domain.NoticeShortPool,
			Message: fmt.Sprintf("選択した範囲の単語数（%d語）が指定した出題数（%d問）より少ないため、%d問でテストを開始します。",
				len(pool), requested, n),
		})
	}

	questions := make([]domain.WordEntry, 0, n)
	for _, idx := range rnd.Perm(len(pool))[:n] {
		questions = append(questions, pool[idx])
	}

	return domain.SessionState{
		Mode:      mode,
		Questions: questions,
	}, notices, nil
}

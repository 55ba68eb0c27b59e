package quiz

import (
	"github.com/keiprogram/English-Test-App/internal/domain"
)

// AnswerResult describes the outcome of one submission.
type AnswerResult struct {
	Question      domain.WordEntry `json:"question"`
	Selected      string           `json:"selected"`
	CorrectAnswer string           `json:"correctAnswer"`
	Correct       bool             `json:"correct"`
	Completed     bool             `json:"completed"`
}

// SubmitAnswer scores option against the current question and advances the round.
//
// Neither state nor missed is modified; the updated values are returned. missed is only
// rewritten when the round completes: in review mode the words answered correctly are
// removed, then every word missed this round is merged in by id. A submission against a
// complete round returns the inputs unchanged with domain.ErrOutOfSequence.
func SubmitAnswer(state domain.SessionState, missed domain.MissedWords, option string) (domain.SessionState, domain.MissedWords, AnswerResult, error) {
	q, ok := state.Current()
	if !ok {
		return state, missed, AnswerResult{Completed: true}, domain.ErrOutOfSequence
	}

	correct := AnswerFor(q, state.Mode)
	// UnknownOption only scores when it is the word's own answer text
	result := AnswerResult{
		Question:      q,
		Selected:      option,
		CorrectAnswer: correct,
		Correct:       option == correct,
	}

	next := state
	if result.Correct {
		next.Score++
		next.RoundCorrect = appendEntry(state.RoundCorrect, q)
	} else {
		next.RoundMissed = appendEntry(state.RoundMissed, q)
	}
	next.Position++

	if !next.Complete() {
		return next, missed, result, nil
	}

	result.Completed = true
	return next, foldRound(next, missed), result, nil
}

func foldRound(state domain.SessionState, missed domain.MissedWords) domain.MissedWords {
	out := missed.Clone()
	if state.Mode == domain.ModeReview {
		for _, w := range state.RoundCorrect {
			delete(out, w.ID)
		}
	}
	for _, w := range state.RoundMissed {
		if _, ok := out[w.ID]; !ok {
			out[w.ID] = w
		}
	}
	return out
}

// appendEntry copies before appending so earlier states never share a backing array.
func appendEntry(list []domain.WordEntry, w domain.WordEntry) []domain.WordEntry {
	out := make([]domain.WordEntry, len(list), len(list)+1)
	copy(out, list)
	return append(out, w)
}

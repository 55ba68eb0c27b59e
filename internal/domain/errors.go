package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable is returned when the vocabulary source is missing or malformed.
	ErrDataUnavailable = errors.New("vocabulary data unavailable")
	// ErrEmptyPool is returned when a round would start with no words.
	ErrEmptyPool = errors.New("no words in the selected pool")
	// ErrNoMissedWords is returned when review mode is requested before anything was missed.
	ErrNoMissedWords = fmt.Errorf("no missed words yet: %w", ErrEmptyPool)
	// ErrOutOfSequence is returned for answers submitted after the round ended or for a stale question.
	ErrOutOfSequence = errors.New("answer out of sequence")
	// ErrInvalidRange indicates a range whose start is after its end, or an unknown range index.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidQuestionCount indicates a requested question count below one.
	ErrInvalidQuestionCount = errors.New("invalid question count")
	// ErrInvalidMode indicates an unknown quiz mode.
	ErrInvalidMode = errors.New("invalid quiz mode")
	// ErrNoActiveRound is returned when a player asks for a question before starting a round.
	ErrNoActiveRound = errors.New("no active round")
	// ErrRoundComplete is returned when a question is requested after the last answer.
	ErrRoundComplete = errors.New("round complete")
	// ErrRoundInProgress is returned when a summary is requested before the round is complete.
	ErrRoundInProgress = errors.New("round still in progress")
)

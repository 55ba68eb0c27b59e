package domain

import (
	"fmt"
	"sort"
)

// UnknownOption is the "I don't know" choice offered with every question; it never scores unless it is the answer text itself.
const UnknownOption = "わからない"

// Mode selects which side of a word is asked and where the pool comes from.
type Mode string

const (
	ModeTermToMeaning Mode = "term_to_meaning"
	ModeMeaningToTerm Mode = "meaning_to_term"
	ModeReview        Mode = "review"
)

// Modes lists the selectable modes in display order.
var Modes = []Mode{ModeTermToMeaning, ModeMeaningToTerm, ModeReview}

// ParseMode validates a raw mode string.
func ParseMode(raw string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
}

// AsksMeaning reports whether the expected answer is the meaning of the word.
// Review rounds are always asked word to meaning.
func (m Mode) AsksMeaning() bool {
	return m != ModeMeaningToTerm
}

// Label is the human-facing name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeTermToMeaning:
		return "英語→日本語"
	case ModeMeaningToTerm:
		return "日本語→英語"
	case ModeReview:
		return "間違えた問題"
	default:
		return string(m)
	}
}

// WordEntry is one row of the vocabulary.
type WordEntry struct {
	ID      int    `json:"id"`
	Term    string `json:"term"`
	Meaning string `json:"meaning"`
}

// Range is an inclusive id window.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("No.%d〜No.%d", r.Start, r.End)
}

// Contains reports whether id falls inside the window.
func (r Range) Contains(id int) bool {
	return id >= r.Start && id <= r.End
}

// Pool is the ordered candidate set a round draws from.
type Pool []WordEntry

// MissedWords holds every word answered wrong and not yet recovered in review mode.
type MissedWords map[int]WordEntry

// Entries returns the missed words ordered by id.
func (m MissedWords) Entries() []WordEntry {
	out := make([]WordEntry, 0, len(m))
	for _, w := range m {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clone returns an independent copy; a nil receiver yields an empty set.
func (m MissedWords) Clone() MissedWords {
	out := make(MissedWords, len(m))
	for id, w := range m {
		out[id] = w
	}
	return out
}

// SessionState is one round of questions and its running tally.
type SessionState struct {
	Mode         Mode        `json:"mode"`
	Questions    []WordEntry `json:"questions"`
	Position     int         `json:"position"`
	Score        int         `json:"score"`
	RoundMissed  []WordEntry `json:"roundMissed"`
	RoundCorrect []WordEntry `json:"roundCorrect"`
}

// Total is the number of questions in the round.
func (s SessionState) Total() int {
	return len(s.Questions)
}

// Complete reports whether every question has been answered.
func (s SessionState) Complete() bool {
	return s.Position >= len(s.Questions)
}

// Current returns the question at the current position.
func (s SessionState) Current() (WordEntry, bool) {
	if s.Complete() {
		return WordEntry{}, false
	}
	return s.Questions[s.Position], true
}

// NoticeKind classifies a non-fatal notice.
type NoticeKind string

const (
	NoticeShortPool           NoticeKind = "short_pool"
	NoticeInsufficientOptions NoticeKind = "insufficient_options"
)

// Notice is a user-visible warning that does not stop the flow.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

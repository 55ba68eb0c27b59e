package quiz

import (
	"fmt"
	"math/rand"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

// DefaultOptionCount is the number of word choices shown per question, excluding the sentinel.
const DefaultOptionCount = 4

// OptionsRequest describes one question's choice list.
type OptionsRequest struct {
	Question domain.WordEntry
	Pool     domain.Pool
	Mode     domain.Mode
	// CorrectSeen holds words already answered correctly; used to top up small pools.
	CorrectSeen []domain.WordEntry
	// TargetCount defaults to DefaultOptionCount.
	TargetCount int
	// OmitUnknown drops the UnknownOption sentinel.
	OmitUnknown bool
	// NoPlaceholders returns a short list instead of padding with synthetic labels.
	NoPlaceholders bool
}

// AnswerFor returns the text expected as the answer to entry in mode.
func AnswerFor(entry domain.WordEntry, mode domain.Mode) string {
	if mode.AsksMeaning() {
		return entry.Meaning
	}
	return entry.Term
}

// PromptFor returns the text shown as the question for entry in mode.
func PromptFor(entry domain.WordEntry, mode domain.Mode) string {
	if mode.AsksMeaning() {
		return entry.Term
	}
	return entry.Meaning
}

// GenerateOptions builds a shuffled choice list that contains the correct answer once.
func GenerateOptions(rnd *rand.Rand, req OptionsRequest) ([]string, []domain.Notice) {
	target := req.TargetCount
	if target <= 0 {
		target = DefaultOptionCount
	}
	correct := AnswerFor(req.Question, req.Mode)

	chosen := newOptionSet(target + 1)
	chosen.add(correct)
	// the sentinel must stay unique among the choices
	chosen.reserve(domain.UnknownOption)

	distractors := distinctAnswers(req.Pool, req.Mode, chosen)
	rnd.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	for _, d := range distractors {
		if chosen.len() >= target {
			break
		}
		chosen.add(d)
	}

	// top-up ladder: rest of the pool, then answers already seen, then placeholders
	if chosen.len() < target {
		chosen.topUp(rnd, distinctAnswers(req.Pool, req.Mode, chosen), target)
	}
	if chosen.len() < target {
		chosen.topUp(rnd, distinctAnswers(domain.Pool(req.CorrectSeen), req.Mode, chosen), target)
	}

	var notices []domain.Notice
	if chosen.len() < target {
		notices = append(notices, domain.Notice{
			Kind:    domain.NoticeInsufficientOptions,
			Message: fmt.Sprintf("選択肢が不足しています。(%d/%d)", chosen.len(), target),
		})
		if !req.NoPlaceholders {
			for n := 1; chosen.len() < target; n++ {
				chosen.add(fmt.Sprintf("[no option %d]", n))
			}
		}
	}

	options := chosen.values
	if !req.OmitUnknown && correct != domain.UnknownOption {
		options = append(options, domain.UnknownOption)
	}
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options, notices
}

// distinctAnswers lists the answer-field values of pool in first-seen order, skipping
// empty strings and anything already in exclude.
func distinctAnswers(pool domain.Pool, mode domain.Mode, exclude *optionSet) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, w := range pool {
		v := AnswerFor(w, mode)
		if v == "" || exclude.has(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

type optionSet struct {
	values []string
	index  map[string]struct{}
}

func newOptionSet(capacity int) *optionSet {
	return &optionSet{
		values: make([]string, 0, capacity),
		index:  make(map[string]struct{}, capacity),
	}
}

func (s *optionSet) has(v string) bool {
	_, ok := s.index[v]
	return ok
}

func (s *optionSet) add(v string) {
	if s.has(v) {
		return
	}
	s.index[v] = struct{}{}
	s.values = append(s.values, v)
}

// reserve blocks v from being added without counting it as a choice.
func (s *optionSet) reserve(v string) {
	s.index[v] = struct{}{}
}

func (s *optionSet) len() int {
	return len(s.values)
}

func (s *optionSet) topUp(rnd *rand.Rand, candidates []string, target int) {
	for _, idx := range rnd.Perm(len(candidates)) {
		if s.len() >= target {
			return
		}
		s.add(candidates[idx])
	}
}

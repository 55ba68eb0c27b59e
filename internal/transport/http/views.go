package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/keiprogram/English-Test-App/internal/app"
	"github.com/keiprogram/English-Test-App/internal/domain"
)

var (
	errBadPayload  = errors.New("invalid payload")
	errUnsupported = errors.New("unsupported message type")
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorCodes is checked in order; ErrNoMissedWords wraps ErrEmptyPool and must come first.
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrNoMissedWords, "no_missed_words"},
	{domain.ErrEmptyPool, "empty_pool"},
	{domain.ErrDataUnavailable, "data_unavailable"},
	{domain.ErrOutOfSequence, "out_of_sequence"},
	{domain.ErrInvalidRange, "invalid_range"},
	{domain.ErrInvalidQuestionCount, "invalid_question_count"},
	{domain.ErrInvalidMode, "invalid_mode"},
	{domain.ErrNoActiveRound, "no_active_round"},
	{domain.ErrRoundComplete, "round_complete"},
	{domain.ErrRoundInProgress, "round_in_progress"},
	{errBadPayload, "bad_payload"},
	{errUnsupported, "unsupported"},
}

func toErrorPayload(err error) errorPayload {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return errorPayload{Code: c.code, Message: err.Error()}
		}
	}
	return errorPayload{Code: "internal", Message: err.Error()}
}

type modeView struct {
	ID    domain.Mode `json:"id"`
	Label string      `json:"label"`
}

func modeViews() []modeView {
	out := make([]modeView, 0, len(domain.Modes))
	for _, m := range domain.Modes {
		out = append(out, modeView{ID: m, Label: m.Label()})
	}
	return out
}

type rangeView struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

func rangeViews(ranges []domain.Range) []rangeView {
	out := make([]rangeView, 0, len(ranges))
	for i, r := range ranges {
		out = append(out, rangeView{Index: i, Start: r.Start, End: r.End, Label: r.String()})
	}
	return out
}

// RangesHandler serves the selectable ranges and modes as JSON.
func RangesHandler(service *app.QuizService, logger *zap.Logger) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ranges, err := service.Ranges(r.Context())
		if err != nil {
			logger.Error("load ranges", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(toErrorPayload(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Modes  []modeView  `json:"modes"`
			Ranges []rangeView `json:"ranges"`
		}{Modes: modeViews(), Ranges: rangeViews(ranges)})
	}
}

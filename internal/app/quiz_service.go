package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/keiprogram/English-Test-App/internal/domain"
	"github.com/keiprogram/English-Test-App/internal/quiz"
)

// PlayerRepository abstracts where players live between UI events (in-memory, Redis-marked, etc).
type PlayerRepository interface {
	GetOrCreate(playerID string) *Player
	Get(playerID string) (*Player, bool)
}

// VocabularyRepository loads the word list (from cache/backing store).
type VocabularyRepository interface {
	GetVocabulary(ctx context.Context) (*quiz.Vocabulary, error)
}

// Options tunes round and question shape.
type Options struct {
	RangeSize            int
	OptionCount          int
	DefaultQuestionCount int
}

// QuizService contains the quiz use cases. Each call reads the player's explicit state,
// runs one pure step of the quiz engine and stores the result back.
type QuizService struct {
	players PlayerRepository
	vocab   VocabularyRepository
	opts    Options
	log     *zap.Logger
}

func NewQuizService(players PlayerRepository, vocab VocabularyRepository, opts Options, logger *zap.Logger) *QuizService {
	if opts.RangeSize <= 0 {
		opts.RangeSize = quiz.DefaultRangeSize
	}
	if opts.OptionCount <= 0 {
		opts.OptionCount = quiz.DefaultOptionCount
	}
	if opts.DefaultQuestionCount <= 0 {
		opts.DefaultQuestionCount = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{players: players, vocab: vocab, opts: opts, log: logger}
}

// StartRequest selects the mode, range and size of a new round.
type StartRequest struct {
	Mode       domain.Mode `json:"mode"`
	RangeIndex int         `json:"rangeIndex"`
	Count      int         `json:"count"`
}

// RoundView describes a freshly started round.
type RoundView struct {
	Round   int             `json:"round"`
	Mode    domain.Mode     `json:"mode"`
	Range   *domain.Range   `json:"range,omitempty"`
	Total   int             `json:"total"`
	Notices []domain.Notice `json:"notices,omitempty"`
}

// QuestionView is everything needed to render the current question.
type QuestionView struct {
	Position int             `json:"position"`
	Total    int             `json:"total"`
	Score    int             `json:"score"`
	Prompt   string          `json:"prompt"`
	Options  []string        `json:"options"`
	Notices  []domain.Notice `json:"notices,omitempty"`
}

// AnswerSubmission is the answer to the question at Position.
type AnswerSubmission struct {
	Position int    `json:"position"`
	Option   string `json:"option"`
}

// AnswerView summarizes the outcome of a submission.
type AnswerView struct {
	Position      int    `json:"position"`
	Correct       bool   `json:"correct"`
	Selected      string `json:"selected"`
	CorrectAnswer string `json:"correctAnswer"`
	Score         int    `json:"score"`
	Completed     bool   `json:"completed"`
}

// Summary is the result of a completed round.
type Summary struct {
	Mode        domain.Mode        `json:"mode"`
	Score       int                `json:"score"`
	Total       int                `json:"total"`
	Missed      []domain.WordEntry `json:"missed"`
	MissedTotal int                `json:"missedTotal"`
}

// Ranges lists the selectable id windows of the vocabulary.
func (s *QuizService) Ranges(ctx context.Context) ([]domain.Range, error) {
	vocab, err := s.vocab.GetVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	return vocab.Ranges(s.opts.RangeSize), nil
}

// Start replaces the player's round with a new one.
func (s *QuizService) Start(ctx context.Context, playerID string, req StartRequest) (RoundView, error) {
	if _, err := domain.ParseMode(string(req.Mode)); err != nil {
		return RoundView{}, err
	}
	count := req.Count
	if count == 0 {
		count = s.opts.DefaultQuestionCount
	}

	vocab, err := s.vocab.GetVocabulary(ctx)
	if err != nil {
		return RoundView{}, err
	}

	var window *domain.Range
	var selected domain.Range
	if req.Mode != domain.ModeReview {
		ranges := vocab.Ranges(s.opts.RangeSize)
		if req.RangeIndex < 0 || req.RangeIndex >= len(ranges) {
			return RoundView{}, fmt.Errorf("%w: index %d of %d", domain.ErrInvalidRange, req.RangeIndex, len(ranges))
		}
		selected = ranges[req.RangeIndex]
		window = &selected
	}

	p := s.players.GetOrCreate(playerID)
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, err := quiz.SelectPool(req.Mode, selected, vocab, p.missed)
	if err != nil {
		return RoundView{}, err
	}

	round := p.round + 1
	state, notices, err := quiz.StartRound(p.rngFor(round, 0), pool, count, req.Mode)
	if err != nil {
		return RoundView{}, err
	}

	p.round = round
	p.started = true
	p.state = state
	p.pool = pool
	p.updatedAt = p.now()

	s.log.Info("round started",
		zap.String("player_id", playerID),
		zap.Int("round", round),
		zap.String("mode", string(req.Mode)),
		zap.Int("questions", state.Total()),
		zap.Int("pool", len(pool)),
	)
	for _, n := range notices {
		s.log.Warn("round notice", zap.String("player_id", playerID), zap.String("kind", string(n.Kind)))
	}

	return RoundView{
		Round:   round,
		Mode:    req.Mode,
		Range:   window,
		Total:   state.Total(),
		Notices: notices,
	}, nil
}

// Question renders the current question. Repeated calls without an answer in between
// return the same options in the same order.
func (s *QuizService) Question(_ context.Context, playerID string) (QuestionView, error) {
	p, err := s.activePlayer(playerID)
	if err != nil {
		return QuestionView{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return QuestionView{}, domain.ErrNoActiveRound
	}
	q, ok := p.state.Current()
	if !ok {
		return QuestionView{}, domain.ErrRoundComplete
	}

	options, notices := quiz.GenerateOptions(p.rngFor(p.round, p.state.Position+1), quiz.OptionsRequest{
		Question:    q,
		Pool:        p.pool,
		Mode:        p.state.Mode,
		CorrectSeen: p.correctSeen(),
		TargetCount: s.opts.OptionCount,
	})

	return QuestionView{
		Position: p.state.Position,
		Total:    p.state.Total(),
		Score:    p.state.Score,
		Prompt:   quiz.PromptFor(q, p.state.Mode),
		Options:  options,
		Notices:  notices,
	}, nil
}

// Answer scores the submission. A submission for any position other than the current
// one, including a repeat of the last answer, is rejected with domain.ErrOutOfSequence.
func (s *QuizService) Answer(_ context.Context, playerID string, sub AnswerSubmission) (AnswerView, error) {
	p, err := s.activePlayer(playerID)
	if err != nil {
		return AnswerView{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return AnswerView{}, domain.ErrNoActiveRound
	}
	if sub.Position != p.state.Position {
		return AnswerView{}, fmt.Errorf("%w: answered %d, current %d", domain.ErrOutOfSequence, sub.Position, p.state.Position)
	}

	state, missed, res, err := quiz.SubmitAnswer(p.state, p.missed, sub.Option)
	if err != nil {
		return AnswerView{}, err
	}
	p.state = state
	p.missed = missed
	p.updatedAt = p.now()

	if res.Completed {
		p.seen = append(p.seen, state.RoundCorrect...)
		s.log.Info("round completed",
			zap.String("player_id", playerID),
			zap.Int("round", p.round),
			zap.Int("score", state.Score),
			zap.Int("total", state.Total()),
			zap.Int("missed_total", len(missed)),
		)
	}

	return AnswerView{
		Position:      sub.Position,
		Correct:       res.Correct,
		Selected:      res.Selected,
		CorrectAnswer: res.CorrectAnswer,
		Score:         state.Score,
		Completed:     res.Completed,
	}, nil
}

// Summary returns the result of the player's completed round.
func (s *QuizService) Summary(_ context.Context, playerID string) (Summary, error) {
	p, err := s.activePlayer(playerID)
	if err != nil {
		return Summary{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return Summary{}, domain.ErrNoActiveRound
	}
	if !p.state.Complete() {
		return Summary{}, domain.ErrRoundInProgress
	}
	missed := make([]domain.WordEntry, len(p.state.RoundMissed))
	copy(missed, p.state.RoundMissed)
	return Summary{
		Mode:        p.state.Mode,
		Score:       p.state.Score,
		Total:       p.state.Total(),
		Missed:      missed,
		MissedTotal: len(p.missed),
	}, nil
}

// Missed lists every word the player currently has in review.
func (s *QuizService) Missed(_ context.Context, playerID string) ([]domain.WordEntry, error) {
	p, ok := s.players.Get(playerID)
	if !ok {
		return []domain.WordEntry{}, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.missed.Entries(), nil
}

func (s *QuizService) activePlayer(playerID string) (*Player, error) {
	p, ok := s.players.Get(playerID)
	if !ok {
		return nil, domain.ErrNoActiveRound
	}
	return p, nil
}

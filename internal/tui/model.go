package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keiprogram/English-Test-App/internal/app"
	"github.com/keiprogram/English-Test-App/internal/domain"
)

const (
	minQuestions     = 1
	maxQuestions     = 100
	defaultQuestions = 50
)

type state int

const (
	stateLoading state = iota
	stateSetup
	statePlaying
	stateFeedback
	stateResult
	stateMissed
)

// setup rows
const (
	fieldMode = iota
	fieldRange
	fieldCount
	setupFields
)

type rangesLoadedMsg struct {
	ranges []domain.Range
	err    error
}

// Model is the terminal quiz. It keeps only view state; the quiz itself lives in the service.
type Model struct {
	ctx      context.Context
	service  *app.QuizService
	playerID string

	state  state
	ranges []domain.Range

	field      int
	modeIdx    int
	rangeIdx   int
	count      int
	optionIdx  int
	notices    []domain.Notice
	round      app.RoundView
	question   app.QuestionView
	lastAnswer app.AnswerView
	summary    app.Summary
	missed     []domain.WordEntry
	returnTo   state

	// message shown on the setup screen, e.g. no missed words yet
	warning string
	err     error
}

// New builds the model for one local player.
func New(ctx context.Context, service *app.QuizService, playerID string, questionCount int) Model {
	if questionCount < minQuestions || questionCount > maxQuestions {
		questionCount = defaultQuestions
	}
	return Model{
		ctx:      ctx,
		service:  service,
		playerID: playerID,
		state:    stateLoading,
		count:    questionCount,
	}
}

func (m Model) Init() tea.Cmd {
	return loadRangesCmd(m.ctx, m.service)
}

func loadRangesCmd(ctx context.Context, service *app.QuizService) tea.Cmd {
	return func() tea.Msg {
		ranges, err := service.Ranges(ctx)
		return rangesLoadedMsg{ranges: ranges, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rangesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.ranges = msg.ranges
		m.state = stateSetup
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		switch m.state {
		case stateSetup:
			return m.updateSetup(msg)
		case statePlaying:
			return m.updatePlaying(msg)
		case stateFeedback:
			return m.updateFeedback(msg)
		case stateResult:
			return m.updateResult(msg)
		case stateMissed:
			if key.Matches(msg, keys.Back, keys.Enter, keys.Missed) {
				m.state = m.returnTo
			}
		}
	}
	return m, nil
}

func (m Model) mode() domain.Mode {
	return domain.Modes[m.modeIdx]
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		m.field = (m.field + setupFields - 1) % setupFields
	case key.Matches(msg, keys.Down):
		m.field = (m.field + 1) % setupFields
	case key.Matches(msg, keys.Left):
		m.adjust(-1)
	case key.Matches(msg, keys.Right):
		m.adjust(1)
	case key.Matches(msg, keys.Less):
		m.adjustCount(-10)
	case key.Matches(msg, keys.More):
		m.adjustCount(10)
	case key.Matches(msg, keys.Missed):
		return m.showMissed()
	case key.Matches(msg, keys.Back):
		return m, tea.Quit
	case key.Matches(msg, keys.Enter):
		return m.start()
	}
	return m, nil
}

func (m *Model) adjust(delta int) {
	m.warning = ""
	switch m.field {
	case fieldMode:
		m.modeIdx = wrap(m.modeIdx+delta, len(domain.Modes))
	case fieldRange:
		if len(m.ranges) > 0 {
			m.rangeIdx = wrap(m.rangeIdx+delta, len(m.ranges))
		}
	case fieldCount:
		m.adjustCount(delta)
	}
}

func (m *Model) adjustCount(delta int) {
	m.count += delta
	if m.count < minQuestions {
		m.count = minQuestions
	}
	if m.count > maxQuestions {
		m.count = maxQuestions
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (m Model) start() (tea.Model, tea.Cmd) {
	round, err := m.service.Start(m.ctx, m.playerID, app.StartRequest{
		Mode:       m.mode(),
		RangeIndex: m.rangeIdx,
		Count:      m.count,
	})
	switch {
	case errors.Is(err, domain.ErrNoMissedWords):
		m.warning = "まだ間違えた問題がありません。通常のテストを行ってください。"
		return m, nil
	case errors.Is(err, domain.ErrEmptyPool):
		m.warning = "選択した範囲に単語がありません。別の範囲を選択してください。"
		return m, nil
	case err != nil:
		m.warning = err.Error()
		return m, nil
	}
	m.warning = ""
	m.round = round
	m.notices = round.Notices
	return m.nextQuestion()
}

func (m Model) nextQuestion() (tea.Model, tea.Cmd) {
	q, err := m.service.Question(m.ctx, m.playerID)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.question = q
	m.optionIdx = 0
	m.state = statePlaying
	return m, nil
}

func (m Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.question.Options)
	switch {
	case key.Matches(msg, keys.Up):
		m.optionIdx = wrap(m.optionIdx-1, n)
	case key.Matches(msg, keys.Down):
		m.optionIdx = wrap(m.optionIdx+1, n)
	case key.Matches(msg, keys.Back):
		m.state = stateSetup
	case key.Matches(msg, keys.Enter):
		return m.answer(m.optionIdx)
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < n {
				return m.answer(idx)
			}
		}
	}
	return m, nil
}

func (m Model) answer(idx int) (tea.Model, tea.Cmd) {
	res, err := m.service.Answer(m.ctx, m.playerID, app.AnswerSubmission{
		Position: m.question.Position,
		Option:   m.question.Options[idx],
	})
	if errors.Is(err, domain.ErrOutOfSequence) {
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.lastAnswer = res
	m.notices = nil
	m.state = stateFeedback
	return m, nil
}

func (m Model) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, keys.Enter) {
		return m, nil
	}
	if !m.lastAnswer.Completed {
		return m.nextQuestion()
	}
	summary, err := m.service.Summary(m.ctx, m.playerID)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.summary = summary
	m.state = stateResult
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Missed):
		return m.showMissed()
	case key.Matches(msg, keys.Enter, keys.Back):
		m.state = stateSetup
	}
	return m, nil
}

func (m Model) showMissed() (tea.Model, tea.Cmd) {
	missed, err := m.service.Missed(m.ctx, m.playerID)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.missed = missed
	m.returnTo = m.state
	m.state = stateMissed
	return m, nil
}

// Err reports the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, service *app.QuizService, playerID string, questionCount int) error {
	final, err := tea.NewProgram(New(ctx, service, playerID, questionCount), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}

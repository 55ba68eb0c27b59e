package tui

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keiprogram/English-Test-App/internal/app"
	"github.com/keiprogram/English-Test-App/internal/domain"
	"github.com/keiprogram/English-Test-App/internal/infra/memory"
)

func newTestModel(t *testing.T, count int) Model {
	t.Helper()
	entries := make([]domain.WordEntry, 0, 120)
	for i := 1; i <= 120; i++ {
		n := strconv.Itoa(i)
		entries = append(entries, domain.WordEntry{ID: i, Term: "term-" + n, Meaning: "meaning-" + n})
	}
	players := memory.NewPlayerStoreWith(func(id string) *app.Player { return app.NewPlayerWithSeed(id, 3) })
	vocab := memory.NewVocabularyRepository(memory.NewStaticVocabularyLoader(entries), time.Minute)
	service := app.NewQuizService(players, vocab, app.Options{}, nil)

	m := New(context.Background(), service, "local", count)
	msg := m.Init()()
	return press(t, m, msg)
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSetupShowsRanges(t *testing.T) {
	m := newTestModel(t, 2)
	require.Equal(t, stateSetup, m.state)
	assert.Len(t, m.ranges, 2)

	m = press(t, m, keyDown, keyRight)
	assert.Equal(t, 1, m.rangeIdx)
	assert.Contains(t, m.View(), "No.101〜No.120")

	m = press(t, m, keyDown, keyLeft, keyLeft, keyLeft)
	assert.Equal(t, minQuestions, m.count, "count is clamped")
}

func TestReviewWithoutMissedWordsWarns(t *testing.T) {
	m := newTestModel(t, 2)
	m = press(t, m, keyLeft, keyEnter)

	assert.Equal(t, domain.ModeReview, m.mode())
	assert.Equal(t, stateSetup, m.state)
	assert.Contains(t, m.View(), "まだ間違えた問題がありません")
}

func TestPlayRoundToResult(t *testing.T) {
	m := newTestModel(t, 2)
	m = press(t, m, keyEnter)
	require.Equal(t, statePlaying, m.state)
	assert.Contains(t, m.View(), "問題 1 / 2")

	// pick the unknown option for the first question
	m = press(t, m, runes(strconv.Itoa(indexOf(m.question.Options, domain.UnknownOption)+1)))
	require.Equal(t, stateFeedback, m.state)
	assert.False(t, m.lastAnswer.Correct)
	assert.Contains(t, m.View(), "不正解")

	m = press(t, m, keyEnter)
	require.Equal(t, statePlaying, m.state)
	assert.Equal(t, 1, m.question.Position)

	correct := "meaning-" + strings.TrimPrefix(m.question.Prompt, "term-")
	for m.question.Options[m.optionIdx] != correct {
		m = press(t, m, keyDown)
	}
	m = press(t, m, keyEnter)
	require.True(t, m.lastAnswer.Correct)
	require.True(t, m.lastAnswer.Completed)

	m = press(t, m, keyEnter)
	require.Equal(t, stateResult, m.state)
	view := m.View()
	assert.Contains(t, view, "正解数: 1/2")
	assert.Contains(t, view, "間違えた問題一覧")

	m = press(t, m, runes("m"))
	require.Equal(t, stateMissed, m.state)
	assert.Len(t, m.missed, 1)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateResult, m.state)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, 2)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/keiprogram/English-Test-App/internal/domain"
)

const barWidth = 30

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCorrect  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleWrong    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	stylePrompt   = lipgloss.NewStyle().Bold(true).Padding(1, 2).Border(lipgloss.RoundedBorder())
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	styleBarGreen = lipgloss.NewStyle().Background(lipgloss.Color("10")).SetString(" ")
	styleBarGrey  = lipgloss.NewStyle().Background(lipgloss.Color("8")).SetString(" ")
)

func (m Model) View() string {
	if m.err != nil {
		return styleError.Render("Error: "+m.err.Error()) + "\n"
	}
	switch m.state {
	case stateLoading:
		return styleSubtle.Render("単語データを読み込んでいます...") + "\n"
	case stateSetup:
		return m.viewSetup()
	case statePlaying:
		return m.viewPlaying()
	case stateFeedback:
		return m.viewFeedback()
	case stateResult:
		return m.viewResult()
	case stateMissed:
		return m.viewMissed()
	}
	return ""
}

func (m Model) viewSetup() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("英検準一級単語・英単語テスト"))
	b.WriteString("\n\n")

	rangeLabel := "-"
	if m.mode() == domain.ModeReview {
		rangeLabel = "(間違えた問題から出題)"
	} else if len(m.ranges) > 0 {
		rangeLabel = m.ranges[m.rangeIdx].String()
	}
	rows := []struct {
		label string
		value string
	}{
		{"テスト形式", m.mode().Label()},
		{"出題範囲", rangeLabel},
		{"出題数", fmt.Sprintf("%d", m.count)},
	}
	for i, row := range rows {
		cursor := "  "
		value := row.value
		if i == m.field {
			cursor = styleCursor.Render("> ")
			value = styleCursor.Render("‹ " + value + " ›")
		}
		fmt.Fprintf(&b, "%s%-10s %s\n", cursor, row.label, value)
	}

	if m.warning != "" {
		b.WriteString("\n")
		b.WriteString(styleWarning.Render(m.warning))
		b.WriteString("\n")
	}
	b.WriteString(styleSubtle.Render("\n↑/↓: 項目 | ←/→: 変更 | pgup/pgdn: ±10 | enter: テスト開始 | m: 間違えた問題 | q: 終了"))
	return b.String()
}

func renderBar(done, total int) string {
	if total <= 0 {
		return ""
	}
	filled := done * barWidth / total
	return strings.Repeat(styleBarGreen.String(), filled) + strings.Repeat(styleBarGrey.String(), barWidth-filled)
}

func (m Model) viewPlaying() string {
	var b strings.Builder
	q := m.question
	for _, n := range m.notices {
		b.WriteString(styleWarning.Render(n.Message))
		b.WriteString("\n")
	}
	b.WriteString(styleSubtle.Render(fmt.Sprintf("%s | 正解数 %d", m.round.Mode.Label(), q.Score)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", styleTitle.Render(fmt.Sprintf("問題 %d / %d", q.Position+1, q.Total)), renderBar(q.Position, q.Total))
	b.WriteString(stylePrompt.Render(q.Prompt))
	b.WriteString("\n\n")
	for i, opt := range q.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		if i == m.optionIdx {
			b.WriteString(styleCursor.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	for _, n := range q.Notices {
		b.WriteString(styleWarning.Render(n.Message))
		b.WriteString("\n")
	}
	b.WriteString(styleSubtle.Render("\n↑/↓ または 1-9: 選択 | enter: 回答 | esc: 設定に戻る"))
	return b.String()
}

func (m Model) viewFeedback() string {
	var b strings.Builder
	a := m.lastAnswer
	if a.Correct {
		b.WriteString(styleCorrect.Render("正解！"))
	} else {
		b.WriteString(styleWrong.Render("不正解"))
		fmt.Fprintf(&b, "\n正解: %s", a.CorrectAnswer)
	}
	fmt.Fprintf(&b, "\n\n正解数: %d\n", a.Score)
	next := "次の問題へ"
	if a.Completed {
		next = "結果を見る"
	}
	b.WriteString(styleSubtle.Render("\nenter: " + next))
	return b.String()
}

func (m Model) viewResult() string {
	var b strings.Builder
	s := m.summary
	b.WriteString(styleCorrect.Render(fmt.Sprintf("テスト終了！ 正解数: %d/%d", s.Score, s.Total)))
	b.WriteString("\n")
	b.WriteString(renderBar(s.Score, s.Total))
	b.WriteString("\n\n")
	if len(s.Missed) == 0 {
		b.WriteString("全問正解です！おめでとうございます！\n")
	} else {
		b.WriteString(styleTitle.Render("間違えた問題一覧"))
		b.WriteString("\n")
		b.WriteString(renderWords(s.Missed))
	}
	b.WriteString(styleSubtle.Render(fmt.Sprintf("\n復習リスト: %d語 | enter: 設定に戻る | m: 間違えた問題 | q: 終了", s.MissedTotal)))
	return b.String()
}

func (m Model) viewMissed() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("間違えた問題 (%d語)", len(m.missed))))
	b.WriteString("\n")
	if len(m.missed) == 0 {
		b.WriteString("まだ間違えた問題がありません。\n")
	} else {
		b.WriteString(renderWords(m.missed))
	}
	b.WriteString(styleSubtle.Render("\nesc: 戻る"))
	return b.String()
}

func renderWords(words []domain.WordEntry) string {
	var b strings.Builder
	for _, w := range words {
		fmt.Fprintf(&b, "  No.%-5d %-20s %s\n", w.ID, w.Term, w.Meaning)
	}
	return b.String()
}

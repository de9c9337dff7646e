package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"timed-quiz-service/internal/results"
)

type styles struct {
	title      lipgloss.Style
	question   lipgloss.Style
	option     lipgloss.Style
	selected   lipgloss.Style
	timer      lipgloss.Style
	timerLow   lipgloss.Style
	score      lipgloss.Style
	flash      lipgloss.Style
	correct    lipgloss.Style
	incorrect  lipgloss.Style
	muted      lipgloss.Style
	tierColors map[results.Tier]lipgloss.Color
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			title: plain.Bold(true), question: plain, option: plain, selected: plain.Bold(true),
			timer: plain, timerLow: plain, score: plain, flash: plain,
			correct: plain, incorrect: plain, muted: plain,
		}
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		question:  lipgloss.NewStyle().Bold(true).MarginBottom(1),
		option:    lipgloss.NewStyle().PaddingLeft(2),
		selected:  lipgloss.NewStyle().PaddingLeft(2).Bold(true).Foreground(lipgloss.Color("212")),
		timer:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		timerLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		score:     lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		flash:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		correct:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		incorrect: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		tierColors: map[results.Tier]lipgloss.Color{
			results.TierOutstanding:  lipgloss.Color("42"),
			results.TierGreatJob:     lipgloss.Color("33"),
			results.TierGoodWork:     lipgloss.Color("214"),
			results.TierKeepLearning: lipgloss.Color("208"),
			results.TierDontGiveUp:   lipgloss.Color("196"),
		},
	}
}

func (s styles) tier(t results.Tier) lipgloss.Style {
	color, ok := s.tierColors[t]
	if !ok {
		return s.title
	}
	return s.title.Foreground(color)
}

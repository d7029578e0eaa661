package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/chazuruo/spurdeck/internal/dashboard"
)

// Styles is the palette used by the dashboard.
type Styles struct {
	Title     lipgloss.Style
	Section   lipgloss.Style
	Muted     lipgloss.Style
	Help      lipgloss.Style
	Highlight lipgloss.Style
	Warning   lipgloss.Style
	Welcome   lipgloss.Style
	Prompt    lipgloss.Style
	alerts    map[dashboard.Severity]lipgloss.Style
}

// NewStyles returns the styles for a [tui].theme value. "mono" drops colour.
func NewStyles(theme string) Styles {
	if theme == "mono" {
		plain := lipgloss.NewStyle()
		bold := plain.Bold(true)
		boxed := plain.Border(lipgloss.NormalBorder()).Padding(0, 1)
		return Styles{
			Title:     bold,
			Section:   bold.Underline(true),
			Muted:     plain,
			Help:      plain,
			Highlight: bold,
			Warning:   boxed,
			Welcome:   boxed,
			Prompt:    bold,
			alerts: map[dashboard.Severity]lipgloss.Style{
				dashboard.SeveritySuccess: boxed,
				dashboard.SeverityDanger:  boxed,
				dashboard.SeverityWarning: boxed,
				dashboard.SeverityDefault: boxed,
			},
		}
	}

	banner := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	return Styles{
		Title:     lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		Section:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		Warning:   banner.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
		Welcome:   banner.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("117")),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		alerts: map[dashboard.Severity]lipgloss.Style{
			dashboard.SeveritySuccess: banner.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")),
			dashboard.SeverityDanger:  banner.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")),
			dashboard.SeverityWarning: banner.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
			dashboard.SeverityDefault: banner.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")),
		},
	}
}

// Alert returns the banner style for severity.
func (s Styles) Alert(severity dashboard.Severity) lipgloss.Style {
	if st, ok := s.alerts[severity]; ok {
		return st
	}
	return s.alerts[dashboard.SeverityDefault]
}

// Table returns table styles for a focused or blurred pane.
func (s Styles) Table(focused bool) table.Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	if focused {
		ts.Selected = ts.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	} else {
		ts.Selected = lipgloss.NewStyle()
	}
	return ts
}

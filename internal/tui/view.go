package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jaskwallet/internal/record"
)

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorText     lipgloss.Color = "#cdd6f4"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorOverlay1)
	cursorStyle   = lipgloss.NewStyle().Background(colorSurface1).Foreground(colorText)
	doneStyle     = lipgloss.NewStyle().Foreground(colorOverlay1).Strikethrough(true)
	statusStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	labelStyle    = lipgloss.NewStyle().Width(9).Foreground(colorOverlay1)
	focusedLabel  = labelStyle.Foreground(colorLavender)
	positiveStyle = lipgloss.NewStyle().Foreground(colorGreen)
	negativeStyle = lipgloss.NewStyle().Foreground(colorRed)
)

const rowFormat = "%-2s %-10s %-18s %14s %14s %10s"

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("jaskwallet"))
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(a.filterSummary()))
	if a.loading {
		b.WriteString("  " + a.spinner.View())
	}
	b.WriteString("\n\n")

	switch a.state {
	case stateForm:
		b.WriteString(a.renderForm())
	case stateConfirm:
		b.WriteString(a.renderList())
		b.WriteString("\n" + errorStyle.Render("Delete every record? (y/n)") + "\n")
	default:
		b.WriteString(a.renderList())
		if a.state == stateSearch {
			b.WriteString("\n" + a.search.View() + "\n")
		}
	}

	if a.status != "" {
		style := statusStyle
		if strings.Contains(a.status, "error") || strings.Contains(a.status, "failed") {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(a.status) + "\n")
	}
	b.WriteString("\n" + a.help.ShortHelpView(a.keys.HelpBindings(a.helpScope())))
	return b.String()
}

func (a *App) helpScope() string {
	switch a.state {
	case stateSearch:
		return scopeSearch
	case stateForm:
		return scopeForm
	case stateConfirm:
		return scopeConfirm
	}
	return scopeList
}

func (a *App) filterSummary() string {
	parts := []string{"counter: " + a.filter.Counter}
	if a.filter.Status != record.StatusAll {
		parts = append(parts, "status: "+string(a.filter.Status))
	}
	if a.filter.Query != "" {
		parts = append(parts, "search: "+a.filter.Query)
	}
	return fmt.Sprintf("[%s] %d/%d", strings.Join(parts, " | "), len(a.visible), len(a.records))
}

func (a *App) renderList() string {
	if len(a.visible) == 0 {
		if a.loading {
			return headerStyle.Render("loading...") + "\n"
		}
		return headerStyle.Render("no records") + "\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf(rowFormat, "", "Pair", "Name", "Buy", "Sell", "Spread")))
	b.WriteString("\n")
	for i, r := range a.visible {
		line := renderRow(r)
		switch {
		case i == a.cursor:
			line = cursorStyle.Render(line)
		case r.Completed:
			line = doneStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderRow(r record.Record) string {
	mark := " "
	if r.Completed {
		mark = "x"
	}
	return fmt.Sprintf(rowFormat, mark, truncate(r.Pair(), 10), truncate(r.DisplayName, 18), r.BuyPrice, r.SellPrice, spreadText(r))
}

func spreadText(r record.Record) string {
	s, err := r.Spread()
	if err != nil {
		return "-"
	}
	text := s.StringFixed(2)
	switch s.Sign() {
	case 1:
		return positiveStyle.Render(text)
	case -1:
		return negativeStyle.Render(text)
	}
	return text
}

func (a *App) renderForm() string {
	f := a.form
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title()) + "\n\n")
	for i, in := range f.inputs {
		label := labelStyle
		if i == f.focus {
			label = focusedLabel
		}
		b.WriteString(label.Render(fieldLabels[i]) + " " + in.View() + "\n")
	}
	if f.err != nil {
		b.WriteString("\n" + errorStyle.Render(f.err.Error()) + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

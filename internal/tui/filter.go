package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsvoice/internal/analysis"
)

// filterBar narrows the article list by sentiment label.
type filterBar struct {
	labels       []string
	active       map[string]bool
	filterMode   bool
	filterCursor int
}

func newFilterBar() filterBar {
	return filterBar{
		labels: []string{string(analysis.Positive), string(analysis.Negative), string(analysis.Neutral)},
		active: make(map[string]bool),
	}
}

func (f *filterBar) toggle(label string) {
	if f.active[label] {
		delete(f.active, label)
	} else {
		f.active[label] = true
	}
}

func (f *filterBar) toggleCurrent() {
	if f.filterCursor < len(f.labels) {
		f.toggle(f.labels[f.filterCursor])
	}
}

func (f *filterBar) activeLabels() []string {
	if len(f.active) == 0 {
		return nil // nil = everything
	}
	var out []string
	for _, s := range f.labels {
		if f.active[s] {
			out = append(out, s)
		}
	}
	return out
}

func (f *filterBar) activeLabel() string {
	active := f.activeLabels()
	if active == nil {
		return "All"
	}
	return strings.Join(active, ", ")
}

func (f *filterBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	// "All" is lit whenever no label is selected
	if len(f.active) == 0 {
		parts = append(parts, tabActiveStyle.Render("All"))
	} else {
		parts = append(parts, tabInactiveStyle.Render("All"))
	}

	for i, s := range f.labels {
		style := tabInactiveStyle
		if f.active[s] {
			style = tabActiveStyle
		}
		label := s
		if f.filterMode && i == f.filterCursor {
			label = "[" + s + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Drop trailing labels that would overflow the bar
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

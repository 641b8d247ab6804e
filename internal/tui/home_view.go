package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsvoice/internal/cache"
	"github.com/matheuskafuri/newsvoice/internal/speech"
)

var asciiLogo = []string{
	`███╗   ██╗███████╗██╗    ██╗███████╗██╗   ██╗ ██████╗ ██╗ ██████╗███████╗`,
	`████╗  ██║██╔════╝██║    ██║██╔════╝██║   ██║██╔═══██╗██║██╔════╝██╔════╝`,
	`██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗██║   ██║██║   ██║██║██║     █████╗`,
	`██║╚██╗██║██╔══╝  ██║███╗██║╚════██║╚██╗ ██╔╝██║   ██║██║██║     ██╔══╝`,
	`██║ ╚████║███████╗╚███╔███╔╝███████║ ╚████╔╝ ╚██████╔╝██║╚██████╗███████╗`,
	`╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝  ╚═══╝   ╚═════╝ ╚═╝ ╚═════╝╚══════╝`,
}

const maxRecent = 5

type homeState struct {
	input         string
	languages     []speech.Language
	langCursor    int
	recent        []cache.Run
	recentCursor  int // -1 while typing
	updateVersion string
	errText       string
}

func renderHomeScreen(width, height int, s homeState) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)
	indent := "          "

	var lines []string

	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "")
	lines = append(lines, indent+dimStyle.Render("Comparative news sentiment, read aloud."))
	lines = append(lines, "")
	lines = append(lines, indent+inputPromptStyle.Render("Company ")+s.input)
	lines = append(lines, "")

	var langs []string
	for i, l := range s.languages {
		label := fmt.Sprintf("%s %s", l.Key, l.Name)
		if i == s.langCursor {
			langs = append(langs, tabActiveStyle.Render(label))
		} else {
			langs = append(langs, tabInactiveStyle.Render(label))
		}
	}
	lines = append(lines, indent+labelStyle.Render("Speech ")+strings.Join(langs, tabSeparatorStyle.Render(" ")))

	if len(s.recent) > 0 {
		lines = append(lines, "")
		lines = append(lines, indent+sectionStyle.Render("Recent"))
		for i, r := range s.recent {
			if i >= maxRecent {
				break
			}
			entry := fmt.Sprintf("%-24s %s", truncateStr(r.Company, 24), relativeTime(r.CreatedAt))
			if i == s.recentCursor {
				lines = append(lines, indent+itemSelectedStyle.Render("> "+entry))
			} else {
				lines = append(lines, indent+itemMetaStyle.Render("  "+entry))
			}
		}
	}

	if s.errText != "" {
		lines = append(lines, "")
		lines = append(lines, indent+sentimentStyle("Negative").Render(s.errText))
	}

	lines = append(lines, "")
	lines = append(lines, indent+keyStyle.Render("[enter]")+"  "+labelStyle.Render("Analyze"))
	lines = append(lines, indent+keyStyle.Render("[tab]")+"    "+labelStyle.Render("Change language"))
	lines = append(lines, indent+keyStyle.Render("[esc]")+"    "+labelStyle.Render("Quit"))

	if s.updateVersion != "" {
		lines = append(lines, "")
		lines = append(lines, indent+logoStyle.Render("Update available: v"+s.updateVersion))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}

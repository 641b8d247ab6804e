package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsvoice/internal/analysis"
)

func renderPreview(article *analysis.Article, width, height, scroll int) string {
	if article == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(article.Title)
	sentiment := sentimentStyle(article.Sentiment).Render(string(article.Sentiment))

	topics := "(no topics)"
	if len(article.Topics) > 0 {
		topics = strings.Join(article.Topics, " · ")
	}
	meta := sentiment + itemMetaStyle.Render("  "+topics)

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(article.Summary, contentWidth))

	parts := []string{title, meta, "", body}
	if article.Link != "" {
		parts = append(parts, "", previewLinkStyle.Width(contentWidth).Render("Read more: "+article.Link))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return clip(content, height, scroll)
}

// clip scrolls content by scroll lines and pads or cuts it to height.
func clip(content string, height, scroll int) string {
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

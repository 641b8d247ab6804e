package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/speech"
)

const barWidth = 30

// renderSummaryView shows the spoken summary in the chosen language.
func renderSummaryView(d *analysis.Digest, lang speech.Language, width, height, scroll int) string {
	contentWidth := max(width-4, 20)

	var lines []string
	lines = append(lines, sectionStyle.Render("Summary · "+lang.Name))
	lines = append(lines, "")
	for _, l := range strings.Split(speech.Summary(d, lang), "\n") {
		lines = append(lines, bodyStyle.Render(wrapText(l, contentWidth)))
	}

	return clip(lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(lines, "\n")), height, scroll)
}

// renderDetailedView lays out the comparative report section by section.
func renderDetailedView(d *analysis.Digest, width, height, scroll int) string {
	contentWidth := max(width-4, 20)
	r := d.Report

	var lines []string
	lines = append(lines, sectionStyle.Render("Sentiment Distribution"))
	total := r.Distribution.Total()
	for _, row := range []struct {
		s analysis.Sentiment
		n int
	}{
		{analysis.Positive, r.Distribution.Positive},
		{analysis.Negative, r.Distribution.Negative},
		{analysis.Neutral, r.Distribution.Neutral},
	} {
		lines = append(lines, fmt.Sprintf("  %-9s %s %d",
			row.s, sentimentStyle(row.s).Render(bar(row.n, total, barWidth)), row.n))
	}

	lines = append(lines, "", sectionStyle.Render("Coverage Differences"))
	if len(r.CoverageDifferences) == 0 {
		lines = append(lines, dimStyle.Render("  None"))
	}
	for i, cd := range r.CoverageDifferences {
		lines = append(lines, bodyStyle.Render(wrapText(fmt.Sprintf("%d. %s", i+1, cd.Comparison), contentWidth)))
		lines = append(lines, dimStyle.Render(wrapText("   "+cd.Impact, contentWidth)))
	}

	lines = append(lines, "", sectionStyle.Render("Common Topics"))
	if len(r.TopicOverlap.CommonTopics) == 0 {
		lines = append(lines, dimStyle.Render("  None"))
	} else {
		lines = append(lines, bodyStyle.Render(wrapText("  "+strings.Join(r.TopicOverlap.CommonTopics, ", "), contentWidth)))
	}

	lines = append(lines, "", sectionStyle.Render("Unique Topics"))
	for _, u := range r.TopicOverlap.UniqueTopics {
		topics := "None"
		if len(u.Topics) > 0 {
			topics = strings.Join(u.Topics, ", ")
		}
		lines = append(lines, itemMetaStyle.Render("  "+u.Label+": ")+bodyStyle.Render(topics))
	}

	lines = append(lines, "", sectionStyle.Render("Final Sentiment Analysis"))
	lines = append(lines, bodyStyle.Render(wrapText(r.FinalSentiment, contentWidth)))

	return clip(lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(lines, "\n")), height, scroll)
}

func bar(n, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := n * width / total
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/gonogo/internal/model"
)

// Compose lays a report out onto c in document order: cover, verdict banner,
// metadata row, narrative, summary table, then one card per section.
// It returns the finished document bytes.
func Compose(report model.Report, c Canvas) ([]byte, error) {
	meta := report.Metadata.WithDefaults()
	result := report.Result
	fg, bg := VerdictColors(result.Verdict)

	// Cover
	c.Heading("Proposal Go/No-Go Diagnostic Report", 1)
	c.Text(meta.ProposalTitle, StyleTitle)
	c.Text(meta.Organization, StyleSubtitle)

	c.Banner(Banner{
		Marker:   result.Verdict.Emoji(),
		Title:    string(result.Verdict),
		Subtitle: "Composite Score: " + ScoreLine(result),
		Fg:       fg,
		Bg:       bg,
	})
	c.Bar(result.Percentage/100, fg)

	c.Fields(ScoreFields(result, meta))
	c.Fields([]Field{
		{Label: "Organization", Value: meta.Organization},
		{Label: "Donor / Funder", Value: meta.Donor},
		{Label: "Deadline", Value: meta.Deadline},
	})

	// Narrative
	c.Heading("Executive Summary", 2)
	c.Text(report.Narrative.Summary, StyleBody)
	if len(report.Narrative.NextSteps) > 0 {
		c.Heading("Recommended Next Steps", 3)
		c.List(report.Narrative.NextSteps, true)
	}
	if notes := strings.TrimSpace(report.Metadata.Notes); notes != "" {
		c.Note(Note{Title: "Evaluator Notes", Body: notes})
	}

	c.Heading("Score Summary", 2)
	c.Table(SummaryRows(result))

	c.Heading("Section Detail", 2)
	for _, s := range result.Sections {
		c.Card(sectionCard(s))
	}

	return c.Finish()
}

// ScoreLine formats "total / max  (pct%)" for banners and CLI output
func ScoreLine(result model.AssessmentResult) string {
	return fmt.Sprintf("%d / %d  (%d%%)", result.Total, result.MaxTotal, result.RoundedPercentage())
}

// ScoreFields is the metadata row under the banner
func ScoreFields(result model.AssessmentResult, meta model.Metadata) []Field {
	return []Field{
		{Label: "Total Score", Value: fmt.Sprintf("%d / %d", result.Total, result.MaxTotal)},
		{Label: "Percentage", Value: percentCell(result.Percentage)},
		{Label: "Evaluator", Value: meta.Evaluator},
		{Label: "Date", Value: meta.DateEvaluated},
	}
}

// SummaryRows builds the score summary table. Its totals row carries the
// same total, maximum, rounded percentage and verdict as the banner.
func SummaryRows(result model.AssessmentResult) Table {
	t := Table{
		Headers: []string{"Section", "Score", "Max", "%", "Strength"},
		Widths:  []float64{3.2, 1, 1, 1, 1.6},
		Align:   []Align{AlignLeft, AlignCenter, AlignCenter, AlignCenter, AlignCenter},
	}

	for _, s := range result.Sections {
		label := s.Label
		if s.Icon != "" {
			label = s.Icon + " " + label
		}
		t.Rows = append(t.Rows, []string{
			label,
			strconv.Itoa(s.Score),
			strconv.Itoa(s.MaxScore),
			percentCell(s.Percentage),
			string(s.Strength),
		})
	}

	t.Totals = []string{
		"TOTAL",
		strconv.Itoa(result.Total),
		strconv.Itoa(result.MaxTotal),
		percentCell(result.Percentage),
		string(result.Verdict),
	}
	return t
}

func percentCell(pct float64) string {
	return strconv.Itoa(model.RoundPercent(pct)) + "%"
}

func sectionCard(s model.SectionResult) Card {
	card := Card{
		Icon:     s.Icon,
		Title:    s.Label,
		Score:    fmt.Sprintf("%d / %d  (%s)", s.Score, s.MaxScore, percentCell(s.Percentage)),
		Strength: string(s.Strength),
		Accent:   Hex(s.Accent),
		Fraction: s.Percentage / 100,
	}
	if s.Accent == "" {
		card.Accent = ColorAccent
	}

	if len(s.Questions) > 0 {
		detail := &Table{
			Headers: []string{"Question", "Score", "Max"},
			Widths:  []float64{5, 1, 1},
			Align:   []Align{AlignLeft, AlignCenter, AlignCenter},
		}
		for _, q := range s.Questions {
			detail.Rows = append(detail.Rows, []string{q.Question, strconv.Itoa(q.Score), strconv.Itoa(q.Max)})
		}
		card.Detail = detail
	}
	return card
}

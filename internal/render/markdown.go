package render

import (
	"fmt"
	"strings"
)

const barWidth = 20

// MarkdownCanvas writes GitHub-flavoured Markdown
type MarkdownCanvas struct {
	sb     strings.Builder
	footer bool
}

// NewMarkdownCanvas creates an empty Markdown canvas
func NewMarkdownCanvas(opts Options) *MarkdownCanvas {
	c := &MarkdownCanvas{footer: opts.IncludeFooter}
	c.sb.WriteString(fmt.Sprintf("_%s · Page 1_\n\n", HeaderText))
	return c
}

func (c *MarkdownCanvas) Heading(text string, level int) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	c.sb.WriteString(fmt.Sprintf("%s %s\n\n", strings.Repeat("#", level), text))
}

func (c *MarkdownCanvas) Text(text string, style TextStyle) {
	switch style {
	case StyleTitle:
		c.sb.WriteString(fmt.Sprintf("**%s**\n\n", text))
	case StyleSubtitle, StyleMuted:
		c.sb.WriteString(fmt.Sprintf("_%s_\n\n", text))
	default:
		c.sb.WriteString(text + "\n\n")
	}
}

func (c *MarkdownCanvas) List(items []string, ordered bool) {
	for i, item := range items {
		if ordered {
			c.sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
		} else {
			c.sb.WriteString(fmt.Sprintf("- %s\n", item))
		}
	}
	c.sb.WriteString("\n")
}

func (c *MarkdownCanvas) Banner(b Banner) {
	title := b.Title
	if b.Marker != "" {
		title = b.Marker + " " + title
	}
	c.sb.WriteString(fmt.Sprintf("> ## %s\n>\n> %s\n\n", title, b.Subtitle))
}

func (c *MarkdownCanvas) Fields(fields []Field) {
	for _, f := range fields {
		c.sb.WriteString(fmt.Sprintf("- **%s:** %s\n", f.Label, f.Value))
	}
	c.sb.WriteString("\n")
}

func (c *MarkdownCanvas) Bar(fraction float64, _ Color) {
	c.sb.WriteString("`" + textBar(fraction) + "`\n\n")
}

func (c *MarkdownCanvas) Table(t Table) {
	c.writeTable(t)
}

func (c *MarkdownCanvas) Card(card Card) {
	title := card.Title
	if card.Icon != "" {
		title = card.Icon + " " + title
	}
	c.sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	c.sb.WriteString(fmt.Sprintf("**Score:** %s · **Strength:** %s\n\n", card.Score, card.Strength))
	c.sb.WriteString("`" + textBar(card.Fraction) + "`\n\n")
	if card.Detail != nil {
		c.writeTable(*card.Detail)
	}
}

func (c *MarkdownCanvas) Note(n Note) {
	c.sb.WriteString(fmt.Sprintf("> **%s**\n>\n", n.Title))
	for _, line := range strings.Split(n.Body, "\n") {
		c.sb.WriteString("> " + line + "\n")
	}
	c.sb.WriteString("\n")
}

func (c *MarkdownCanvas) Rule() {
	c.sb.WriteString("---\n\n")
}

func (c *MarkdownCanvas) Finish() ([]byte, error) {
	if c.footer {
		c.sb.WriteString("---\n\n")
		c.sb.WriteString(fmt.Sprintf("_%s_\n", FooterText))
	}
	return []byte(c.sb.String()), nil
}

func (c *MarkdownCanvas) writeTable(t Table) {
	if len(t.Headers) == 0 {
		return
	}

	row := func(cells []string, bold bool) {
		c.sb.WriteString("|")
		for i := range t.Headers {
			cell := ""
			if i < len(cells) {
				cell = escapeCell(cells[i])
			}
			if bold && cell != "" {
				cell = "**" + cell + "**"
			}
			c.sb.WriteString(" " + cell + " |")
		}
		c.sb.WriteString("\n")
	}

	row(t.Headers, false)
	c.sb.WriteString("|")
	for i := range t.Headers {
		switch columnAlign(t, i) {
		case AlignCenter:
			c.sb.WriteString(":---:|")
		case AlignRight:
			c.sb.WriteString("---:|")
		default:
			c.sb.WriteString("---|")
		}
	}
	c.sb.WriteString("\n")

	for _, r := range t.Rows {
		row(r, false)
	}
	if len(t.Totals) > 0 {
		row(t.Totals, true)
	}
	c.sb.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func textBar(fraction float64) string {
	filled := int(clampFraction(fraction)*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

package render

// HeaderText is printed at the top of every page
const HeaderText = "PROPOSAL GO/NO-GO DIAGNOSTIC REPORT"

// FooterText is printed at the bottom of every page when footers are enabled
const FooterText = "Confidential – For internal use only  |  Generated by Go/No-Go Diagnostic Tool"

// TextStyle selects the typography of a paragraph
type TextStyle int

const (
	StyleBody TextStyle = iota
	StyleTitle
	StyleSubtitle
	StyleMuted
)

// Align is a table column alignment
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Banner is the full-width verdict block
type Banner struct {
	Marker   string // Decorative glyph, dropped by canvases that cannot draw it
	Title    string
	Subtitle string
	Fg, Bg   Color
}

// Field is one label/value pair of a metadata row
type Field struct {
	Label string
	Value string
}

// Table is a bordered grid. Widths are relative weights, one per column.
type Table struct {
	Headers []string
	Widths  []float64
	Align   []Align
	Rows    [][]string
	Totals  []string // Optional emphasised final row
}

// Card is a section block: accent header, proportional bar and optional detail table.
// Header and bar are both drawn in Accent.
type Card struct {
	Icon     string
	Title    string
	Score    string
	Strength string
	Accent   Color
	Fraction float64
	Detail   *Table
}

// Note is a highlighted free-text box
type Note struct {
	Title string
	Body  string
}

// Canvas is the drawing surface a report is composed onto.
// Implementations keep the first error and report it from Finish;
// calls after an error are no-ops.
type Canvas interface {
	Heading(text string, level int)
	Text(text string, style TextStyle)
	List(items []string, ordered bool)
	Banner(b Banner)
	Fields(fields []Field)
	Bar(fraction float64, color Color)
	Table(t Table)
	Card(c Card)
	Note(n Note)
	Rule()
	Finish() ([]byte, error)
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// columnWeights returns one weight per column, defaulting to equal widths
func columnWeights(t Table) []float64 {
	n := len(t.Headers)
	weights := make([]float64, n)
	total := 0.0
	for i := range weights {
		w := 1.0
		if i < len(t.Widths) && t.Widths[i] > 0 {
			w = t.Widths[i]
		}
		weights[i] = w
		total += w
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

func columnAlign(t Table, i int) Align {
	if i < len(t.Align) {
		return t.Align[i]
	}
	return AlignLeft
}

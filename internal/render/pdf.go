package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin       = 15.0
	pdfTopMargin    = 20.0
	pdfBottomMargin = 18.0
	pdfHeaderHeight = 12.0
	pdfFont         = "Helvetica"
)

// Fixed document dates keep identical reports byte-identical
var pdfEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// PDFCanvas draws onto a US Letter PDF using the core Helvetica font
type PDFCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewPDFCanvas creates a canvas with the header banner (and optionally the
// footer) on every page
func NewPDFCanvas(opts Options) *PDFCanvas {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfTopMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetModificationDate(pdfEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Proposal Go/No-Go Diagnostic Report", true)
	pdf.SetCreator("gonogo", true)

	c := &PDFCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pdf.SetHeaderFunc(c.header)
	if opts.IncludeFooter {
		pdf.SetFooterFunc(c.footer)
	}
	pdf.AddPage()
	return c
}

func (c *PDFCanvas) header() {
	w, _ := c.pdf.GetPageSize()

	setFill(c.pdf, ColorPrimary)
	c.pdf.Rect(0, 0, w, pdfHeaderHeight, "F")

	c.pdf.SetFont(pdfFont, "B", 9)
	setText(c.pdf, ColorWhite)
	c.pdf.SetXY(pdfMargin, 3)
	c.pdf.CellFormat(w-2*pdfMargin, 6, HeaderText, "", 0, "L", false, 0, "")
	c.pdf.SetXY(pdfMargin, 3)
	c.pdf.CellFormat(w-2*pdfMargin, 6, fmt.Sprintf("Page %d", c.pdf.PageNo()), "", 0, "R", false, 0, "")

	c.pdf.SetXY(pdfMargin, pdfTopMargin)
}

func (c *PDFCanvas) footer() {
	c.pdf.SetY(-12)
	c.pdf.SetFont(pdfFont, "I", 7.5)
	setText(c.pdf, ColorMuted)
	c.pdf.CellFormat(0, 5, c.tr(FooterText), "", 0, "C", false, 0, "")
}

// Heading draws a section title; level 2 headings get an accent underline
func (c *PDFCanvas) Heading(text string, level int) {
	size := 11.0
	switch level {
	case 1:
		size = 18
	case 2:
		size = 13
	}

	c.ensureSpace(size + 8)
	if level > 1 {
		c.pdf.Ln(2)
	}
	c.pdf.SetFont(pdfFont, "B", size)
	setText(c.pdf, ColorPrimary)
	c.pdf.MultiCell(0, size*0.5, c.text(text), "", "L", false)

	if level == 2 {
		w, _ := c.pdf.GetPageSize()
		y := c.pdf.GetY() + 0.5
		setDraw(c.pdf, ColorAccent)
		c.pdf.SetLineWidth(0.5)
		c.pdf.Line(pdfMargin, y, w-pdfMargin, y)
		c.pdf.SetLineWidth(0.2)
		c.pdf.SetY(y + 3)
		return
	}
	c.pdf.Ln(1)
}

func (c *PDFCanvas) Text(text string, style TextStyle) {
	switch style {
	case StyleTitle:
		c.pdf.SetFont(pdfFont, "B", 15)
		setText(c.pdf, ColorText)
		c.pdf.MultiCell(0, 7, c.text(text), "", "L", false)
	case StyleSubtitle:
		c.pdf.SetFont(pdfFont, "", 11)
		setText(c.pdf, ColorMuted)
		c.pdf.MultiCell(0, 6, c.text(text), "", "L", false)
	case StyleMuted:
		c.pdf.SetFont(pdfFont, "", 9)
		setText(c.pdf, ColorMuted)
		c.pdf.MultiCell(0, 4.5, c.text(text), "", "L", false)
	default:
		c.pdf.SetFont(pdfFont, "", 10)
		setText(c.pdf, ColorText)
		c.pdf.MultiCell(0, 5, c.text(text), "", "J", false)
	}
	c.pdf.Ln(2)
}

func (c *PDFCanvas) List(items []string, ordered bool) {
	c.pdf.SetFont(pdfFont, "", 10)
	setText(c.pdf, ColorText)
	for i, item := range items {
		marker := "-"
		if ordered {
			marker = fmt.Sprintf("%d.", i+1)
		}
		c.ensureSpace(6)
		c.pdf.CellFormat(7, 5, marker, "", 0, "R", false, 0, "")
		c.pdf.SetX(pdfMargin + 9)
		c.pdf.MultiCell(0, 5, c.text(item), "", "L", false)
		c.pdf.Ln(0.8)
	}
	c.pdf.Ln(2)
}

func (c *PDFCanvas) Banner(b Banner) {
	const h = 22.0
	c.ensureSpace(h + 5)

	w := c.contentWidth()
	x, y := pdfMargin, c.pdf.GetY()+2

	setFill(c.pdf, b.Bg)
	setDraw(c.pdf, b.Fg)
	c.pdf.SetLineWidth(0.8)
	c.pdf.RoundedRect(x, y, w, h, 3, "1234", "FD")
	c.pdf.SetLineWidth(0.2)

	c.pdf.SetFont(pdfFont, "B", 20)
	setText(c.pdf, b.Fg)
	c.pdf.SetXY(x, y+3)
	c.pdf.CellFormat(w, 9, c.text(b.Title), "", 0, "C", false, 0, "")

	c.pdf.SetFont(pdfFont, "", 11)
	setText(c.pdf, ColorText)
	c.pdf.SetXY(x, y+12.5)
	c.pdf.CellFormat(w, 6, c.text(b.Subtitle), "", 0, "C", false, 0, "")

	c.pdf.SetXY(pdfMargin, y+h+3)
}

func (c *PDFCanvas) Fields(fields []Field) {
	if len(fields) == 0 {
		return
	}

	w := c.contentWidth() / float64(len(fields))
	widths := make([]float64, len(fields))
	aligns := make([]Align, len(fields))
	labels := make([]string, len(fields))
	values := make([]string, len(fields))
	for i, f := range fields {
		widths[i] = w
		labels[i] = strings.ToUpper(f.Label)
		values[i] = f.Value
	}

	c.pdf.Ln(1)
	c.pdf.SetFont(pdfFont, "", 7.5)
	setText(c.pdf, ColorMuted)
	c.row(labels, widths, aligns, 4, nil, false)

	c.pdf.SetFont(pdfFont, "B", 9.5)
	setText(c.pdf, ColorText)
	c.row(values, widths, aligns, 5, nil, false)

	c.Rule()
}

func (c *PDFCanvas) Bar(fraction float64, color Color) {
	const h = 3.5
	c.ensureSpace(h + 5)

	w := c.contentWidth()
	y := c.pdf.GetY() + 1

	setFill(c.pdf, ColorBarTrack)
	c.pdf.Rect(pdfMargin, y, w, h, "F")
	if f := clampFraction(fraction); f > 0 {
		setFill(c.pdf, color)
		c.pdf.Rect(pdfMargin, y, w*f, h, "F")
	}

	c.pdf.SetXY(pdfMargin, y+h+3)
}

func (c *PDFCanvas) Table(t Table) {
	if len(t.Headers) == 0 {
		return
	}

	weights := columnWeights(t)
	width := c.contentWidth()
	widths := make([]float64, len(weights))
	aligns := make([]Align, len(weights))
	for i, wt := range weights {
		widths[i] = width * wt
		aligns[i] = columnAlign(t, i)
	}

	c.pdf.SetFont(pdfFont, "B", 9)
	setText(c.pdf, ColorWhite)
	c.row(t.Headers, widths, aligns, 5.5, &ColorPrimary, true)

	c.pdf.SetFont(pdfFont, "", 9)
	setText(c.pdf, ColorText)
	for i, r := range t.Rows {
		var fill *Color
		if i%2 == 1 {
			fill = &ColorRowAlt
		}
		c.row(r, widths, aligns, 5, fill, true)
	}

	if len(t.Totals) > 0 {
		c.pdf.SetFont(pdfFont, "B", 9)
		setText(c.pdf, ColorPrimary)
		c.row(t.Totals, widths, aligns, 5.5, &ColorTotals, true)
	}

	c.pdf.Ln(4)
}

func (c *PDFCanvas) Card(card Card) {
	const headerH = 9.0
	c.ensureSpace(headerH + 16)

	w := c.contentWidth()
	y := c.pdf.GetY() + 2

	setFill(c.pdf, card.Accent)
	c.pdf.Rect(pdfMargin, y, w, headerH, "F")

	c.pdf.SetFont(pdfFont, "B", 11)
	setText(c.pdf, ColorWhite)
	c.pdf.SetXY(pdfMargin+3, y+1.5)
	c.pdf.CellFormat(w*0.6, 6, c.text(card.Title), "", 0, "L", false, 0, "")

	c.pdf.SetFont(pdfFont, "B", 10)
	c.pdf.SetXY(pdfMargin+w*0.4, y+1.5)
	c.pdf.CellFormat(w*0.6-3, 6, c.text(card.Score+"   "+card.Strength), "", 0, "R", false, 0, "")

	c.pdf.SetXY(pdfMargin, y+headerH+1)
	c.Bar(card.Fraction, card.Accent)

	if card.Detail != nil {
		c.Table(*card.Detail)
		return
	}
	c.pdf.Ln(3)
}

func (c *PDFCanvas) Note(n Note) {
	w := c.contentWidth()
	body := c.text(n.Body)

	c.pdf.SetFont(pdfFont, "", 9.5)
	lines := len(c.pdf.SplitLines([]byte(body), w-8))
	if lines < 1 {
		lines = 1
	}
	h := float64(lines)*5 + 12
	c.ensureSpace(h + 5)

	y := c.pdf.GetY() + 2
	setFill(c.pdf, ColorNoteBg)
	setDraw(c.pdf, ColorNoteEdge)
	c.pdf.Rect(pdfMargin, y, w, h, "FD")
	setFill(c.pdf, ColorNoteEdge)
	c.pdf.Rect(pdfMargin, y, 1.5, h, "F")

	c.pdf.SetXY(pdfMargin+4, y+2)
	c.pdf.SetFont(pdfFont, "B", 10)
	setText(c.pdf, ColorNoteEdge)
	c.pdf.CellFormat(w-8, 6, c.text(n.Title), "", 2, "L", false, 0, "")

	c.pdf.SetX(pdfMargin + 4)
	c.pdf.SetFont(pdfFont, "", 9.5)
	setText(c.pdf, ColorText)
	c.pdf.MultiCell(w-8, 5, body, "", "L", false)

	c.pdf.SetXY(pdfMargin, y+h+3)
}

func (c *PDFCanvas) Rule() {
	w, _ := c.pdf.GetPageSize()
	y := c.pdf.GetY() + 2
	setDraw(c.pdf, ColorBorder)
	c.pdf.Line(pdfMargin, y, w-pdfMargin, y)
	c.pdf.SetY(y + 3)
}

// Finish serializes the document
func (c *PDFCanvas) Finish() ([]byte, error) {
	if err := c.pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// row draws one wrapped row of cells with a common height
func (c *PDFCanvas) row(cells []string, widths []float64, aligns []Align, lineH float64, fill *Color, border bool) {
	texts := make([]string, len(widths))
	h := lineH + 1
	for i := range widths {
		if i < len(cells) {
			texts[i] = c.text(cells[i])
		}
		n := len(c.pdf.SplitLines([]byte(texts[i]), widths[i]-2))
		if hh := float64(n)*lineH + 1; hh > h {
			h = hh
		}
	}
	c.ensureSpace(h)

	x, y := pdfMargin, c.pdf.GetY()
	for i, w := range widths {
		style := ""
		if fill != nil {
			setFill(c.pdf, *fill)
			style = "F"
		}
		if border {
			setDraw(c.pdf, ColorBorder)
			style += "D"
		}
		if style != "" {
			c.pdf.Rect(x, y, w, h, style)
		}
		c.pdf.SetXY(x+1, y+0.5)
		c.pdf.MultiCell(w-2, lineH, texts[i], "", alignString(aligns[i]), false)
		x += w
	}
	c.pdf.SetXY(pdfMargin, y+h)
}

func (c *PDFCanvas) ensureSpace(h float64) {
	_, pageH := c.pdf.GetPageSize()
	if c.pdf.GetY()+h > pageH-pdfBottomMargin {
		c.pdf.AddPage()
	}
}

func (c *PDFCanvas) contentWidth() float64 {
	w, _ := c.pdf.GetPageSize()
	return w - 2*pdfMargin
}

func (c *PDFCanvas) text(s string) string {
	return c.tr(pdfSafe(s))
}

// pdfSafe drops runes the core fonts cannot draw, such as section icons and emoji
func pdfSafe(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x100 || strings.ContainsRune("–—‘’“”•…€", r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func alignString(a Align) string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	default:
		return "L"
	}
}

func setFill(pdf *fpdf.Fpdf, c Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setDraw(pdf *fpdf.Fpdf, c Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setText(pdf *fpdf.Fpdf, c Color) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}

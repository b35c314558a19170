package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ppiankov/gonogo/internal/model"
	"golang.org/x/net/html"
)

func TestRenderPDF(t *testing.T) {
	data, err := Render(testReport(16, 13, 14, 10), FormatPDF, DefaultOptions())
	if err != nil {
		t.Fatalf("Render pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", data[:8])
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Error("expected PDF trailer")
	}
}

func TestRenderPDF_Deterministic(t *testing.T) {
	report := testReport(16, 13, 14, 10)

	a, err := Render(report, FormatPDF, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(report, FormatPDF, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical reports should render identical PDFs")
	}
}

func TestRenderPDF_LongDetail(t *testing.T) {
	report := testReport(16, 13, 14, 10)
	for i := range report.Result.Sections {
		for q := 0; q < 12; q++ {
			report.Result.Sections[i].Questions = append(report.Result.Sections[i].Questions, model.QuestionScore{
				Question: strings.Repeat("A fairly long question that wraps across the column ", 2),
				Score:    1,
				Max:      5,
			})
		}
	}
	report.Metadata.Notes = strings.Repeat("Long evaluator note. ", 40)

	short, err := Render(testReport(16, 13, 14, 10), FormatPDF, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	long, err := Render(report, FormatPDF, DefaultOptions())
	if err != nil {
		t.Fatalf("Render long pdf: %v", err)
	}
	if len(long) <= len(short) {
		t.Errorf("expected longer document, got %d <= %d bytes", len(long), len(short))
	}
}

func TestPDFSafe(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"◎ Strategic Fit", "Strategic Fit"},
		{"🟡 PROCEED WITH CAUTION", "PROCEED WITH CAUTION"},
		{"Café – résumé", "Café – résumé"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := pdfSafe(tt.in); got != tt.want {
			t.Errorf("pdfSafe(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderHTML_Structure(t *testing.T) {
	report := testReport(16, 13, 14, 10)
	report.Metadata.ProposalTitle = `<script>alert("x")</script>`
	report.Metadata.Notes = "Check co-funding."

	data, err := Render(report, FormatHTML, DefaultOptions())
	if err != nil {
		t.Fatalf("Render html: %v", err)
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	var scripts int
	var tfoot []string
	var text strings.Builder
	var walk func(n *html.Node, inFoot bool)
	walk = func(n *html.Node, inFoot bool) {
		if n.Type == html.ElementNode && n.Data == "script" {
			scripts++
		}
		if n.Type == html.ElementNode && n.Data == "tfoot" {
			inFoot = true
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteString("\n")
			if inFoot && strings.TrimSpace(n.Data) != "" {
				tfoot = append(tfoot, strings.TrimSpace(n.Data))
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child, inFoot)
		}
	}
	walk(doc, false)

	if scripts != 0 {
		t.Error("proposal title must be escaped, found script element")
	}

	body := text.String()
	for _, want := range []string{
		HeaderText,
		FooterText,
		"PROCEED WITH CAUTION",
		"Composite Score: 53 / 80  (66%)",
		"Evaluator Notes",
		"Check co-funding.",
		"Strategic Fit",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in document text", want)
		}
	}

	// Summary table totals plus the last section's detail table if any
	wantTotals := []string{"TOTAL", "53", "80", "66%", "PROCEED WITH CAUTION"}
	if len(tfoot) != len(wantTotals) {
		t.Fatalf("expected one totals row %v, got %v", wantTotals, tfoot)
	}
	for i := range wantTotals {
		if tfoot[i] != wantTotals[i] {
			t.Errorf("totals cell %d = %q, want %q", i, tfoot[i], wantTotals[i])
		}
	}
}

func TestRenderHTML_NoFooter(t *testing.T) {
	data, err := Render(testReport(20, 20, 20, 20), FormatHTML, Options{IncludeFooter: false})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("Confidential")) {
		t.Error("footer should be omitted")
	}
	if !bytes.Contains(data, []byte("width:100.0%")) {
		t.Error("expected full-width score bar")
	}
}

func TestRenderMarkdown(t *testing.T) {
	report := testReport(0, 0, 0, 0)
	report.Result.Sections[0].Questions = []model.QuestionScore{
		{Question: "Fits | mission", Score: 0, Max: 5},
	}

	data, err := Render(report, FormatMarkdown, DefaultOptions())
	if err != nil {
		t.Fatalf("Render md: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# Proposal Go/No-Go Diagnostic Report",
		"> ## 🔴 NO-GO",
		"> Composite Score: 0 / 80  (0%)",
		"| **TOTAL** | **0** | **80** | **0%** | **NO-GO** |",
		"### ◎ Strategic Fit",
		"Fits \\| mission",
		"1. Communicate the No-Go decision promptly to all internal stakeholders.",
		FooterText,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestTextBar(t *testing.T) {
	if got := textBar(0.5); strings.Count(got, "█") != 10 {
		t.Errorf("expected half bar, got %q", got)
	}
	if got := textBar(2); strings.Count(got, "█") != barWidth {
		t.Errorf("fraction should clamp to 1, got %q", got)
	}
	if got := textBar(-1); strings.Count(got, "█") != 0 {
		t.Errorf("fraction should clamp to 0, got %q", got)
	}
}

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/gonogo/internal/input"
	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/render"
	"github.com/ppiankov/gonogo/internal/rubric"
)

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func newTestPipeline(t *testing.T, cfg *model.Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func record(sf, oc, fv, ra int) input.Record {
	return input.Record{
		Metadata: model.Metadata{ProposalTitle: "Clean Water Access", Organization: "Acme"},
		Sections: map[rubric.Key]input.SectionInput{
			rubric.StrategicFit:           {Score: input.IntPtr(sf)},
			rubric.OrganizationalCapacity: {Score: input.IntPtr(oc)},
			rubric.FinancialViability:     {Score: input.IntPtr(fv)},
			rubric.RiskAssessment:         {Score: input.IntPtr(ra)},
		},
	}
}

func TestPipeline_Assess(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))

	report, err := p.Assess(record(16, 13, 14, 10))
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if report.Result.Verdict != model.VerdictCaution {
		t.Errorf("expected caution, got %s", report.Result.Verdict)
	}
	if report.Result.Total != 53 || report.Result.MaxTotal != 80 {
		t.Errorf("expected 53/80, got %d/%d", report.Result.Total, report.Result.MaxTotal)
	}
	if !strings.Contains(report.Narrative.Summary, `"Clean Water Access"`) {
		t.Errorf("narrative should name the proposal: %s", report.Narrative.Summary)
	}
	if len(report.Narrative.NextSteps) != 5 {
		t.Errorf("expected 5 next steps, got %d", len(report.Narrative.NextSteps))
	}
}

func TestPipeline_AssessRejectsInvalid(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))

	_, err := p.Assess(record(25, 13, 14, 10))
	if !errors.Is(err, input.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPipeline_RenderUsesCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = true
	p := newTestPipeline(t, cfg)

	report, err := p.Assess(record(16, 13, 14, 10))
	if err != nil {
		t.Fatal(err)
	}

	first, err := p.Render(report, render.FormatMarkdown)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	key, err := p.cacheKey(report, render.FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	cached, ok := p.cache.Get(key)
	if !ok {
		t.Fatal("expected rendered document in cache")
	}
	if !bytes.Equal(cached, first) {
		t.Error("cached bytes differ from rendered bytes")
	}

	// Different format is a different key
	htmlKey, _ := p.cacheKey(report, render.FormatHTML)
	if htmlKey == key {
		t.Error("format should be part of the cache key")
	}
}

func TestPipeline_RenderUnsupportedFormat(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))
	report, _ := p.Assess(record(16, 13, 14, 10))

	_, err := p.Render(report, render.Format("docx"))
	if !errors.Is(err, render.ErrRender) {
		t.Errorf("expected ErrRender, got %v", err)
	}
}

func TestPipeline_RenderReport(t *testing.T) {
	cfg := testConfig(t)
	p := newTestPipeline(t, cfg)
	report, _ := p.Assess(record(16, 13, 14, 10))

	doc := filepath.Join(cfg.Output.Dir, "nested", "report.pdf")
	jsonPath := filepath.Join(cfg.Output.Dir, "report.json")

	var out bytes.Buffer
	if err := p.RenderReport(&out, report, render.FormatPDF, doc, jsonPath, true); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}

	data, err := os.ReadFile(doc)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("expected a PDF document")
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Errorf("expected JSON report: %v", err)
	}

	summary := out.String()
	for _, want := range []string{
		"Proposal : Clean Water Access",
		"Score    : 53 / 80  (66%)",
		"Decision : 🟡 PROCEED WITH CAUTION",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected %q in summary:\n%s", want, summary)
		}
	}
}

func TestPipeline_AssessFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Format = "md"
	p := newTestPipeline(t, cfg)

	src := filepath.Join(t.TempDir(), "water.yaml")
	data := `proposal_title: "Clean Water: Phase 2"
sections:
  strategic_fit: {score: 20}
  organizational_capacity: {score: 20}
  financial_viability: {score: 20}
  risk_assessment: {score: 20}
`
	if err := os.WriteFile(src, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := p.AssessFile(context.Background(), src)
	if err != nil {
		t.Fatalf("AssessFile: %v", err)
	}

	want := filepath.Join(cfg.Output.Dir, "water_gonogo.md")
	if result.Output != want {
		t.Errorf("expected output %s, got %s", want, result.Output)
	}
	if result.Report.Result.Verdict != model.VerdictGo {
		t.Errorf("expected GO, got %s", result.Report.Result.Verdict)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected document on disk: %v", err)
	}
}

func TestPipeline_AssessFileRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"proposal_title":"Remote","sections":{"strategic_fit":{"score":0},"organizational_capacity":{"score":0},"financial_viability":{"score":0},"risk_assessment":{"score":0}}}`)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Output.Format = "html"
	p := newTestPipeline(t, cfg)

	result, err := p.AssessFile(context.Background(), server.URL+"/proposals/remote")
	if err != nil {
		t.Fatalf("AssessFile remote: %v", err)
	}
	if result.Report.Result.Verdict != model.VerdictNoGo {
		t.Errorf("expected NO-GO, got %s", result.Report.Result.Verdict)
	}
	if filepath.Base(result.Output) != "remote_gonogo.html" {
		t.Errorf("unexpected output name %s", result.Output)
	}
}

func TestPipeline_AssessFileCanceled(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.AssessFile(ctx, "whatever.yaml"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReportFilename(t *testing.T) {
	tests := []struct {
		title  string
		format render.Format
		want   string
	}{
		{"Clean Water Access", render.FormatPDF, "clean_water_access_gonogo.pdf"},
		{"  Youth / Jobs 2025 ", render.FormatHTML, "youth_jobs_2025_gonogo.html"},
		{"", render.FormatMarkdown, "proposal_gonogo.md"},
		{"???", render.FormatPDF, "proposal_gonogo.pdf"},
	}

	for _, tt := range tests {
		if got := ReportFilename(tt.title, tt.format); got != tt.want {
			t.Errorf("ReportFilename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestNewPipeline_BadFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Format = "docx"
	if _, err := NewPipeline(cfg, nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadRubric(t *testing.T) {
	cfg := testConfig(t)

	r, err := LoadRubric(context.Background(), cfg)
	if err != nil {
		t.Fatalf("LoadRubric default: %v", err)
	}
	if len(r.Sections) != 4 {
		t.Errorf("expected built-in rubric, got %d sections", len(r.Sections))
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `name: Remote
sections:
  - key: impact
    label: Impact
    flag: im
    questions: ["Measurable outcomes?"]
`)
	}))
	defer server.Close()

	cfg.Rubric.Path = server.URL + "/rubric.yaml"
	r, err = LoadRubric(context.Background(), cfg)
	if err != nil {
		t.Fatalf("LoadRubric remote: %v", err)
	}
	if r.Name != "Remote" || r.MaxTotal() != 5 {
		t.Errorf("unexpected remote rubric %+v", r)
	}
}

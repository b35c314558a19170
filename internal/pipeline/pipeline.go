// Package pipeline wires validation, scoring, narrative and rendering into the
// single flow every adapter (CLI, HTTP, MCP, batch) goes through.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/gonogo/internal/cache"
	"github.com/ppiankov/gonogo/internal/input"
	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/narrative"
	"github.com/ppiankov/gonogo/internal/render"
	"github.com/ppiankov/gonogo/internal/rubric"
	"github.com/ppiankov/gonogo/internal/score"
)

// Pipeline orchestrates input → score → narrative → document
type Pipeline struct {
	rubric    *rubric.Rubric
	scorer    *score.Scorer
	narrator  *narrative.Generator
	fetcher   *Fetcher
	cache     cache.Cache // nil when disabled
	format    render.Format
	options   render.Options
	outputDir string
}

// NewPipeline creates a pipeline for r using cfg. A nil rubric selects the built-in one.
func NewPipeline(cfg *model.Config, r *rubric.Rubric) (*Pipeline, error) {
	if r == nil {
		r = rubric.Default()
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rubric: %w", err)
	}

	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	fetcher, err := NewFetcherFromConfig(cfg.Fetch)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		rubric:    r,
		scorer:    score.NewScorer(),
		narrator:  narrative.NewGenerator(),
		fetcher:   fetcher,
		cache:     cache.New(cfg.Cache),
		format:    format,
		options:   render.Options{IncludeFooter: cfg.Output.IncludeFooter},
		outputDir: cfg.Output.Dir,
	}, nil
}

// Rubric returns the rubric inputs are validated against
func (p *Pipeline) Rubric() *rubric.Rubric {
	return p.rubric
}

// Format returns the configured default document format
func (p *Pipeline) Format() render.Format {
	return p.format
}

// Assess validates rec, scores it and generates the narrative.
// Validation errors match input.ErrInvalidInput.
func (p *Pipeline) Assess(rec input.Record) (*model.Report, error) {
	sections, err := input.Resolve(rec, p.rubric)
	if err != nil {
		return nil, err
	}

	result := p.scorer.Calculate(sections)

	return &model.Report{
		Metadata:  rec.Metadata,
		Result:    result,
		Narrative: p.narrator.Generate(result, rec.ProposalTitle),
	}, nil
}

// Render draws report in format, serving repeated requests from the cache.
// Render errors match render.ErrRender; the report itself stays valid.
func (p *Pipeline) Render(report *model.Report, format render.Format) ([]byte, error) {
	key, err := p.cacheKey(report, format)
	if err == nil && p.cache != nil {
		if data, ok := p.cache.Get(key); ok {
			return data, nil
		}
	}

	data, rerr := render.Render(*report, format, p.options)
	if rerr != nil {
		return nil, rerr
	}

	if err == nil && p.cache != nil {
		_ = p.cache.Set(key, data, 0)
	}
	return data, nil
}

func (p *Pipeline) cacheKey(report *model.Report, format render.Format) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	footer := "footer=0"
	if p.options.IncludeFooter {
		footer = "footer=1"
	}
	return cache.Key([]byte(format), []byte(footer), body), nil
}

// WriteReport renders report to path, creating parent directories.
// Nothing is written when rendering fails.
func (p *Pipeline) WriteReport(report *model.Report, format render.Format, path string) error {
	data, err := p.Render(report, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderJSON writes the machine-readable report next to the document
func (p *Pipeline) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// RenderReport writes the document (and optionally JSON) and prints the summary to w
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, format render.Format, docPath, jsonPath string, verbose bool) error {
	if err := p.WriteReport(report, format, docPath); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "✓ Report saved: %s\n", docPath)

	if jsonPath != "" {
		if err := p.RenderJSON(report, jsonPath); err != nil {
			return err
		}
		if verbose {
			_, _ = fmt.Fprintf(w, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	RenderSummary(w, report)
	return nil
}

// RenderSummary prints the three-line decision summary
func RenderSummary(w io.Writer, report *model.Report) {
	title := report.Metadata.WithDefaults().ProposalTitle
	_, _ = fmt.Fprintf(w, "\nProposal : %s\n", title)
	_, _ = fmt.Fprintf(w, "Score    : %s\n", render.ScoreLine(report.Result))
	_, _ = fmt.Fprintf(w, "Decision : %s %s\n", report.Result.Verdict.Emoji(), report.Result.Verdict)
}

// LoadInput reads a record from a local path or an http(s) URL
func (p *Pipeline) LoadInput(ctx context.Context, source string) (*input.Record, error) {
	if !IsRemote(source) {
		return input.LoadFile(source)
	}

	fetched, err := p.fetcher.FetchWithRetry(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch input %s: %w", source, err)
	}
	return input.Parse(fetched.Body, fetched.Name)
}

// FileResult is the outcome of assessing one input source
type FileResult struct {
	Source string
	Output string
	Report *model.Report
}

// AssessFile loads, scores and renders one input source into the output
// directory using the configured format. The document is named after the
// source file stem.
func (p *Pipeline) AssessFile(ctx context.Context, source string) (*FileResult, error) {
	return p.AssessFileAs(ctx, source, SourceStem(source))
}

// AssessFileAs is AssessFile with the document named after stem.
// Callers assessing many sources pick stems that slug to distinct names.
func (p *Pipeline) AssessFileAs(ctx context.Context, source, stem string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := p.LoadInput(ctx, source)
	if err != nil {
		return nil, err
	}

	report, err := p.Assess(*rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	out := filepath.Join(p.outputDir, ReportFilename(stem, p.format))
	if err := p.WriteReport(report, p.format, out); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	return &FileResult{Source: source, Output: out, Report: report}, nil
}

// SourceName is the last path element of a local path or URL
func SourceName(source string) string {
	base := path.Base(filepath.ToSlash(source))
	if IsRemote(source) {
		if u, err := url.Parse(source); err == nil {
			base = path.Base(u.Path)
		}
	}
	return base
}

// SourceStem is SourceName without its extension
func SourceStem(source string) string {
	base := SourceName(source)
	return strings.TrimSuffix(base, path.Ext(base))
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9-]+`)

// Slug lowercases title and collapses every run of other characters to
// one underscore. An empty result becomes "proposal".
func Slug(title string) string {
	slug := unsafeFilename.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_-")
	if slug == "" {
		slug = "proposal"
	}
	return slug
}

// ReportFilename derives "<slug>_gonogo.<ext>" from title
func ReportFilename(title string, format render.Format) string {
	return Slug(title) + "_gonogo" + format.Extension()
}

// LoadRubric returns the rubric at cfg.Rubric.Path (local or http(s)), or the built-in
// rubric when path is empty
func LoadRubric(ctx context.Context, cfg *model.Config) (*rubric.Rubric, error) {
	source := cfg.Rubric.Path
	if !IsRemote(source) {
		return rubric.LoadOrDefault(source)
	}

	fetcher, err := NewFetcherFromConfig(cfg.Fetch)
	if err != nil {
		return nil, err
	}
	fetched, err := fetcher.FetchWithRetry(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch rubric %s: %w", source, err)
	}
	return rubric.Parse(fetched.Body)
}

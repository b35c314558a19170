// Package mcptool exposes proposal assessment to MCP clients over stdio.
//
// Each tool follows the same shape: a struct holding its dependencies,
// Definition() returning the mcp.Tool schema and Handle() processing a call.
// Validation failures are reported as tool errors, never as protocol errors.
package mcptool

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ppiankov/gonogo/internal/input"
	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/pipeline"
	"github.com/ppiankov/gonogo/internal/render"
	"github.com/ppiankov/gonogo/internal/rubric"
)

// metadataArgs maps tool argument names onto report metadata fields
var metadataArgs = []struct {
	name string
	desc string
	set  func(*model.Metadata, string)
}{
	{"proposal_title", "Proposal title", func(m *model.Metadata, v string) { m.ProposalTitle = v }},
	{"organization", "Applicant organization", func(m *model.Metadata, v string) { m.Organization = v }},
	{"donor", "Donor or funder", func(m *model.Metadata, v string) { m.Donor = v }},
	{"deadline", "Submission deadline", func(m *model.Metadata, v string) { m.Deadline = v }},
	{"evaluator", "Name of the evaluator", func(m *model.Metadata, v string) { m.Evaluator = v }},
	{"date_evaluated", "Date of the evaluation", func(m *model.Metadata, v string) { m.DateEvaluated = v }},
	{"notes", "Free-text evaluator notes", func(m *model.Metadata, v string) { m.Notes = v }},
}

// AssessTool handles the assess_proposal MCP tool.
type AssessTool struct {
	pipeline *pipeline.Pipeline
}

// NewAssessTool creates an AssessTool backed by p.
func NewAssessTool(p *pipeline.Pipeline) *AssessTool {
	return &AssessTool{pipeline: p}
}

// Definition returns the MCP tool definition for assess_proposal.
// One required number argument is declared per rubric section.
func (t *AssessTool) Definition() mcp.Tool {
	r := t.pipeline.Rubric()

	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Score a funding proposal against the Go/No-Go rubric and return the diagnostic report as Markdown. " +
				"Give each section total as an integer between 0 and the section maximum.",
		),
	}
	for _, s := range r.Sections {
		opts = append(opts, mcp.WithNumber(string(s.Key),
			mcp.Required(),
			mcp.Description(fmt.Sprintf("%s score (0-%d)", s.Label, r.MaxScore(s))),
		))
	}
	for _, m := range metadataArgs {
		opts = append(opts, mcp.WithString(m.name, mcp.Description(m.desc)))
	}
	opts = append(opts, mcp.WithString("output",
		mcp.Description("Optional path to also write the document to; the format follows the extension (.pdf, .html, .md)"),
	))

	return mcp.NewTool("assess_proposal", opts...)
}

// Handle processes the assess_proposal tool call.
func (t *AssessTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := t.record(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := t.pipeline.Assess(rec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid assessment: %v", err)), nil
	}

	doc, err := t.pipeline.Render(report, render.FormatMarkdown)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render report: %v", err)), nil
	}

	var sb strings.Builder
	sb.Write(doc)

	if out := req.GetString("output", ""); out != "" {
		format, err := formatFromPath(out)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := t.pipeline.WriteReport(report, format, out); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write report: %v", err)), nil
		}
		sb.WriteString(fmt.Sprintf("\n---\nReport saved: `%s`\n", out))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (t *AssessTool) record(req mcp.CallToolRequest) (input.Record, error) {
	args := req.GetArguments()
	rec := input.Record{Sections: make(map[rubric.Key]input.SectionInput)}

	for _, s := range t.pipeline.Rubric().Sections {
		raw, ok := args[string(s.Key)]
		if !ok {
			return rec, fmt.Errorf("'%s' is required", s.Key)
		}
		v, ok := raw.(float64)
		if !ok || v != math.Trunc(v) {
			return rec, fmt.Errorf("'%s' must be a whole number", s.Key)
		}
		rec.Sections[s.Key] = input.SectionInput{Score: input.IntPtr(int(v))}
	}

	for _, m := range metadataArgs {
		m.set(&rec.Metadata, req.GetString(m.name, ""))
	}
	return rec, nil
}

func formatFromPath(path string) (render.Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("'output' needs a .pdf, .html or .md extension")
	}
	return render.ParseFormat(ext)
}

// RubricTool handles the rubric MCP tool.
type RubricTool struct {
	pipeline *pipeline.Pipeline
}

// NewRubricTool creates a RubricTool backed by p.
func NewRubricTool(p *pipeline.Pipeline) *RubricTool {
	return &RubricTool{pipeline: p}
}

// Definition returns the MCP tool definition for rubric.
func (t *RubricTool) Definition() mcp.Tool {
	return mcp.NewTool("rubric",
		mcp.WithDescription("List the rubric sections, their maximum scores and the questions each one covers."),
	)
}

// Handle processes the rubric tool call.
func (t *RubricTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := t.pipeline.Rubric()

	var sb strings.Builder
	name := r.Name
	if name == "" {
		name = "Rubric"
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", name))
	sb.WriteString(fmt.Sprintf("Each question is rated 0-%d. Maximum total: %d.\n", r.PerQuestionMax, r.MaxTotal()))

	for _, s := range r.Sections {
		sb.WriteString(fmt.Sprintf("\n### %s (`%s`, max %d)\n\n", s.Label, s.Key, r.MaxScore(s)))
		for i, q := range s.Questions {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, q))
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

package model

import (
	"math"

	"github.com/ppiankov/gonogo/internal/rubric"
)

// Verdict is the three-way decision outcome
type Verdict string

const (
	VerdictGo      Verdict = "GO"
	VerdictCaution Verdict = "PROCEED WITH CAUTION"
	VerdictNoGo    Verdict = "NO-GO"
)

// Emoji returns the traffic-light marker shown next to the verdict
func (v Verdict) Emoji() string {
	switch v {
	case VerdictGo:
		return "🟢"
	case VerdictCaution:
		return "🟡"
	case VerdictNoGo:
		return "🔴"
	default:
		return ""
	}
}

// Strength is the qualitative rating of a single section
type Strength string

const (
	StrengthStrong   Strength = "Strong"
	StrengthModerate Strength = "Moderate"
	StrengthWeak     Strength = "Weak"
)

// QuestionScore is one rated question
type QuestionScore struct {
	Question string `json:"question" yaml:"question"`
	Score    int    `json:"score" yaml:"score"`
	Max      int    `json:"max" yaml:"max"`
}

// SectionResult is the scored outcome of one rubric section.
// Questions may be empty when only a section total was supplied.
type SectionResult struct {
	Key        rubric.Key      `json:"key"`
	Label      string          `json:"label"`
	Icon       string          `json:"icon,omitempty"`
	Accent     string          `json:"accent,omitempty"`
	Score      int             `json:"score"`
	MaxScore   int             `json:"max_score"`
	Questions  []QuestionScore `json:"questions,omitempty"`
	Percentage float64         `json:"percentage"`
	Strength   Strength        `json:"strength"`
}

// AssessmentResult is the complete scoring outcome.
// It is derived entirely from Sections and never mutated after scoring.
type AssessmentResult struct {
	Sections   []SectionResult `json:"sections"` // Rubric order
	Total      int             `json:"total"`
	MaxTotal   int             `json:"max_total"`
	Percentage float64         `json:"percentage"` // Unrounded, in [0,100]
	Verdict    Verdict         `json:"verdict"`
}

// Section returns the result for key
func (a *AssessmentResult) Section(key rubric.Key) (SectionResult, bool) {
	for _, s := range a.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return SectionResult{}, false
}

// RoundedPercentage is the percentage as displayed
func (a *AssessmentResult) RoundedPercentage() int {
	return RoundPercent(a.Percentage)
}

// RoundPercent rounds a percentage to the nearest integer for presentation.
// Comparisons against thresholds always use the unrounded value.
func RoundPercent(pct float64) int {
	return int(math.Round(pct))
}

// Placeholder is shown for metadata fields the evaluator left blank
const Placeholder = "—"

// DefaultTitle is used when no proposal title was given
const DefaultTitle = "Untitled Proposal"

// Metadata is decorative proposal information carried into the report.
// Scoring never inspects it.
type Metadata struct {
	Organization  string `json:"organization" yaml:"organization"`
	ProposalTitle string `json:"proposal_title" yaml:"proposal_title"`
	Donor         string `json:"donor" yaml:"donor"`
	Deadline      string `json:"deadline" yaml:"deadline"`
	Evaluator     string `json:"evaluator" yaml:"evaluator"`
	DateEvaluated string `json:"date_evaluated" yaml:"date_evaluated"`
	Notes         string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// WithDefaults returns a copy with blank fields replaced by placeholders.
// Notes stay empty so the report can omit the notes block.
func (m Metadata) WithDefaults() Metadata {
	fill := func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	}

	m.Organization = fill(m.Organization, Placeholder)
	m.ProposalTitle = fill(m.ProposalTitle, DefaultTitle)
	m.Donor = fill(m.Donor, Placeholder)
	m.Deadline = fill(m.Deadline, Placeholder)
	m.Evaluator = fill(m.Evaluator, Placeholder)
	m.DateEvaluated = fill(m.DateEvaluated, Placeholder)
	return m
}

// Narrative is the generated summary paragraph and next steps
type Narrative struct {
	Summary   string   `json:"summary"`
	NextSteps []string `json:"next_steps"`
}

// Report bundles everything a renderer consumes
type Report struct {
	Metadata  Metadata         `json:"metadata"`
	Result    AssessmentResult `json:"result"`
	Narrative Narrative        `json:"narrative"`
}

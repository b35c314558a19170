// Package narrative turns a scored assessment into a summary paragraph and a
// fixed list of next steps. It is template interpolation only: sentences are
// fixed per verdict and section labels are the only variable content.
package narrative

import (
	"fmt"
	"strings"

	"github.com/ppiankov/gonogo/internal/model"
)

// DefaultSubject names the proposal when no title is available
const DefaultSubject = "this proposal"

type template struct {
	opening    string // title, rounded percentage
	strengths  string // %s joined section labels; empty for NO-GO
	weaknesses string // %s joined section labels
	closing    string
	nextSteps  []string
}

var templates = map[model.Verdict]template{
	model.VerdictGo: {
		opening: "The proposal \"%s\" has achieved a composite score of %d%%, indicating a strong " +
			"overall readiness to pursue this opportunity. ",
		strengths: "The organization demonstrates clear strength in %s, which provides a solid " +
			"foundation for successful delivery. ",
		weaknesses: "While %s scored below the strong threshold, these areas should be monitored " +
			"during implementation. ",
		closing: "Overall, the opportunity aligns well with organisational priorities and the " +
			"risk-adjusted case for proceeding is positive.",
		nextSteps: []string{
			"Initiate internal proposal kick-off meeting within 5 working days.",
			"Assign a dedicated proposal coordinator and establish a writing schedule.",
			"Begin partnership outreach and letters of support collection immediately.",
			"Develop a budget framework and confirm cost-share or matching requirements.",
			"Schedule a pre-submission review with the Programme Director.",
		},
	},
	model.VerdictCaution: {
		opening: "The proposal \"%s\" has achieved a composite score of %d%%, indicating moderate " +
			"readiness. The opportunity warrants serious consideration, but several issues " +
			"require resolution before committing full resources. ",
		strengths: "Key strengths include %s. ",
		weaknesses: "However, %s present notable gaps that could undermine proposal quality or " +
			"delivery success if left unaddressed. ",
		closing: "A conditional go-ahead is recommended, contingent on a clear mitigation plan " +
			"for identified weaknesses.",
		nextSteps: []string{
			"Convene a rapid risk-review meeting to assess gaps in weak-scoring areas.",
			"Identify whether partnerships can offset internal capacity shortfalls.",
			"Obtain senior leadership sign-off before committing proposal-writing resources.",
			"Develop a risk register and mitigation plan as part of the proposal narrative.",
			"Re-evaluate the decision if additional red flags emerge during preparation.",
		},
	},
	model.VerdictNoGo: {
		opening: "The proposal \"%s\" has achieved a composite score of %d%%, falling below the " +
			"minimum threshold required to recommend pursuit. Significant deficiencies across " +
			"multiple dimensions suggest that proceeding would carry unacceptably high risk of " +
			"failure or organisational harm. ",
		weaknesses: "Critical weaknesses were identified in %s, which are unlikely to be " +
			"resolved within the available timeframe. ",
		closing: "Declining this opportunity allows the team to focus capacity on " +
			"higher-probability proposals and avoids potential reputational or financial exposure.",
		nextSteps: []string{
			"Communicate the No-Go decision promptly to all internal stakeholders.",
			"Document lessons learned for future opportunity assessments.",
			"Consider whether a partnership or sub-grant role might still be feasible.",
			"Explore alternative funding opportunities that better match current capacity.",
			"Use this diagnostic to build a capacity-strengthening plan for future bids.",
		},
	},
}

// Generator composes narratives. It holds no state.
type Generator struct{}

// NewGenerator creates a new narrative generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the narrative for an already-scored assessment.
// Section strengths are taken from the result as-is; nothing is recomputed.
func (g *Generator) Generate(result model.AssessmentResult, proposalTitle string) model.Narrative {
	tmpl, ok := templates[result.Verdict]
	if !ok {
		tmpl = templates[model.VerdictNoGo]
	}

	title := strings.TrimSpace(proposalTitle)
	if title == "" {
		title = DefaultSubject
	}

	var strengths, weaknesses []string
	for _, s := range result.Sections {
		switch s.Strength {
		case model.StrengthStrong:
			strengths = append(strengths, s.Label)
		case model.StrengthWeak:
			weaknesses = append(weaknesses, s.Label)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, tmpl.opening, title, result.RoundedPercentage())
	if len(strengths) > 0 && tmpl.strengths != "" {
		fmt.Fprintf(&b, tmpl.strengths, JoinNames(strengths))
	}
	if len(weaknesses) > 0 {
		fmt.Fprintf(&b, tmpl.weaknesses, JoinNames(weaknesses))
	}
	b.WriteString(tmpl.closing)

	return model.Narrative{
		Summary:   b.String(),
		NextSteps: append([]string(nil), tmpl.nextSteps...),
	}
}

// NextSteps returns the fixed recommendations for a verdict
func NextSteps(v model.Verdict) []string {
	tmpl, ok := templates[v]
	if !ok {
		return nil
	}
	return append([]string(nil), tmpl.nextSteps...)
}

// JoinNames joins names as "A, B and C" (no Oxford comma)
func JoinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

package narrative

import (
	"strings"
	"testing"

	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/rubric"
	"github.com/ppiankov/gonogo/internal/score"
)

func assess(scores ...int) model.AssessmentResult {
	r := rubric.Default()
	sections := make([]model.SectionResult, len(scores))
	for i, s := range scores {
		sec := r.Sections[i]
		sections[i] = model.SectionResult{Key: sec.Key, Label: sec.Label, Score: s, MaxScore: r.MaxScore(sec)}
	}
	return score.NewScorer().Calculate(sections)
}

func TestJoinNames(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{}, ""},
		{[]string{"A"}, "A"},
		{[]string{"A", "B"}, "A and B"},
		{[]string{"A", "B", "C"}, "A, B and C"},
		{[]string{"A", "B", "C", "D"}, "A, B, C and D"},
	}

	for _, tt := range tests {
		if got := JoinNames(tt.in); got != tt.want {
			t.Errorf("JoinNames(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerate_Caution(t *testing.T) {
	result := assess(16, 13, 14, 10)
	n := NewGenerator().Generate(result, "Clean Water Access")

	if !strings.HasPrefix(n.Summary, `The proposal "Clean Water Access" has achieved a composite score of 66%`) {
		t.Errorf("unexpected opening: %s", n.Summary)
	}
	if !strings.Contains(n.Summary, "Key strengths include Strategic Fit and Financial Viability. ") {
		t.Errorf("expected strengths clause, got: %s", n.Summary)
	}
	if strings.Contains(n.Summary, "However,") {
		t.Errorf("no section is Weak, weaknesses clause should be omitted: %s", n.Summary)
	}
	if !strings.HasSuffix(n.Summary, "contingent on a clear mitigation plan for identified weaknesses.") {
		t.Errorf("expected caution closing, got: %s", n.Summary)
	}
	if n.NextSteps[0] != "Convene a rapid risk-review meeting to assess gaps in weak-scoring areas." {
		t.Errorf("unexpected first step: %s", n.NextSteps[0])
	}
}

func TestGenerate_GoListsAllStrengths(t *testing.T) {
	result := assess(20, 20, 20, 20)
	n := NewGenerator().Generate(result, "Full Marks")

	want := "clear strength in Strategic Fit, Organizational Capacity, Financial Viability and Risk Assessment, "
	if !strings.Contains(n.Summary, want) {
		t.Errorf("expected all four strengths joined, got: %s", n.Summary)
	}
	if strings.Contains(n.Summary, "While ") {
		t.Errorf("weaknesses clause should be omitted: %s", n.Summary)
	}
	if !strings.Contains(n.Summary, "100%") {
		t.Errorf("expected 100%% in summary: %s", n.Summary)
	}
}

func TestGenerate_NoGoOmitsStrengths(t *testing.T) {
	tests := []struct {
		name       string
		scores     []int
		weaknesses string
	}{
		{"all zero", []int{0, 0, 0, 0}, "Critical weaknesses were identified in Strategic Fit, Organizational Capacity, Financial Viability and Risk Assessment,"},
		{"one strong section", []int{20, 0, 0, 0}, "Critical weaknesses were identified in Organizational Capacity, Financial Viability and Risk Assessment,"},
	}

	for _, tt := range tests {
		result := assess(tt.scores...)
		if result.Verdict != model.VerdictNoGo {
			t.Fatalf("%s: expected NO-GO, got %s", tt.name, result.Verdict)
		}
		n := NewGenerator().Generate(result, "Empty")

		if strings.Contains(n.Summary, "Strategic Fit scored") || strings.Contains(n.Summary, "scored strongly") {
			t.Errorf("%s: strengths clause should be omitted: %s", tt.name, n.Summary)
		}
		if !strings.Contains(n.Summary, tt.weaknesses) {
			t.Errorf("%s: expected weaknesses %q in: %s", tt.name, tt.weaknesses, n.Summary)
		}
		if strings.Contains(n.Summary, " and .") || strings.Contains(n.Summary, "in ,") {
			t.Errorf("%s: dangling connective in summary: %s", tt.name, n.Summary)
		}
	}
}

func TestGenerate_NextStepsPerVerdict(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]model.Verdict)

	for _, scores := range [][]int{{20, 20, 20, 20}, {16, 13, 14, 10}, {0, 0, 0, 0}} {
		result := assess(scores...)
		n := g.Generate(result, "x")
		if len(n.NextSteps) != 5 {
			t.Fatalf("%s: expected 5 next steps, got %d", result.Verdict, len(n.NextSteps))
		}
		if prev, ok := seen[n.NextSteps[0]]; ok {
			t.Errorf("%s and %s share next steps", prev, result.Verdict)
		}
		seen[n.NextSteps[0]] = result.Verdict
	}
}

func TestGenerate_NextStepsIndependentOfScores(t *testing.T) {
	g := NewGenerator()
	a := g.Generate(assess(20, 20, 20, 20), "a")
	b := g.Generate(assess(14, 14, 14, 14), "b")

	for i := range a.NextSteps {
		if a.NextSteps[i] != b.NextSteps[i] {
			t.Errorf("step %d differs for same verdict: %q vs %q", i, a.NextSteps[i], b.NextSteps[i])
		}
	}
}

func TestGenerate_DefaultTitle(t *testing.T) {
	n := NewGenerator().Generate(assess(10, 10, 10, 10), "  ")
	if !strings.Contains(n.Summary, `"this proposal"`) {
		t.Errorf("expected default subject, got: %s", n.Summary)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := NewGenerator()
	result := assess(16, 13, 14, 10)

	a := g.Generate(result, "Same")
	b := g.Generate(result, "Same")
	if a.Summary != b.Summary {
		t.Error("expected identical summaries")
	}

	// Callers own the returned slice
	a.NextSteps[0] = "changed"
	if NextSteps(model.VerdictCaution)[0] == "changed" {
		t.Error("mutating returned steps should not affect templates")
	}
}

package score

import (
	"github.com/ppiankov/gonogo/internal/model"
)

// Verdict and strength thresholds, in percent. Bands are closed-open:
// a value exactly on a threshold belongs to the higher band.
const (
	GoThreshold      = 70.0
	CautionThreshold = 50.0
)

// Scorer aggregates section scores into an overall verdict.
// It holds no state; one Scorer may be reused for any number of calls.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate computes totals, percentage and verdict from section results.
// Only Score and MaxScore are read; per-question detail is carried through
// untouched. The input slice is not modified.
func (s *Scorer) Calculate(sections []model.SectionResult) model.AssessmentResult {
	scored := make([]model.SectionResult, len(sections))

	total := 0
	maxTotal := 0
	for i, sec := range sections {
		sec.Percentage = Percentage(sec.Score, sec.MaxScore)
		sec.Strength = StrengthFor(sec.Score, sec.MaxScore)
		if len(sec.Questions) > 0 {
			sec.Questions = append([]model.QuestionScore(nil), sec.Questions...)
		}
		scored[i] = sec

		total += sec.Score
		maxTotal += sec.MaxScore
	}

	pct := Percentage(total, maxTotal)

	return model.AssessmentResult{
		Sections:   scored,
		Total:      total,
		MaxTotal:   maxTotal,
		Percentage: pct,
		Verdict:    VerdictFor(pct),
	}
}

// Percentage returns 100*score/max, or 0 when max is 0
func Percentage(score, max int) float64 {
	if max <= 0 {
		return 0
	}
	return 100 * float64(score) / float64(max)
}

// VerdictFor maps an unrounded percentage to a verdict
func VerdictFor(pct float64) model.Verdict {
	switch {
	case pct >= GoThreshold:
		return model.VerdictGo
	case pct >= CautionThreshold:
		return model.VerdictCaution
	default:
		return model.VerdictNoGo
	}
}

// StrengthFor classifies one section. A section with no attainable points is Weak.
func StrengthFor(score, max int) model.Strength {
	if max <= 0 {
		return model.StrengthWeak
	}

	pct := Percentage(score, max)
	switch {
	case pct >= GoThreshold:
		return model.StrengthStrong
	case pct >= CautionThreshold:
		return model.StrengthModerate
	default:
		return model.StrengthWeak
	}
}

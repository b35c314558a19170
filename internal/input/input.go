// Package input defines the record every adapter (CLI, HTTP form, MCP, input
// files) hands to the scoring pipeline, and validates it against a rubric.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/rubric"
	"gopkg.in/yaml.v3"
)

// SectionInput carries one section's raw scores. Exactly one of the
// following must be supplied:
//   - Ratings: per-question integers in rubric question order (form path)
//   - Questions: labelled per-question scores (CLI detail path)
//   - Score: a direct section total
//
// Score may accompany Questions, in which case they must agree.
type SectionInput struct {
	Score     *int                  `json:"score,omitempty" yaml:"score,omitempty"`
	MaxScore  *int                  `json:"max_score,omitempty" yaml:"max_score,omitempty"`
	Ratings   []int                 `json:"ratings,omitempty" yaml:"ratings,omitempty"`
	Questions []model.QuestionScore `json:"questions,omitempty" yaml:"questions,omitempty"`
}

// Record is the complete, immutable input of one evaluation
type Record struct {
	model.Metadata `yaml:",inline"`
	Sections       map[rubric.Key]SectionInput `json:"sections" yaml:"sections"`
}

// IntPtr is a convenience for building SectionInput literals
func IntPtr(v int) *int {
	return &v
}

// Resolve validates rec against r and returns section results in rubric order.
// All problems are reported together; nothing is scored when any is found.
func Resolve(rec Record, r *rubric.Rubric) ([]model.SectionResult, error) {
	var errs []error

	var unknown []string
	for key := range rec.Sections {
		if _, ok := r.Section(key); !ok {
			unknown = append(unknown, string(key))
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs = append(errs, invalid("sections."+key, "unknown section"))
	}

	sections := make([]model.SectionResult, 0, len(r.Sections))
	for _, sec := range r.Sections {
		in, ok := rec.Sections[sec.Key]
		if !ok {
			errs = append(errs, invalid("sections."+string(sec.Key), "missing score"))
			continue
		}

		result, err := resolveSection(sec, in, r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sections = append(sections, result)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sections, nil
}

func resolveSection(sec rubric.Section, in SectionInput, r *rubric.Rubric) (model.SectionResult, error) {
	field := "sections." + string(sec.Key)
	result := model.SectionResult{
		Key:      sec.Key,
		Label:    sec.Label,
		Icon:     sec.Icon,
		Accent:   sec.Accent,
		MaxScore: r.MaxScore(sec),
	}
	if in.MaxScore != nil {
		if *in.MaxScore < 0 {
			return result, invalid(field, "max_score must not be negative (got %d)", *in.MaxScore)
		}
		result.MaxScore = *in.MaxScore
	}

	switch {
	case len(in.Ratings) > 0:
		if len(in.Questions) > 0 {
			return result, invalid(field, "give either ratings or questions, not both")
		}
		if len(in.Ratings) != len(sec.Questions) {
			return result, invalid(field, "expected %d ratings, got %d", len(sec.Questions), len(in.Ratings))
		}
		if in.MaxScore != nil && *in.MaxScore != r.MaxScore(sec) {
			return result, invalid(field, "max_score %d does not match rubric maximum %d", *in.MaxScore, r.MaxScore(sec))
		}
		sum := 0
		for i, rating := range in.Ratings {
			if rating < 0 || rating > r.PerQuestionMax {
				return result, invalid(fmt.Sprintf("%s.ratings[%d]", field, i),
					"rating must be between 0 and %d (got %d)", r.PerQuestionMax, rating)
			}
			result.Questions = append(result.Questions, model.QuestionScore{
				Question: sec.Questions[i],
				Score:    rating,
				Max:      r.PerQuestionMax,
			})
			sum += rating
		}
		if in.Score != nil && *in.Score != sum {
			return result, invalid(field, "score %d does not match ratings total %d", *in.Score, sum)
		}
		result.Score = sum

	case len(in.Questions) > 0:
		sum := 0
		for i, q := range in.Questions {
			qField := fmt.Sprintf("%s.questions[%d]", field, i)
			if strings.TrimSpace(q.Question) == "" {
				return result, invalid(qField, "question text is empty")
			}
			if q.Max < 0 {
				return result, invalid(qField, "max must not be negative (got %d)", q.Max)
			}
			if q.Score < 0 || q.Score > q.Max {
				return result, invalid(qField, "score must be between 0 and %d (got %d)", q.Max, q.Score)
			}
			sum += q.Score
		}
		if in.Score != nil && *in.Score != sum {
			return result, invalid(field, "score %d does not match question total %d", *in.Score, sum)
		}
		result.Score = sum
		result.Questions = append([]model.QuestionScore(nil), in.Questions...)

	case in.Score != nil:
		result.Score = *in.Score

	default:
		return result, invalid(field, "missing score")
	}

	if result.Score < 0 || result.Score > result.MaxScore {
		return result, invalid(field, "score must be between 0 and %d (got %d)", result.MaxScore, result.Score)
	}
	return result, nil
}

// ParseQuestion parses the CLI detail format "Question text:score,max".
// The last colon separates the label, so labels may contain colons.
func ParseQuestion(raw string) (model.QuestionScore, error) {
	malformed := func() error {
		return invalid("question", "could not parse %q, expected format \"Question text:score,max\" e.g. \"Mission alignment:4,5\"", raw)
	}

	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return model.QuestionScore{}, malformed()
	}

	label := strings.TrimSpace(raw[:idx])
	nums := strings.Split(raw[idx+1:], ",")
	if label == "" || len(nums) != 2 {
		return model.QuestionScore{}, malformed()
	}

	score, err := strconv.Atoi(strings.TrimSpace(nums[0]))
	if err != nil {
		return model.QuestionScore{}, malformed()
	}
	max, err := strconv.Atoi(strings.TrimSpace(nums[1]))
	if err != nil {
		return model.QuestionScore{}, malformed()
	}

	return model.QuestionScore{Question: label, Score: score, Max: max}, nil
}

// ParseQuestions parses a list of CLI detail strings
func ParseQuestions(raw []string) ([]model.QuestionScore, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]model.QuestionScore, 0, len(raw))
	for _, item := range raw {
		q, err := ParseQuestion(item)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// PlaceholderQuestions spreads a bare section total over count generic
// criteria ("Criterion A", "Criterion B", ...) so the detail table still
// renders. Points fill criteria in order, each capped at maxScore/count.
func PlaceholderQuestions(score, maxScore, count int) []model.QuestionScore {
	if count <= 0 {
		return nil
	}

	perQuestion := maxScore / count
	remaining := score
	out := make([]model.QuestionScore, count)
	for i := range out {
		q := remaining
		if q > perQuestion {
			q = perQuestion
		}
		if q < 0 {
			q = 0
		}
		remaining -= q
		out[i] = model.QuestionScore{Question: criterionLabel(i), Score: q, Max: perQuestion}
	}
	return out
}

func criterionLabel(i int) string {
	if i < 26 {
		return "Criterion " + string(rune('A'+i))
	}
	return "Criterion " + strconv.Itoa(i+1)
}

// LoadFile reads a record from a JSON or YAML file
func LoadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes a record. The name's extension selects JSON (".json");
// anything else is read as YAML.
func Parse(data []byte, name string) (*Record, error) {
	var rec Record
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse input %s: %w", name, err)
		}
	default:
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse input %s: %w", name, err)
		}
	}

	return &rec, nil
}

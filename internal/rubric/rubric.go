// Package rubric declares the sections and questions a proposal is scored against.
//
// A Rubric is loaded once and shared read-only by the scorer, the narrative
// generator, the renderers and every adapter, so section keys and labels are
// never duplicated as string literals across packages.
package rubric

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Key identifies a section. Keys are stable across rubric files.
type Key string

const (
	StrategicFit           Key = "strategic_fit"
	OrganizationalCapacity Key = "organizational_capacity"
	FinancialViability     Key = "financial_viability"
	RiskAssessment         Key = "risk_assessment"
)

// DefaultPerQuestionMax is the top of the 0-5 rating scale used by the form.
const DefaultPerQuestionMax = 5

// Section is a named group of questions.
type Section struct {
	Key       Key      `yaml:"key" json:"key"`
	Label     string   `yaml:"label" json:"label"`
	Icon      string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Flag      string   `yaml:"flag,omitempty" json:"flag,omitempty"`     // short CLI flag name, e.g. "sf"
	Accent    string   `yaml:"accent,omitempty" json:"accent,omitempty"` // hex color for cards
	Questions []string `yaml:"questions" json:"questions"`
}

// Rubric is the ordered set of sections. Order is significant: it drives
// scoring output order, report layout and placeholder labelling.
type Rubric struct {
	Name           string    `yaml:"name,omitempty" json:"name,omitempty"`
	PerQuestionMax int       `yaml:"per_question_max" json:"per_question_max"`
	Sections       []Section `yaml:"sections" json:"sections"`
}

// MaxScore returns the highest total a section can reach.
func (r *Rubric) MaxScore(s Section) int {
	return len(s.Questions) * r.PerQuestionMax
}

// MaxTotal returns the highest total across all sections.
func (r *Rubric) MaxTotal() int {
	total := 0
	for _, s := range r.Sections {
		total += r.MaxScore(s)
	}
	return total
}

// Section looks up a section by key.
func (r *Rubric) Section(key Key) (Section, bool) {
	for _, s := range r.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// ByFlag looks up a section by its short flag name.
func (r *Rubric) ByFlag(flag string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Flag != "" && s.Flag == flag {
			return s, true
		}
	}
	return Section{}, false
}

// Keys returns section keys in rubric order.
func (r *Rubric) Keys() []Key {
	keys := make([]Key, len(r.Sections))
	for i, s := range r.Sections {
		keys[i] = s.Key
	}
	return keys
}

// Validate checks the structural invariants of the rubric.
func (r *Rubric) Validate() error {
	if len(r.Sections) == 0 {
		return fmt.Errorf("rubric has no sections")
	}
	if r.PerQuestionMax <= 0 {
		return fmt.Errorf("per_question_max must be positive (got %d)", r.PerQuestionMax)
	}

	seenKeys := make(map[Key]bool)
	seenFlags := make(map[string]bool)
	for i, s := range r.Sections {
		if s.Key == "" {
			return fmt.Errorf("section %d has no key", i)
		}
		if seenKeys[s.Key] {
			return fmt.Errorf("duplicate section key %q", s.Key)
		}
		seenKeys[s.Key] = true

		if s.Flag != "" {
			if seenFlags[s.Flag] {
				return fmt.Errorf("duplicate section flag %q", s.Flag)
			}
			seenFlags[s.Flag] = true
		}
		if s.Label == "" {
			return fmt.Errorf("section %q has no label", s.Key)
		}
		if len(s.Questions) == 0 {
			return fmt.Errorf("section %q has no questions", s.Key)
		}
	}
	return nil
}

// Load reads a rubric from a YAML file and validates it.
func Load(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rubric: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML rubric and validates it.
func Parse(data []byte) (*Rubric, error) {
	r := &Rubric{PerQuestionMax: DefaultPerQuestionMax}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse rubric: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rubric: %w", err)
	}
	return r, nil
}

// LoadOrDefault loads the rubric at path, or returns the built-in rubric
// when path is empty.
func LoadOrDefault(path string) (*Rubric, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

var ratingLabels = map[int]string{
	0: "—",
	1: "Very Low",
	2: "Low",
	3: "Moderate",
	4: "High",
	5: "Very High",
}

// RatingLabel returns the form's wording for a 0-5 rating.
func RatingLabel(rating int) string {
	if label, ok := ratingLabels[rating]; ok {
		return label
	}
	return fmt.Sprintf("%d", rating)
}

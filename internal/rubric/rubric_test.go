package rubric

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	r := Default()
	if err := r.Validate(); err != nil {
		t.Fatalf("default rubric should be valid: %v", err)
	}

	if len(r.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(r.Sections))
	}
	if r.MaxTotal() != 80 {
		t.Errorf("expected max total 80, got %d", r.MaxTotal())
	}
	for _, s := range r.Sections {
		if got := r.MaxScore(s); got != 20 {
			t.Errorf("section %s: expected max 20, got %d", s.Key, got)
		}
	}
}

func TestDefault_Order(t *testing.T) {
	want := []Key{StrategicFit, OrganizationalCapacity, FinancialViability, RiskAssessment}
	got := Default().Keys()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestDefault_ReturnsCopy(t *testing.T) {
	a := Default()
	a.Sections[0].Label = "changed"

	if Default().Sections[0].Label != "Strategic Fit" {
		t.Error("mutating one default rubric should not affect another")
	}
}

func TestRubric_Lookup(t *testing.T) {
	r := Default()

	s, ok := r.Section(RiskAssessment)
	if !ok || s.Label != "Risk Assessment" {
		t.Errorf("Section(risk_assessment) = %+v, %v", s, ok)
	}

	s, ok = r.ByFlag("fv")
	if !ok || s.Key != FinancialViability {
		t.Errorf("ByFlag(fv) = %+v, %v", s, ok)
	}

	if _, ok := r.Section("nope"); ok {
		t.Error("expected unknown key lookup to fail")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rubric  Rubric
		wantErr string
	}{
		{
			name:    "no sections",
			rubric:  Rubric{PerQuestionMax: 5},
			wantErr: "no sections",
		},
		{
			name:    "zero scale",
			rubric:  Rubric{Sections: []Section{{Key: "a", Label: "A", Questions: []string{"q"}}}},
			wantErr: "per_question_max",
		},
		{
			name: "duplicate key",
			rubric: Rubric{PerQuestionMax: 5, Sections: []Section{
				{Key: "a", Label: "A", Questions: []string{"q"}},
				{Key: "a", Label: "B", Questions: []string{"q"}},
			}},
			wantErr: "duplicate section key",
		},
		{
			name: "duplicate flag",
			rubric: Rubric{PerQuestionMax: 5, Sections: []Section{
				{Key: "a", Label: "A", Flag: "x", Questions: []string{"q"}},
				{Key: "b", Label: "B", Flag: "x", Questions: []string{"q"}},
			}},
			wantErr: "duplicate section flag",
		},
		{
			name: "empty questions",
			rubric: Rubric{PerQuestionMax: 5, Sections: []Section{
				{Key: "a", Label: "A"},
			}},
			wantErr: "no questions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rubric.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	content := `name: Mini
sections:
  - key: fit
    label: Fit
    flag: f
    questions:
      - "One?"
      - "Two?"
  - key: risk
    label: Risk
    questions:
      - "Three?"
`
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write rubric: %v", err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if r.PerQuestionMax != DefaultPerQuestionMax {
		t.Errorf("expected default per-question max, got %d", r.PerQuestionMax)
	}
	if r.MaxTotal() != 15 {
		t.Errorf("expected max total 15, got %d", r.MaxTotal())
	}
	if s, ok := r.ByFlag("f"); !ok || s.Key != "fit" {
		t.Errorf("expected flag f to map to fit, got %+v", s)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	if err := os.WriteFile(path, []byte("sections: []\n"), 0644); err != nil {
		t.Fatalf("write rubric: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for empty rubric")
	}
}

func TestLoadOrDefault_Empty(t *testing.T) {
	r, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if r.Name != "Proposal Go/No-Go" {
		t.Errorf("expected built-in rubric, got %q", r.Name)
	}
}

func TestRatingLabel(t *testing.T) {
	if RatingLabel(4) != "High" {
		t.Errorf("RatingLabel(4) = %q", RatingLabel(4))
	}
	if RatingLabel(9) != "9" {
		t.Errorf("RatingLabel(9) = %q", RatingLabel(9))
	}
}

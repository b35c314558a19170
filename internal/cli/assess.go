package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/gonogo/internal/input"
	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/render"
	"github.com/ppiankov/gonogo/internal/rubric"
)

var (
	outputPath   string
	outputFormat string
	outJSON      string
	noFooter     bool
	sectionScore = make(map[string]*int)
	sectionQs    = make(map[string]*[]string)
	extraScores  map[string]int
	meta         model.Metadata
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score a proposal from command-line ratings and write the report",
	Long: `Assess takes one total per rubric section, computes the composite
score and verdict, and writes the Go/No-Go report.

Per-question detail is optional. Without it, the section total is spread
over generic "Criterion A..D" rows so the report still shows a breakdown.

Example:
  gonogo assess --sf 16 --oc 13 --fv 14 --ra 10 --title "Clean Water Access"
  gonogo assess --sf 16 --oc 13 --fv 14 --ra 10 \
    --sf-q "Aligned with donor priorities:5,5" --sf-q "Clear theory of change:4,5" \
    --sf-q "Geographic fit:4,5" --sf-q "Beneficiary targeting:3,5" \
    --output report.html
  gonogo assess --score impact=12 --config custom.yaml`,
	Args: cobra.NoArgs,
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	// Section flags come from the built-in rubric; custom rubrics use --score
	for _, s := range rubric.Default().Sections {
		sectionScore[s.Flag] = new(int)
		sectionQs[s.Flag] = new([]string)
		assessCmd.Flags().IntVar(sectionScore[s.Flag], s.Flag, 0,
			fmt.Sprintf("%s score (0-%d)", s.Label, rubric.Default().MaxScore(s)))
		assessCmd.Flags().StringArrayVar(sectionQs[s.Flag], s.Flag+"-q", nil,
			fmt.Sprintf(`%s question as "Question text:score,max" (repeatable)`, s.Label))
	}
	assessCmd.Flags().StringToIntVar(&extraScores, "score", nil, "section score by key, e.g. --score strategic_fit=16 (for custom rubrics)")

	// Metadata flags
	assessCmd.Flags().StringVar(&meta.Organization, "org", "", "applicant organization")
	assessCmd.Flags().StringVar(&meta.ProposalTitle, "title", "", "proposal title")
	assessCmd.Flags().StringVar(&meta.Donor, "donor", "", "donor or funder")
	assessCmd.Flags().StringVar(&meta.Deadline, "deadline", "", "submission deadline")
	assessCmd.Flags().StringVar(&meta.Evaluator, "evaluator", "", "evaluator name")
	assessCmd.Flags().StringVar(&meta.DateEvaluated, "date", time.Now().Format("2006-01-02"), "evaluation date (YYYY-MM-DD)")
	assessCmd.Flags().StringVar(&meta.Notes, "notes", "", "evaluator notes")

	// Output flags
	addOutputFlags(assessCmd)
}

// addOutputFlags registers the document flags shared by assess and render
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output document path (default from config output.path)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "document format: pdf, html, md (default from --output extension or config)")
	cmd.Flags().StringVar(&outJSON, "json", "", "also write the JSON report to this path")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "omit the page footer")
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	ctx := context.Background()
	p, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	rec, err := recordFromFlags(cmd, p.Rubric())
	if err != nil {
		return err
	}

	report, err := p.Assess(rec)
	if err != nil {
		return fmt.Errorf("invalid assessment:\n%w", err)
	}

	format, docPath, err := resolveOutput(cfg, cfg.Output.Path)
	if err != nil {
		return err
	}

	logf("⚙️  Rendering %s report...\n", format)
	return p.RenderReport(os.Stdout, report, format, docPath, outJSON, verbose)
}

// recordFromFlags builds the input record from section and metadata flags
func recordFromFlags(cmd *cobra.Command, r *rubric.Rubric) (input.Record, error) {
	rec := input.Record{
		Metadata: meta,
		Sections: make(map[rubric.Key]input.SectionInput),
	}

	var missing []string
	for _, s := range r.Sections {
		score, given := sectionFlagScore(cmd, s)
		if !given {
			missing = append(missing, flagHint(s))
			continue
		}

		var raw []string
		if qs, ok := sectionQs[s.Flag]; ok && cmd.Flags().Changed(s.Flag+"-q") {
			raw = *qs
		}

		in := input.SectionInput{Score: input.IntPtr(score)}
		maxScore := r.MaxScore(s)
		switch {
		case len(raw) > 0:
			questions, err := input.ParseQuestions(raw)
			if err != nil {
				return rec, fmt.Errorf("--%s-q: %w", s.Flag, err)
			}
			in.Questions = questions
		case score >= 0 && score <= maxScore:
			in.Questions = input.PlaceholderQuestions(score, maxScore, len(s.Questions))
		}
		rec.Sections[s.Key] = in
	}

	for key := range extraScores {
		if _, ok := r.Section(rubric.Key(key)); !ok {
			return rec, fmt.Errorf("--score: unknown section %q", key)
		}
	}

	if len(missing) > 0 {
		return rec, fmt.Errorf("missing section scores: %s", strings.Join(missing, ", "))
	}
	return rec, nil
}

func sectionFlagScore(cmd *cobra.Command, s rubric.Section) (int, bool) {
	if v, ok := extraScores[string(s.Key)]; ok {
		return v, true
	}
	if ptr, ok := sectionScore[s.Flag]; ok && cmd.Flags().Changed(s.Flag) {
		return *ptr, true
	}
	return 0, false
}

func flagHint(s rubric.Section) string {
	if _, ok := sectionScore[s.Flag]; ok {
		return fmt.Sprintf("--%s (%s)", s.Flag, s.Label)
	}
	return fmt.Sprintf("--score %s=N (%s)", s.Key, s.Label)
}

// resolveOutput picks the document format and path. An explicit --format
// wins, then the --output extension, then output.format from config.
func resolveOutput(cfg *model.Config, defaultPath string) (render.Format, string, error) {
	var (
		format render.Format
		err    error
	)

	switch {
	case outputFormat != "":
		format, err = render.ParseFormat(outputFormat)
	case outputPath != "" && filepath.Ext(outputPath) != "":
		format, err = render.ParseFormat(filepath.Ext(outputPath))
	default:
		format, err = render.ParseFormat(cfg.Output.Format)
	}
	if err != nil {
		return "", "", err
	}

	path := outputPath
	if path == "" {
		path = strings.TrimSuffix(defaultPath, filepath.Ext(defaultPath)) + format.Extension()
	}
	return format, path, nil
}

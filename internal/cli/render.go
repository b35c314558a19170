package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/gonogo/internal/pipeline"
)

var renderTimeout time.Duration

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Score a proposal from a JSON/YAML input file and write the report",
	Long: `Render reads a complete input record (metadata plus per-section scores,
ratings or question detail) from a local file or an http(s) URL, scores it
and writes the report.

Example:
  gonogo render proposal.yaml
  gonogo render proposal.json --output report.html --json report.json
  gonogo render https://example.org/forms/clean-water.json -f md`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	addOutputFlags(renderCmd)
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", time.Minute, "timeout for fetching remote input and rubric")
}

func runRender(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	p, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	logf("⚙️  Loading %s...\n", source)
	rec, err := p.LoadInput(ctx, source)
	if err != nil {
		return err
	}

	report, err := p.Assess(*rec)
	if err != nil {
		return fmt.Errorf("invalid assessment in %s:\n%w", source, err)
	}

	format, docPath, err := resolveOutput(cfg, pipeline.ReportFilename(rec.ProposalTitle, p.Format()))
	if err != nil {
		return err
	}

	logf("⚙️  Rendering %s report...\n", format)
	return p.RenderReport(os.Stdout, report, format, docPath, outJSON, verbose)
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var rubricJSON bool

// rubricCmd represents the rubric command
var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Inspect the scoring rubric",
}

var rubricShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rubric",
	Long: `Print the rubric in use (built-in, or rubric.path from config) as YAML.
The output is a valid rubric file and can be edited and passed back via rubric.path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		p, err := newPipeline(context.Background(), cfg)
		if err != nil {
			return err
		}

		var data []byte
		if rubricJSON {
			data, err = json.MarshalIndent(p.Rubric(), "", "  ")
		} else {
			data, err = yaml.Marshal(p.Rubric())
		}
		if err != nil {
			return fmt.Errorf("marshal rubric: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rubricCmd)
	rubricCmd.AddCommand(rubricShowCmd)

	rubricShowCmd.Flags().BoolVar(&rubricJSON, "json", false, "print as JSON instead of YAML")
}

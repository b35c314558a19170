package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/gonogo/internal/mcptool"
	"github.com/ppiankov/gonogo/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment JSON API over HTTP",
	Long: `Serve exposes the rubric, scoring and report rendering over HTTP:

  GET  /health
  GET  /v1/rubric
  POST /v1/assessments               JSON report
  POST /v1/reports?format=pdf|html|md  document download

Requests under /v1 are rate limited per client IP (server.requests_per_second,
server.burst).

Example:
  gonogo serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		return server.New(cfg.Server, p).Run(ctx)
	},
}

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server on stdio",
	Long: `Run gonogo as a Model Context Protocol server over stdin/stdout, exposing
the "rubric" and "assess_proposal" tools to MCP clients.`,
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
		return mcptool.Serve(p, Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config server.addr)")
}

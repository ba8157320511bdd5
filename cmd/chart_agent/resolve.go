package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/chart-agent/internal/charts"
	"github.com/jonathan/chart-agent/internal/llm"
	"github.com/jonathan/chart-agent/internal/observability"
	"github.com/jonathan/chart-agent/internal/resolver"
)

var (
	resolveConfig  string
	resolveRender  bool
	resolveVerbose bool
	resolveNoLLM   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [message]",
	Short: "Resolve a single chat message without starting the server",
	Long: `Resolve one message into a chart decision and print the result.
With --render the chart is also written to the charts directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveConfig, "config", "", "Path to JSON config file")
	resolveCmd.Flags().BoolVar(&resolveRender, "render", false, "Render the chart to disk")
	resolveCmd.Flags().BoolVar(&resolveVerbose, "verbose", false, "Print the full resolved record")
	resolveCmd.Flags().BoolVar(&resolveNoLLM, "no-llm", false, "Skip the LLM and use the rule-based resolver")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(resolveConfig)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var client llm.Client
	if cfg.APIKey != "" && !resolveNoLLM {
		client, err = llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			log.Printf("Failed to create LLM client, continuing with rules only: %v", err)
			client = nil
		} else {
			defer client.Close()
		}
	}

	rec, err := resolver.Select(client).Resolve(ctx, resolver.Input{Text: args[0]}, nil)
	if err != nil {
		return fmt.Errorf("failed to resolve message: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if resolveVerbose || !rec.IsValid {
		printer.PrintChartRecord(&rec)
	}
	if !rec.IsValid {
		return nil
	}

	if !resolveRender {
		fmt.Printf("%s chart: %q (%d points)\n", rec.ChartType, rec.Title, len(rec.XLabels))
		return nil
	}

	renderer, err := charts.NewRenderer(cfg.ChartsDir)
	if err != nil {
		return err
	}
	scheme := resolver.FinalizeScheme(rec.ColorScheme, "", "")
	rendered, err := renderer.RenderBoth(&rec, scheme)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	printer.PrintRendered(rendered.PNGPath, rendered.SVGPath)
	return nil
}

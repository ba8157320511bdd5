// Package main provides the entry point for the chart agent HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chart_agent",
	Short: "Chat-to-chart HTTP API server",
	Long:  "Chart agent turns chat messages and Excel uploads into bar and line charts in the FD or BNR house style via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

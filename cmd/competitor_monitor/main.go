// Package main provides the entry point for the Competitor Monitor service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "competitor_monitor",
	Short: "Competitor Monitor API server",
	Long:  "Competitor Monitor analyzes competitor marketing text, images and websites with an LLM and keeps a bounded history of recent requests.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mikhail/competitor-monitor/internal/analysis"
	"github.com/mikhail/competitor-monitor/internal/config"
	"github.com/mikhail/competitor-monitor/internal/fetch"
	"github.com/mikhail/competitor-monitor/internal/history"
	"github.com/mikhail/competitor-monitor/internal/parser"
	"github.com/mikhail/competitor-monitor/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Start the HTTP server exposing the analysis, parsing and history endpoints.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind host (overrides API_HOST)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Bind port (overrides API_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	// Flag overrides apply before any component sees the settings.
	if cmd.Flags().Changed("host") {
		settings.APIHost = serveHost
	}
	if cmd.Flags().Changed("port") {
		settings.APIPort = servePort
	}

	log := logrus.New()

	browser := fetch.NewBrowser(settings.BrowserHeadless, settings.ParserUserAgent, settings.BrowserWaitTime, log)
	defer browser.Close()

	parserSvc := parser.New(settings, browser, log)
	store := history.NewStore(settings.HistoryFile, settings.MaxHistoryItems, log)

	var analyzer server.Analyzer
	if client := analysis.NewClient(settings.OpenAIAPIKey, settings.OpenAIModel, settings.OpenAIVisionModel, log); client != nil {
		analyzer = client
	} else {
		log.Warn("OPENAI_API_KEY is not set, analysis endpoints will report not configured")
	}

	srv := server.New(settings, analyzer, parserSvc, store, log)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

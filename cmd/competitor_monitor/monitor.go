package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mikhail/competitor-monitor/internal/config"
	"github.com/mikhail/competitor-monitor/internal/fetch"
	"github.com/mikhail/competitor-monitor/internal/parser"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Parse every configured competitor URL once",
	Long:  "Fetches each URL from COMPETITOR_URLS, extracts title, H1 and first paragraph, and prints the results.",
	RunE:  runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(_ *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	urls := settings.CompetitorURLList()
	if len(urls) == 0 {
		return fmt.Errorf("COMPETITOR_URLS is not set")
	}

	log := logrus.New()

	browser := fetch.NewBrowser(settings.BrowserHeadless, settings.ParserUserAgent, settings.BrowserWaitTime, log)
	defer browser.Close()

	parserSvc := parser.New(settings, browser, log)
	results := parserSvc.ParseAll(context.Background(), urls)

	for _, content := range results {
		fmt.Printf("URL: %s\n", content.URL)
		if content.Error != "" {
			fmt.Printf("  error: %s\n", content.Error)
			continue
		}
		printField("title", content.Title)
		printField("h1", content.H1)
		printField("first paragraph", content.FirstParagraph)
	}
	return nil
}

func printField(name, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Printf("  %s: %s\n", name, value)
}

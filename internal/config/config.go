// Package config loads the environment-driven settings for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Settings holds every runtime knob. It is assembled once at startup by
// Load and treated as read-only afterwards.
type Settings struct {
	// OpenAI
	OpenAIAPIKey      string `validate:"-"`
	OpenAIModel       string `validate:"required"`
	OpenAIVisionModel string `validate:"required"`

	// API
	APIHost string `validate:"required"`
	APIPort int    `validate:"gte=1,lte=65535"`

	// History
	HistoryFile     string `validate:"required"`
	MaxHistoryItems int    `validate:"gte=1"`

	// Parser
	ParserTimeout   time.Duration `validate:"gt=0"`
	ParserUserAgent string        `validate:"required"`

	// Headless browser
	UseBrowser      bool
	BrowserTimeout  time.Duration `validate:"gt=0"`
	BrowserHeadless bool
	BrowserWaitTime time.Duration `validate:"gte=0"`

	// Comma-separated competitor URLs for the monitor command
	CompetitorURLs string

	// Telegram bot integration (optional, unused by the HTTP API)
	TelegramBotToken string
}

// DefaultUserAgent is sent with plain HTTP fetches unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load reads settings from the environment, applying defaults for anything
// unset, and validates the result.
func Load() (*Settings, error) {
	s := &Settings{
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIVisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		HistoryFile:       getEnv("HISTORY_FILE", "history.json"),
		ParserUserAgent:   getEnv("PARSER_USER_AGENT", DefaultUserAgent),
		CompetitorURLs:    os.Getenv("COMPETITOR_URLS"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	var err error
	if s.APIPort, err = getEnvInt("API_PORT", 8000); err != nil {
		return nil, err
	}
	if s.MaxHistoryItems, err = getEnvInt("MAX_HISTORY_ITEMS", 10); err != nil {
		return nil, err
	}
	if s.ParserTimeout, err = getEnvSeconds("PARSER_TIMEOUT", 10); err != nil {
		return nil, err
	}
	if s.BrowserTimeout, err = getEnvSeconds("BROWSER_TIMEOUT", 15); err != nil {
		return nil, err
	}
	if s.BrowserWaitTime, err = getEnvSeconds("BROWSER_WAIT_TIME", 3); err != nil {
		return nil, err
	}
	s.UseBrowser = getEnvBool("USE_BROWSER", false)
	s.BrowserHeadless = getEnvBool("BROWSER_HEADLESS", true)

	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return s, nil
}

// Addr returns the host:port the HTTP server binds to.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.APIHost, s.APIPort)
}

// OpenAIConfigured reports whether an API key is present. When false, the
// server answers every analysis endpoint with a "not configured" failure.
func (s *Settings) OpenAIConfigured() bool {
	return s.OpenAIAPIKey != ""
}

// CompetitorURLList splits the comma-separated COMPETITOR_URLS value,
// trimming whitespace and dropping empty items.
func (s *Settings) CompetitorURLList() []string {
	if strings.TrimSpace(s.CompetitorURLs) == "" {
		return nil
	}
	var urls []string
	for _, raw := range strings.Split(s.CompetitorURLs, ",") {
		if u := strings.TrimSpace(raw); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func getEnvSeconds(key string, fallback int) (time.Duration, error) {
	n, err := getEnvInt(key, fallback)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return strings.EqualFold(v, "true")
}

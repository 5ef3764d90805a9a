package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", s.OpenAIModel)
	assert.Equal(t, "gpt-4o-mini", s.OpenAIVisionModel)
	assert.Equal(t, "0.0.0.0", s.APIHost)
	assert.Equal(t, 8000, s.APIPort)
	assert.Equal(t, "history.json", s.HistoryFile)
	assert.Equal(t, 10, s.MaxHistoryItems)
	assert.Equal(t, 10*time.Second, s.ParserTimeout)
	assert.Equal(t, 15*time.Second, s.BrowserTimeout)
	assert.Equal(t, 3*time.Second, s.BrowserWaitTime)
	assert.False(t, s.UseBrowser)
	assert.True(t, s.BrowserHeadless)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("API_PORT", "9090")
	t.Setenv("MAX_HISTORY_ITEMS", "25")
	t.Setenv("PARSER_TIMEOUT", "5")
	t.Setenv("USE_BROWSER", "true")
	t.Setenv("BROWSER_HEADLESS", "false")

	s, err := Load()
	require.NoError(t, err)

	assert.True(t, s.OpenAIConfigured())
	assert.Equal(t, "gpt-4o", s.OpenAIModel)
	assert.Equal(t, 9090, s.APIPort)
	assert.Equal(t, 25, s.MaxHistoryItems)
	assert.Equal(t, 5*time.Second, s.ParserTimeout)
	assert.True(t, s.UseBrowser)
	assert.False(t, s.BrowserHeadless)
	assert.Equal(t, "0.0.0.0:9090", s.Addr())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("API_PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_PORT")
}

func TestLoad_PortOutOfRange(t *testing.T) {
	t.Setenv("API_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid settings")
}

func TestCompetitorURLList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "https://example.com", []string{"https://example.com"}},
		{"multiple with spaces", " https://a.by , https://b.by ", []string{"https://a.by", "https://b.by"}},
		{"trailing comma", "https://a.by,", []string{"https://a.by"}},
		{"only commas", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{CompetitorURLs: tt.raw}
			assert.Equal(t, tt.want, s.CompetitorURLList())
		})
	}
}

func TestOpenAIConfigured(t *testing.T) {
	s := &Settings{}
	assert.False(t, s.OpenAIConfigured())

	s.OpenAIAPIKey = "sk-test"
	assert.True(t, s.OpenAIConfigured())
}

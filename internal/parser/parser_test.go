package parser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikhail/competitor-monitor/internal/config"
	"github.com/mikhail/competitor-monitor/internal/types"
)

func testService(timeout time.Duration) *Service {
	settings := &config.Settings{
		ParserTimeout:   timeout,
		ParserUserAgent: "test-agent",
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(settings, nil, log)
}

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no scheme", "example.com", "https://example.com"},
		{"https kept", "https://example.com", "https://example.com"},
		{"http kept", "http://example.com/page", "http://example.com/page"},
		{"path without scheme", "example.com/about", "https://example.com/about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestParse_FullPage(t *testing.T) {
	server := serveHTML(t, `
		<html>
			<head><title>Competitor Site</title></head>
			<body>
				<h1>Author Supervision Services</h1>
				<article>
					<p>We supervise construction projects across the country.</p>
					<p>Second paragraph is ignored.</p>
				</article>
			</body>
		</html>`)

	content := testService(5*time.Second).Parse(context.Background(), server.URL)
	require.Empty(t, content.Error)
	assert.Equal(t, server.URL, content.URL)
	assert.Equal(t, "Competitor Site", content.Title)
	assert.Equal(t, "Author Supervision Services", content.H1)
	assert.Equal(t, "We supervise construction projects across the country.", content.FirstParagraph)
}

func TestParse_SelectorPriority(t *testing.T) {
	// The body paragraph must lose to the one inside <main>.
	server := serveHTML(t, `
		<html><body>
			<p>Body level paragraph.</p>
			<main><p>Main content paragraph.</p></main>
		</body></html>`)

	content := testService(5*time.Second).Parse(context.Background(), server.URL)
	require.Empty(t, content.Error)
	assert.Equal(t, "Main content paragraph.", content.FirstParagraph)
}

func TestParse_ContentAreaWithoutParagraph(t *testing.T) {
	// <article> exists but has no <p>; the cascade continues to <body>.
	server := serveHTML(t, `
		<html><body>
			<article><div>No paragraphs here</div></article>
			<p>Fallback paragraph.</p>
		</body></html>`)

	content := testService(5*time.Second).Parse(context.Background(), server.URL)
	require.Empty(t, content.Error)
	assert.Equal(t, "Fallback paragraph.", content.FirstParagraph)
}

func TestParse_TitleOnlyPage(t *testing.T) {
	server := serveHTML(t, `<html><head><title>Example Domain</title></head><body></body></html>`)

	content := testService(5*time.Second).Parse(context.Background(), server.URL)
	require.Empty(t, content.Error)
	assert.Equal(t, "Example Domain", content.Title)
	assert.Empty(t, content.H1)
	assert.Empty(t, content.FirstParagraph)
	assert.True(t, content.HasContent())
}

func TestParse_ParagraphTruncation(t *testing.T) {
	long := strings.Repeat("a", 700)
	server := serveHTML(t, "<html><body><main><p>"+long+"</p></main></body></html>")

	content := testService(5*time.Second).Parse(context.Background(), server.URL)
	require.Empty(t, content.Error)
	require.True(t, strings.HasSuffix(content.FirstParagraph, "..."))
	assert.Len(t, []rune(content.FirstParagraph), types.MaxParagraphLength+3)
	assert.Equal(t, strings.Repeat("a", types.MaxParagraphLength), strings.TrimSuffix(content.FirstParagraph, "..."))
}

func TestParse_ParagraphAtExactLimit(t *testing.T) {
	exact := strings.Repeat("b", types.MaxParagraphLength)
	server := serveHTML(t, "<html><body><p>"+exact+"</p></body></html>")

	content := testService(5*time.Second).Parse(context.Background(), server.URL)
	require.Empty(t, content.Error)
	assert.Equal(t, exact, content.FirstParagraph)
}

func TestParse_WhitespaceCollapsed(t *testing.T) {
	server := serveHTML(t, "<html><body><h1>  Spaced \n\t title  </h1><p>line one\n line two</p></body></html>")

	content := testService(5*time.Second).Parse(context.Background(), server.URL)
	require.Empty(t, content.Error)
	assert.Equal(t, "Spaced title", content.H1)
	assert.Equal(t, "line one line two", content.FirstParagraph)
}

func TestParse_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	content := testService(5*time.Second).Parse(context.Background(), server.URL)
	assert.Equal(t, "HTTP error 403", content.Error)
	assert.Empty(t, content.Title)
	assert.False(t, content.HasContent())
}

func TestParse_TimeoutWithoutBrowser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	content := testService(20*time.Millisecond).Parse(context.Background(), server.URL)
	assert.Equal(t, "timeout during page load", content.Error)
}

func TestParse_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := server.URL
	server.Close()

	content := testService(5*time.Second).Parse(context.Background(), deadURL)
	require.NotEmpty(t, content.Error)
	assert.Contains(t, content.Error, "parsing error")
}

func TestParseAll_PreservesOrder(t *testing.T) {
	first := serveHTML(t, "<html><head><title>First</title></head></html>")
	second := serveHTML(t, "<html><head><title>Second</title></head></html>")
	third := serveHTML(t, "<html><head><title>Third</title></head></html>")

	results := testService(5*time.Second).ParseAll(context.Background(),
		[]string{first.URL, second.URL, third.URL})

	require.Len(t, results, 3)
	assert.Equal(t, "First", results[0].Title)
	assert.Equal(t, "Second", results[1].Title)
	assert.Equal(t, "Third", results[2].Title)
}

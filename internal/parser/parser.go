// Package parser extracts title, first heading and first paragraph from
// competitor pages.
package parser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mikhail/competitor-monitor/internal/config"
	"github.com/mikhail/competitor-monitor/internal/fetch"
	"github.com/mikhail/competitor-monitor/internal/types"
)

// contentSelectors is the prioritized list of content areas searched for the
// first paragraph before falling back to any paragraph in the document.
var contentSelectors = []string{"article", "main", `[role="main"]`, "body"}

// maxConcurrentParses bounds ParseAll fan-out.
const maxConcurrentParses = 4

// Service fetches and parses competitor pages. A nil browser disables the
// headless path entirely.
type Service struct {
	settings *config.Settings
	browser  *fetch.Browser
	log      *logrus.Entry
}

// New creates a parser service.
func New(settings *config.Settings, browser *fetch.Browser, log *logrus.Logger) *Service {
	return &Service{
		settings: settings,
		browser:  browser,
		log:      log.WithField("component", "parser"),
	}
}

// NormalizeURL prefixes https:// when the input has no scheme.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return "https://" + raw
	}
	return raw
}

// Parse retrieves the page at rawURL and extracts its content. Failures are
// reported through the Error field of the result, never as a panic or a bare
// error; the caller always gets a populated ExtractedContent.
func (s *Service) Parse(ctx context.Context, rawURL string) *types.ExtractedContent {
	pageURL := NormalizeURL(rawURL)

	if s.settings.UseBrowser && s.browser != nil {
		return s.parseWithBrowser(pageURL)
	}

	opts := fetch.Options{
		Timeout:   s.settings.ParserTimeout,
		UserAgent: s.settings.ParserUserAgent,
	}

	result, err := fetch.URL(ctx, pageURL, opts)
	if err != nil {
		if fetch.IsTimeout(err) {
			// Single fallback: a timeout often means a slow JS-heavy page,
			// so try rendering it once before giving up.
			if s.browser != nil {
				s.log.WithField("url", pageURL).Info("fetch timed out, retrying via browser")
				return s.parseWithBrowser(pageURL)
			}
			return errContent(pageURL, "timeout during page load")
		}
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
			return errContent(pageURL, fmt.Sprintf("HTTP error %d", fetchErr.StatusCode))
		}
		return errContent(pageURL, fmt.Sprintf("parsing error: %v", err))
	}

	return s.extract(pageURL, result.HTML)
}

// ParseAll parses every URL with bounded concurrency, preserving input
// order. Used by the monitor command for the configured competitor list.
func (s *Service) ParseAll(ctx context.Context, urls []string) []*types.ExtractedContent {
	results := make([]*types.ExtractedContent, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentParses)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = s.Parse(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) parseWithBrowser(pageURL string) *types.ExtractedContent {
	html, err := s.browser.Render(pageURL, s.settings.BrowserTimeout)
	if err != nil {
		if errors.Is(err, fetch.ErrBrowserTimeout) {
			return errContent(pageURL, "browser timeout during page load")
		}
		return errContent(pageURL, fmt.Sprintf("browser error: %v", err))
	}
	return s.extract(pageURL, html)
}

// extract runs the selector cascade over raw markup. Applied identically to
// plain-HTTP and browser-rendered HTML.
func (s *Service) extract(pageURL, html string) *types.ExtractedContent {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return errContent(pageURL, fmt.Sprintf("parsing error: %v", err))
	}

	content := &types.ExtractedContent{URL: pageURL}

	if title := doc.Find("title").First(); title.Length() > 0 {
		content.Title = cleanText(title.Text())
	}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		content.H1 = cleanText(h1.Text())
	}

	for _, selector := range contentSelectors {
		area := doc.Find(selector).First()
		if area.Length() == 0 {
			continue
		}
		if p := area.Find("p").First(); p.Length() > 0 {
			content.FirstParagraph = truncateParagraph(cleanText(p.Text()))
			break
		}
	}
	if content.FirstParagraph == "" {
		if p := doc.Find("p").First(); p.Length() > 0 {
			content.FirstParagraph = truncateParagraph(cleanText(p.Text()))
		}
	}

	return content
}

// cleanText collapses runs of whitespace into single spaces.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// truncateParagraph cuts text to MaxParagraphLength characters with an
// ellipsis marker. Counts runes, not bytes.
func truncateParagraph(text string) string {
	runes := []rune(text)
	if len(runes) <= types.MaxParagraphLength {
		return text
	}
	return string(runes[:types.MaxParagraphLength]) + "..."
}

func errContent(pageURL, message string) *types.ExtractedContent {
	return &types.ExtractedContent{URL: pageURL, Error: message}
}

// Package fetch - browser.go renders pages in a shared headless browser.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// ErrBrowserTimeout is wrapped into render errors when the page did not
// finish loading within the configured timeout.
var ErrBrowserTimeout = errors.New("browser timeout during page load")

// Browser owns a lazily started, process-wide headless browser session.
// The underlying Chrome process is started on first Render and reused
// across calls until Close. Requires Chrome/Chromium on the system.
type Browser struct {
	headless  bool
	userAgent string
	waitTime  time.Duration
	log       *logrus.Entry

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewBrowser creates a browser wrapper. No process is started until the
// first Render call.
func NewBrowser(headless bool, userAgent string, waitTime time.Duration, log *logrus.Logger) *Browser {
	return &Browser{
		headless:  headless,
		userAgent: userAgent,
		waitTime:  waitTime,
		log:       log.WithField("component", "browser"),
	}
}

// session returns the shared browser context, starting Chrome if needed.
func (b *Browser) session() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		return b.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(b.userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser process to start now, so a
	// missing Chrome binary surfaces here instead of mid-render.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	b.log.Debug("headless browser started")
	b.allocCancel = allocCancel
	b.browserCtx = browserCtx
	b.browserCancel = browserCancel
	return b.browserCtx, nil
}

// Render navigates to url in a new tab, waits for the document body plus a
// fixed settle delay for scripts, and returns the rendered markup.
func (b *Browser) Render(url string, timeout time.Duration) (string, error) {
	session, err := b.session()
	if err != nil {
		return "", err
	}

	tabCtx, cancelTab := chromedp.NewContext(session)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.waitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrBrowserTimeout, url)
		}
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	b.log.WithField("url", url).Debugf("rendered %d bytes", len(html))
	return html, nil
}

// Close tears down the browser process. Safe to call multiple times and
// before the browser was ever started.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCancel != nil {
		b.browserCancel()
		b.browserCancel = nil
	}
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
	if b.browserCtx != nil {
		b.log.Debug("headless browser stopped")
		b.browserCtx = nil
	}
}

package server

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mikhail/competitor-monitor/internal/config"
	"github.com/mikhail/competitor-monitor/internal/history"
	"github.com/mikhail/competitor-monitor/internal/types"
)

// fakeAnalyzer implements Analyzer with canned results and call counters.
type fakeAnalyzer struct {
	textAnalysis  *types.TextAnalysis
	imageAnalysis *types.ImageAnalysis
	err           error

	textCalls  int
	imageCalls int
	lastText   string
}

func (f *fakeAnalyzer) AnalyzeText(_ context.Context, text string) (*types.TextAnalysis, error) {
	f.textCalls++
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.textAnalysis, nil
}

func (f *fakeAnalyzer) AnalyzeImage(_ context.Context, _ []byte, _ string) (*types.ImageAnalysis, error) {
	f.imageCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.imageAnalysis, nil
}

// fakeParser implements Parser with a canned result.
type fakeParser struct {
	result  *types.ExtractedContent
	lastURL string
}

func (f *fakeParser) Parse(_ context.Context, url string) *types.ExtractedContent {
	f.lastURL = url
	if f.result != nil {
		return f.result
	}
	return &types.ExtractedContent{URL: url}
}

type testEnv struct {
	server   *Server
	analyzer *fakeAnalyzer
	parser   *fakeParser
	store    *history.Store
}

func newTestEnv(t *testing.T, analyzer Analyzer) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	settings := &config.Settings{
		APIHost:         "127.0.0.1",
		APIPort:         8000,
		MaxHistoryItems: 10,
		ParserTimeout:   5 * time.Second,
	}
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), settings.MaxHistoryItems, log)
	parser := &fakeParser{}

	env := &testEnv{
		parser: parser,
		store:  store,
	}
	if fa, ok := analyzer.(*fakeAnalyzer); ok {
		env.analyzer = fa
	}
	env.server = New(settings, analyzer, parser, store, log)
	return env
}

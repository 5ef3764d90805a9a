package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mikhail/competitor-monitor/internal/types"
)

// errNotConfigured is returned by every analysis endpoint when no API key
// was provided at startup.
const errNotConfigured = "OpenAI service is not configured. Set OPENAI_API_KEY in the .env file"

// maxUploadSize bounds image uploads (10 MiB).
const maxUploadSize = 10 << 20

// allowedImageTypes is the closed set of accepted upload content types.
var allowedImageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

// requestSummaryLength caps the text stored in a history request summary.
const requestSummaryLength = 100

// responseSummaryLength caps the image description stored in a history
// response summary.
const responseSummaryLength = 200

// AnalyzeTextRequest is the body for POST /analyze_text.
type AnalyzeTextRequest struct {
	Text string `json:"text"`
}

// TextAnalysisResponse is the envelope for POST /analyze_text.
type TextAnalysisResponse struct {
	Success  bool                `json:"success"`
	Analysis *types.TextAnalysis `json:"analysis,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// ImageAnalysisResponse is the envelope for POST /analyze_image.
type ImageAnalysisResponse struct {
	Success  bool                 `json:"success"`
	Analysis *types.ImageAnalysis `json:"analysis,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// ParseDemoRequest is the body for POST /parse_demo.
type ParseDemoRequest struct {
	URL string `json:"url"`
}

// ParsedContent carries the extracted fields plus the nested analysis in
// the parse_demo response. Absent fields serialize as null, which the
// clients rely on.
type ParsedContent struct {
	URL            string              `json:"url"`
	Title          *string             `json:"title"`
	H1             *string             `json:"h1"`
	FirstParagraph *string             `json:"first_paragraph"`
	Analysis       *types.TextAnalysis `json:"analysis"`
}

// ParseDemoResponse is the envelope for POST /parse_demo.
type ParseDemoResponse struct {
	Success bool           `json:"success"`
	Data    *ParsedContent `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// HistoryResponse is the envelope for GET /history.
type HistoryResponse struct {
	Items []types.HistoryEntry `json:"items"`
	Total int                  `json:"total"`
}

// ClearHistoryResponse is the envelope for DELETE /history.
type ClearHistoryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is the envelope for GET /health.
type HealthResponse struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	Version          string `json:"version"`
	OpenAIConfigured bool   `json:"openai_configured"`
}

// handleAnalyzeText runs competitor text through the analysis client.
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeTextRequest
	if err := decodeJSON(r, &req); err != nil {
		s.jsonResponse(w, http.StatusOK, TextAnalysisResponse{Success: false, Error: "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.jsonResponse(w, http.StatusOK, TextAnalysisResponse{Success: false, Error: "Text must not be empty"})
		return
	}
	if s.analyzer == nil {
		s.jsonResponse(w, http.StatusOK, TextAnalysisResponse{Success: false, Error: errNotConfigured})
		return
	}

	analysis, err := s.analyzer.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		s.log.WithError(err).Warn("text analysis failed")
		s.jsonResponse(w, http.StatusOK, TextAnalysisResponse{Success: false, Error: err.Error()})
		return
	}

	responseSummary := analysis.Summary
	if responseSummary == "" {
		responseSummary = "Analysis completed"
	}
	s.history.Append(types.RequestTypeText, truncateSummary(req.Text, requestSummaryLength), responseSummary)

	s.jsonResponse(w, http.StatusOK, TextAnalysisResponse{Success: true, Analysis: analysis})
}

// handleAnalyzeImage accepts a multipart image upload and runs it through
// the vision model.
func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.jsonResponse(w, http.StatusOK, ImageAnalysisResponse{Success: false, Error: errNotConfigured})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.jsonResponse(w, http.StatusOK, ImageAnalysisResponse{Success: false, Error: "Invalid upload: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.jsonResponse(w, http.StatusOK, ImageAnalysisResponse{Success: false, Error: "A file upload named 'file' is required"})
		return
	}
	defer func() { _ = file.Close() }()

	// Content-type gate runs before any of the body is consumed.
	contentType := header.Header.Get("Content-Type")
	if !isAllowedImageType(contentType) {
		s.jsonResponse(w, http.StatusOK, ImageAnalysisResponse{
			Success: false,
			Error:   fmt.Sprintf("Unsupported file type. Allowed: %s", strings.Join(allowedImageTypes, ", ")),
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.jsonResponse(w, http.StatusOK, ImageAnalysisResponse{Success: false, Error: "Failed to read uploaded file"})
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = "uploaded_image"
	}

	analysis, err := s.analyzer.AnalyzeImage(r.Context(), data, filename)
	if err != nil {
		s.log.WithError(err).Warn("image analysis failed")
		s.jsonResponse(w, http.StatusOK, ImageAnalysisResponse{Success: false, Error: err.Error()})
		return
	}

	responseSummary := truncateSummary(analysis.Description, responseSummaryLength)
	if responseSummary == "" {
		responseSummary = "Image analysis completed"
	}
	s.history.Append(types.RequestTypeImage, "Image: "+filename, responseSummary)

	s.jsonResponse(w, http.StatusOK, ImageAnalysisResponse{Success: true, Analysis: analysis})
}

// handleParseDemo extracts content from a competitor URL and, when any
// content was found, analyzes the composite text.
func (s *Server) handleParseDemo(w http.ResponseWriter, r *http.Request) {
	var req ParseDemoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.jsonResponse(w, http.StatusOK, ParseDemoResponse{Success: false, Error: "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.jsonResponse(w, http.StatusOK, ParseDemoResponse{Success: false, Error: "URL must not be empty"})
		return
	}
	if s.analyzer == nil {
		s.jsonResponse(w, http.StatusOK, ParseDemoResponse{Success: false, Error: errNotConfigured})
		return
	}

	extracted := s.parser.Parse(r.Context(), req.URL)
	if extracted.Error != "" {
		s.jsonResponse(w, http.StatusOK, ParseDemoResponse{Success: false, Error: extracted.Error})
		return
	}

	// Only invoke the model when something was actually extracted; an
	// analysis failure degrades to a null analysis, not a failed parse.
	var analysis *types.TextAnalysis
	if extracted.HasContent() {
		var err error
		analysis, err = s.analyzer.AnalyzeText(r.Context(), compositeText(extracted))
		if err != nil {
			s.log.WithError(err).Warn("analysis of parsed content failed")
			analysis = nil
		}
	}

	data := &ParsedContent{
		URL:            extracted.URL,
		Title:          optional(extracted.Title),
		H1:             optional(extracted.H1),
		FirstParagraph: optional(extracted.FirstParagraph),
		Analysis:       analysis,
	}

	title := extracted.Title
	if title == "" {
		title = "N/A"
	}
	s.history.Append(types.RequestTypeParse, "URL: "+req.URL, "Title: "+title)

	s.jsonResponse(w, http.StatusOK, ParseDemoResponse{Success: true, Data: data})
}

// handleGetHistory lists recorded requests, most recent first.
func (s *Server) handleGetHistory(w http.ResponseWriter, _ *http.Request) {
	items := s.history.List()
	if items == nil {
		items = []types.HistoryEntry{}
	}
	s.jsonResponse(w, http.StatusOK, HistoryResponse{Items: items, Total: len(items)})
}

// handleClearHistory empties the store.
func (s *Server) handleClearHistory(w http.ResponseWriter, _ *http.Request) {
	if err := s.history.Clear(); err != nil {
		s.log.WithError(err).Error("failed to clear history")
		s.jsonResponse(w, http.StatusOK, ClearHistoryResponse{Success: false, Message: "Failed to clear history"})
		return
	}
	s.jsonResponse(w, http.StatusOK, ClearHistoryResponse{Success: true, Message: "History cleared"})
}

// compositeText assembles the extracted fields into the text block sent to
// the model.
func compositeText(extracted *types.ExtractedContent) string {
	var parts []string
	if extracted.Title != "" {
		parts = append(parts, "Title: "+extracted.Title)
	}
	if extracted.H1 != "" {
		parts = append(parts, "H1: "+extracted.H1)
	}
	if extracted.FirstParagraph != "" {
		parts = append(parts, "First paragraph: "+extracted.FirstParagraph)
	}
	return strings.Join(parts, "\n")
}

func isAllowedImageType(contentType string) bool {
	for _, allowed := range allowedImageTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// truncateSummary caps s at max characters with an ellipsis marker.
func truncateSummary(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(dst)
}

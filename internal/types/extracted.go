package types

// MaxParagraphLength is the cutoff applied to an extracted first paragraph.
// Longer paragraphs are truncated to this length and marked with an ellipsis.
const MaxParagraphLength = 500

// ExtractedContent holds what the parser pulled out of a competitor page.
// Error is set instead of the content fields when extraction failed; the
// parser never returns a bare error for page-level problems.
type ExtractedContent struct {
	URL            string `json:"url"`
	Title          string `json:"title,omitempty"`
	H1             string `json:"h1,omitempty"`
	FirstParagraph string `json:"first_paragraph,omitempty"`
	Error          string `json:"error,omitempty"`
}

// HasContent reports whether at least one content field was extracted.
// parse_demo only invokes analysis when this holds.
func (e *ExtractedContent) HasContent() bool {
	return e.Title != "" || e.H1 != "" || e.FirstParagraph != ""
}

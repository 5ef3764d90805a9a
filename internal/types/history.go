package types

import "time"

// RequestType identifies which operation produced a history entry.
type RequestType string

// The closed set of request types recorded in history.
const (
	RequestTypeText  RequestType = "text"
	RequestTypeImage RequestType = "image"
	RequestTypeParse RequestType = "parse"
)

// Valid reports whether t is one of the known request types.
func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeText, RequestTypeImage, RequestTypeParse:
		return true
	}
	return false
}

// HistoryEntry is one recorded request/response pair. Summaries are
// truncated by the caller before the entry is created.
type HistoryEntry struct {
	ID              string      `json:"id"`
	RequestType     RequestType `json:"request_type"`
	RequestSummary  string      `json:"request_summary"`
	ResponseSummary string      `json:"response_summary"`
	Timestamp       time.Time   `json:"timestamp"`
}

// Package history keeps a bounded, most-recent-first log of past requests
// persisted to a single JSON file.
package history

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mikhail/competitor-monitor/internal/types"
)

// Store persists history entries to one flat file. Every append rewrites
// the file wholesale with the capacity-trimmed sequence; every read loads
// and parses the full file. The mutex serializes the read-modify-write so
// concurrent handlers cannot lose appends.
type Store struct {
	path     string
	maxItems int
	log      *logrus.Entry

	mu sync.Mutex
}

// NewStore creates a store backed by the file at path, capped at maxItems
// entries.
func NewStore(path string, maxItems int, log *logrus.Logger) *Store {
	return &Store{
		path:     path,
		maxItems: maxItems,
		log:      log.WithField("component", "history"),
	}
}

// Append records a new entry at the front of the sequence, evicting the
// oldest entries past the cap. Persistence failures are logged, never
// surfaced: history is best-effort and must not fail the request that
// produced it.
func (s *Store) Append(reqType types.RequestType, requestSummary, responseSummary string) {
	entry := types.HistoryEntry{
		ID:              uuid.New().String(),
		RequestType:     reqType,
		RequestSummary:  requestSummary,
		ResponseSummary: responseSummary,
		Timestamp:       time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append([]types.HistoryEntry{entry}, s.load()...)
	if len(entries) > s.maxItems {
		entries = entries[:s.maxItems]
	}

	if err := s.save(entries); err != nil {
		s.log.WithError(err).Error("failed to persist history")
	}
}

// List returns the recorded entries, most recent first, never more than
// the cap.
func (s *Store) List() []types.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	if len(entries) > s.maxItems {
		entries = entries[:s.maxItems]
	}
	return entries
}

// Clear empties the history.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save([]types.HistoryEntry{})
}

// load reads the backing file. An absent or unparsable file counts as an
// empty history rather than an error.
func (s *Store) load() []types.HistoryEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("failed to read history file, treating as empty")
		}
		return nil
	}

	var entries []types.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.WithError(err).Warn("history file is corrupt, treating as empty")
		return nil
	}
	return entries
}

func (s *Store) save(entries []types.HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

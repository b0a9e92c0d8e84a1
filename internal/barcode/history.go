package barcode

import (
	"sync"
	"time"
)

// maxScanHistory bounds the per-session scan history
const maxScanHistory = 10

// ScanEntry is one remembered scan
type ScanEntry struct {
	Barcode     string      `json:"barcode"`
	Result      *Result     `json:"result"`
	Suggestions Suggestions `json:"suggestions"`
	ScannedAt   time.Time   `json:"scanned_at"`
}

// ScanHistory remembers the most recent scans of one session, newest first.
// Scanning a barcode that is already present moves it to the front instead
// of duplicating it.
type ScanHistory struct {
	mu      sync.Mutex
	entries []ScanEntry
}

// Add records a scan
func (h *ScanHistory) Add(entry ScanEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.entries {
		if e.Barcode == entry.Barcode {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}

	h.entries = append([]ScanEntry{entry}, h.entries...)
	if len(h.entries) > maxScanHistory {
		h.entries = h.entries[:maxScanHistory]
	}
}

// Recent returns the remembered scans, newest first
func (h *ScanHistory) Recent() []ScanEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]ScanEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// SessionHistories keeps one scan history per dashboard session
type SessionHistories struct {
	mu       sync.Mutex
	sessions map[string]*ScanHistory
}

// NewSessionHistories creates the session history store
func NewSessionHistories() *SessionHistories {
	return &SessionHistories{sessions: make(map[string]*ScanHistory)}
}

// For returns the history for a session, creating it on first use
func (s *SessionHistories) For(sessionID string) *ScanHistory {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.sessions[sessionID]
	if !ok {
		h = &ScanHistory{}
		s.sessions[sessionID] = h
	}
	return h
}

package sheetimport

import (
	"fmt"
	"sync"
	"time"
)

// ImportState is the phase an import run is in
type ImportState string

const (
	StateIdle      ImportState = "idle"
	StateUploading ImportState = "uploading"
	StateSuccess   ImportState = "success"
	StateError     ImportState = "error"
)

// IsTerminal returns true for the states a run ends in
func (s ImportState) IsTerminal() bool {
	return s == StateSuccess || s == StateError
}

// Summary is the outcome of a finished run
type Summary struct {
	Imported int `json:"imported"`
	Errors   int `json:"errors"`
	Total    int `json:"total"`
}

// Progress is a point-in-time view of an import run
type Progress struct {
	RunID     string      `json:"run_id,omitempty"`
	State     ImportState `json:"state"`
	Current   int         `json:"current"`
	Total     int         `json:"total"`
	Summary   *Summary    `json:"summary,omitempty"`
	Message   string      `json:"message,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Percent returns the completed share of rows, 0 when the total is unknown
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return p.Current * 100 / p.Total
}

// ImportSession tracks one run through the import state machine:
// idle -> uploading(current, total) -> success | error.
// A terminal session may start uploading again.
type ImportSession struct {
	mu       sync.RWMutex
	progress Progress
}

// NewImportSession creates a session in the idle state
func NewImportSession(runID string) *ImportSession {
	return &ImportSession{
		progress: Progress{
			RunID:     runID,
			State:     StateIdle,
			UpdatedAt: time.Now(),
		},
	}
}

// ErrInvalidTransition is returned when a state change is not allowed
type ErrInvalidTransition struct {
	From ImportState
	To   ImportState
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid import state transition from %s to %s", e.From, e.To)
}

// Begin enters uploading with no rows processed
func (s *ImportSession) Begin(total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress.State == StateUploading {
		return ErrInvalidTransition{From: s.progress.State, To: StateUploading}
	}
	s.progress = Progress{
		RunID:     s.progress.RunID,
		State:     StateUploading,
		Total:     max(total, 0),
		UpdatedAt: time.Now(),
	}
	return nil
}

// Advance records how many rows have been processed out of total
func (s *ImportSession) Advance(current, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress.State != StateUploading {
		return ErrInvalidTransition{From: s.progress.State, To: StateUploading}
	}
	s.progress.Current = current
	s.progress.Total = total
	s.progress.UpdatedAt = time.Now()
	return nil
}

// Succeed ends the run with its summary
func (s *ImportSession) Succeed(summary Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress.State != StateUploading {
		return ErrInvalidTransition{From: s.progress.State, To: StateSuccess}
	}
	s.progress.State = StateSuccess
	s.progress.Summary = &summary
	s.progress.UpdatedAt = time.Now()
	return nil
}

// Fail ends the run with an error message. Failing is allowed straight from
// idle so that a file that cannot be read still reports an error.
func (s *ImportSession) Fail(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress.State.IsTerminal() {
		return ErrInvalidTransition{From: s.progress.State, To: StateError}
	}
	s.progress.State = StateError
	s.progress.Message = message
	s.progress.UpdatedAt = time.Now()
	return nil
}

// Snapshot returns a copy of the current progress
func (s *ImportSession) Snapshot() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.progress
	if p.Summary != nil {
		summary := *p.Summary
		p.Summary = &summary
	}
	return p
}

package state

import (
	"fmt"
	"sync"
	"time"
)

// KeyState tracks the API key lifecycle for the current session.
type KeyState int

const (
	KeyUnset KeyState = iota
	KeySet
	KeyValid
	KeyInvalid
)

func (k KeyState) String() string {
	switch k {
	case KeySet:
		return "set"
	case KeyValid:
		return "valid"
	case KeyInvalid:
		return "invalid"
	default:
		return "unset"
	}
}

// Snapshot represents the latest session data available to the shells.
type Snapshot struct {
	KeyState            KeyState
	Busy                bool
	CurrentOperation    string
	LastOperation       string
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed operations
}

// IsOffline returns true when the last operations failed back to back.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates updates to the session snapshot. The zero value is ready
// to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

// Begin marks op as in flight. It returns false when another operation is
// still running; the caller must not proceed.
func (s *Store) Begin(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Busy {
		return false
	}
	s.snapshot.Busy = true
	s.snapshot.CurrentOperation = op
	return true
}

// Finish records the outcome of op and clears the busy flag. When err is
// non-nil the error is kept for display and the failure counter grows.
func (s *Store) Finish(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Busy = false
	s.snapshot.CurrentOperation = ""
	s.snapshot.LastOperation = op
	s.snapshot.LastUpdated = s.clock()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// SetKeyState records a key lifecycle transition.
func (s *Store) SetKeyState(k KeyState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.KeyState = k
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Package session tracks per-user dialog state. Sessions are transient:
// they accumulate booking fields while a dialog is in flight and are
// reset on commit, cancellation, or TTL expiry.
package session

import (
	"context"
	"time"
)

// Stage is the dialog step a user currently occupies.
type Stage string

const (
	StageIdle            Stage = "idle"
	StageAwaitUnit       Stage = "await_unit"
	StageAwaitDate       Stage = "await_date"
	StageAwaitTime       Stage = "await_time"
	StageAwaitRetry      Stage = "await_retry"
	StageAwaitCancelPick Stage = "await_cancel_pick"
)

// Session holds the not-yet-committed booking fields collected so far.
type Session struct {
	Stage     Stage     `json:"stage"`
	Unit      int       `json:"unit"`
	Date      string    `json:"date"`  // YYYY-MM-DD
	Start     string    `json:"start"` // HH:MM
	End       string    `json:"end"`   // HH:MM
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns a fresh idle session.
func New() *Session {
	return &Session{Stage: StageIdle, UpdatedAt: time.Now()}
}

// Store is the per-user session registry. Each entry is owned
// exclusively by the user it is keyed under.
type Store interface {
	// Get returns the user's session, creating an idle one if absent.
	Get(ctx context.Context, userID int64) (*Session, error)
	// Put saves the session and refreshes its expiry.
	Put(ctx context.Context, userID int64, s *Session) error
	// Reset discards any in-flight dialog state for the user.
	Reset(ctx context.Context, userID int64) error
	// Close stops background maintenance.
	Close() error
}

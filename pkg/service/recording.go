package service

import (
	"errors"
	"regexp"
	"time"

	"github.com/ivikasavnish/go-scriptgen/pkg/actions"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrInvalidID       = errors.New("invalid session ID")
	ErrInvalidSession  = errors.New("invalid session")
)

var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// Recording is a stored session with bookkeeping metadata
type Recording struct {
	ID        string           `json:"id"`
	Session   *actions.Session `json:"session"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Validate checks if the recording can be stored
func (r *Recording) Validate() error {
	if !validIDPattern.MatchString(r.ID) {
		return ErrInvalidID
	}
	if r.Session == nil {
		return ErrInvalidSession
	}
	if err := r.Session.Validate(); err != nil {
		return ErrInvalidSession
	}
	return nil
}

// Clone creates a copy of the recording whose session can be mutated
// without touching the stored one
func (r *Recording) Clone() *Recording {
	session := *r.Session
	session.Actions = make([]actions.ActionInContext, len(r.Session.Actions))
	copy(session.Actions, r.Session.Actions)
	return &Recording{
		ID:        r.ID,
		Session:   &session,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

package auth

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies the admin behind a request. Services that mutate data
// take it as an explicit argument and call Authorize before touching storage.
type Session struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

func (s *Session) Authorize() error {
	return s.AuthorizeAt(time.Now())
}

func (s *Session) AuthorizeAt(now time.Time) error {
	if s == nil || s.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return ErrUnauthorized
	}
	return nil
}

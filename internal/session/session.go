package session

import (
	"context"

	"github.com/google/uuid"
)

// Session identifies the caller for the lifetime of a browsing session.
// UserID is nil for anonymous shoppers.
type Session struct {
	ID     string
	UserID *uuid.UUID
}

func (s Session) Authenticated() bool {
	return s.UserID != nil
}

type sessionKey struct{}

func FromContext(c context.Context) (Session, bool) {
	s, ok := c.Value(sessionKey{}).(Session)
	return s, ok
}

func AttachToContext(c context.Context, s Session) context.Context {
	return context.WithValue(c, sessionKey{}, s)
}

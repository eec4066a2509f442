package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSchool is returned when no school is selected; fetching requires one
var ErrNoSchool = errors.New("no active school selected")

// Session is what the schedule source needs to talk to the portal
type Session struct {
	SchoolID string
	Token    string
}

// SessionProvider supplies the active session before each fetch
type SessionProvider interface {
	Session(ctx context.Context) (Session, error)
}

// StaticSession is a fixed session, e.g. from configuration
type StaticSession struct {
	SchoolID string
	Token    string
}

// Session returns the configured session
func (s StaticSession) Session(ctx context.Context) (Session, error) {
	if strings.TrimSpace(s.SchoolID) == "" {
		return Session{}, ErrNoSchool
	}
	return Session{SchoolID: s.SchoolID, Token: s.Token}, nil
}

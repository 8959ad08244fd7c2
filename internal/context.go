package internal

import (
	"context"
)

// Roles known to the access gate.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session is the request-scoped identity established at login. It replaces
// any implicit global state: every operation that needs to know who is acting
// receives it (or reads it from the request context).
type Session struct {
	UserID          int64  `json:"user_id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Role            string `json:"role"`
	AcceptedPrivacy bool   `json:"accepted_privacy"`
}

// HasRole reports whether the session holds one of the given roles. A nil
// session holds none.
func (s *Session) HasRole(roles ...string) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

type ctxKey string

const contextSessionKey ctxKey = "session"

func SessionFromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(contextSessionKey).(*Session)
	return sess, ok && sess != nil
}

func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextSessionKey, sess)
}

package auth

import (
	"net/http"

	"github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/pkg/logger"
)

// Decision is the outcome of the access gate for a single request.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionLogin
	DecisionHome
	DecisionConsent
)

// Decide runs the access checks in their fixed order: session first, then
// role, then privacy consent. The first failing check determines where the
// request is sent.
func Decide(sess *internal.Session, allowedRoles []string, skipConsent bool) Decision {
	if sess == nil {
		return DecisionLogin
	}

	if len(allowedRoles) > 0 && !sess.HasRole(allowedRoles...) {
		return DecisionHome
	}

	if !skipConsent && !sess.AcceptedPrivacy {
		return DecisionConsent
	}
	return DecisionAllow
}

// Gate guards routes with the session cookie. Failed checks redirect the
// browser rather than answering 401, matching how the pages link together.
type Gate struct {
	sessions *SessionManager
}

func NewGate(sessions *SessionManager) *Gate {
	return &Gate{sessions: sessions}
}

// Require admits requests whose session carries one of the given roles and
// has accepted the privacy policy.
func (g *Gate) Require(roles ...string) func(http.Handler) http.Handler {
	return g.middleware(roles, false)
}

// RequireNoConsent admits sessions regardless of consent state. The privacy
// pages themselves must stay reachable to a user who has not consented yet.
func (g *Gate) RequireNoConsent(roles ...string) func(http.Handler) http.Handler {
	return g.middleware(roles, true)
}

func (g *Gate) middleware(roles []string, skipConsent bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := g.sessions.FromRequest(r)
			if err != nil {
				sess = nil
			}

			switch Decide(sess, roles, skipConsent) {
			case DecisionLogin:
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			case DecisionHome:
				logger.From(r.Context()).Warn("role check failed",
					"user_id", sess.UserID,
					"role", sess.Role,
					"path", r.URL.Path,
				)
				http.Redirect(w, r, "/", http.StatusFound)
				return
			case DecisionConsent:
				http.Redirect(w, r, "/privacy", http.StatusFound)
				return
			}

			ctx := internal.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional attaches the session to the context when a valid cookie is
// present but never blocks the request. Used by public pages that adapt
// their output to a logged-in viewer.
func (g *Gate) Optional() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess, err := g.sessions.FromRequest(r); err == nil {
				r = r.WithContext(internal.ContextWithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

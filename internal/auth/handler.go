package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/transport"
	"github.com/skillz-hq/skillz/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions *SessionManager
}

func NewHandler(svc ServiceAPI, sessions *SessionManager) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Sessions:    sessions,
	}
}

// GetLogin sends an already authenticated user back to the home page.
func (h *Handler) GetLogin(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Sessions.FromRequest(r); err == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"page": "login",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.Service.Authenticate(dto)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			h.Logger.Error("authentication failed", "error", err)
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if err := h.issueSession(w, sess); err != nil {
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// GetPrivacy shows the consent state for the current user.
func (h *Handler) GetPrivacy(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accepted_privacy": sess.AcceptedPrivacy,
	})
}

// AcceptPrivacy records consent and reissues the cookie so later requests
// carry the updated flag.
func (h *Handler) AcceptPrivacy(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	var dto PrivacyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !dto.AcceptedPrivacy {
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"accepted_privacy": sess.AcceptedPrivacy,
		})
		return
	}

	updated, err := h.Service.AcceptPrivacy(sess)
	if err != nil {
		h.Logger.Error("failed to accept privacy", "user_id", sess.UserID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.issueSession(w, updated); err != nil {
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// GetRemovePrivacy shows the consent state on the revocation page.
func (h *Handler) GetRemovePrivacy(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accepted_privacy": sess.AcceptedPrivacy,
	})
}

// RevokePrivacy withdraws consent and sends the user back to the consent page.
func (h *Handler) RevokePrivacy(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	var dto RemovePrivacyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !dto.RevokeConsent {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	updated, err := h.Service.RevokePrivacy(sess)
	if err != nil {
		h.Logger.Error("failed to revoke privacy", "user_id", sess.UserID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.issueSession(w, updated); err != nil {
		return
	}
	http.Redirect(w, r, "/privacy", http.StatusFound)
}

func (h *Handler) issueSession(w http.ResponseWriter, sess *internal.Session) error {
	token, err := h.Sessions.Issue(sess)
	if err != nil {
		h.Logger.Error("failed to issue session token", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return err
	}
	h.Sessions.SetCookie(w, token)
	return nil
}

package user

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/transport"
	"github.com/skillz-hq/skillz/pkg/logger"
)

type ServiceAPI interface {
	ListUsers() ([]*User, error)
	CreateUser(sess *errors.Session, dto CreateUserDTO) (*User, error)
	Install() (bool, error)
	ToggleSenior(sess *errors.Session, userID int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	rows := make([]UserResponse, 0, len(users))
	for _, u := range users {
		rows = append(rows, toResponse(u))
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": rows,
	})
}

// GetCreateUser returns the role choices for the account form.
func (h *Handler) GetCreateUser(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"roles": []string{errors.RoleUser, errors.RoleAdmin},
	})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := errors.SessionFromContext(r.Context())

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateUser(sess, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, toResponse(created))
}

// Install bootstraps the first admin account and sends the caller to the
// login page either way.
func (h *Handler) Install(w http.ResponseWriter, r *http.Request) {
	created, err := h.Service.Install()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if created {
		h.Logger.Info("install completed")
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) ToggleSenior(w http.ResponseWriter, r *http.Request) {
	sess, _ := errors.SessionFromContext(r.Context())

	var dto ToggleSeniorDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	updated, err := h.Service.ToggleSenior(sess, dto.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toResponse(updated))
}

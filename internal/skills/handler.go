package skills

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/catalog"
	"github.com/skillz-hq/skillz/internal/transport"
	"github.com/skillz-hq/skillz/pkg/logger"
)

type ServiceAPI interface {
	Aggregate(userID int64) ([]UserSkillInfo, error)
	Overlay(userID int64) ([]*OverlayCategory, error)
	SetLevel(sess *internal.Session, dto SetSkillDTO) (*Assignment, error)
	SkillDetails(skillID int64) (*catalog.Skill, []*SkillRating, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// MySkills serves the landing view: the current user's rated skills grouped
// by category path.
func (h *Handler) MySkills(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	infos, err := h.Service.Aggregate(sess.UserID)
	if err != nil {
		h.Logger.Error("MySkills: service error", "error", err, "user_id", sess.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": GroupByCategory(infos),
	})
}

// BrowseSkills serves the whole catalog with the user's levels overlaid.
func (h *Handler) BrowseSkills(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	forest, err := h.Service.Overlay(sess.UserID)
	if err != nil {
		h.Logger.Error("BrowseSkills: service error", "error", err, "user_id", sess.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": forest})
}

// SetSkill handles the one JSON mutation endpoint of the UI.
func (h *Handler) SetSkill(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SetSkillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SetSkill: invalid request body", "error", err)
		h.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "No JSON data provided",
		})
		return
	}

	assignment, err := h.Service.SetLevel(sess, dto)
	if err != nil {
		h.Logger.Error("SetSkill: service error", "error", err, "user_id", sess.UserID, "skill_id", dto.SkillID)
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation {
			h.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":   "Invalid data",
				"details": appErr.Details,
			})
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  "Skill updated",
		"skill_id": assignment.SkillID,
		"level":    assignment.Level,
	})
}

// SkillDetails is the public per-skill ranking, descending by level.
func (h *Handler) SkillDetails(w http.ResponseWriter, r *http.Request) {
	skillID, err := strconv.ParseInt(chi.URLParam(r, "skill_id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid skill ID")
		return
	}

	skill, ratings, err := h.Service.SkillDetails(skillID)
	if err != nil {
		h.Logger.Error("SkillDetails: service error", "error", err, "skill_id", skillID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"skill": skill,
		"users": ratings,
	})
}

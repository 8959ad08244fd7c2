package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/transport"
	"github.com/skillz-hq/skillz/pkg/logger"
)

type ServiceAPI interface {
	Forest(withSkills bool) ([]*Category, error)
	CategoryDetail(categoryID int64) (*CategoryResponse, error)
	CreateCategory(sess *internal.Session, dto CreateCategoryDTO) (*Category, error)
	DeleteCategory(sess *internal.Session, categoryID int64) error
	CreateSkill(sess *internal.Session, categoryID int64, dto CreateSkillDTO) (*Skill, error)
	DeleteSkill(sess *internal.Session, skillID int64) (*Skill, error)
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

// GetCategories returns the admin view of the whole catalog forest.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	forest, err := h.Service.Forest(true)
	if err != nil {
		h.Logger.Error("GetCategories: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": forest})
}

// Search is the read-only catalog browse: the same forest, skills included.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	forest, err := h.Service.Forest(true)
	if err != nil {
		h.Logger.Error("Search: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": forest})
}

// GetCreateCategory lists the available parent choices for the create form.
func (h *Handler) GetCreateCategory(w http.ResponseWriter, r *http.Request) {
	forest, err := h.Service.Forest(false)
	if err != nil {
		h.Logger.Error("GetCreateCategory: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"parents": forest})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateCategory(sess, dto)
	if err != nil {
		h.Logger.Error("CreateCategory: service error", "error", err, "name", dto.Name)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto DeleteCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DeleteCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteCategory(sess, dto.CategoryID); err != nil {
		h.Logger.Error("DeleteCategory: service error", "error", err, "category_id", dto.CategoryID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "category_id": dto.CategoryID})
}

// ShowSkills lists one category's skills with usage stats.
func (h *Handler) ShowSkills(w http.ResponseWriter, r *http.Request) {
	categoryID, err := urlParamInt64(r, "category_id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	detail, err := h.Service.CategoryDetail(categoryID)
	if err != nil {
		h.Logger.Error("ShowSkills: service error", "error", err, "category_id", categoryID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	categoryID, err := urlParamInt64(r, "category_id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var dto CreateSkillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateSkill: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateSkill(sess, categoryID, dto)
	if err != nil {
		h.Logger.Error("CreateSkill: service error", "error", err, "category_id", categoryID, "name", dto.Name)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	sess, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto DeleteSkillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DeleteSkill: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	deleted, err := h.Service.DeleteSkill(sess, dto.SkillID)
	if err != nil {
		h.Logger.Error("DeleteSkill: service error", "error", err, "skill_id", dto.SkillID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "deleted",
		"skill_id":    deleted.ID,
		"category_id": deleted.CategoryID,
	})
}

func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/skillz-hq/skillz/internal/transport"
	"github.com/skillz-hq/skillz/pkg/logger"
)

const defaultPageSize = 50

type Handler struct {
	*transport.BaseHandler
	Reader Reader
}

func NewHandler(reader Reader) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Reader:      reader,
	}
}

// List returns the trail newest-first. An actor_id query parameter narrows
// the listing to one user's actions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	offset := queryInt(r, "offset", 0)

	var (
		records []Record
		err     error
	)
	if raw := r.URL.Query().Get("actor_id"); raw != "" {
		actorID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid actor ID")
			return
		}
		records, err = h.Reader.ListByActor(actorID, limit, offset)
	} else {
		records, err = h.Reader.List(limit, offset)
	}
	if err != nil {
		h.Logger.Error("List: failed to load audit trail", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": records,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

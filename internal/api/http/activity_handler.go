package http

import (
	"net/http"
	"strconv"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/service"
)

type ActivityHandler struct {
	activity service.ActivityService
}

func NewActivityHandler(activity service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

type activityListResponse struct {
	Entries []domain.ActivityLogEntry `json:"entries"`
	Total   int32                     `json:"total"`
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	entries, total, err := h.activity.List(r.Context(), actorFrom(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, activityListResponse{Entries: entries, Total: total})
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/service"
)

type ComplaintHandler struct {
	complaints service.ComplaintService
}

func NewComplaintHandler(complaints service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

type createComplaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Location    string                   `json:"location,omitempty"`
	AssetID     string                   `json:"asset_id,omitempty"`
	PhotoURL    string                   `json:"photo_url,omitempty"`
	Priority    domain.ComplaintPriority `json:"priority,omitempty"`
}

func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createComplaintRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	c, err := h.complaints.Create(r.Context(), actorFrom(r), service.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		AssetID:     req.AssetID,
		PhotoURL:    req.PhotoURL,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.complaints.List(r.Context(), actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, complaints)
}

type updateComplaintRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateComplaintRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.complaints.UpdateStatus(r.Context(), actorFrom(r), mux.Vars(r)["id"], req.Status); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

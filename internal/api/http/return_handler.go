package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/service"
)

type ReturnHandler struct {
	returns service.ReturnService
}

func NewReturnHandler(returns service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returns: returns}
}

type returnItemRequest struct {
	Condition domain.AssetCondition `json:"condition"`
	Quantity  int32                 `json:"quantity"`
	Notes     string                `json:"notes,omitempty"`
	PhotoURL  string                `json:"photo_url,omitempty"`
}

type processReturnRequest struct {
	Notes string              `json:"notes,omitempty"`
	Items []returnItemRequest `json:"items"`
}

func (h *ReturnHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processReturnRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	in := service.ProcessReturnInput{
		LoanID: mux.Vars(r)["id"],
		Notes:  req.Notes,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.ReturnItemInput{
			Condition: item.Condition,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
			PhotoURL:  item.PhotoURL,
		})
	}

	ret, err := h.returns.ProcessReturn(r.Context(), actorFrom(r), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, ret)
}

func (h *ReturnHandler) List(w http.ResponseWriter, r *http.Request) {
	rets, err := h.returns.ListReturns(r.Context(), actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rets)
}

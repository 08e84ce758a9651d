package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/service"
)

type LoanHandler struct {
	loans service.LoanService
}

func NewLoanHandler(loans service.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type submitLoanRequest struct {
	AssetID             string    `json:"asset_id"`
	Quantity            int32     `json:"quantity"`
	LoanDate            time.Time `json:"loan_date"`
	EstimatedReturnDate time.Time `json:"estimated_return_date"`
	Purpose             string    `json:"purpose"`
}

func (h *LoanHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitLoanRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	loan, err := h.loans.Submit(r.Context(), actorFrom(r), service.SubmitLoanInput{
		AssetID:             req.AssetID,
		Quantity:            req.Quantity,
		LoanDate:            req.LoanDate,
		EstimatedReturnDate: req.EstimatedReturnDate,
		Purpose:             req.Purpose,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, loan)
}

func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loans.Approve(r.Context(), actorFrom(r), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

type rejectLoanRequest struct {
	Reason string `json:"reason"`
}

func (h *LoanHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectLoanRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	loan, err := h.loans.Reject(r.Context(), actorFrom(r), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loans.Cancel(r.Context(), actorFrom(r), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loans.Get(r.Context(), actorFrom(r), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

// GetByCode serves the return desk lookup: scan a loan ticket, get back
// the outstanding loan or a 404.
func (h *LoanHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loans.GetOutstandingByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.LoanStatus(r.URL.Query().Get("status"))
	loans, err := h.loans.List(r.Context(), actorFrom(r), status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loans)
}

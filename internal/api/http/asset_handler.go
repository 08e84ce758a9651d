package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/service"
)

type AssetHandler struct {
	assets service.AssetService
}

func NewAssetHandler(assets service.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

type createAssetRequest struct {
	Name            string                `json:"name"`
	CategoryID      string                `json:"category_id"`
	LocationID      string                `json:"location_id"`
	TotalUnits      int32                 `json:"total_units"`
	Condition       domain.AssetCondition `json:"condition"`
	AcquisitionDate *time.Time            `json:"acquisition_date,omitempty"`
	PhotoURL        string                `json:"photo_url,omitempty"`
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	asset, err := h.assets.CreateAsset(r.Context(), actorFrom(r), service.CreateAssetInput{
		Name:            req.Name,
		CategoryID:      req.CategoryID,
		LocationID:      req.LocationID,
		TotalUnits:      req.TotalUnits,
		Condition:       req.Condition,
		AcquisitionDate: req.AcquisitionDate,
		PhotoURL:        req.PhotoURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assets.GetAsset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.ListAssets(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, assets)
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var asset domain.Asset
	if err := decodeBody(r, &asset); err != nil {
		respondError(w, err)
		return
	}
	asset.ID = mux.Vars(r)["id"]

	if err := h.assets.UpdateAsset(r.Context(), actorFrom(r), &asset); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.assets.DeleteAsset(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AssetHandler) EffectiveStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.assets.GetEffectiveStock(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (h *AssetHandler) ConditionHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.assets.ListConditionHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (h *AssetHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.assets.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

func (h *AssetHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	cat, err := h.assets.CreateCategory(r.Context(), actorFrom(r), req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cat)
}

type createLocationRequest struct {
	Name    string `json:"name"`
	Floor   string `json:"floor,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

func (h *AssetHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.assets.ListLocations(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, locs)
}

func (h *AssetHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	loc, err := h.assets.CreateLocation(r.Context(), actorFrom(r), req.Name, req.Floor, req.Remarks)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, loc)
}

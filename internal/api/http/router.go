package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"sarpras-backend/internal/security"
	"sarpras-backend/internal/service"
	"sarpras-backend/internal/storage"
)

// Services bundles everything the router wires handlers to.
type Services struct {
	Auth      service.AuthService
	Asset     service.AssetService
	Loan      service.LoanService
	Return    service.ReturnService
	Complaint service.ComplaintService
	Activity  service.ActivityService
}

// NewRouter builds the full API surface. Everything except login and
// health sits behind the JWT middleware.
func NewRouter(svcs Services, tokens security.TokenManager, files storage.StorageInterface, maxFileSizeMB int64) *mux.Router {
	authHandler := NewAuthHandler(svcs.Auth)
	assetHandler := NewAssetHandler(svcs.Asset)
	loanHandler := NewLoanHandler(svcs.Loan)
	returnHandler := NewReturnHandler(svcs.Return)
	complaintHandler := NewComplaintHandler(svcs.Complaint)
	activityHandler := NewActivityHandler(svcs.Activity)
	fileHandler := NewFileHandler(files, maxFileSizeMB)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/files/{key}", fileHandler.Download).Methods("GET")

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))

	authed.HandleFunc("/auth/profile", authHandler.Profile).Methods("GET")
	authed.HandleFunc("/auth/register", authHandler.Register).Methods("POST")

	authed.HandleFunc("/assets", assetHandler.List).Methods("GET")
	authed.HandleFunc("/assets", assetHandler.Create).Methods("POST")
	authed.HandleFunc("/assets/{id}", assetHandler.Get).Methods("GET")
	authed.HandleFunc("/assets/{id}", assetHandler.Update).Methods("PUT")
	authed.HandleFunc("/assets/{id}", assetHandler.Delete).Methods("DELETE")
	authed.HandleFunc("/assets/{id}/stock", assetHandler.EffectiveStock).Methods("GET")
	authed.HandleFunc("/assets/{id}/history", assetHandler.ConditionHistory).Methods("GET")

	authed.HandleFunc("/categories", assetHandler.ListCategories).Methods("GET")
	authed.HandleFunc("/categories", assetHandler.CreateCategory).Methods("POST")
	authed.HandleFunc("/locations", assetHandler.ListLocations).Methods("GET")
	authed.HandleFunc("/locations", assetHandler.CreateLocation).Methods("POST")

	authed.HandleFunc("/loans", loanHandler.List).Methods("GET")
	authed.HandleFunc("/loans", loanHandler.Submit).Methods("POST")
	authed.HandleFunc("/loans/code/{code}", loanHandler.GetByCode).Methods("GET")
	authed.HandleFunc("/loans/{id}", loanHandler.Get).Methods("GET")
	authed.HandleFunc("/loans/{id}/approve", loanHandler.Approve).Methods("POST")
	authed.HandleFunc("/loans/{id}/reject", loanHandler.Reject).Methods("POST")
	authed.HandleFunc("/loans/{id}/cancel", loanHandler.Cancel).Methods("POST")
	authed.HandleFunc("/loans/{id}/return", returnHandler.Process).Methods("POST")

	authed.HandleFunc("/returns", returnHandler.List).Methods("GET")

	authed.HandleFunc("/complaints", complaintHandler.List).Methods("GET")
	authed.HandleFunc("/complaints", complaintHandler.Create).Methods("POST")
	authed.HandleFunc("/complaints/{id}/status", complaintHandler.UpdateStatus).Methods("PUT")

	authed.HandleFunc("/activity", activityHandler.List).Methods("GET")

	authed.HandleFunc("/files", fileHandler.Upload).Methods("POST")

	return r
}

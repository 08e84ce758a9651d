package http

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sarpras-backend/internal/storage"
)

// FileHandler serves photo uploads and downloads backed by the storage
// interface. Uploads get a generated key so clients cannot choose paths.
type FileHandler struct {
	store       storage.StorageInterface
	maxFileSize int64
}

func NewFileHandler(store storage.StorageInterface, maxFileSizeMB int64) *FileHandler {
	return &FileHandler{
		store:       store,
		maxFileSize: maxFileSizeMB << 20,
	}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	default:
		respondJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unsupported content type %q", contentType)})
		return
	}

	key := uuid.NewString() + ext
	url, err := h.store.SaveFile(r.Context(), key, http.MaxBytesReader(w, r.Body, h.maxFileSize))
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to save file"})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"key": key, "url": url})
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	file, err := h.store.ReadFile(r.Context(), key)
	if err != nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "file not found"})
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}

// Package handler provides the HTTP upload and asset-serving boundary for
// the shardstore service.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/shardstore/internal/store"
)

// FileHandler handles file upload, serving, inspection and deletion.
// Identifiers are taken from the URL tail, so they may contain slashes,
// colons and dots.
type FileHandler struct {
	store       *store.Store
	maxBodySize int64
	logger      zerolog.Logger
}

// NewFileHandler creates a new FileHandler. maxBodySize caps upload bodies;
// zero or negative disables the cap.
func NewFileHandler(st *store.Store, maxBodySize int64, logger zerolog.Logger) *FileHandler {
	return &FileHandler{
		store:       st,
		maxBodySize: maxBodySize,
		logger:      logger.With().Str("handler", "file").Logger(),
	}
}

// RegisterRoutes registers file routes.
func (h *FileHandler) RegisterRoutes(r chi.Router) {
	r.Put("/files/*", h.handlePut)
	r.Get("/files/*", h.handleGet)
	r.Delete("/files/*", h.handleDelete)
	r.Get("/meta/*", h.handleInfo)
}

// handlePut saves the request body under the identifier from the URL tail.
func (h *FileHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "*")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "identifier is required")
		return
	}

	body := r.Body
	if h.maxBodySize > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	saved, err := h.store.Save(r.Context(), identifier, body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.logger.Error().Err(err).Str("id", identifier).Msg("save failed")
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// handleGet streams the stored content for the identifier from the URL
// tail. Both raw identifiers and public short identifiers work here, so
// the route doubles as the asset-serving endpoint.
func (h *FileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "*")

	rc, err := h.store.Retrieve(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		h.logger.Error().Err(err).Str("id", identifier).Msg("retrieve failed")
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer rc.Close()

	if mt := store.MimeType(identifier); mt != "" {
		w.Header().Set("Content-Type", mt)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if _, err := io.Copy(w, rc); err != nil {
		// Status already sent; a log line is all that is left.
		h.logger.Warn().Err(err).Str("id", identifier).Msg("response copy aborted")
	}
}

// handleDelete removes the stored content. Deletion is idempotent, so a
// missing file still yields 204.
func (h *FileHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "*")

	if err := h.store.Remove(r.Context(), identifier); err != nil {
		h.logger.Error().Err(err).Str("id", identifier).Msg("remove failed")
		writeError(w, http.StatusInternalServerError, "failed to remove file")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInfo reports best-effort metadata. A never-stored identifier still
// yields 200 with the size and MIME fields omitted.
func (h *FileHandler) handleInfo(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "*")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "identifier is required")
		return
	}
	writeJSON(w, http.StatusOK, h.store.Info(r.Context(), identifier))
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"activities-be/internal/container"
	"activities-be/internal/render"
	"activities-be/pkg/errors"
)

// EmbedHandler serves the anonymous embedding surfaces: the JSON resolution
// endpoint the script adapter fetches, and the self-contained HTML document
// for iframe embeds.
type EmbedHandler struct {
	container *container.Container
}

// NewEmbedHandler creates a new embed handler
func NewEmbedHandler(container *container.Container) *EmbedHandler {
	return &EmbedHandler{
		container: container,
	}
}

// GetActivity handles GET /api/embed/{slug}
func (h *EmbedHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	slug := chi.URLParam(r, "slug")

	act, err := h.container.GetActivityService().ResolveForEmbed(r.Context(), slug)
	if err != nil {
		if errors.IsNotFound(err) {
			writeErrorResponse(w, errors.NewNotFoundError("activity not found", map[string]interface{}{"slug": slug}), logger)
			return
		}
		logger.WithError(err).WithField("slug", slug).Error("Failed to resolve embed activity")
		writeErrorResponse(w, errors.NewInternalError("failed to resolve activity", err), logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	if err := json.NewEncoder(w).Encode(act); err != nil {
		logger.WithError(err).Error("Failed to encode embed activity response")
	}
}

// RenderDocument handles GET /api/embed/{slug}/render. It always answers with
// a complete HTML document; error states render as documents too so iframes
// never show a bare status page.
func (h *EmbedHandler) RenderDocument(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	slug := chi.URLParam(r, "slug")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Documents embed activity content, never viewer state.
	w.Header().Set("Cache-Control", "public, max-age=60")

	act, err := h.container.GetActivityService().ResolveForEmbed(r.Context(), slug)
	if err != nil {
		if errors.IsNotFound(err) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(render.NotFoundDocument(slug)))
			return
		}
		logger.WithError(err).WithField("slug", slug).Error("Failed to render embed document")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(render.ErrorDocument()))
		return
	}

	w.Write([]byte(render.Document(act)))
}

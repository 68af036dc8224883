package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vendora/internal/service"
	"vendora/internal/storage/objectkey"
)

// MediaHandler serves stored objects over the stable public path.
type MediaHandler struct {
	storage service.StorageService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(storage service.StorageService) *MediaHandler {
	return &MediaHandler{storage: storage}
}

// Serve handles GET /files/*key
//
// Streams the object with its resolved content type. Published images are
// immutable under their key, so clients may cache aggressively.
func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		RespondError(c, http.StatusBadRequest, "INVALID_KEY", "invalid object key")
		return
	}

	obj, err := h.storage.Download(c.Request.Context(), key)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

// RedirectTemp handles GET /temp/:id/:filename
//
// Legacy short-lived upload links redirect permanently to the stable
// public path for the same object.
func (h *MediaHandler) RedirectTemp(c *gin.Context) {
	id := c.Param("id")
	filename := c.Param("filename")
	if id == "" || filename == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_KEY", "invalid temp path")
		return
	}

	key := objectkey.TempKey(id, filename)
	c.Redirect(http.StatusMovedPermanently, h.storage.URL(key))
}

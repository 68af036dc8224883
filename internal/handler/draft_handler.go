package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendora/internal/service"
)

// DraftHandler handles product draft endpoints.
type DraftHandler struct {
	draftService service.DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// Create handles POST /api/v1/drafts
func (h *DraftHandler) Create(c *gin.Context) {
	var input service.CreateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	draft, err := h.draftService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, draft)
}

// GetByID handles GET /api/v1/drafts/:id
func (h *DraftHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	draft, err := h.draftService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, draft)
}

// ListBySupplier handles GET /api/v1/suppliers/:id/drafts
func (h *DraftHandler) ListBySupplier(c *gin.Context) {
	supplierID, ok := parseID(c, "id")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	drafts, total, err := h.draftService.ListBySupplier(c.Request.Context(), supplierID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, drafts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/drafts/:id
func (h *DraftHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.UpdateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	draft, err := h.draftService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, draft)
}

// UploadImages handles POST /api/v1/drafts/:id/images
//
// Accepts a multipart form with one or more "images" parts. The response
// reports per-file outcomes; a batch with failures still returns 200.
func (h *DraftHandler) UploadImages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form required")
		return
	}
	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "at least one images part is required")
		return
	}

	var uploads []service.DraftImageUpload
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "cannot open "+header.Filename)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "cannot read "+header.Filename)
			return
		}
		uploads = append(uploads, service.DraftImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	results, err := h.draftService.UploadImages(c.Request.Context(), id, uploads)
	if err != nil {
		if len(results) > 0 {
			// Partial state: objects stored but key tracking failed.
			log.Printf("draftHandler.UploadImages: draft %d: %v", id, err)
			RespondError(c, http.StatusInternalServerError, "TRACKING_FAILED", "images stored but not recorded; retry the upload")
			return
		}
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}

// Publish handles POST /api/v1/drafts/:id/publish
func (h *DraftHandler) Publish(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.draftService.Publish(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, product)
}

// Discard handles POST /api/v1/drafts/:id/discard
func (h *DraftHandler) Discard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.draftService.Discard(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"discarded": id})
}

// CleanupOrphans handles POST /api/v1/admin/storage/cleanup
func (h *DraftHandler) CleanupOrphans(c *gin.Context) {
	removed, err := h.draftService.CleanupOrphans(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": removed})
}

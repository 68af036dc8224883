package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vendora/internal/service"
)

// CatalogHandler handles supplier, catalog, and category endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var input service.CreateSupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	supplier, err := h.catalogService.CreateSupplier(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, supplier)
}

// GetSupplier handles GET /api/v1/suppliers/:id
func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.catalogService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, supplier)
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	offset, limit := parsePagination(c)

	suppliers, total, err := h.catalogService.ListSuppliers(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, suppliers, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// UpdateSupplier handles PUT /api/v1/suppliers/:id
func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	supplier, err := h.catalogService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.Email != nil {
		supplier.Email = *input.Email
	}
	if input.Phone != nil {
		supplier.Phone = *input.Phone
	}
	if input.IsActive != nil {
		supplier.IsActive = *input.IsActive
	}

	if err := h.catalogService.UpdateSupplier(c.Request.Context(), supplier); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, supplier)
}

// DeleteSupplier handles DELETE /api/v1/suppliers/:id
func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteSupplier(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// CreateCatalog handles POST /api/v1/catalogs
func (h *CatalogHandler) CreateCatalog(c *gin.Context) {
	var input service.CreateCatalogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	catalog, err := h.catalogService.CreateCatalog(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, catalog)
}

// ListCatalogs handles GET /api/v1/suppliers/:id/catalogs
func (h *CatalogHandler) ListCatalogs(c *gin.Context) {
	supplierID, ok := parseID(c, "id")
	if !ok {
		return
	}

	catalogs, err := h.catalogService.ListCatalogs(c.Request.Context(), supplierID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, catalogs)
}

// DeleteCatalog handles DELETE /api/v1/catalogs/:id
func (h *CatalogHandler) DeleteCatalog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCatalog(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// CreateCategory handles POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var input service.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, category)
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, categories)
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// parseID reads a numeric path parameter; on failure it writes a 400 response
// and returns ok=false.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vendora/internal/service"
)

// ProductHandler handles product browsing and management endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	if categoryStr := c.Query("category_id"); categoryStr != "" {
		h.listByCategory(c, categoryStr, offset, limit)
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, products, PagMeta{Total: total, Offset: offset, Limit: limit})
}

func (h *ProductHandler) listByCategory(c *gin.Context, categoryStr string, offset, limit int) {
	categoryID, ok := parseQueryID(c, categoryStr)
	if !ok {
		return
	}
	products, total, err := h.productService.ListByCategory(c.Request.Context(), categoryID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, products, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, product)
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	existing, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		PriceCents  *int64  `json:"price_cents"`
		CategoryID  *int64  `json:"category_id"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	product := existing.Product
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := h.productService.Update(c.Request.Context(), &product); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, product)
}

// SetMainImage handles PUT /api/v1/products/:id/images/:imageID/main
func (h *ProductHandler) SetMainImage(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageID")
	if !ok {
		return
	}

	if err := h.productService.SetMainImage(c.Request.Context(), productID, imageID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"main_image": imageID})
}

// DeleteImage handles DELETE /api/v1/products/:id/images/:imageID
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	imageID, ok := parseID(c, "imageID")
	if !ok {
		return
	}

	if err := h.productService.DeleteImage(c.Request.Context(), imageID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": imageID})
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func parseQueryID(c *gin.Context, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid category_id parameter")
		return 0, false
	}
	return id, true
}

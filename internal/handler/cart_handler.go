package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendora/internal/middleware"
	"vendora/internal/service"
)

// CartHandler handles shopping cart endpoints.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cart)
}

// AddItem handles PUT /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var input struct {
		ProductID int64 `json:"product_id" binding:"required"`
		Quantity  int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, input.ProductID, input.Quantity)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/:productID
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}
	productID, ok := parseID(c, "productID")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cart)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"cleared": true})
}

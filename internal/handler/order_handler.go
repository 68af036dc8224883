package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vendora/internal/domain"
	"vendora/internal/export"
	"vendora/internal/middleware"
	"vendora/internal/service"
)

// OrderHandler handles checkout and order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout handles POST /api/v1/orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, order)
}

// GetByID handles GET /api/v1/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Customers can only see their own orders.
	if middleware.GetRole(c) != string(domain.RoleAdmin) && order.UserID != userID {
		RespondError(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}
	RespondOK(c, order)
}

// ListMine handles GET /api/v1/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}
	offset, limit := parsePagination(c)

	orders, total, err := h.orderService.ListByUser(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListAll handles GET /api/v1/admin/orders
func (h *OrderHandler) ListAll(c *gin.Context) {
	offset, limit := parsePagination(c)

	orders, total, err := h.orderService.ListAll(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// UpdateStatus handles PUT /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.orderService.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(input.Status)); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id, "status": input.Status})
}

// Export handles GET /api/v1/admin/orders/export
//
// Streams every order as an XLSX workbook. Pagination is deliberately
// bypassed: exports are an admin convenience, not a hot path.
func (h *OrderHandler) Export(c *gin.Context) {
	var all []domain.Order
	offset := 0
	const page = 500
	for {
		orders, total, err := h.orderService.ListAll(c.Request.Context(), offset, page)
		if err != nil {
			HandleError(c, err)
			return
		}
		all = append(all, orders...)
		offset += len(orders)
		if len(orders) == 0 || offset >= total {
			break
		}
	}

	data, err := export.OrdersXLSX(all)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

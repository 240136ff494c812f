package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/auth"
	"github.com/sibarmoto/motoparts-backend/internal/cart"
	"github.com/sibarmoto/motoparts-backend/internal/catalog"
	"github.com/sibarmoto/motoparts-backend/internal/inventory"
	"github.com/sibarmoto/motoparts-backend/internal/user"
)

type orderHandler struct {
	log          *logrus.Entry
	orderService OrderService
	identity     *auth.IdentityAdapter
}

func NewHandler(orderService OrderService, log *logrus.Entry, identity *auth.IdentityAdapter) *orderHandler {
	return &orderHandler{
		log:          log,
		orderService: orderService,
		identity:     identity,
	}
}

func (h *orderHandler) Register(router *gin.Engine) {
	group := router.Group("/api/orders", auth.Authenticate(h.identity))
	{
		group.POST("/create", auth.RequireVerified(), h.createOrder)
		group.GET("", h.listOrders)
		group.GET("/:id", h.getOrder)
		group.GET("/:id/track", h.trackOrder)
		group.PUT("/:id/cancel", h.cancelOrder)
	}

	admin := router.Group("/api/admin/orders", auth.Authenticate(h.identity), auth.RequireAdmin())
	{
		admin.PUT("/:id/status", h.updateStatus)
	}
}

type createOrderRequest struct {
	ShippingAddressID string `json:"shipping_address_id" binding:"required,uuid"`
	PaymentMethod     string `json:"payment_method" binding:"required"`
	Notes             string `json:"notes"`
}

type updateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

func (h *orderHandler) createOrder(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	method := PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid payment method is required"})
		return
	}

	created, err := h.orderService.CreateOrder(principal.ID, req.ShippingAddressID, method, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "order created successfully",
		"order": gin.H{
			"id":             created.Order.ID,
			"order_number":   created.Order.OrderNumber,
			"status":         created.Order.Status,
			"subtotal":       created.Subtotal,
			"shipping_cost":  created.Order.ShippingCost,
			"total_amount":   created.Order.TotalAmount,
			"payment_status": created.Order.PaymentState,
			"created_at":     created.Order.CreatedAt,
		},
		"payment": gin.H{
			"id":     created.Payment.ID,
			"method": created.Payment.Method,
			"amount": created.Payment.Amount,
			"status": created.Payment.Status,
		},
	})
}

func (h *orderHandler) listOrders(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := OrderStatus(c.Query("status"))

	orders, pagination, err := h.orderService.ListOrders(principal.ID, status, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": pagination,
	})
}

func (h *orderHandler) getOrder(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	detail, err := h.orderService.GetOrder(c.Param("id"), principal.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *orderHandler) trackOrder(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	tracking, err := h.orderService.TrackOrder(c.Param("id"), principal.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tracking)
}

func (h *orderHandler) cancelOrder(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	if err := h.orderService.CancelOrder(c.Param("id"), principal.ID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order cancelled successfully"})
}

func (h *orderHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.orderService.UpdateStatus(c.Param("id"), OrderStatus(req.Status), req.TrackingNumber)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order status updated successfully"})
}

func (h *orderHandler) respondError(c *gin.Context, err error) {
	var stockErr *inventory.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              "insufficient stock",
			"message":            stockErr.Error(),
			"available_quantity": stockErr.Available,
		})
	case errors.Is(err, cart.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrOrderAlreadyCancelled),
		errors.Is(err, ErrOrderNotCancellable),
		errors.Is(err, ErrInvalidStateTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, user.ErrAddressNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Errorf("order request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/auth"
	"github.com/sibarmoto/motoparts-backend/internal/order"
)

type paymentHandler struct {
	log            *logrus.Entry
	paymentService PaymentService
	identity       *auth.IdentityAdapter
}

func NewHandler(paymentService PaymentService, log *logrus.Entry, identity *auth.IdentityAdapter) *paymentHandler {
	return &paymentHandler{
		log:            log,
		paymentService: paymentService,
		identity:       identity,
	}
}

func (h *paymentHandler) Register(router *gin.Engine) {
	group := router.Group("/api/payments")
	{
		group.GET("/methods", h.methods)
		group.POST("/process", auth.Authenticate(h.identity), auth.RequireVerified(), h.process)
		group.GET("/history", auth.Authenticate(h.identity), h.history)
		group.POST("/refund", auth.Authenticate(h.identity), auth.RequireAdmin(), h.refund)
	}
}

type processRequest struct {
	OrderID       string `json:"order_id" binding:"required,uuid"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	PaymentData   Data   `json:"payment_data"`
}

type refundRequest struct {
	PaymentID string  `json:"payment_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"omitempty,gt=0"`
	Reason    string  `json:"reason"`
}

func (h *paymentHandler) process(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	method := order.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidMethod.Error()})
		return
	}

	result, err := h.paymentService.Process(req.OrderID, principal.ID, principal.MembershipType, method, req.PaymentData)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "payment processed",
		"payment": gin.H{
			"id":             result.Payment.ID,
			"method":         result.Payment.Method,
			"amount":         result.Payment.Amount,
			"status":         result.Payment.Status,
			"transaction_id": result.Payment.TransactionID,
		},
		"order": gin.H{
			"id":             req.OrderID,
			"status":         result.OrderStatus,
			"payment_status": result.OrderState,
		},
	})
}

func (h *paymentHandler) refund(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.paymentService.RefundPayment(req.PaymentID, req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "refund processed",
		"refund":  result,
	})
}

func (h *paymentHandler) methods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payment_methods": h.paymentService.Methods()})
}

func (h *paymentHandler) history(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := order.PaymentStatus(c.Query("status"))

	payments, pagination, err := h.paymentService.History(principal.ID, status, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": pagination,
	})
}

func (h *paymentHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFoundOrPaid), errors.Is(err, ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidMethod),
		errors.Is(err, ErrRefundNotAllowed),
		errors.Is(err, ErrRefundNotSupported),
		errors.Is(err, ErrRefundTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrGatewayRefund):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.log.Errorf("payment request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

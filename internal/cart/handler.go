package cart

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/auth"
	"github.com/sibarmoto/motoparts-backend/internal/catalog"
	"github.com/sibarmoto/motoparts-backend/internal/inventory"
)

type CartLogHook struct{}

func (h *CartLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Cart: " + entry.Message
	return nil
}

func (h *CartLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

type cartHandler struct {
	log         *logrus.Entry
	cartService CartService
	identity    *auth.IdentityAdapter
}

func NewHandler(cartService CartService, log *logrus.Entry, identity *auth.IdentityAdapter) *cartHandler {
	return &cartHandler{
		log:         log,
		cartService: cartService,
		identity:    identity,
	}
}

func (h *cartHandler) Register(router *gin.Engine) {
	group := router.Group("/api/cart", auth.Authenticate(h.identity))
	{
		group.GET("", h.getCart)
		group.GET("/checkout-summary", auth.RequireVerified(), h.checkoutSummary)
		group.POST("/add", auth.RequireVerified(), h.addItem)
		group.PUT("/update/:id", auth.RequireVerified(), h.updateItem)
		group.DELETE("/remove/:id", h.removeItem)
		group.DELETE("/clear", h.clear)
	}
}

type addItemRequest struct {
	ProductType string `json:"product_type" binding:"required"`
	ProductID   string `json:"product_id" binding:"required,uuid"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *cartHandler) getCart(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	view, err := h.cartService.GetCart(principal.ID, principal.MembershipType)
	if err != nil {
		h.log.Errorf("get cart failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *cartHandler) checkoutSummary(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	view, err := h.cartService.CheckoutSummary(principal.ID, principal.MembershipType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *cartHandler) addItem(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	productType := catalog.ProductType(req.ProductType)
	if !productType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product type must be either \"part\" or \"merch\""})
		return
	}

	quantity, err := h.cartService.AddItem(principal.ID, productType, req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "item added to cart",
		"quantity": quantity,
	})
}

func (h *cartHandler) updateItem(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.cartService.UpdateItem(principal.ID, c.Param("id"), req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "cart item updated",
		"quantity": req.Quantity,
	})
}

func (h *cartHandler) removeItem(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	if err := h.cartService.RemoveItem(principal.ID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
}

func (h *cartHandler) clear(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	if err := h.cartService.Clear(principal.ID); err != nil {
		h.log.Errorf("clear cart failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (h *cartHandler) respondError(c *gin.Context, err error) {
	var stockErr *inventory.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              "insufficient stock",
			"message":            stockErr.Error(),
			"available_quantity": stockErr.Available,
		})
	case errors.Is(err, ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrCartItemNotFound), errors.Is(err, catalog.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Errorf("cart request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

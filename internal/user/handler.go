package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sibarmoto/motoparts-backend/internal/auth"
)

type userHandler struct {
	log         *logrus.Entry
	userService UserService
	identity    *auth.IdentityAdapter
}

func NewHandler(userService UserService, log *logrus.Entry, identity *auth.IdentityAdapter) *userHandler {
	return &userHandler{
		log:         log,
		userService: userService,
		identity:    identity,
	}
}

func (h *userHandler) Register(router *gin.Engine) {
	group := router.Group("/api/users", auth.Authenticate(h.identity))
	{
		group.GET("/profile", h.profile)
		group.POST("/membership/upgrade", h.upgradeMembership)
		group.GET("/addresses", h.listAddresses)
		group.POST("/addresses", auth.RequireVerified(), h.createAddress)
		group.PUT("/addresses/:id", h.updateAddress)
		group.DELETE("/addresses/:id", h.deleteAddress)
	}
}

type addressRequest struct {
	Label      string `json:"label" binding:"required"`
	Country    string `json:"country" binding:"required"`
	City       string `json:"city" binding:"required"`
	Street     string `json:"street" binding:"required"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `json:"is_default"`
}

func (h *userHandler) profile(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	profile, err := h.userService.GetProfile(principal.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *userHandler) upgradeMembership(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	tier, err := h.userService.UpgradeMembership(principal.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if tier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not enough points to upgrade"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "membership upgraded",
		"membership_type": tier,
	})
}

func (h *userHandler) listAddresses(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	addresses, err := h.userService.ListAddresses(principal.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (h *userHandler) createAddress(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address := &Address{
		UserID:     principal.ID,
		Label:      req.Label,
		Country:    req.Country,
		City:       req.City,
		Street:     req.Street,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}

	if err := h.userService.CreateAddress(address); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "address created",
		"address": address,
	})
}

func (h *userHandler) updateAddress(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address := &Address{
		ID:         c.Param("id"),
		UserID:     principal.ID,
		Label:      req.Label,
		Country:    req.Country,
		City:       req.City,
		Street:     req.Street,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}

	if err := h.userService.UpdateAddress(address); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "address updated"})
}

func (h *userHandler) deleteAddress(c *gin.Context) {
	principal := auth.GetPrincipal(c)

	if err := h.userService.DeleteAddress(c.Param("id"), principal.ID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
}

func (h *userHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrAddressNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Errorf("user request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

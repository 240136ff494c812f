package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type catalogHandler struct {
	log      *logrus.Entry
	resolver *Resolver
}

func NewHandler(resolver *Resolver, log *logrus.Entry) *catalogHandler {
	return &catalogHandler{
		log:      log,
		resolver: resolver,
	}
}

func (h *catalogHandler) Register(router *gin.Engine) {
	group := router.Group("/api/catalog")
	{
		group.GET("/parts/:id", h.getPart)
		group.GET("/merch/:id", h.getMerch)
	}
}

func (h *catalogHandler) getPart(c *gin.Context) {
	h.getProduct(c, ProductTypePart)
}

func (h *catalogHandler) getMerch(c *gin.Context) {
	h.getProduct(c, ProductTypeMerch)
}

func (h *catalogHandler) getProduct(c *gin.Context, productType ProductType) {
	info, err := h.resolver.Resolve(productType, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("resolve %s failed: %v", productType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": info})
}

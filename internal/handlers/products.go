package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saveit/shopping-service/internal/equivalency"
)

// ProductsHandler handles product comparison endpoints.
type ProductsHandler struct {
	checker *equivalency.Checker
	logger  zerolog.Logger
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(checker *equivalency.Checker) *ProductsHandler {
	return &ProductsHandler{
		checker: checker,
		logger:  log.With().Str("component", "products_handler").Logger(),
	}
}

// EquivalencyRequest represents a product equivalency check request.
type EquivalencyRequest struct {
	Product1 equivalency.Product `json:"product1" binding:"required"`
	Product2 equivalency.Product `json:"product2" binding:"required"`
}

// CheckEquivalency decides whether two differently named products are the
// same thing.
// POST /api/products/equivalency
func (h *ProductsHandler) CheckEquivalency(c *gin.Context) {
	var req EquivalencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product1 and product2 are required"})
		return
	}

	result, err := h.checker.Check(c.Request.Context(), req.Product1, req.Product2)
	if err != nil {
		h.logger.Error().Err(err).Msg("equivalency check failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Equivalency check failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saveit/shopping-service/internal/cart"
	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/savings"
	"github.com/saveit/shopping-service/internal/selector"
)

// CartHandler handles cart aggregation and savings endpoints.
type CartHandler struct {
	advisor *savings.Advisor
	costs   platform.CostTable
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(advisor *savings.Advisor, costs platform.CostTable) *CartHandler {
	return &CartHandler{
		advisor: advisor,
		costs:   costs,
		logger:  log.With().Str("component", "cart_handler").Logger(),
	}
}

// BuildCartRequest represents a cart aggregation request. Platforms are
// optional; when given, each one gets a bucket even if empty.
type BuildCartRequest struct {
	Products  []selector.Selected `json:"products" binding:"required"`
	Platforms []string            `json:"platforms"`
}

// BuildCart groups the given products by platform and determines the best
// platform. Pure aggregation, no LLM or network.
// POST /api/cart
func (h *CartHandler) BuildCart(c *gin.Context) {
	var req BuildCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "products are required"})
		return
	}

	platforms := classifyAll(req.Platforms)
	if len(platforms) == 0 {
		platforms = platform.All()
	}

	result := cart.Build(req.Products, platforms)
	c.JSON(http.StatusOK, buildCartResponse(result, h.costs))
}

// SavingsRequest represents a savings suggestion request.
type SavingsRequest struct {
	Items []savings.CartItem `json:"cartItems" binding:"required,dive"`
}

// Savings returns actionable money-saving suggestions for the cart. LLM
// problems degrade to an empty suggestion list.
// POST /api/cart/savings
func (h *CartHandler) Savings(c *gin.Context) {
	var req SavingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cartItems are required"})
		return
	}

	suggestions := h.advisor.Suggest(c.Request.Context(), req.Items)
	if suggestions == nil {
		suggestions = []savings.Suggestion{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

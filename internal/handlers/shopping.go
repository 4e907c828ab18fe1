// Package handlers exposes the shopping pipeline over HTTP.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saveit/shopping-service/internal/cart"
	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
	"github.com/saveit/shopping-service/internal/shopping"
)

// ShoppingHandler handles the recipe and price-search endpoints.
type ShoppingHandler struct {
	orchestrator *shopping.Orchestrator
	finder       shopping.RecipeFinder
	costs        platform.CostTable
	logger       zerolog.Logger
}

// NewShoppingHandler creates a new shopping handler.
func NewShoppingHandler(orch *shopping.Orchestrator, finder shopping.RecipeFinder, costs platform.CostTable) *ShoppingHandler {
	return &ShoppingHandler{
		orchestrator: orch,
		finder:       finder,
		costs:        costs,
		logger:       log.With().Str("component", "shopping_handler").Logger(),
	}
}

// FindIngredientsRequest represents a recipe discovery request.
type FindIngredientsRequest struct {
	RecipeName string `json:"recipeName" binding:"required"`
}

// FindIngredientsResponse represents the discovered ingredient list.
type FindIngredientsResponse struct {
	RecipeName  string              `json:"recipeName"`
	Ingredients []recipe.Ingredient `json:"ingredients"`
	Message     string              `json:"message"`
}

// FindIngredients resolves a recipe name into its ingredient list.
// POST /api/recipe/ingredients
func (h *ShoppingHandler) FindIngredients(c *gin.Context) {
	var req FindIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipeName is required"})
		return
	}

	rec, message, err := h.finder.FindIngredients(c.Request.Context(), req.RecipeName)
	if err != nil {
		h.logger.Error().Err(err).Str("recipe", req.RecipeName).Msg("recipe discovery failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not determine ingredients for this recipe"})
		return
	}

	c.JSON(http.StatusOK, FindIngredientsResponse{
		RecipeName:  rec.Name,
		Ingredients: rec.Ingredients,
		Message:     message,
	})
}

// SearchPricesRequest represents a price search request. Platforms are
// optional; names are classified, so "swiggy" and "Swiggy Instamart" both
// work.
type SearchPricesRequest struct {
	Ingredients []recipe.Ingredient `json:"ingredients" binding:"required,dive"`
	Platforms   []string            `json:"platforms"`
}

// SearchPrices searches every ingredient across the requested platforms.
// POST /api/prices/search
func (h *ShoppingHandler) SearchPrices(c *gin.Context) {
	var req SearchPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients are required"})
		return
	}

	platforms := classifyAll(req.Platforms)
	result, err := h.orchestrator.SearchIngredientPrices(c.Request.Context(), req.Ingredients, platforms)
	if err != nil {
		h.logger.Error().Err(err).Int("ingredients", len(req.Ingredients)).Msg("price search failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Price search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ShopRequest represents the end-to-end recipe shopping request.
type ShopRequest struct {
	RecipeName string `json:"recipeName" binding:"required"`
}

// Shop runs the whole flow: ingredient discovery, price search across all
// platforms, cart build. Failures degrade to an empty cart with an
// explanatory message, never an error status.
// POST /api/recipe/shop
func (h *ShoppingHandler) Shop(c *gin.Context) {
	var req ShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipeName is required"})
		return
	}

	result, err := h.orchestrator.Shop(c.Request.Context(), req.RecipeName)
	if err != nil {
		h.logger.Error().Err(err).Str("recipe", req.RecipeName).Msg("shop flow failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Shopping flow failed"})
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(result, h.costs))
}

// PlatformInfo describes one supported platform and its fee schedule.
type PlatformInfo struct {
	Name          string             `json:"name"`
	DeliveryFee   float64            `json:"deliveryFee"`
	PlatformFee   float64            `json:"platformFee"`
	MinOrderValue float64            `json:"minOrderValue"`
	Discount      *platform.Discount `json:"discount,omitempty"`
}

// ListPlatforms returns the supported platforms with their fee schedules.
// GET /api/platforms
func (h *ShoppingHandler) ListPlatforms(c *gin.Context) {
	platforms := platform.All()
	infos := make([]PlatformInfo, 0, len(platforms))
	for _, p := range platforms {
		details := h.costs.Lookup(p)
		infos = append(infos, PlatformInfo{
			Name:          string(p),
			DeliveryFee:   details.DeliveryFee,
			PlatformFee:   details.PlatformFee,
			MinOrderValue: details.MinOrderValue,
			Discount:      details.Discount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"platforms": infos})
}

// classifyAll maps raw platform names onto canonical platforms, dropping
// blanks. An empty result lets the orchestrator apply its default set.
func classifyAll(names []string) []platform.Platform {
	var platforms []platform.Platform
	seen := make(map[platform.Platform]bool, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		p := platform.Classify(name)
		if !seen[p] {
			seen[p] = true
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// buildCartResponse pairs a cart with the fee-inclusive cost per platform.
func buildCartResponse(c cart.Cart, costs platform.CostTable) gin.H {
	effective := make([]cart.EffectiveCost, 0, len(c.Items))
	for _, p := range platform.All() {
		if _, ok := c.Items[p]; ok {
			effective = append(effective, c.EffectiveCostFor(p, costs))
		}
	}
	return gin.H{
		"cart":            c.Items,
		"totalByPlatform": c.TotalByPlatform,
		"bestPlatform":    c.BestPlatform,
		"message":         c.Message,
		"effectiveCosts":  effective,
	}
}

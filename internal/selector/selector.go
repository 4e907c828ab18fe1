// Package selector picks the single best product for one ingredient on one
// platform, asking the LLM to rank candidates and falling back to the first
// available candidate when the LLM cannot help.
package selector

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
	"github.com/saveit/shopping-service/internal/search"
)

// Candidate is one purchasable product presented to the picker.
type Candidate struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand,omitempty"`
	Quantity string  `json:"quantity,omitempty"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	URL      string  `json:"url,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
}

// Pick is the picker's choice among the candidates.
type Pick struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Brand    string  `json:"brand,omitempty"`
	Quantity string  `json:"quantity,omitempty"`
	Image    string  `json:"image,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Reason   string  `json:"reason"`
}

// ProductPicker ranks candidates for an ingredient and returns one pick.
// Implementations may fail; the Selector owns the fallback policy.
type ProductPicker interface {
	PickBest(ctx context.Context, ingredient, requiredQuantity string, p platform.Platform, candidates []Candidate) (Pick, error)
}

// Selected is the final product chosen for one (ingredient, platform) pair,
// enriched with the platform's static cost details.
type Selected struct {
	Name             string            `json:"name"`
	Platform         platform.Platform `json:"platform"`
	Price            float64           `json:"price"`
	Brand            string            `json:"brand,omitempty"`
	Quantity         string            `json:"quantity,omitempty"`
	Image            string            `json:"image,omitempty"`
	URL              string            `json:"url,omitempty"`
	Rating           float64           `json:"rating,omitempty"`
	OriginalQuantity string            `json:"originalQuantity"`
	DeliveryFee      float64           `json:"deliveryFee"`
	PlatformFee      float64           `json:"platformFee"`
	MinOrderValue    float64           `json:"minOrderValue"`
}

// Selector chooses the best product per (ingredient, platform) pair.
type Selector struct {
	picker ProductPicker
	costs  platform.CostTable
	logger zerolog.Logger
}

// New creates a selector. The cost table is injected so tests can supply
// alternate fee schedules.
func New(picker ProductPicker, costs platform.CostTable) *Selector {
	return &Selector{
		picker: picker,
		costs:  costs,
		logger: log.With().Str("component", "selector").Logger(),
	}
}

// SelectBest picks the best available product for the ingredient on the
// platform. The second return value is false when no candidate is available,
// in which case the (ingredient, platform) pair is skipped entirely.
// SelectBest never fails: if the picker errors, the first available
// candidate is used.
func (s *Selector) SelectBest(ctx context.Context, ing recipe.Ingredient, p platform.Platform, products []search.RawProduct) (Selected, bool) {
	candidates := make([]Candidate, 0, len(products))
	for _, product := range products {
		if !product.IsAvailable() {
			continue
		}
		candidates = append(candidates, Candidate{
			Name:     product.Name,
			Brand:    product.Brand,
			Quantity: product.Quantity,
			Price:    product.BestPrice(),
			Image:    product.ImageURL(),
			URL:      product.Link(),
			Rating:   product.Rating,
		})
	}
	if len(candidates) == 0 {
		return Selected{}, false
	}

	pick, err := s.picker.PickBest(ctx, ing.Name, ing.Quantity, p, candidates)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("ingredient", ing.Name).
			Str("platform", string(p)).
			Msg("picker failed, falling back to first candidate")
		pick = fallbackPick(candidates[0])
	}

	costs := s.costs.Lookup(p)
	return Selected{
		Name:             pick.Name,
		Platform:         p,
		Price:            pick.Price,
		Brand:            pick.Brand,
		Quantity:         pick.Quantity,
		Image:            pick.Image,
		URL:              candidateURL(candidates, pick.Name),
		Rating:           pick.Rating,
		OriginalQuantity: ing.Quantity,
		DeliveryFee:      costs.DeliveryFee,
		PlatformFee:      costs.PlatformFee,
		MinOrderValue:    costs.MinOrderValue,
	}, true
}

// candidateURL finds the product link for the picked name. The picker only
// echoes descriptive fields, so the link comes from the original candidate.
func candidateURL(candidates []Candidate, name string) string {
	for _, c := range candidates {
		if c.Name == name {
			return c.URL
		}
	}
	return candidates[0].URL
}

// fallbackPick converts the first available candidate into a pick.
func fallbackPick(c Candidate) Pick {
	return Pick{
		Name:     c.Name,
		Price:    c.Price,
		Brand:    c.Brand,
		Quantity: c.Quantity,
		Image:    c.Image,
		Rating:   c.Rating,
		Reason:   "first available product (automatic fallback)",
	}
}

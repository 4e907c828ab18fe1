package selector

import (
	"context"
	"fmt"
	"strings"

	"github.com/saveit/shopping-service/internal/llm"
	"github.com/saveit/shopping-service/internal/platform"
)

// LLMPicker ranks candidates with the LLM. Ranking priority, in order:
// name match, quantity closeness, price, brand reputation, rating.
type LLMPicker struct {
	llm *llm.Client
}

// NewLLMPicker creates an LLM-backed picker.
func NewLLMPicker(client *llm.Client) *LLMPicker {
	return &LLMPicker{llm: client}
}

type pickReply struct {
	SelectedProduct struct {
		Name     string  `json:"name"`
		Platform string  `json:"platform"`
		Price    float64 `json:"price"`
		Brand    string  `json:"brand,omitempty"`
		Quantity string  `json:"quantity,omitempty"`
		Image    string  `json:"image,omitempty"`
		Rating   float64 `json:"rating,omitempty"`
		Reason   string  `json:"reason"`
	} `json:"selectedProduct"`
}

// PickBest implements ProductPicker.
func (p *LLMPicker) PickBest(ctx context.Context, ingredient, requiredQuantity string, plat platform.Platform, candidates []Candidate) (Pick, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are an expert shopping assistant helping to select the best product for a recipe ingredient.

Ingredient needed: %s
Required quantity: %s
Platform: %s

Available products:
`, ingredient, requiredQuantity, plat)

	for _, c := range candidates {
		fmt.Fprintf(&sb, "- Name: %s\n  Price: ₹%.2f\n", c.Name, c.Price)
		if c.Brand != "" {
			fmt.Fprintf(&sb, "  Brand: %s\n", c.Brand)
		}
		if c.Quantity != "" {
			fmt.Fprintf(&sb, "  Quantity: %s\n", c.Quantity)
		}
		if c.Rating > 0 {
			fmt.Fprintf(&sb, "  Rating: %.1f/5\n", c.Rating)
		}
	}

	sb.WriteString(`
Please select the best product based on:
1. Match with the required ingredient
2. Appropriate quantity (closest to required)
3. Price (good value)
4. Brand reputation (if known)
5. Rating (if available)

Return a single product with name, platform, price, brand, quantity, image URL (if available), rating (if available), and a brief reason for your selection.`)

	var reply pickReply
	if err := p.llm.CompleteJSON(ctx, "select_best_product", sb.String(), &reply); err != nil {
		return Pick{}, err
	}
	if reply.SelectedProduct.Name == "" {
		return Pick{}, fmt.Errorf("picker returned no product for %q on %s", ingredient, plat)
	}

	sel := reply.SelectedProduct
	return Pick{
		Name:     sel.Name,
		Price:    sel.Price,
		Brand:    sel.Brand,
		Quantity: sel.Quantity,
		Image:    sel.Image,
		Rating:   sel.Rating,
		Reason:   sel.Reason,
	}, nil
}

// Package savings generates actionable money-saving suggestions for a cart,
// considering item prices, delivery and platform fees, and minimum-order
// tactics.
package savings

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saveit/shopping-service/internal/llm"
)

// SuggestionType categorizes a suggestion.
type SuggestionType string

const (
	TypeCost            SuggestionType = "cost"
	TypeMOVAlert        SuggestionType = "mov_alert"
	TypeConvenience     SuggestionType = "convenience"
	TypeFeeOptimization SuggestionType = "fee_optimization"
)

// CartItem is one line of the user's cart as the advisor sees it.
type CartItem struct {
	Name         string  `json:"name" binding:"required"`
	Brand        string  `json:"brand"`
	Quantity     string  `json:"quantity"`
	Price        float64 `json:"price"`
	Platform     string  `json:"platform" binding:"required"`
	CartQuantity int     `json:"cartQuantity"`
}

// Suggestion is one actionable recommendation.
type Suggestion struct {
	Suggestion       string         `json:"suggestion"`
	EstimatedSavings float64        `json:"estimatedSavings"`
	Type             SuggestionType `json:"type,omitempty"`
}

// Advisor produces savings suggestions via the LLM.
type Advisor struct {
	llm    *llm.Client
	logger zerolog.Logger
}

// NewAdvisor creates a savings advisor.
func NewAdvisor(client *llm.Client) *Advisor {
	return &Advisor{
		llm:    client,
		logger: log.With().Str("component", "savings_advisor").Logger(),
	}
}

type suggestionsReply struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest returns 3-5 savings suggestions for the cart. A problematic LLM
// reply degrades to an empty list, never an error the caller must handle.
func (a *Advisor) Suggest(ctx context.Context, items []CartItem) []Suggestion {
	if len(items) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`You are an expert savings advisor for grocery carts. Provide actionable insights considering item prices, delivery fees, platform fees, and minimum order value (MOV) tactics.

User's cart:
`)
	for _, item := range items {
		qty := item.CartQuantity
		if qty < 1 {
			qty = 1
		}
		fmt.Fprintf(&sb, "- %d x %s %s (%s) from %s @ ₹%.2f each\n", qty, item.Brand, item.Name, item.Quantity, item.Platform, item.Price)
	}
	sb.WriteString(`
Provide 3-5 high-quality suggestions. For each: describe the action, estimate monetary savings (0 for alerts and general tips), and classify it as one of: cost, mov_alert, convenience, fee_optimization.

Consider consolidating platforms to save fees, alerting when a subtotal sits just below a platform's minimum order value, cheaper platform alternatives after fees, and equivalent cheaper brands or sizes. Prioritize advice that leads to real savings or avoids overspending. Be concise.`)

	var reply suggestionsReply
	if err := a.llm.CompleteJSON(ctx, "savings_suggestions", sb.String(), &reply); err != nil {
		a.logger.Warn().Err(err).Int("items", len(items)).Msg("savings suggestions unavailable")
		return nil
	}
	return reply.Suggestions
}

package shopping

import (
	"context"
	"fmt"
	"strings"

	"github.com/saveit/shopping-service/internal/llm"
	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
)

// LLMFallback answers a price-search request holistically from the model's
// general knowledge. Lower fidelity than the real pipeline; used only when
// the orchestration itself fails.
type LLMFallback struct {
	llm *llm.Client
}

// NewLLMFallback creates the degrade-path searcher.
func NewLLMFallback(client *llm.Client) *LLMFallback {
	return &LLMFallback{llm: client}
}

// Search implements Fallback.
func (f *LLMFallback) Search(ctx context.Context, ingredients []recipe.Ingredient, platforms []platform.Platform) (SearchResult, error) {
	var sb strings.Builder
	sb.WriteString("Search for the following ingredients on the specified platforms and return the best match for each:\n\nIngredients to search for:\n")
	for _, ing := range ingredients {
		fmt.Fprintf(&sb, "- %s (%s)\n", ing.Name, ing.Quantity)
	}
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	fmt.Fprintf(&sb, "\nPlatforms to search: %s\n", strings.Join(names, ", "))
	sb.WriteString(`
For each ingredient, find the most relevant product on each platform. Consider:
1. Name match (including common alternative names)
2. Appropriate quantity/size
3. Price competitiveness

Return a list of products with their platform, price, and a summary message.`)

	var result SearchResult
	if err := f.llm.CompleteJSON(ctx, "search_ingredient_prices", sb.String(), &result); err != nil {
		return SearchResult{}, fmt.Errorf("holistic search: %w", err)
	}
	return result, nil
}

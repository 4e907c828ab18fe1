package shopping

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
	"github.com/saveit/shopping-service/internal/search"
	"github.com/saveit/shopping-service/internal/selector"
)

// stubSearcher serves canned products per search term and records the terms
// it was asked for.
type stubSearcher struct {
	mu       sync.Mutex
	products map[string][]search.RawProduct
	terms    []string
}

func (s *stubSearcher) Search(ctx context.Context, term string) []search.RawProduct {
	s.mu.Lock()
	s.terms = append(s.terms, term)
	s.mu.Unlock()
	return s.products[term]
}

func (s *stubSearcher) searched(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.terms {
		if t == term {
			return true
		}
	}
	return false
}

// firstAvailableSelector picks the first available candidate without an LLM.
type firstAvailableSelector struct{}

func (firstAvailableSelector) SelectBest(ctx context.Context, ing recipe.Ingredient, p platform.Platform, products []search.RawProduct) (selector.Selected, bool) {
	for _, product := range products {
		if !product.IsAvailable() {
			continue
		}
		return selector.Selected{
			Name:             product.Name,
			Platform:         p,
			Price:            product.BestPrice(),
			OriginalQuantity: ing.Quantity,
		}, true
	}
	return selector.Selected{}, false
}

type stubFinder struct {
	rec recipe.Recipe
	err error
}

func (f *stubFinder) FindIngredients(ctx context.Context, recipeName string) (recipe.Recipe, string, error) {
	if f.err != nil {
		return recipe.Recipe{}, "", f.err
	}
	return f.rec, "ok", nil
}

type stubFallback struct {
	result SearchResult
	called bool
}

func (f *stubFallback) Search(ctx context.Context, ingredients []recipe.Ingredient, platforms []platform.Platform) (SearchResult, error) {
	f.called = true
	return f.result, nil
}

func onPlatform(name, platformName string, price float64) search.RawProduct {
	return search.RawProduct{
		Name:       name,
		OfferPrice: search.Rupees(price),
		Platform:   search.PlatformRef{Name: platformName},
	}
}

func newTestOrchestrator(searcher Searcher, finder RecipeFinder, fallback Fallback) *Orchestrator {
	return New(searcher, firstAvailableSelector{}, finder, fallback, DefaultConfig())
}

func TestSearchIngredientPricesEmptyInput(t *testing.T) {
	orch := newTestOrchestrator(&stubSearcher{}, nil, nil)

	result, err := orch.SearchIngredientPrices(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, "Nothing to search for.", result.Message)
}

func TestSearchIngredientPricesFindsAcrossPlatforms(t *testing.T) {
	searcher := &stubSearcher{products: map[string][]search.RawProduct{
		"Paneer": {
			onPlatform("Amul Paneer", "zepto", 89),
			onPlatform("Fresh Paneer", "blinkit", 95),
		},
		"rice": {
			onPlatform("Daawat Basmati", "zepto", 180),
		},
	}}
	orch := newTestOrchestrator(searcher, nil, nil)

	ingredients := []recipe.Ingredient{
		{Name: "Paneer", Quantity: "200g"},
		{Name: "basmati rice", Quantity: "1kg"},
	}
	platforms := []platform.Platform{platform.Zepto, platform.Blinkit}

	result, err := orch.SearchIngredientPrices(context.Background(), ingredients, platforms)

	require.NoError(t, err)
	assert.Len(t, result.Results, 3)
	assert.Equal(t, "Found 3 products across 2 platforms.", result.Message)
	assert.LessOrEqual(t, len(result.Results), len(ingredients)*len(platforms))
}

func TestSearchIngredientPricesReportsUnavailable(t *testing.T) {
	searcher := &stubSearcher{products: map[string][]search.RawProduct{
		"Paneer": {onPlatform("Amul Paneer", "zepto", 89)},
	}}
	orch := newTestOrchestrator(searcher, nil, nil)

	ingredients := []recipe.Ingredient{
		{Name: "Paneer", Quantity: "200g"},
		{Name: "saffron", Quantity: "1g"},
	}

	result, err := orch.SearchIngredientPrices(context.Background(), ingredients, []platform.Platform{platform.Zepto})

	require.NoError(t, err)
	assert.Equal(t, "Found 1 products across 1 platforms. Unable to find: saffron.", result.Message)
}

func TestSearchIngredientPricesSkipsPantryStaples(t *testing.T) {
	searcher := &stubSearcher{products: map[string][]search.RawProduct{
		"Paneer": {onPlatform("Amul Paneer", "zepto", 89)},
	}}
	orch := newTestOrchestrator(searcher, nil, nil)

	ingredients := []recipe.Ingredient{
		{Name: "Paneer", Quantity: "200g"},
		{Name: "warm water", Quantity: "2 cups"},
		{Name: "salt", Quantity: "to taste"},
	}

	result, err := orch.SearchIngredientPrices(context.Background(), ingredients, []platform.Platform{platform.Zepto})

	require.NoError(t, err)
	assert.False(t, searcher.searched("warm water"), "staples must never hit the search API")
	assert.False(t, searcher.searched("salt"))
	// Skipped staples are neither results nor unavailable.
	assert.Equal(t, "Found 1 products across 1 platforms.", result.Message)
}

func TestSearchIngredientPricesIgnoresUnrequestedPlatforms(t *testing.T) {
	searcher := &stubSearcher{products: map[string][]search.RawProduct{
		"Paneer": {onPlatform("Amul Paneer", "bigbasket", 89)},
	}}
	orch := newTestOrchestrator(searcher, nil, nil)

	ingredients := []recipe.Ingredient{{Name: "Paneer", Quantity: "200g"}}

	result, err := orch.SearchIngredientPrices(context.Background(), ingredients, []platform.Platform{platform.Zepto})

	require.NoError(t, err)
	assert.Empty(t, result.Results)
	// Products exist, just not where asked: that is not "unavailable".
	assert.Equal(t, "Found 0 products across 0 platforms.", result.Message)
}

func TestSearchIngredientPricesOneFailureDoesNotPoisonOthers(t *testing.T) {
	searcher := &stubSearcher{products: map[string][]search.RawProduct{
		"Paneer":  {onPlatform("Amul Paneer", "zepto", 89)},
		"flour":   {onPlatform("Aashirvaad Atta", "zepto", 250)},
		"saffron": nil,
	}}
	orch := newTestOrchestrator(searcher, nil, nil)

	ingredients := []recipe.Ingredient{
		{Name: "Paneer", Quantity: "200g"},
		{Name: "all-purpose flour", Quantity: "500g"},
		{Name: "saffron", Quantity: "1g"},
	}

	result, err := orch.SearchIngredientPrices(context.Background(), ingredients, []platform.Platform{platform.Zepto})

	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Contains(t, result.Message, "Unable to find: saffron.")
}

func TestSearchIngredientPricesUsesDefaultPlatforms(t *testing.T) {
	searcher := &stubSearcher{products: map[string][]search.RawProduct{
		"Paneer": {
			onPlatform("Amul Paneer", "swiggy", 89),
			onPlatform("DMart Paneer", "dmart", 75),
		},
	}}
	orch := newTestOrchestrator(searcher, nil, nil)

	result, err := orch.SearchIngredientPrices(context.Background(), []recipe.Ingredient{{Name: "Paneer"}}, nil)

	require.NoError(t, err)
	// DMart is not in the default search set, so only the Swiggy product lands.
	require.Len(t, result.Results, 1)
	assert.Equal(t, platform.SwiggyInstamart, result.Results[0].Platform)
}

func TestSearchIngredientPricesDegradesToFallback(t *testing.T) {
	fallback := &stubFallback{result: SearchResult{Message: "degraded"}}
	orch := newTestOrchestrator(&stubSearcher{}, nil, fallback)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orch.SearchIngredientPrices(ctx, []recipe.Ingredient{{Name: "Paneer"}}, []platform.Platform{platform.Zepto})

	require.NoError(t, err)
	assert.True(t, fallback.called)
	assert.Equal(t, "degraded", result.Message)
}

func TestShopBuildsCart(t *testing.T) {
	searcher := &stubSearcher{products: map[string][]search.RawProduct{
		"Paneer": {onPlatform("Amul Paneer", "zepto", 89)},
	}}
	finder := &stubFinder{rec: recipe.Recipe{
		Name:        "palak paneer",
		Ingredients: []recipe.Ingredient{{Name: "Paneer", Quantity: "200g"}},
	}}
	orch := newTestOrchestrator(searcher, finder, nil)

	c, err := orch.Shop(context.Background(), "palak paneer")

	require.NoError(t, err)
	require.NotNil(t, c.BestPlatform)
	assert.Equal(t, platform.Zepto, *c.BestPlatform)
	assert.Len(t, c.Items[platform.Zepto], 1)
	// Every platform has a bucket, found or not.
	assert.Len(t, c.Items, len(platform.All()))
}

func TestShopDegradesOnDiscoveryFailure(t *testing.T) {
	finder := &stubFinder{err: errors.New("model unavailable")}
	orch := newTestOrchestrator(&stubSearcher{}, finder, nil)

	c, err := orch.Shop(context.Background(), "mystery dish")

	require.NoError(t, err, "discovery failure degrades, never errors")
	assert.Nil(t, c.BestPlatform)
	assert.Equal(t, "Sorry, there was an error finding ingredients. Please try again.", c.Message)
	for _, p := range platform.All() {
		assert.Empty(t, c.Items[p])
	}
}

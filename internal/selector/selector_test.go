package selector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
	"github.com/saveit/shopping-service/internal/search"
)

// mockPicker is a scriptable ProductPicker for testing the fallback policy.
type mockPicker struct {
	pick     Pick
	err      error
	received []Candidate
}

func (m *mockPicker) PickBest(ctx context.Context, ingredient, requiredQuantity string, p platform.Platform, candidates []Candidate) (Pick, error) {
	m.received = candidates
	if m.err != nil {
		return Pick{}, m.err
	}
	return m.pick, nil
}

func boolPtr(b bool) *bool { return &b }

func rawProduct(name string, offerPrice float64, available *bool) search.RawProduct {
	return search.RawProduct{
		Name:       name,
		OfferPrice: search.Rupees(offerPrice),
		Available:  available,
	}
}

func TestSelectBestFiltersUnavailable(t *testing.T) {
	picker := &mockPicker{pick: Pick{Name: "Amul Paneer", Price: 89}}
	sel := New(picker, platform.DefaultCostTable())

	products := []search.RawProduct{
		rawProduct("Out of stock paneer", 79, boolPtr(false)),
		rawProduct("Amul Paneer", 89, nil),
		rawProduct("Mother Dairy Paneer", 95, boolPtr(true)),
	}

	_, ok := sel.SelectBest(context.Background(), recipe.Ingredient{Name: "paneer"}, platform.Zepto, products)

	require.True(t, ok)
	require.Len(t, picker.received, 2, "unavailable product must never reach the picker")
	assert.Equal(t, "Amul Paneer", picker.received[0].Name)
}

func TestSelectBestAllUnavailable(t *testing.T) {
	picker := &mockPicker{}
	sel := New(picker, platform.DefaultCostTable())

	products := []search.RawProduct{
		rawProduct("A", 10, boolPtr(false)),
		rawProduct("B", 20, boolPtr(false)),
	}

	_, ok := sel.SelectBest(context.Background(), recipe.Ingredient{Name: "paneer"}, platform.Zepto, products)
	assert.False(t, ok)
	assert.Nil(t, picker.received, "picker must not run with no candidates")
}

func TestSelectBestNoProducts(t *testing.T) {
	sel := New(&mockPicker{}, platform.DefaultCostTable())

	_, ok := sel.SelectBest(context.Background(), recipe.Ingredient{Name: "paneer"}, platform.Zepto, nil)
	assert.False(t, ok)
}

func TestSelectBestFallsBackOnPickerError(t *testing.T) {
	picker := &mockPicker{err: errors.New("model overloaded")}
	sel := New(picker, platform.DefaultCostTable())

	products := []search.RawProduct{
		rawProduct("First Paneer", 89, nil),
		rawProduct("Second Paneer", 79, nil),
	}

	selected, ok := sel.SelectBest(context.Background(), recipe.Ingredient{Name: "paneer", Quantity: "200g"}, platform.Zepto, products)

	require.True(t, ok, "picker failure must not drop the pair")
	assert.Equal(t, "First Paneer", selected.Name)
	assert.Equal(t, 89.0, selected.Price)
}

func TestSelectBestEnrichesCostDetails(t *testing.T) {
	picker := &mockPicker{pick: Pick{Name: "Amul Paneer", Price: 89}}
	costs := platform.DefaultCostTable()
	sel := New(picker, costs)

	products := []search.RawProduct{rawProduct("Amul Paneer", 89, nil)}

	selected, ok := sel.SelectBest(context.Background(), recipe.Ingredient{Name: "paneer", Quantity: "200g"}, platform.Zepto, products)

	require.True(t, ok)
	zepto := costs.Lookup(platform.Zepto)
	assert.Equal(t, platform.Zepto, selected.Platform)
	assert.Equal(t, zepto.DeliveryFee, selected.DeliveryFee)
	assert.Equal(t, zepto.PlatformFee, selected.PlatformFee)
	assert.Equal(t, zepto.MinOrderValue, selected.MinOrderValue)
	assert.Equal(t, "200g", selected.OriginalQuantity)
}

func TestSelectBestRecoversCandidateURL(t *testing.T) {
	picker := &mockPicker{pick: Pick{Name: "Amul Paneer", Price: 89}}
	sel := New(picker, platform.DefaultCostTable())

	products := []search.RawProduct{
		{Name: "Other", OfferPrice: 50, Deeplink: "app://other"},
		{Name: "Amul Paneer", OfferPrice: 89, Deeplink: "app://amul-paneer"},
	}

	selected, ok := sel.SelectBest(context.Background(), recipe.Ingredient{Name: "paneer"}, platform.Zepto, products)

	require.True(t, ok)
	assert.Equal(t, "app://amul-paneer", selected.URL)
}

package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/selector"
)

func product(name string, p platform.Platform, price float64) selector.Selected {
	return selector.Selected{Name: name, Platform: p, Price: price}
}

func TestBuildGroupsAndTotals(t *testing.T) {
	platforms := []platform.Platform{platform.Zepto, platform.Blinkit}
	products := []selector.Selected{
		product("Paneer", platform.Zepto, 89),
		product("Flour", platform.Zepto, 45),
		product("Paneer", platform.Blinkit, 95),
	}

	c := Build(products, platforms)

	assert.Len(t, c.Items[platform.Zepto], 2)
	assert.Len(t, c.Items[platform.Blinkit], 1)
	assert.Equal(t, 134.0, c.TotalByPlatform[platform.Zepto])
	assert.Equal(t, 95.0, c.TotalByPlatform[platform.Blinkit])

	require.NotNil(t, c.BestPlatform)
	assert.Equal(t, platform.Blinkit, *c.BestPlatform)
	assert.Equal(t, "Blinkit offers the best overall price at ₹95.00.", c.Message)
}

// Each platform total must equal the sum of its own items, with no fee
// component folded in.
func TestBuildTotalsAreFeeExclusive(t *testing.T) {
	platforms := []platform.Platform{platform.Zepto}
	withFees := selector.Selected{
		Name: "Paneer", Platform: platform.Zepto, Price: 100,
		DeliveryFee: 30, PlatformFee: 5, MinOrderValue: 149,
	}

	c := Build([]selector.Selected{withFees}, platforms)

	assert.Equal(t, 100.0, c.TotalByPlatform[platform.Zepto])
}

func TestBuildTieBreakPrefersMoreItems(t *testing.T) {
	platforms := []platform.Platform{platform.Zepto, platform.Blinkit}
	products := []selector.Selected{
		product("A", platform.Zepto, 60),
		product("B", platform.Zepto, 40),
		product("A", platform.Blinkit, 30),
		product("B", platform.Blinkit, 30),
		product("C", platform.Blinkit, 40),
	}

	c := Build(products, platforms)

	// Both total 100; Blinkit carries more items so it wins.
	require.NotNil(t, c.BestPlatform)
	assert.Equal(t, platform.Blinkit, *c.BestPlatform)
}

func TestBuildEmptyCart(t *testing.T) {
	platforms := platform.All()
	c := Build(nil, platforms)

	assert.Nil(t, c.BestPlatform)
	assert.Equal(t, "No platform offers a complete set of ingredients.", c.Message)
	// Every requested platform still gets an empty bucket.
	for _, p := range platforms {
		assert.NotNil(t, c.Items[p])
		assert.Empty(t, c.Items[p])
		assert.Zero(t, c.TotalByPlatform[p])
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	platforms := []platform.Platform{platform.SwiggyInstamart, platform.Zepto}
	products := []selector.Selected{
		product("A", platform.SwiggyInstamart, 50),
		product("A", platform.Zepto, 50),
	}

	first := Build(products, platforms)
	for i := 0; i < 20; i++ {
		again := Build(products, platforms)
		require.NotNil(t, again.BestPlatform)
		assert.Equal(t, *first.BestPlatform, *again.BestPlatform)
		assert.Equal(t, first.Message, again.Message)
	}
}

func TestBuildBucketsUnrequestedPlatform(t *testing.T) {
	platforms := []platform.Platform{platform.Zepto}
	products := []selector.Selected{
		product("A", platform.BigBasket, 20),
	}

	c := Build(products, platforms)

	assert.Len(t, c.Items[platform.BigBasket], 1)
	require.NotNil(t, c.BestPlatform)
	assert.Equal(t, platform.BigBasket, *c.BestPlatform)
}

func TestEffectiveCostFor(t *testing.T) {
	costs := platform.DefaultCostTable()
	c := Build([]selector.Selected{
		product("Paneer", platform.Zepto, 89),
	}, []platform.Platform{platform.Zepto})

	effective := c.EffectiveCostFor(platform.Zepto, costs)

	zepto := costs.Lookup(platform.Zepto)
	assert.Equal(t, 89.0, effective.ItemTotal)
	assert.Equal(t, 89.0+zepto.DeliveryFee+zepto.PlatformFee, effective.GrandTotal)
	assert.True(t, effective.BelowMinOrder, "89 is below Zepto's minimum order value")
}

func TestEffectiveCostForEmptyBucket(t *testing.T) {
	costs := platform.DefaultCostTable()
	c := Build(nil, []platform.Platform{platform.Zepto})

	effective := c.EffectiveCostFor(platform.Zepto, costs)

	assert.Zero(t, effective.ItemTotal)
	assert.False(t, effective.BelowMinOrder, "an empty bucket is not an MOV alert")
}

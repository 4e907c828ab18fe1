// Package cart groups selected products by platform, totals them, and picks
// the platform with the best overall price. Everything here is pure: no
// network, no LLM, deterministic for a given input.
package cart

import (
	"fmt"
	"sort"

	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/selector"
)

// Cart is the per-platform grouping of selected products. Totals are
// fee-exclusive; fees are reported per product and folded in only by
// EffectiveCost. Recomputed fresh on every Build, never persisted.
type Cart struct {
	Items           map[platform.Platform][]selector.Selected `json:"cart"`
	TotalByPlatform map[platform.Platform]float64             `json:"totalByPlatform"`
	BestPlatform    *platform.Platform                        `json:"bestPlatform,omitempty"`
	Message         string                                    `json:"message"`
}

// Build buckets products by platform and determines the best platform.
// Every requested platform gets a bucket even when empty, so callers see
// complete coverage. Best platform: lowest item total; ties go to the
// platform carrying more items; platforms with zero items never win.
func Build(products []selector.Selected, platforms []platform.Platform) Cart {
	c := Cart{
		Items:           make(map[platform.Platform][]selector.Selected, len(platforms)),
		TotalByPlatform: make(map[platform.Platform]float64, len(platforms)),
	}

	for _, p := range platforms {
		c.Items[p] = []selector.Selected{}
		c.TotalByPlatform[p] = 0
	}

	for _, product := range products {
		c.Items[product.Platform] = append(c.Items[product.Platform], product)
		c.TotalByPlatform[product.Platform] += product.Price
	}

	best, found := bestPlatform(c, platforms)
	if found {
		c.BestPlatform = &best
		c.Message = fmt.Sprintf("%s offers the best overall price at ₹%.2f.", best, c.TotalByPlatform[best])
	} else {
		c.Message = "No platform offers a complete set of ingredients."
	}
	return c
}

// bestPlatform iterates candidates in a deterministic order: the requested
// platforms as given, then any extra platforms products introduced, sorted
// by name.
func bestPlatform(c Cart, requested []platform.Platform) (platform.Platform, bool) {
	seen := make(map[platform.Platform]bool, len(requested))
	candidates := make([]platform.Platform, 0, len(c.Items))
	for _, p := range requested {
		seen[p] = true
		candidates = append(candidates, p)
	}
	var extras []platform.Platform
	for p := range c.Items {
		if !seen[p] {
			extras = append(extras, p)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	candidates = append(candidates, extras...)

	var (
		best      platform.Platform
		found     bool
		lowTotal  float64
		mostItems int
	)
	for _, p := range candidates {
		count := len(c.Items[p])
		if count == 0 {
			continue
		}
		total := c.TotalByPlatform[p]
		if !found || total < lowTotal || (total == lowTotal && count > mostItems) {
			best = p
			found = true
			lowTotal = total
			mostItems = count
		}
	}
	return best, found
}

// EffectiveCost is the fee-inclusive cost of checking out one platform's
// bucket. This is presentation-level: the cart's own totals stay
// fee-exclusive.
type EffectiveCost struct {
	Platform      platform.Platform `json:"platform"`
	ItemTotal     float64           `json:"itemTotal"`
	DeliveryFee   float64           `json:"deliveryFee"`
	PlatformFee   float64           `json:"platformFee"`
	MinOrderValue float64           `json:"minOrderValue"`
	GrandTotal    float64           `json:"grandTotal"`
	BelowMinOrder bool              `json:"belowMinOrder"`
}

// EffectiveCostFor computes the checkout cost for one platform using its own
// fee schedule. Fees are never blended across platforms.
func (c Cart) EffectiveCostFor(p platform.Platform, costs platform.CostTable) EffectiveCost {
	details := costs.Lookup(p)
	itemTotal := c.TotalByPlatform[p]
	return EffectiveCost{
		Platform:      p,
		ItemTotal:     itemTotal,
		DeliveryFee:   details.DeliveryFee,
		PlatformFee:   details.PlatformFee,
		MinOrderValue: details.MinOrderValue,
		GrandTotal:    itemTotal + details.DeliveryFee + details.PlatformFee,
		BelowMinOrder: len(c.Items[p]) > 0 && itemTotal < details.MinOrderValue,
	}
}

package platform

// Discount describes a promotional discount a platform applies at checkout.
type Discount struct {
	Type      string  // "fixed" or "percentage"
	Value     float64 // amount in rupees, or percent
	Threshold float64 // cart value required to qualify, 0 = always
}

// CostDetails holds the static per-order charges for one platform.
// All values are in rupees.
type CostDetails struct {
	DeliveryFee   float64
	PlatformFee   float64
	MinOrderValue float64
	Discount      *Discount
}

// CostTable is an immutable lookup of per-platform charges with a default
// fallback for platforms we have no schedule for. It is passed into the
// selector and cart aggregator explicitly so tests can supply alternate fee
// schedules.
type CostTable struct {
	entries  map[Platform]CostDetails
	fallback CostDetails
}

// NewCostTable builds a cost table from explicit entries and a fallback.
func NewCostTable(entries map[Platform]CostDetails, fallback CostDetails) CostTable {
	copied := make(map[Platform]CostDetails, len(entries))
	for p, d := range entries {
		copied[p] = d
	}
	return CostTable{entries: copied, fallback: fallback}
}

// DefaultCostTable returns the production fee schedule.
func DefaultCostTable() CostTable {
	return NewCostTable(map[Platform]CostDetails{
		SwiggyInstamart: {DeliveryFee: 30, PlatformFee: 5, MinOrderValue: 199},
		Zepto:           {DeliveryFee: 30, PlatformFee: 5, MinOrderValue: 149},
		Blinkit:         {DeliveryFee: 30, PlatformFee: 5, MinOrderValue: 199},
		Dunzo:           {DeliveryFee: 40, PlatformFee: 10, MinOrderValue: 299},
		BigBasket:       {DeliveryFee: 50, PlatformFee: 0, MinOrderValue: 500},
		BBNow:           {DeliveryFee: 40, PlatformFee: 0, MinOrderValue: 250},
		DMart:           {DeliveryFee: 40, PlatformFee: 0, MinOrderValue: 799},
		JioMart:         {DeliveryFee: 30, PlatformFee: 5, MinOrderValue: 199},
	}, CostDetails{DeliveryFee: 40, PlatformFee: 5, MinOrderValue: 299})
}

// Lookup returns the cost details for a platform, falling back to the default
// schedule for unknown platforms.
func (t CostTable) Lookup(p Platform) CostDetails {
	if d, ok := t.entries[p]; ok {
		return d
	}
	return t.fallback
}

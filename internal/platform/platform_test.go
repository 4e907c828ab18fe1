package platform

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Platform
	}{
		{"Canonical name", "Swiggy Instamart", SwiggyInstamart},
		{"Short alias", "swiggy", SwiggyInstamart},
		{"Instamart alias", "Instamart", SwiggyInstamart},
		{"Upper case", "ZEPTO", Zepto},
		{"Legacy brand", "grofers", Blinkit},
		{"Spaced variant", "big basket", BigBasket},
		{"Hyphen variant", "d-mart", DMart},
		{"Suffix variant", "dmart ready", DMart},
		{"Whitespace trimmed", "  blinkit  ", Blinkit},
		{"Unknown passthrough", "FreshMart", Platform("FreshMart")},
		{"Unknown trimmed", " FreshMart ", Platform("FreshMart")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Classify(tt.input); result != tt.expected {
				t.Errorf("Classify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, p := range All() {
		if !IsValid(p) {
			t.Errorf("IsValid(%q) = false, want true", p)
		}
	}
	if IsValid(Platform("FreshMart")) {
		t.Error("IsValid accepted an unknown platform")
	}
}

func TestDefaultSearchSet(t *testing.T) {
	set := DefaultSearchSet()
	if len(set) != 3 {
		t.Fatalf("DefaultSearchSet() has %d platforms, want 3", len(set))
	}
	for _, p := range set {
		if !IsValid(p) {
			t.Errorf("default search set contains unknown platform %q", p)
		}
	}
}

func TestCostTableLookup(t *testing.T) {
	costs := DefaultCostTable()

	zepto := costs.Lookup(Zepto)
	if zepto.MinOrderValue != 149 {
		t.Errorf("Zepto MOV = %v, want 149", zepto.MinOrderValue)
	}

	// Unknown platforms get the fallback schedule, never a zero value.
	unknown := costs.Lookup(Platform("FreshMart"))
	if unknown.DeliveryFee == 0 && unknown.PlatformFee == 0 && unknown.MinOrderValue == 0 {
		t.Error("unknown platform got a zero cost schedule, want fallback")
	}
}

func TestNewCostTableCopiesEntries(t *testing.T) {
	entries := map[Platform]CostDetails{
		Zepto: {DeliveryFee: 1},
	}
	table := NewCostTable(entries, CostDetails{DeliveryFee: 99})

	entries[Zepto] = CostDetails{DeliveryFee: 50}
	if got := table.Lookup(Zepto).DeliveryFee; got != 1 {
		t.Errorf("cost table shares caller's map: Lookup(Zepto).DeliveryFee = %v, want 1", got)
	}
}

// Package platform defines the closed set of delivery platforms the service
// compares prices across, and the static cost schedule for each of them.
package platform

import "strings"

// Platform identifies a quick-commerce delivery platform.
type Platform string

const (
	SwiggyInstamart Platform = "Swiggy Instamart"
	Zepto           Platform = "Zepto"
	Blinkit         Platform = "Blinkit"
	Dunzo           Platform = "Dunzo"
	BigBasket       Platform = "BigBasket"
	BBNow           Platform = "BBNow"
	DMart           Platform = "DMart"
	JioMart         Platform = "JioMart"
)

// All returns every supported platform.
func All() []Platform {
	return []Platform{
		SwiggyInstamart,
		Zepto,
		Blinkit,
		Dunzo,
		BigBasket,
		BBNow,
		DMart,
		JioMart,
	}
}

// DefaultSearchSet is the set of platforms searched when the caller does not
// specify one.
func DefaultSearchSet() []Platform {
	return []Platform{SwiggyInstamart, Zepto, Blinkit}
}

// IsValid reports whether p is one of the supported platforms.
func IsValid(p Platform) bool {
	for _, known := range All() {
		if p == known {
			return true
		}
	}
	return false
}

// aliases maps lower-cased raw platform names from the aggregator API onto
// canonical platforms. The API is inconsistent about casing and sometimes
// drops the "Instamart" suffix.
var aliases = map[string]Platform{
	"swiggy":           SwiggyInstamart,
	"swiggy instamart": SwiggyInstamart,
	"instamart":        SwiggyInstamart,
	"zepto":            Zepto,
	"blinkit":          Blinkit,
	"grofers":          Blinkit,
	"dunzo":            Dunzo,
	"bigbasket":        BigBasket,
	"big basket":       BigBasket,
	"bbnow":            BBNow,
	"bb now":           BBNow,
	"dmart":            DMart,
	"d-mart":           DMart,
	"dmart ready":      DMart,
	"jiomart":          JioMart,
	"jio mart":         JioMart,
}

// Classify maps a raw platform name string onto a canonical Platform.
// Unknown names are passed through as-is so downstream cost lookups can fall
// back to the default schedule instead of misattributing the product.
func Classify(raw string) Platform {
	key := strings.ToLower(strings.TrimSpace(raw))
	if p, ok := aliases[key]; ok {
		return p
	}
	return Platform(strings.TrimSpace(raw))
}

// Package normalize turns free-text ingredient names into short search terms
// the aggregator API responds well to. It is pure and deterministic.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pantryStaples are ingredients assumed always on-hand and not worth
// comparison-shopping. A name containing any of these is skipped.
var pantryStaples = []string{
	"water",
	"warm water",
	"hot water",
	"cold water",
	"lukewarm water",
	"salt",
	"fine sea salt",
	"pepper",
	"sugar",
}

// simplification is one entry of the ordered substring lookup table.
type simplification struct {
	match string // lower-cased substring to look for
	term  string // replacement search term; empty means skip
}

// simplifications is checked in order, first match wins. Order matters:
// more specific phrases must come before their generic prefixes.
var simplifications = []simplification{
	// Flours
	{"all-purpose flour", "flour"},
	{"all purpose flour", "flour"},

	// Yeasts
	{"instant dry yeast", "yeast"},
	{"active dry yeast", "yeast"},

	// Tomatoes
	{"crushed tomatoes", "tomato"},
	{"tomato sauce", "tomato"},
	{"tomato paste", "tomato"},

	// Cheeses
	{"shredded mozzarella cheese", "mozzarella"},
	{"fresh mozzarella cheese", "mozzarella"},
	{"mozzarella cheese", "mozzarella"},
	{"shredded cheese", "cheese"},

	// Herbs and spices
	{"fresh basil leaves", "basil"},
	{"dried oregano", "oregano"},
	{"garlic powder", "garlic"},
	{"fenugreek seeds", "fenugreek"},

	// Oils
	{"extra virgin olive oil", "oil"},
	{"olive oil", "oil"},
	{"vegetable oil", "oil"},

	// Basics that slipped past the staple check
	{"granulated sugar", "sugar"},
	{"optional toppings", ""},

	// Rice and grains
	{"parboiled rice", "parboiled rice"},
	{"idli rice", "idli rice"},

	// Lentils and beans
	{"whole white urad dal", "urad dal"},
	{"white urad dal", "urad dal"},
	{"urad dal", "urad dal"},

	// Eggs
	{"large eggs", "egg"},
	{"counted eggs", "egg"},
	{"dozen eggs", "egg"},
}

// qualifierWords never make a useful search term on their own, so when one
// leads a multi-word name the next word is used instead.
var qualifierWords = map[string]bool{
	"fresh":    true,
	"dried":    true,
	"ground":   true,
	"chopped":  true,
	"sliced":   true,
	"diced":    true,
	"minced":   true,
	"grated":   true,
	"optional": true,
	"whole":    true,
	"white":    true,
}

// Simplify maps a raw ingredient name to a search term. The second return
// value is true when the ingredient is a pantry staple that should not be
// searched at all. The returned term is never empty unless skip is true.
func Simplify(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", true
	}

	lower := strings.ToLower(foldDiacritics(name))

	for _, staple := range pantryStaples {
		if strings.Contains(lower, staple) {
			return "", true
		}
	}

	for _, s := range simplifications {
		if strings.Contains(lower, s.match) {
			if s.term == "" {
				return "", true
			}
			return s.term, false
		}
	}

	words := strings.Fields(name)
	if len(words) <= 1 {
		return name, false
	}

	// Any kind of rice searches fine as plain "rice".
	if strings.Contains(lower, "rice") {
		return "rice", false
	}

	// For dals and lentils the last word usually names the specific type.
	if strings.Contains(lower, "dal") || strings.Contains(lower, "lentil") {
		last := words[len(words)-1]
		if strings.EqualFold(last, "dal") && len(words) > 1 {
			return words[len(words)-2] + " " + last, false
		}
		return last, false
	}

	// The first word is usually the main ingredient, unless it is a
	// qualifier like "fresh" or "chopped".
	if qualifierWords[strings.ToLower(words[0])] {
		if len(words) > 2 {
			return words[1], false
		}
		return name, false
	}

	return words[0], false
}

// foldDiacritics strips combining marks so accented ingredient names
// ("jalapeño") match the plain-ASCII lookup tables.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

package pantry

// Category buckets for the canonical ingredient vocabulary.
const (
	CategoryBase       = "base"
	CategoryProtein    = "protein"
	CategorySupplement = "supplement"
	CategorySpice      = "smag"
	CategoryDrink      = "drik"
)

// ingredients maps every canonical key to its category. Keys that are not
// in this table are treated as non-food. Read-only after init.
var ingredients = map[string]string{
	// base
	"brød":      CategoryBase,
	"kartofler": CategoryBase,
	"pasta":     CategoryBase,
	"ris":       CategoryBase,
	"yoghurt":   CategoryBase,
	"skyr":      CategoryBase,

	// protein
	"æg":      CategoryProtein,
	"kylling": CategoryProtein,
	"fisk":    CategoryProtein,

	// supplement
	"ost":        CategorySupplement,
	"smør":       CategorySupplement,
	"olie":       CategorySupplement,
	"mayonnaise": CategorySupplement,
	"fløde":      CategorySupplement,
	"løg":        CategorySupplement,

	// smag
	"citron":  CategorySpice,
	"chili":   CategorySpice,
	"ketchup": CategorySpice,
	"sennep":  CategorySpice,
	"hvidløg": CategorySpice,
	"salt":    CategorySpice,
	"peber":   CategorySpice,

	// drik
	"kaffe": CategoryDrink,
	"mælk":  CategoryDrink,
	"øl":    CategoryDrink,
}

// synonyms maps English spellings, inflections and common aliases to the
// canonical Danish key.
var synonyms = map[string]string{
	"majonæse":   "mayonnaise",
	"mayo":       "mayonnaise",
	"yoghurt":    "yoghurt",
	"kartoffel":  "kartofler",
	"kartoffler": "kartofler",
	"kartofl":    "kartofler",
	"løg":        "løg",
	"onion":      "løg",
	"onions":     "løg",
	"milk":       "mælk",
	"cheese":     "ost",
	"butter":     "smør",
	"oil":        "olie",
	"lemon":      "citron",
	"beer":       "øl",
	"eggs":       "æg",
	"egg":        "æg",

	// stems left over from definite-form stripping
	"ægg":  "æg",
	"kaff": "kaffe",
	"mælk": "mælk",
}

// IsFood reports whether key is part of the canonical vocabulary.
func IsFood(key string) bool {
	_, ok := ingredients[key]
	return ok
}

// Category returns the category for a canonical key, or "" when the key is
// not in the vocabulary.
func Category(key string) string {
	return ingredients[key]
}

// HasBase reports whether any key in the set belongs to the base category.
func HasBase(set map[string]bool) bool {
	for key := range set {
		if ingredients[key] == CategoryBase {
			return true
		}
	}
	return false
}

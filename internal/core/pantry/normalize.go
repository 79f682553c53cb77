package pantry

import (
	"strings"
)

// Inflection suffixes stripped during normalization, in order. Each is
// mild plural/definite stripping for Danish: æggene -> ægg, ægget -> ægg,
// kaffen -> kaff, kartofler -> kartofl (recovered via the synonym table).
var inflectionSuffixes = []string{"ene", "et", "en", "er"}

var punctuationReplacer = strings.NewReplacer(
	".", "", ",", "", ";", "", ":", "", "!", "", "?", "", "(", "", ")", "", `"`, "",
)

// Normalize maps a raw free-text token to its canonical ingredient key.
// Deterministic and pure; unknown tokens come back cleaned but otherwise
// unchanged, and blank input yields "" (callers must filter that out).
func Normalize(raw string) string {
	w := strings.ToLower(strings.TrimSpace(raw))
	w = strings.Join(strings.Fields(w), " ")
	w = punctuationReplacer.Replace(w)

	// Words that are already canonical (kartofler, peber) must survive
	// untouched, so suffix stripping only runs on unknown tokens.
	if canonical, ok := synonyms[w]; ok {
		return canonical
	}
	if IsFood(w) {
		return w
	}

	for _, suffix := range inflectionSuffixes {
		stripped := strings.TrimSuffix(w, suffix)
		if stripped != w && stripped != "" {
			w = stripped
			break
		}
	}

	// Two passes so a stripped stem can chain through the table
	// (kartoffler -> kartofl -> kartofler).
	if canonical, ok := synonyms[w]; ok {
		w = canonical
	}
	if canonical, ok := synonyms[w]; ok {
		w = canonical
	}

	return w
}

// NormalizeAll normalizes a collection, dropping blanks and collapsing
// repeated synonyms of the same concept to one key. Order is first-seen.
func NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		key := Normalize(r)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// SplitFood partitions normalized keys into vocabulary members and
// non-food leftovers, both in input order.
func SplitFood(keys []string) (food, nonFood []string) {
	for _, key := range keys {
		if IsFood(key) {
			food = append(food, key)
		} else {
			nonFood = append(nonFood, key)
		}
	}
	return food, nonFood
}

package suggest

// BuildShoppingList unions the missing lists of every tier's match into a
// deduplicated shopping list. Tiers merge in their fixed iteration order
// (simple before advanced) and items keep first-seen order.
func BuildShoppingList(matches Matches) []string {
	out := make([]string, 0)
	seen := make(map[string]bool)
	for _, tier := range Tiers {
		for _, key := range matches[tier].Missing {
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

package suggest

// MatchResult is the chosen recipe for one tier. Missing lists the
// required keys absent from the pantry followed by the rule's
// supplementary items, in that order.
type MatchResult struct {
	Title   string   `json:"title"`
	Missing []string `json:"missing"`
}

// Matches holds one MatchResult per tier.
type Matches map[string]MatchResult

// Match selects the best-fitting rule per tier for a canonical ingredient
// set. Membership is exact key equality, not substring containment
// ("ost" must not match "frost"). Selection prefers the rule with the most
// satisfied required keys; on a tie the rule declared first wins, so the
// table order is itself a priority list. A tier with no overlap at all
// falls back to its static default and is never absent.
func Match(pantry map[string]bool) Matches {
	out := make(Matches, len(Tiers))
	for _, tier := range Tiers {
		out[tier] = matchTier(tier, pantry)
	}
	return out
}

func matchTier(tier string, pantry map[string]bool) MatchResult {
	var best *Rule
	bestSatisfied := 0

	rules := RulesForTier(tier)
	for i := range rules {
		rule := &rules[i]
		satisfied := 0
		for _, key := range rule.Requires {
			if pantry[key] {
				satisfied++
			}
		}
		if satisfied > bestSatisfied {
			best = rule
			bestSatisfied = satisfied
		}
	}

	if best == nil {
		return fallbacks[tier]
	}

	missing := make([]string, 0, len(best.Requires)+len(best.Optional))
	for _, key := range best.Requires {
		if !pantry[key] {
			missing = append(missing, key)
		}
	}
	missing = append(missing, absentOnly(best.Optional, pantry)...)

	return MatchResult{
		Title:   best.Title,
		Missing: missing,
	}
}

// absentOnly filters keys down to those not in the pantry, keeping order.
func absentOnly(keys []string, pantry map[string]bool) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if !pantry[key] {
			out = append(out, key)
		}
	}
	return out
}

// ToSet turns a key slice into a membership set.
func ToSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, key := range keys {
		set[key] = true
	}
	return set
}

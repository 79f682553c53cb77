package suggest

import (
	"math"
	"sort"

	"fridgemap/internal/core/pantry"
)

// Suggestion is one ranked recipe proposal with the ingredients it would
// use, the ones still missing, and its fit score.
type Suggestion struct {
	Title   string   `json:"title"`
	Desc    string   `json:"desc"`
	Uses    []string `json:"uses"`
	Missing []string `json:"missing"`
	Score   float64  `json:"score"`
}

const maxSuggestions = 6
const maxMissingPerSuggestion = 6

// Rank scores every rule against the pantry and returns the top
// suggestions sorted by score descending. People ("1".."4") only scales
// titles and portion advice, never the matching itself.
func Rank(pantrySet map[string]bool, people string) []Suggestion {
	hasBase := pantry.HasBase(pantrySet)

	ranked := make([]Suggestion, 0, maxSuggestions)
	for _, rule := range AllRules() {
		s, ok := scoreRule(rule, pantrySet, hasBase)
		if !ok {
			continue
		}
		s.Title = scaleTitle(s.Title, people)
		s.Desc = scaleDesc(s.Desc, people)
		ranked = append(ranked, s)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}
	return ranked
}

// scoreRule computes the fit score for one rule. Rules with no overlap at
// all are dropped, as are base-expecting rules when the pantry has no base
// ingredient and none of the requirements either.
func scoreRule(rule Rule, pantrySet map[string]bool, hasBase bool) (Suggestion, bool) {
	overlapReq := 0
	for _, key := range rule.Requires {
		if pantrySet[key] {
			overlapReq++
		}
	}
	overlapOpt := 0
	for _, key := range rule.Optional {
		if pantrySet[key] {
			overlapOpt++
		}
	}

	if overlapReq == 0 && overlapOpt == 0 {
		return Suggestion{}, false
	}
	if rule.MinBase > 0 && !hasBase && overlapReq == 0 {
		return Suggestion{}, false
	}

	overlapRatio := 0.0
	if len(rule.Requires) > 0 {
		overlapRatio = float64(overlapReq) / float64(len(rule.Requires))
	}

	baseBonus := 0.0
	if hasBase {
		baseBonus = 0.22
	}
	completeBonus := 0.0
	if overlapReq == len(rule.Requires) {
		completeBonus = 0.25
	}
	optionalBonus := math.Min(0.18, float64(overlapOpt)*0.06)
	basePenalty := 0.0
	if rule.MinBase > 0 && !hasBase {
		basePenalty = -0.25
	}

	score := overlapRatio*0.70 + baseBonus + completeBonus + optionalBonus + basePenalty

	uses := make([]string, 0, overlapReq+overlapOpt)
	for _, key := range rule.Requires {
		if pantrySet[key] {
			uses = append(uses, key)
		}
	}
	for _, key := range rule.Optional {
		if pantrySet[key] {
			uses = append(uses, key)
		}
	}

	missing := append(absentOnly(rule.Requires, pantrySet), absentOnly(rule.Optional, pantrySet)...)
	if len(missing) > maxMissingPerSuggestion {
		missing = missing[:maxMissingPerSuggestion]
	}

	return Suggestion{
		Title:   rule.Title,
		Desc:    rule.Desc,
		Uses:    uses,
		Missing: missing,
		Score:   math.Round(score*100) / 100,
	}, true
}

func scaleTitle(title, people string) string {
	switch people {
	case "4":
		return title + " (×4)"
	case "3":
		return title + " (×3)"
	case "2":
		return title + " (×2)"
	}
	return title
}

func scaleDesc(desc, people string) string {
	switch people {
	case "4":
		return desc + " Brug ca. dobbelt mængde og smag til."
	case "3":
		return desc + " Skru mængderne op og smag til."
	case "2":
		return desc + " Lav lidt ekstra – smag til."
	}
	return desc
}

// PeopleLabel renders the portion hint for display.
func PeopleLabel(people string) string {
	switch people {
	case "4":
		return "4+ personer"
	case "3":
		return "3 personer"
	case "2":
		return "2 personer"
	}
	return "1 person"
}

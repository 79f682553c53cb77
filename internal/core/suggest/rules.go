package suggest

// Tier labels. The iteration order of Tiers is fixed: it drives both the
// response layout and the shopping list merge order.
const (
	TierSimple   = "simple"
	TierAdvanced = "advanced"
)

// Tiers lists the tiers in their fixed iteration order.
var Tiers = []string{TierSimple, TierAdvanced}

// Rule is one static recipe entry. Requires and Optional hold canonical
// ingredient keys. Declared order within a tier is a priority ranking:
// on equal overlap the earlier rule wins.
type Rule struct {
	Title    string
	Desc     string
	Requires []string
	Optional []string
	// MinBase marks rules that expect at least one base-category
	// ingredient (bread, potatoes, ...) in the pantry.
	MinBase int
}

// rulesByTier is the static rule table. Never mutated at runtime.
var rulesByTier = map[string][]Rule{
	TierSimple: {
		{
			Title:    "Ostemad",
			Desc:     "Simpel klassiker.",
			Requires: []string{"ost", "brød"},
			Optional: []string{"smør"},
			MinBase:  1,
		},
		{
			Title:    "Smørstegte kartofler",
			Desc:     "Sprødt og enkelt på pande.",
			Requires: []string{"kartofler"},
			Optional: []string{"smør", "olie", "salt", "peber"},
			MinBase:  1,
		},
		{
			Title:    "Omelet",
			Desc:     "Pisk æg (mælk er valgfrit) og steg.",
			Requires: []string{"æg"},
			Optional: []string{"mælk", "salt", "peber", "smør"},
		},
		{
			Title:    "Kaffe med mælk",
			Desc:     "Sort eller mild – dit valg.",
			Requires: []string{"kaffe"},
			Optional: []string{"mælk"},
		},
	},
	TierAdvanced: {
		{
			Title:    "Æggekage med kartofler",
			Desc:     "Æg og kartofler i samme pande, løg giver bid.",
			Requires: []string{"æg", "kartofler"},
			Optional: []string{"løg", "smør", "salt", "peber"},
			MinBase:  1,
		},
		{
			Title:    "Stegt kylling med ris",
			Desc:     "Hverdagsret med hvad køleskabet byder på.",
			Requires: []string{"kylling", "ris"},
			Optional: []string{"løg", "hvidløg", "olie"},
			MinBase:  1,
		},
		{
			Title:    "Fisk med citronsmør",
			Desc:     "Pandestegt fisk, smør og citron til sidst.",
			Requires: []string{"fisk"},
			Optional: []string{"citron", "smør", "salt", "peber"},
		},
		{
			Title:    "Cremet dressing",
			Desc:     "Skyr/yoghurt + citron + krydderier.",
			Requires: []string{"skyr"},
			Optional: []string{"yoghurt", "citron", "salt", "peber", "sennep"},
		},
		{
			Title:    "Mayo-dip",
			Desc:     "Mayonnaise + citron/chili giver hurtig dip.",
			Requires: []string{"mayonnaise"},
			Optional: []string{"citron", "chili", "salt", "peber"},
		},
	},
}

// fallbacks is the per-tier default result used when no rule overlaps the
// pantry at all. A tier is never left empty.
var fallbacks = map[string]MatchResult{
	TierSimple: {
		Title:   "Ristet brød med smør",
		Missing: []string{"brød", "smør"},
	},
	TierAdvanced: {
		Title:   "Pasta med smør og ost",
		Missing: []string{"pasta", "smør", "ost"},
	},
}

// RulesForTier returns the declared rule list for a tier.
func RulesForTier(tier string) []Rule {
	return rulesByTier[tier]
}

// AllRules returns every rule across tiers in tier iteration order, for
// the ranked suggestion engine.
func AllRules() []Rule {
	out := make([]Rule, 0, len(rulesByTier[TierSimple])+len(rulesByTier[TierAdvanced]))
	for _, tier := range Tiers {
		out = append(out, rulesByTier[tier]...)
	}
	return out
}

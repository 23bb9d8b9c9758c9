package schema

// ElementNames maps ElasticGraph's canonical internal names to the
// user-configured wire spelling (snake_case or camelCase). Filter
// compilation and sort-enum parsing consult this indirection exclusively so
// that the same compiler works against either casing convention.
type ElementNames struct {
	Filter              string
	EqualToAnyOf         string
	AnySatisfy           string
	Not                  string
	AllOf                string
	AnyOf                string
	OrderBy              string
	Near                 string
	TimeOfDay            string
	Matches              string
	MatchesQuery         string
	MatchesPhrase        string
	GT                   string
	GTE                  string
	LT                   string
	LTE                  string
	Unit                 string
	Latitude             string
	Longitude            string
	MaxDistance          string
	Query                string
	Phrase               string
	AllowedEditsPerTerm  string
	RequireAllTerms      string
	TimeZone             string
	EGLatencySLO         string
	MS                   string
	Count                string
}

// DefaultElementNames returns the canonical snake_case spelling for every
// element name, used unless the schema author configures an override.
func DefaultElementNames() ElementNames {
	return ElementNames{
		Filter:              "filter",
		EqualToAnyOf:        "equal_to_any_of",
		AnySatisfy:          "any_satisfy",
		Not:                 "not",
		AllOf:                "all_of",
		AnyOf:                "any_of",
		OrderBy:              "order_by",
		Near:                 "near",
		TimeOfDay:            "time_of_day",
		Matches:              "matches",
		MatchesQuery:         "matches_query",
		MatchesPhrase:        "matches_phrase",
		GT:                   "gt",
		GTE:                  "gte",
		LT:                   "lt",
		LTE:                  "lte",
		Unit:                 "unit",
		Latitude:             "latitude",
		Longitude:            "longitude",
		MaxDistance:          "max_distance",
		Query:                "query",
		Phrase:               "phrase",
		AllowedEditsPerTerm:  "allowed_edits_per_term",
		RequireAllTerms:      "require_all_terms",
		TimeZone:             "time_zone",
		EGLatencySLO:         "eg_latency_slo",
		MS:                   "ms",
		Count:                "count",
	}
}

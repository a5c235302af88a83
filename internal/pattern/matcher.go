package pattern

// Evidence is a single indicator match supporting (or, for negative
// indicators, weakening) the detection of a pattern. Values are read-only
// once produced.
type Evidence struct {
	PatternID string  `json:"pattern_id"`
	Indicator string  `json:"indicator"`
	Match     string  `json:"match"`
	Offset    int     `json:"offset"`
	Weight    float64 `json:"weight"`
}

// matchIndicators scans text against one indicator set in catalog order.
// An indicator contributes at most once, at its first occurrence, so a phrase
// repeated throughout a long issue body cannot inflate the score. Matches of
// different indicators are all kept, even when they overlap.
func matchIndicators(text string, patternID string, indicators []Indicator) []Evidence {
	var evidence []Evidence
	for _, ind := range indicators {
		loc := ind.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		evidence = append(evidence, Evidence{
			PatternID: patternID,
			Indicator: ind.Description,
			Match:     text[loc[0]:loc[1]],
			Offset:    loc[0],
			Weight:    ind.Weight,
		})
	}
	return evidence
}

// match runs both the positive and negative indicator sets of a definition
// against text.
func match(text string, def *Definition) (evidence, counter []Evidence) {
	evidence = matchIndicators(text, def.ID, def.Indicators)
	counter = matchIndicators(text, def.ID, def.NegativeIndicators)
	return evidence, counter
}

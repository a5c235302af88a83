package pattern

// score aggregates matched evidence into a confidence value in [0,1].
//
// Confidence is the sum of matched weights (negative evidence subtracts)
// normalized by the sum of all positive indicator weights for the pattern,
// then clamped. This keeps confidence monotonic non-decreasing in matched
// positive indicators and guarantees that a text matching every positive
// indicator (and no negative one) scores exactly 1.0.
func score(def *Definition, evidence, counter []Evidence) float64 {
	if def.totalWeight <= 0 {
		return 0
	}

	var sum float64
	for _, ev := range evidence {
		sum += ev.Weight
	}
	for _, ev := range counter {
		sum += ev.Weight
	}

	confidence := sum / def.totalWeight
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

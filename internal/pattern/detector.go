package pattern

// DetectionResult is the outcome of evaluating one pattern against one input
// text. One result exists per (text, pattern) pair; it is immutable and never
// persisted.
type DetectionResult struct {
	PatternID  string     `json:"pattern_type"`
	Detected   bool       `json:"detected"`
	Confidence float64    `json:"confidence"`
	Threshold  float64    `json:"threshold"`
	Evidence   []Evidence `json:"evidence,omitempty"`
	Counter    []Evidence `json:"counter_evidence,omitempty"`
}

// Detector evaluates every pattern of an immutable catalog against input
// text. It holds no mutable state, so a single Detector may be shared across
// goroutines.
type Detector struct {
	catalog *Catalog
}

// NewDetector creates a Detector over a loaded catalog.
func NewDetector(catalog *Catalog) *Detector {
	return &Detector{catalog: catalog}
}

// Catalog returns the catalog this detector evaluates.
func (d *Detector) Catalog() *Catalog {
	return d.catalog
}

// Analyze evaluates every catalog pattern against text and returns one
// result per pattern, in catalog order, including non-detections. Patterns
// are evaluated independently against the same text; repeated calls with the
// same input yield identical results.
func (d *Detector) Analyze(text string) []DetectionResult {
	return d.AnalyzeFocused(text, nil)
}

// AnalyzeWithContext concatenates primary content with additional context
// (e.g. an issue title) before analysis, mirroring how issue bodies and
// titles are scanned together.
func (d *Detector) AnalyzeWithContext(content, context string) []DetectionResult {
	text := content
	if context != "" {
		text = content + " " + context
	}
	return d.Analyze(text)
}

// AnalyzeFocused restricts analysis to the given pattern IDs. A nil or empty
// focus means all patterns. Unknown IDs are ignored; filtering happens here
// so callers cannot smuggle arbitrary strings into the engine.
func (d *Detector) AnalyzeFocused(text string, focus []string) []DetectionResult {
	var focusSet map[string]bool
	if len(focus) > 0 {
		focusSet = make(map[string]bool, len(focus))
		for _, id := range focus {
			focusSet[id] = true
		}
	}

	results := make([]DetectionResult, 0, d.catalog.Len())
	for i := range d.catalog.defs {
		def := &d.catalog.defs[i]
		if focusSet != nil && !focusSet[def.ID] {
			continue
		}
		results = append(results, evaluate(text, def))
	}
	return results
}

// evaluate runs matcher and scorer for a single pattern. A pattern is never
// detected without at least one piece of evidence, even at threshold 0.
func evaluate(text string, def *Definition) DetectionResult {
	evidence, counter := match(text, def)
	confidence := score(def, evidence, counter)

	return DetectionResult{
		PatternID:  def.ID,
		Detected:   len(evidence) > 0 && confidence >= def.DetectionThreshold,
		Confidence: confidence,
		Threshold:  def.DetectionThreshold,
		Evidence:   evidence,
		Counter:    counter,
	}
}

// Detected filters results down to detections, preserving order.
func Detected(results []DetectionResult) []DetectionResult {
	var detected []DetectionResult
	for _, r := range results {
		if r.Detected {
			detected = append(detected, r)
		}
	}
	return detected
}

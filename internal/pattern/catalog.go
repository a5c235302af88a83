// Package pattern implements the anti-pattern detection engine: a rule-based
// classifier that scans free text against a catalog of indicator regexes,
// aggregates weighted evidence and emits a confidence score per pattern.
//
// The catalog is loaded once at startup and is immutable afterwards, so a
// Detector is safe for concurrent use without locking. All configuration
// problems (duplicate IDs, malformed regexes, out-of-range thresholds) are
// surfaced at load time as *ConfigError, never per analysis call.
package pattern

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var defaultCatalogYAML []byte

// Indicator is a single weighted textual cue for a pattern. The regex is
// matched case-insensitively against the input text.
type Indicator struct {
	Regex       string  `yaml:"regex"`
	Description string  `yaml:"description"`
	Weight      float64 `yaml:"weight"`

	re *regexp.Regexp
}

// Definition describes one anti-pattern: its identity, its weighted
// indicators and the confidence threshold above which it counts as detected.
// Negative indicators carry negative weights and pull the confidence down
// when they match (e.g. mentions of official SDKs).
type Definition struct {
	ID                 string      `yaml:"id"`
	Name               string      `yaml:"name"`
	Description        string      `yaml:"description"`
	Severity           string      `yaml:"severity"`
	DetectionThreshold float64     `yaml:"detection_threshold"`
	Indicators         []Indicator `yaml:"indicators"`
	NegativeIndicators []Indicator `yaml:"negative_indicators,omitempty"`

	// Sum of positive indicator weights, precomputed at load time.
	totalWeight float64
}

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Patterns []Definition `yaml:"patterns"`
}

// Catalog is the immutable, ordered collection of pattern definitions.
type Catalog struct {
	defs []Definition
	byID map[string]int
}

// ConfigError reports an invalid pattern catalog. It is fatal at load time
// and is never produced during analysis.
type ConfigError struct {
	Pattern string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("invalid pattern catalog: %s", e.Reason)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

// Load reads and validates a pattern catalog from r. Every indicator regex is
// compiled here (case-insensitively) so analysis can never fail on a bad
// expression.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot parse catalog: %v", err)}
	}

	if len(file.Patterns) == 0 {
		return nil, &ConfigError{Reason: "catalog defines no patterns"}
	}

	c := &Catalog{
		defs: file.Patterns,
		byID: make(map[string]int, len(file.Patterns)),
	}

	for i := range c.defs {
		def := &c.defs[i]
		if err := validateDefinition(def); err != nil {
			return nil, err
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, &ConfigError{Pattern: def.ID, Reason: "duplicate pattern identifier"}
		}
		if err := compileIndicators(def); err != nil {
			return nil, err
		}
		c.byID[def.ID] = i
	}

	return c, nil
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalogYAML))
}

// Definitions returns the patterns in catalog order. Callers must not
// modify the returned slice.
func (c *Catalog) Definitions() []Definition {
	return c.defs
}

// Lookup returns the definition for id, if present.
func (c *Catalog) Lookup(id string) (*Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.defs[i], true
}

// Len returns the number of patterns in the catalog.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// IDs returns the pattern identifiers in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.defs))
	for i, def := range c.defs {
		ids[i] = def.ID
	}
	return ids
}

func validateDefinition(def *Definition) error {
	if strings.TrimSpace(def.ID) == "" {
		return &ConfigError{Reason: "pattern with empty identifier"}
	}
	if def.DetectionThreshold < 0 || def.DetectionThreshold > 1 {
		return &ConfigError{Pattern: def.ID, Reason: fmt.Sprintf("detection threshold %.2f outside [0,1]", def.DetectionThreshold)}
	}
	if len(def.Indicators) == 0 {
		return &ConfigError{Pattern: def.ID, Reason: "pattern defines no indicators"}
	}
	for _, ind := range def.Indicators {
		if ind.Weight <= 0 {
			return &ConfigError{Pattern: def.ID, Reason: fmt.Sprintf("indicator %q must have positive weight", ind.Regex)}
		}
	}
	for _, ind := range def.NegativeIndicators {
		if ind.Weight >= 0 {
			return &ConfigError{Pattern: def.ID, Reason: fmt.Sprintf("negative indicator %q must have negative weight", ind.Regex)}
		}
	}
	return nil
}

func compileIndicators(def *Definition) error {
	def.totalWeight = 0
	for i := range def.Indicators {
		ind := &def.Indicators[i]
		re, err := regexp.Compile("(?i)" + ind.Regex)
		if err != nil {
			return &ConfigError{Pattern: def.ID, Reason: fmt.Sprintf("malformed indicator regex %q: %v", ind.Regex, err)}
		}
		ind.re = re
		def.totalWeight += ind.Weight
	}
	for i := range def.NegativeIndicators {
		ind := &def.NegativeIndicators[i]
		re, err := regexp.Compile("(?i)" + ind.Regex)
		if err != nil {
			return &ConfigError{Pattern: def.ID, Reason: fmt.Sprintf("malformed negative indicator regex %q: %v", ind.Regex, err)}
		}
		ind.re = re
	}
	return nil
}

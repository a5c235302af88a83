package pattern

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadValidCatalog(t *testing.T) {
	yaml := `
patterns:
  - id: custom_rest_server
    name: Custom REST Server
    severity: high
    detection_threshold: 0.5
    indicators:
      - regex: building a custom REST server
        description: custom REST server planned
        weight: 0.6
      - regex: no official API client
        description: official client assumed missing
        weight: 0.4
`
	c, err := Load(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("Expected 1 pattern, got %d", c.Len())
	}

	def, ok := c.Lookup("custom_rest_server")
	if !ok {
		t.Fatal("Lookup failed for custom_rest_server")
	}
	if def.DetectionThreshold != 0.5 {
		t.Errorf("Expected threshold 0.5, got %f", def.DetectionThreshold)
	}
	if def.totalWeight != 1.0 {
		t.Errorf("Expected total weight 1.0, got %f", def.totalWeight)
	}
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate pattern identifiers",
			yaml: `
patterns:
  - id: dup
    detection_threshold: 0.5
    indicators:
      - {regex: a, description: a, weight: 1.0}
  - id: dup
    detection_threshold: 0.5
    indicators:
      - {regex: b, description: b, weight: 1.0}
`,
		},
		{
			name: "malformed indicator regex",
			yaml: `
patterns:
  - id: bad_regex
    detection_threshold: 0.5
    indicators:
      - {regex: "(unclosed", description: broken, weight: 1.0}
`,
		},
		{
			name: "empty identifier",
			yaml: `
patterns:
  - id: ""
    detection_threshold: 0.5
    indicators:
      - {regex: a, description: a, weight: 1.0}
`,
		},
		{
			name: "threshold above one",
			yaml: `
patterns:
  - id: too_high
    detection_threshold: 1.5
    indicators:
      - {regex: a, description: a, weight: 1.0}
`,
		},
		{
			name: "no indicators",
			yaml: `
patterns:
  - id: empty
    detection_threshold: 0.5
    indicators: []
`,
		},
		{
			name: "negative indicator with positive weight",
			yaml: `
patterns:
  - id: bad_negative
    detection_threshold: 0.5
    indicators:
      - {regex: a, description: a, weight: 1.0}
    negative_indicators:
      - {regex: b, description: b, weight: 0.5}
`,
		},
		{
			name: "no patterns at all",
			yaml: `patterns: []`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("Expected load to fail")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected *ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default catalog failed to load: %v", err)
	}

	expected := []string{
		"infrastructure_without_implementation",
		"symptom_driven_development",
		"complexity_escalation",
		"documentation_neglect",
	}

	ids := c.IDs()
	if len(ids) != len(expected) {
		t.Fatalf("Expected %d patterns, got %d: %v", len(expected), len(ids), ids)
	}
	for i, id := range expected {
		if ids[i] != id {
			t.Errorf("Pattern %d: expected %s, got %s", i, id, ids[i])
		}
	}
}

func TestLookupUnknownPattern(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default catalog failed to load: %v", err)
	}

	if _, ok := c.Lookup("nonexistent"); ok {
		t.Error("Lookup should fail for unknown pattern")
	}
}

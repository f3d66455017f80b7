package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Range bounds a numeric field; extracted values outside it are discarded.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies within the range (inclusive).
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Heuristics holds the tunable constants of the extraction pipeline. The
// gate-page windows and marker patterns are calibrated against one platform's
// historical markup and will need re-tuning when that markup changes, which
// is why they live here instead of in the extractor code.
type Heuristics struct {
	// Gate-page detection (social category only).
	GateLoginWindow   int    `yaml:"gate_login_window"`
	GateListingWindow int    `yaml:"gate_listing_window"`
	LoginPattern      string `yaml:"login_pattern"`
	ListingPattern    string `yaml:"listing_pattern"`

	// Fetch/corpus bounds.
	MinBodyBytes int `yaml:"min_body_bytes"`
	CorpusMaxLen int `yaml:"corpus_max_len"`

	// Output caps.
	MaxImages int `yaml:"max_images"`
	MaxPhones int `yaml:"max_phones"`

	// Plausibility ranges per numeric field.
	Price Range `yaml:"price"`
	Rooms Range `yaml:"rooms"`
	Baths Range `yaml:"baths"`
	Sqm   Range `yaml:"sqm"`
	Floor Range `yaml:"floor"`
}

// DefaultHeuristics returns the packaged defaults, matching the values the
// pipeline was originally tuned with.
func DefaultHeuristics() *Heuristics {
	return &Heuristics{
		GateLoginWindow:   30000,
		GateListingWindow: 10000,
		LoginPattern:      `(?i)login_form|loginbutton|"login"|Log\s*In`,
		ListingPattern:    `(?i)listing|marketplace|product`,

		MinBodyBytes: 100,
		CorpusMaxLen: 200000,

		MaxImages: 8,
		MaxPhones: 3,

		Price: Range{Min: 100000, Max: 50000000},
		Rooms: Range{Min: 0.5, Max: 20},
		Baths: Range{Min: 0.5, Max: 10},
		Sqm:   Range{Min: 10, Max: 2000},
		Floor: Range{Min: 0, Max: 100},
	}
}

// LoadHeuristics overlays a YAML file onto the defaults. An empty path or a
// missing file is not an error: the defaults apply unchanged.
func LoadHeuristics(path string) (*Heuristics, error) {
	h := DefaultHeuristics()
	if path == "" {
		return h, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("heuristics: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("heuristics: parse %s: %w", path, err)
	}
	return h, nil
}

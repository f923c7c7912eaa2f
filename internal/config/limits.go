package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuntimeLimits bounds the compile-time evaluator's resource usage. These are
// soft bounds: exceeding ContextMax must trigger the context merger (see the
// evaluator package's EnforceContextMax), and exceeding LifetimeCap only saturates the
// counter rather than erroring.
type RuntimeLimits struct {
	// ContextMax is the soft cap on the number of contexts a single Returns
	// bag may carry before the caller is expected to invoke the merger.
	ContextMax int `yaml:"context_max"`

	// LifetimeCap is the ceiling a per-value lifetime counter saturates at.
	LifetimeCap uint16 `yaml:"lifetime_cap"`

	// MaxBumpVisits guards increment_single_lifetime against runaway
	// recursion through cyclic structures; it is a visited-set size cap,
	// not a correctness requirement (the visited set already prevents
	// infinite recursion), but it keeps pathological inputs bounded.
	MaxBumpVisits int `yaml:"max_bump_visits"`
}

// DefaultLimits mirrors the constants the reference implementation hard
// coded: CONTEXT_MAX and the 10,000 lifetime saturation point.
func DefaultLimits() RuntimeLimits {
	return RuntimeLimits{
		ContextMax:    100,
		LifetimeCap:   10000,
		MaxBumpVisits: 100000,
	}
}

// LoadLimits reads RuntimeLimits from a YAML file, falling back to
// DefaultLimits for any field left unset (zero value) in the file.
func LoadLimits(path string) (RuntimeLimits, error) {
	limits := DefaultLimits()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return limits, nil
		}
		return limits, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var overlay RuntimeLimits
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return limits, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if overlay.ContextMax > 0 {
		limits.ContextMax = overlay.ContextMax
	}
	if overlay.LifetimeCap > 0 {
		limits.LifetimeCap = overlay.LifetimeCap
	}
	if overlay.MaxBumpVisits > 0 {
		limits.MaxBumpVisits = overlay.MaxBumpVisits
	}
	return limits, nil
}

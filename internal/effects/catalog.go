package effects

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Type names an effect, e.g. "insight_gain_flat".
type Type string

// Category selects how contributions of one effect type combine.
type Category int

const (
	Opaque         Category = iota // forwarded verbatim, never aggregated
	Additive                       // sum, identity 0
	Multiplicative                 // product, identity 1
	Clamped                        // sum clamped to [0,1], identity 0
	Latch                          // true once any contribution applies, identity false
)

func (c Category) String() string {
	switch c {
	case Additive:
		return "additive"
	case Multiplicative:
		return "multiplicative"
	case Clamped:
		return "clamped"
	case Latch:
		return "latch"
	default:
		return "opaque"
	}
}

// ParseCategory converts a category name back to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "additive":
		return Additive, nil
	case "multiplicative":
		return Multiplicative, nil
	case "clamped", "probability":
		return Clamped, nil
	case "latch", "boolean":
		return Latch, nil
	case "opaque", "complex":
		return Opaque, nil
	}
	return Opaque, fmt.Errorf("unknown effect category %q", s)
}

// Identity returns the accumulator value a category starts from.
func (c Category) Identity() Value {
	switch c {
	case Additive, Clamped:
		return Number(0)
	case Multiplicative:
		return Number(1)
	case Latch:
		return Bool(false)
	}
	return Value{}
}

// Combine folds one contribution into an accumulator.
func (c Category) Combine(acc, v Value) Value {
	switch c {
	case Additive:
		a, _ := acc.Float()
		b, ok := v.Float()
		if !ok {
			return acc
		}
		return Number(a + b)
	case Multiplicative:
		a, _ := acc.Float()
		b, ok := v.Float()
		if !ok {
			return acc
		}
		return Number(a * b)
	case Clamped:
		a, _ := acc.Float()
		b, ok := v.Float()
		if !ok {
			return acc
		}
		return Number(min(max(a+b, 0), 1))
	case Latch:
		// Applying the effect sets the flag; the effect's own value is
		// not consulted.
		return Bool(true)
	}
	return acc
}

// Catalog maps effect types to categories. Types not in the catalog are
// treated as Opaque.
type Catalog struct {
	mu    sync.RWMutex
	types map[Type]Category
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[Type]Category)}
}

// DefaultCatalog returns a catalog seeded with the game's effect vocabulary.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for cat, types := range defaultVocabulary {
		for _, t := range types {
			c.types[t] = cat
		}
	}
	return c
}

// Register adds or replaces the category of an effect type.
func (c *Catalog) Register(t Type, cat Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t] = cat
}

// Category returns the category of t, or Opaque if unknown.
func (c *Catalog) Category(t Type) Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.types[t]
}

// Known reports whether t has been registered.
func (c *Catalog) Known(t Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.types[t]
	return ok
}

// Types returns every registered type in sorted order.
func (c *Catalog) Types() []Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.types))
}

var defaultVocabulary = map[Category][]Type{
	Additive: {
		"insight_gain_flat",
		"reveal_patient_parameter",
		"consult_help",
		"favor_usage",
	},
	Multiplicative: {
		"insight_gain_multiplier",
		"patient_outcome_multiplier",
		"treatment_effectiveness_multiplier",
		"critical_insight_multiplier",
		"funding_multiplier",
	},
	Clamped: {
		"auto_solve_chance",
		"calibration_success",
		"malfunction_penalty_reduction",
		"equipment_cost_reduction",
		"repair_cost_reduction",
		"time_cost_reduction",
		"adverse_event_reduction",
		"multi_equipment_bonus",
		"insight_to_reputation_conversion",
		"clinical_to_reputation_conversion",
		"multi_specialization_bonus",
		"failure_conversion",
	},
	Latch: {
		"reveal_parameter",
		"unlock_dialogue_options",
		"unlock_experimental_treatments",
		"preview_outcomes",
		"reveal_equipment_internals",
		"auto_detect_qa_issues",
		"auto_detect_radiation_anomalies",
		"temporary_equipment_fix",
		"recall_similar_questions",
	},
	Opaque: {
		"start_with_items",
		"companion",
		"specialization_synergy",
	},
}

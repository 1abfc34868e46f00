package catalog

import (
	"fmt"
	"math"
	"strings"
)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ValidateRaw checks semantic constraints of a merged catalog.
func ValidateRaw(raw Raw) error {
	var errs []string

	// enemies
	seen := make(map[string]bool, len(raw.Enemies))
	for i, e := range raw.Enemies {
		if e.ID == "" {
			errs = append(errs, fmt.Sprintf("enemies[%d].id is required", i))
			continue
		}
		if seen[e.ID] {
			errs = append(errs, fmt.Sprintf("enemies[%d].id %q is duplicated", i, e.ID))
		}
		seen[e.ID] = true
		switch {
		case e.Def == nil:
			errs = append(errs, fmt.Sprintf("enemies[%s].def is required", e.ID))
		case !finite(*e.Def):
			errs = append(errs, fmt.Sprintf("enemies[%s].def must be a finite number", e.ID))
		case *e.Def < 0:
			errs = append(errs, fmt.Sprintf("enemies[%s].def must be >= 0", e.ID))
		}
		if e.AdditionalDefCoeff != nil && !finite(*e.AdditionalDefCoeff) {
			errs = append(errs, fmt.Sprintf("enemies[%s].additional_def_coeff must be a finite number", e.ID))
		}
		if e.HP != nil {
			if !finite(*e.HP) {
				errs = append(errs, fmt.Sprintf("enemies[%s].hp must be a finite number", e.ID))
			} else if *e.HP < 0 {
				errs = append(errs, fmt.Sprintf("enemies[%s].hp must be >= 0", e.ID))
			}
		}
		if e.ValidFrom != nil && e.ValidUntil != nil && !e.ValidUntil.After(*e.ValidFrom) {
			errs = append(errs, fmt.Sprintf("enemies[%s].valid_until must be after valid_from", e.ID))
		}
	}

	// modifiers
	for c, ms := range raw.Modifiers {
		if !c.Known() {
			errs = append(errs, fmt.Sprintf("modifiers.%s is not a known category", c))
			continue
		}
		ids := make(map[string]bool, len(ms))
		for i, m := range ms {
			if m.ID == "" {
				errs = append(errs, fmt.Sprintf("modifiers.%s[%d].id is required", c, i))
				continue
			}
			if ids[m.ID] {
				errs = append(errs, fmt.Sprintf("modifiers.%s[%d].id %q is duplicated", c, i, m.ID))
			}
			ids[m.ID] = true
			if !finite(m.Value) {
				errs = append(errs, fmt.Sprintf("modifiers.%s[%s].value must be a finite number", c, m.ID))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

package damage

// Weakness specifies how the target's element affinity scales damage.
type Weakness string

const (
	WeaknessWeak   Weakness = "weak"
	WeaknessNormal Weakness = "normal"
	WeaknessResist Weakness = "resist"
)

// Coefficient returns the damage multiplier for w. Unknown or empty values
// behave as normal.
func (w Weakness) Coefficient() float64 {
	switch w {
	case WeaknessWeak:
		return 1.2
	case WeaknessResist:
		return 0.5
	default:
		return 1.0
	}
}

// Valid reports whether w is one of the known variants (empty counts as normal).
func (w Weakness) Valid() bool {
	switch w {
	case "", WeaknessWeak, WeaknessNormal, WeaknessResist:
		return true
	}
	return false
}

// WeaknessCoefficient is the free-function form of Weakness.Coefficient.
func WeaknessCoefficient(w Weakness) float64 { return w.Coefficient() }

// RandomCoefficientExpectation is the midpoint of the damage roll interval.
func RandomCoefficientExpectation(cfg RandomCoeffConfig) float64 {
	return (cfg.Min + cfg.Max) / 2
}

// SampleRandomCoefficient draws one roll uniformly from [Min, Max].
// Only for single-shot display; ranking uses the expectation.
func SampleRandomCoefficient(cfg RandomCoeffConfig, rng RandomSource) float64 {
	if rng == nil {
		rng = DefaultRNG()
	}
	if cfg.Max <= cfg.Min {
		return cfg.Min
	}
	return cfg.Min + (cfg.Max-cfg.Min)*rng.Float64()
}

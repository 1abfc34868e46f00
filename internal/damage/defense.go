package damage

import "math"

const (
	// SaturationConstant shapes the diminishing-returns curve: a defense value
	// of 1400 (after coefficients) halves the damage.
	SaturationConstant = 1400.0
	// WindStrikeFactor scales the defense coefficient under the wind strike status.
	WindStrikeFactor = 0.88
)

// DefenseCoefficient returns the effective defense coefficient as a fraction
// (1.1 for +10%), after penetration, debuffs and wind strike. Never negative.
func DefenseCoefficient(cfg EnemyDefenseConfig) float64 {
	coeff := (1+cfg.AdditionalDefenseCoeff/100)*(1-cfg.Penetration/100) - cfg.DefenseDebuff/100
	if cfg.IsWindAttack {
		coeff *= WindStrikeFactor
	}
	return math.Max(0, coeff)
}

// CalculateEnemyDefense returns the fraction of damage that survives the
// enemy's defense, in (0,1]. Smaller means more mitigated.
func CalculateEnemyDefense(cfg EnemyDefenseConfig) float64 {
	numerator := cfg.BaseDefense * DefenseCoefficient(cfg)
	denominator := numerator + SaturationConstant
	return 1 - numerator/denominator
}

package damage

// BaseMultiplier is the implicit 100% every attack multiplier starts from.
const BaseMultiplier = 100.0

// CalculateAttackMultiplier folds the additive percentage categories into one factor.
func CalculateAttackMultiplier(cfg AttackMultiplierConfig) float64 {
	sum := cfg.BaseMultiplier +
		cfg.AttackMultiplierPlus +
		cfg.AttributeAttackMultiplierPlus +
		cfg.DamageIncreaseRate +
		cfg.EnemyDamageIncreaseRate
	return sum / 100
}

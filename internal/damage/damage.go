package damage

// Estimate is the damage range for one scenario.
type Estimate struct {
	Min     float64 `json:"min"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
}

// Breakdown reports every sub-factor and the running damage after each stage.
type Breakdown struct {
	AttackPower      float64 `json:"attack_power"`
	AttackMultiplier float64 `json:"attack_multiplier"`
	DefenseRetention float64 `json:"defense_retention"`
	CriticalBonus    float64 `json:"critical_bonus"`
	RandomCoeff      float64 `json:"random_coeff"`
	WeaknessCoeff    float64 `json:"weakness_coeff"`

	BaseDamage       float64 `json:"base_damage"`       // attack power * skill
	MultipliedDamage float64 `json:"multiplied_damage"` // * attack multiplier * final multiplier
	DefendedDamage   float64 `json:"defended_damage"`   // * defense retention
	WeaknessDamage   float64 `json:"weakness_damage"`
	RandomDamage     float64 `json:"random_damage"`
	OtherDamage      float64 `json:"other_damage"`
	CriticalDamage   float64 `json:"critical_damage"` // final expected damage
}

// damageAt evaluates the full formula with a given random coefficient.
func damageAt(cfg Config, randomCoeff float64) float64 {
	return ResolveAttackPower(cfg.AttackPower) *
		CalculateAttackMultiplier(cfg.AttackMultiplier) *
		CalculateEnemyDefense(cfg.EnemyDefense) *
		cfg.SkillCoeff *
		cfg.Weakness.Coefficient() *
		cfg.FinalAttackMultiplier *
		cfg.OtherCoeff *
		randomCoeff *
		CriticalFactor(CalculateCriticalExpectation(cfg.Critical))
}

// CalculateDamage returns the expected damage at the low end, midpoint and
// high end of the damage roll.
func CalculateDamage(cfg Config) Estimate {
	return Estimate{
		Min:     damageAt(cfg, cfg.Random.Min),
		Average: damageAt(cfg, RandomCoefficientExpectation(cfg.Random)),
		Max:     damageAt(cfg, cfg.Random.Max),
	}
}

// SampleDamage rolls the random coefficient once.
func SampleDamage(cfg Config, rng RandomSource) float64 {
	return damageAt(cfg, SampleRandomCoefficient(cfg.Random, rng))
}

// AnalyzeDamage walks the formula stage by stage at the expected random roll.
func AnalyzeDamage(cfg Config) Breakdown {
	b := Breakdown{
		AttackPower:      ResolveAttackPower(cfg.AttackPower),
		AttackMultiplier: CalculateAttackMultiplier(cfg.AttackMultiplier),
		DefenseRetention: CalculateEnemyDefense(cfg.EnemyDefense),
		CriticalBonus:    CalculateCriticalExpectation(cfg.Critical),
		RandomCoeff:      RandomCoefficientExpectation(cfg.Random),
		WeaknessCoeff:    cfg.Weakness.Coefficient(),
	}
	b.BaseDamage = b.AttackPower * cfg.SkillCoeff
	b.MultipliedDamage = b.BaseDamage * b.AttackMultiplier * cfg.FinalAttackMultiplier
	b.DefendedDamage = b.MultipliedDamage * b.DefenseRetention
	b.WeaknessDamage = b.DefendedDamage * b.WeaknessCoeff
	b.RandomDamage = b.WeaknessDamage * b.RandomCoeff
	b.OtherDamage = b.RandomDamage * cfg.OtherCoeff
	b.CriticalDamage = b.OtherDamage * CriticalFactor(b.CriticalBonus)
	return b
}

// types.go
package damage

// AttackPowerConfig describes the inputs of the attack power formula.
// AttackBuff is a factor (1.0 = no bonus), not a percentage; use BuffFactor
// to convert UI percentages first.
type AttackPowerConfig struct {
	CharacterBaseAttack float64 `json:"character_base_attack" yaml:"character_base_attack"`
	WeaponAttack        float64 `json:"weapon_attack" yaml:"weapon_attack"`
	AttackBuff          float64 `json:"attack_buff" yaml:"attack_buff"`
	AttackConstant      float64 `json:"attack_constant" yaml:"attack_constant"`
}

// AttackMultiplierConfig holds additive percentages, summed then divided by 100.
type AttackMultiplierConfig struct {
	BaseMultiplier                float64 `json:"base_multiplier" yaml:"base_multiplier"` // normally 100
	AttackMultiplierPlus          float64 `json:"attack_multiplier_plus" yaml:"attack_multiplier_plus"`
	AttributeAttackMultiplierPlus float64 `json:"attribute_attack_multiplier_plus" yaml:"attribute_attack_multiplier_plus"`
	DamageIncreaseRate            float64 `json:"damage_increase_rate" yaml:"damage_increase_rate"`
	EnemyDamageIncreaseRate       float64 `json:"enemy_damage_increase_rate" yaml:"enemy_damage_increase_rate"`
}

// EnemyDefenseConfig describes the target side of the mitigation curve.
// AdditionalDefenseCoeff, Penetration and DefenseDebuff are percentages.
type EnemyDefenseConfig struct {
	BaseDefense            float64 `json:"base_defense" yaml:"base_defense"`
	AdditionalDefenseCoeff float64 `json:"additional_defense_coeff" yaml:"additional_defense_coeff"`
	Penetration            float64 `json:"penetration" yaml:"penetration"`
	DefenseDebuff          float64 `json:"defense_debuff" yaml:"defense_debuff"`
	IsWindAttack           bool    `json:"is_wind_attack" yaml:"is_wind_attack"`
}

// CriticalConfig: rate in percent (capped at 100 on use), multiplier in percent
// where 100 means no bonus.
type CriticalConfig struct {
	CriticalRate       float64 `json:"critical_rate" yaml:"critical_rate"`
	CriticalMultiplier float64 `json:"critical_multiplier" yaml:"critical_multiplier"`
}

// RandomCoeffConfig is the damage roll interval in factor form, e.g. 0.95..1.05.
type RandomCoeffConfig struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Config is one full scenario. SkillCoeff, FinalAttackMultiplier and OtherCoeff
// are factors (1.0 = neutral).
type Config struct {
	AttackPower           AttackPowerConfig      `json:"attack_power" yaml:"attack_power"`
	AttackMultiplier      AttackMultiplierConfig `json:"attack_multiplier" yaml:"attack_multiplier"`
	EnemyDefense          EnemyDefenseConfig     `json:"enemy_defense" yaml:"enemy_defense"`
	Critical              CriticalConfig         `json:"critical" yaml:"critical"`
	Weakness              Weakness               `json:"weakness" yaml:"weakness"`
	Random                RandomCoeffConfig      `json:"random" yaml:"random"`
	SkillCoeff            float64                `json:"skill_coeff" yaml:"skill_coeff"`
	FinalAttackMultiplier float64                `json:"final_attack_multiplier" yaml:"final_attack_multiplier"`
	OtherCoeff            float64                `json:"other_coeff" yaml:"other_coeff"`
}

const (
	DefaultRandomMin = 0.95
	DefaultRandomMax = 1.05
)

// DefaultAttackMultiplier returns a multiplier config with only the 100% base.
func DefaultAttackMultiplier() AttackMultiplierConfig {
	return AttackMultiplierConfig{BaseMultiplier: BaseMultiplier}
}

// DefaultConfig returns a neutral scenario: no buffs, normal weakness,
// +-5% damage roll and all extra coefficients at 1.
func DefaultConfig() Config {
	return Config{
		AttackPower:           AttackPowerConfig{AttackBuff: 1},
		AttackMultiplier:      DefaultAttackMultiplier(),
		Critical:              CriticalConfig{CriticalMultiplier: 100},
		Weakness:              WeaknessNormal,
		Random:                RandomCoeffConfig{Min: DefaultRandomMin, Max: DefaultRandomMax},
		SkillCoeff:            1,
		FinalAttackMultiplier: 1,
		OtherCoeff:            1,
	}
}

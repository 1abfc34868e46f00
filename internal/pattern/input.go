package pattern

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/damage-coeff/internal/catalog"
	"github.com/xtding233/damage-coeff/internal/damage"
)

var ErrUnknownEnemy = errors.New("unknown enemy id")

// NonCombat is what the status screen shows outside of battle; the hidden
// character base attack is backed out of it.
type NonCombat struct {
	TargetAttackPower float64 `json:"target_attack_power"`
	WeaponAttack      float64 `json:"weapon_attack"`
	AttackBuff        float64 `json:"attack_buff"` // percent
	AttackConstant    float64 `json:"attack_constant"`
}

// CombatBonus is the manual in-battle attack bonus on top of the selections.
type CombatBonus struct {
	CombatBuff     float64 `json:"combat_buff"` // percent
	CombatConstant float64 `json:"combat_constant"`
}

// Input is one pattern as entered: manual values plus per-category selections.
// Manual fields act as the override added to each category's selected total.
type Input struct {
	Name             string                                `json:"name"`
	NonCombat        NonCombat                             `json:"non_combat"`
	CombatBonus      CombatBonus                           `json:"combat_bonus"`
	AttackMultiplier damage.AttackMultiplierConfig         `json:"attack_multiplier"`
	EnemyID          string                                `json:"enemy_id,omitempty"`
	EnemyDefense     damage.EnemyDefenseConfig             `json:"enemy_defense"`
	Critical         damage.CriticalConfig                 `json:"critical"`
	Selections       map[catalog.Category]damage.Selection `json:"selections,omitempty"`

	// scenario extras; zero values fall back to DefaultConfig
	Weakness   damage.Weakness           `json:"weakness,omitempty"`
	Random     *damage.RandomCoeffConfig `json:"random,omitempty"`
	SkillCoeff float64                   `json:"skill_coeff,omitempty"`
}

// Totals are the aggregated category sums, exposed for result displays.
type Totals struct {
	CombatBuff          float64 `json:"combat_buff"`
	DamageIncrease      float64 `json:"damage_increase"`
	EnemyDamageIncrease float64 `json:"enemy_damage_increase"`
	Attribute           float64 `json:"attribute"`
	Penetration         float64 `json:"penetration"`
	DefenseDebuff       float64 `json:"defense_debuff"`
	CriticalRate        float64 `json:"critical_rate"`
	CriticalMultiplier  float64 `json:"critical_multiplier"`
}

// Totals sums every category: catalog values of the selected ids plus the
// matching manual field.
func (in Input) Totals(repo catalog.Repository) Totals {
	sum := func(c catalog.Category, manual float64) float64 {
		return damage.SumSelected(in.Selections[c], repo.Modifiers(c), manual)
	}
	return Totals{
		CombatBuff:          sum(catalog.CombatBuff, in.CombatBonus.CombatBuff),
		DamageIncrease:      sum(catalog.DamageIncrease, in.AttackMultiplier.DamageIncreaseRate),
		EnemyDamageIncrease: sum(catalog.EnemyDamageIncrease, in.AttackMultiplier.EnemyDamageIncreaseRate),
		Attribute:           sum(catalog.Attribute, in.AttackMultiplier.AttributeAttackMultiplierPlus),
		Penetration:         sum(catalog.Penetration, in.EnemyDefense.Penetration),
		DefenseDebuff:       sum(catalog.DefenseDebuff, in.EnemyDefense.DefenseDebuff),
		CriticalRate:        sum(catalog.CriticalRate, in.Critical.CriticalRate),
		CriticalMultiplier:  sum(catalog.CriticalMultiplier, critMultiplier(in.Critical.CriticalMultiplier)),
	}
}

// an unset multiplier means the 100% baseline, not a zero-damage critical
func critMultiplier(manual float64) float64 {
	if manual == 0 {
		return 100
	}
	return manual
}

// CharacterBaseAttack backs the base stat out of the non-combat status total,
// rounded to a whole number as the game displays it.
func (in Input) CharacterBaseAttack() float64 {
	nc := in.NonCombat
	base := damage.ResolveCharacterBaseAttack(nc.TargetAttackPower, nc.WeaponAttack, damage.BuffFactor(nc.AttackBuff), nc.AttackConstant)
	return math.Round(base)
}

// Resolve turns the input into a full damage.Config.
func (in Input) Resolve(repo catalog.Repository) (damage.Config, error) {
	cfg := damage.DefaultConfig()
	t := in.Totals(repo)

	cfg.AttackPower = damage.AttackPowerConfig{
		CharacterBaseAttack: in.CharacterBaseAttack(),
		WeaponAttack:        in.NonCombat.WeaponAttack,
		AttackBuff:          damage.BuffFactor(in.NonCombat.AttackBuff + t.CombatBuff),
		AttackConstant:      in.NonCombat.AttackConstant + in.CombatBonus.CombatConstant,
	}

	am := in.AttackMultiplier
	if am.BaseMultiplier == 0 {
		am.BaseMultiplier = damage.BaseMultiplier
	}
	am.AttributeAttackMultiplierPlus = t.Attribute
	am.DamageIncreaseRate = t.DamageIncrease
	am.EnemyDamageIncreaseRate = t.EnemyDamageIncrease
	cfg.AttackMultiplier = am

	def := in.EnemyDefense
	if in.EnemyID != "" {
		e, ok := repo.Lookup(in.EnemyID)
		if !ok {
			return damage.Config{}, fmt.Errorf("%w: %s", ErrUnknownEnemy, in.EnemyID)
		}
		def = e.ApplyTo(def)
	}
	def.Penetration = t.Penetration
	def.DefenseDebuff = t.DefenseDebuff
	cfg.EnemyDefense = def

	cfg.Critical = damage.CriticalConfig{
		CriticalRate:       t.CriticalRate,
		CriticalMultiplier: t.CriticalMultiplier,
	}

	if in.Weakness != "" {
		cfg.Weakness = in.Weakness
	}
	if in.Random != nil {
		cfg.Random = *in.Random
	}
	if in.SkillCoeff != 0 {
		cfg.SkillCoeff = in.SkillCoeff
	}
	return cfg, nil
}

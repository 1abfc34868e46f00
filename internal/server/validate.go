package server

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/damage-coeff/internal/damage"
	"github.com/xtding233/damage-coeff/internal/pattern"
)

var ErrInvalidInput = errors.New("invalid input")

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, name)
	}
	return nil
}

func checkCriticalRate(rate float64) error {
	if err := checkFinite("critical_rate", rate); err != nil {
		return err
	}
	if rate < 0 || rate > damage.MaxCriticalRate {
		return fmt.Errorf("%w: critical_rate must be in [0, 100]", ErrInvalidInput)
	}
	return nil
}

func checkWeakness(w damage.Weakness) error {
	if w != "" && !w.Valid() {
		return fmt.Errorf("%w: unknown weakness %q", ErrInvalidInput, w)
	}
	return nil
}

type namedValue struct {
	name string
	v    float64
}

func firstNonFinite(vs []namedValue) error {
	for _, nv := range vs {
		if err := checkFinite(nv.name, nv.v); err != nil {
			return err
		}
	}
	return nil
}

func validateConfig(cfg damage.Config) error {
	ap, am, ed := cfg.AttackPower, cfg.AttackMultiplier, cfg.EnemyDefense
	err := firstNonFinite([]namedValue{
		{"character_base_attack", ap.CharacterBaseAttack},
		{"weapon_attack", ap.WeaponAttack},
		{"attack_buff", ap.AttackBuff},
		{"attack_constant", ap.AttackConstant},
		{"base_multiplier", am.BaseMultiplier},
		{"attack_multiplier_plus", am.AttackMultiplierPlus},
		{"attribute_attack_multiplier_plus", am.AttributeAttackMultiplierPlus},
		{"damage_increase_rate", am.DamageIncreaseRate},
		{"enemy_damage_increase_rate", am.EnemyDamageIncreaseRate},
		{"base_defense", ed.BaseDefense},
		{"additional_defense_coeff", ed.AdditionalDefenseCoeff},
		{"penetration", ed.Penetration},
		{"defense_debuff", ed.DefenseDebuff},
		{"critical_multiplier", cfg.Critical.CriticalMultiplier},
		{"random.min", cfg.Random.Min},
		{"random.max", cfg.Random.Max},
		{"skill_coeff", cfg.SkillCoeff},
		{"final_attack_multiplier", cfg.FinalAttackMultiplier},
		{"other_coeff", cfg.OtherCoeff},
	})
	if err != nil {
		return err
	}
	if err := checkCriticalRate(cfg.Critical.CriticalRate); err != nil {
		return err
	}
	return checkWeakness(cfg.Weakness)
}

func validateInput(in pattern.Input) error {
	nc, cb := in.NonCombat, in.CombatBonus
	err := firstNonFinite([]namedValue{
		{"target_attack_power", nc.TargetAttackPower},
		{"weapon_attack", nc.WeaponAttack},
		{"attack_buff", nc.AttackBuff},
		{"attack_constant", nc.AttackConstant},
		{"combat_buff", cb.CombatBuff},
		{"combat_constant", cb.CombatConstant},
		{"attack_multiplier_plus", in.AttackMultiplier.AttackMultiplierPlus},
		{"base_defense", in.EnemyDefense.BaseDefense},
		{"additional_defense_coeff", in.EnemyDefense.AdditionalDefenseCoeff},
		{"critical_multiplier", in.Critical.CriticalMultiplier},
		{"skill_coeff", in.SkillCoeff},
	})
	if err != nil {
		return err
	}
	if err := checkCriticalRate(in.Critical.CriticalRate); err != nil {
		return err
	}
	return checkWeakness(in.Weakness)
}

func validateTier(tier int) error {
	if _, err := damage.WeaponOutput(tier); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

package damage

// ResolveAttackPower computes the effective attack power:
// (base + weapon) * buff + constant
func ResolveAttackPower(cfg AttackPowerConfig) float64 {
	return (cfg.CharacterBaseAttack+cfg.WeaponAttack)*cfg.AttackBuff + cfg.AttackConstant
}

// ResolveCharacterBaseAttack backs the hidden base attack out of the total
// shown on the status screen. A zero buff factor has no solution and yields 1.
func ResolveCharacterBaseAttack(observedTotal, weaponAttack, attackBuff, attackConstant float64) float64 {
	if attackBuff == 0 {
		return 1
	}
	return (observedTotal-attackConstant)/attackBuff - weaponAttack
}

// BuffFactor converts an attack% input into the factor ResolveAttackPower expects.
// 0 -> 1.0, 25 -> 1.25
func BuffFactor(percent float64) float64 {
	return (100 + percent) / 100
}

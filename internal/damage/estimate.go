package damage

import "errors"

var ErrInvalidWeaponTier = errors.New("invalid weapon tier; must be 0..6")

// WeaponOutputTable maps a weapon tier (0..6) to the output constant the
// in-game defense reduction readout is scaled by.
var WeaponOutputTable = [7]float64{100, 110, 120, 135, 150, 170, 200}

// WeaponOutput looks up the output constant for tier.
func WeaponOutput(tier int) (float64, error) {
	if tier < 0 || tier >= len(WeaponOutputTable) {
		return 0, ErrInvalidWeaponTier
	}
	return WeaponOutputTable[tier], nil
}

// EstimateAdditionalDefenseCoeff solves for the enemy's additional defense
// coefficient (percent) from two defense reduction readouts: r0 without any
// debuff and r1 with a known total debuff of debuff percent.
// Equal readouts carry no information and return 0.
func EstimateAdditionalDefenseCoeff(tier int, r0, r1, debuff float64) (float64, error) {
	k, err := WeaponOutput(tier)
	if err != nil {
		return 0, err
	}
	noDebuff := r0 / k * 100
	withDebuff := r1 / k * 100

	denom := noDebuff - withDebuff
	if denom == 0 {
		return 0, nil
	}
	return debuff*(noDebuff/denom) - 100, nil
}

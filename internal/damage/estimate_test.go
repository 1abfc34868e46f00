package damage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateAdditionalDefenseCoeff(t *testing.T) {
	// tier 0 outputs 100: readouts map 1:1 onto defense estimates 200 and 150
	got, err := EstimateAdditionalDefenseCoeff(0, 200, 150, 10)
	require.NoError(t, err)
	// 10 * 200 / 50 - 100
	assert.InDelta(t, -60.0, got, 1e-9)
}

func TestEstimateAdditionalDefenseCoeff_TierScalingCancels(t *testing.T) {
	// Both readouts are scaled by the same output constant, so the solve only
	// depends on their ratio.
	want, err := EstimateAdditionalDefenseCoeff(0, 480, 300, 50)
	require.NoError(t, err)
	for tier := 1; tier < len(WeaponOutputTable); tier++ {
		got, err := EstimateAdditionalDefenseCoeff(tier, 480, 300, 50)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, "tier=%d", tier)
	}
}

func TestEstimateAdditionalDefenseCoeff_Degenerate(t *testing.T) {
	got, err := EstimateAdditionalDefenseCoeff(3, 275, 275, 40)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEstimateAdditionalDefenseCoeff_InvalidTier(t *testing.T) {
	for _, tier := range []int{-1, 7, 100} {
		_, err := EstimateAdditionalDefenseCoeff(tier, 10, 5, 20)
		assert.ErrorIs(t, err, ErrInvalidWeaponTier, "tier=%d", tier)
	}
}

func TestWeaponOutput(t *testing.T) {
	k, err := WeaponOutput(6)
	require.NoError(t, err)
	assert.Equal(t, WeaponOutputTable[6], k)

	_, err = WeaponOutput(7)
	assert.ErrorIs(t, err, ErrInvalidWeaponTier)
}

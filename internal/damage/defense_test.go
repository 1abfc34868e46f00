package damage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateEnemyDefense_Scenario(t *testing.T) {
	cfg := EnemyDefenseConfig{BaseDefense: 300, AdditionalDefenseCoeff: 10}

	assert.InDelta(t, 1.1, DefenseCoefficient(cfg), 1e-12)
	// 330 / 1730 mitigated
	assert.InDelta(t, 1-330.0/1730.0, CalculateEnemyDefense(cfg), 1e-12)
	assert.InDelta(t, 0.8092, CalculateEnemyDefense(cfg), 1e-4)
}

func TestCalculateEnemyDefense_ClampsNegativeCoefficient(t *testing.T) {
	cfg := EnemyDefenseConfig{BaseDefense: 800, DefenseDebuff: 500}
	assert.Equal(t, 0.0, DefenseCoefficient(cfg))
	assert.Equal(t, 1.0, CalculateEnemyDefense(cfg))
}

func TestCalculateEnemyDefense_NoDefense(t *testing.T) {
	assert.Equal(t, 1.0, CalculateEnemyDefense(EnemyDefenseConfig{AdditionalDefenseCoeff: 80}))
	assert.Equal(t, 1.0, CalculateEnemyDefense(EnemyDefenseConfig{BaseDefense: 1000, Penetration: 100}))
}

func TestCalculateEnemyDefense_WindStrike(t *testing.T) {
	base := EnemyDefenseConfig{BaseDefense: 1000, AdditionalDefenseCoeff: 50, Penetration: 20, DefenseDebuff: 10}
	wind := base
	wind.IsWindAttack = true

	// (1.5 * 0.8 - 0.1) = 1.1, * 0.88 = 0.968
	assert.InDelta(t, 1.1, DefenseCoefficient(base), 1e-12)
	assert.InDelta(t, 0.968, DefenseCoefficient(wind), 1e-12)
	assert.Greater(t, CalculateEnemyDefense(wind), CalculateEnemyDefense(base))
}

func TestCalculateEnemyDefense_MonotonicInBaseDefense(t *testing.T) {
	cfgs := []EnemyDefenseConfig{
		{AdditionalDefenseCoeff: 0},
		{AdditionalDefenseCoeff: 25, Penetration: 15},
		{AdditionalDefenseCoeff: 80, DefenseDebuff: 35, IsWindAttack: true},
		{DefenseDebuff: 500},
	}
	for _, cfg := range cfgs {
		prev := 2.0
		for def := 0.0; def <= 5000; def += 50 {
			c := cfg
			c.BaseDefense = def
			got := CalculateEnemyDefense(c)
			assert.LessOrEqual(t, got, prev, "def=%v cfg=%+v", def, cfg)
			assert.Greater(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
			prev = got
		}
	}
}

func TestCalculateEnemyDefense_MonotonicInCoefficient(t *testing.T) {
	prev := 2.0
	for add := -100.0; add <= 300; add += 10 {
		got := CalculateEnemyDefense(EnemyDefenseConfig{BaseDefense: 600, AdditionalDefenseCoeff: add})
		assert.LessOrEqual(t, got, prev, "add=%v", add)
		prev = got
	}
}

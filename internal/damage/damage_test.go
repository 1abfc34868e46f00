package damage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDamage(t *testing.T) {
	cfg := baseScenario()
	cfg.SkillCoeff = 2.5
	cfg.Weakness = WeaknessWeak

	est := CalculateDamage(cfg)
	factor := CalculateOptimizationFactor(cfg)

	assert.InDelta(t, factor*2.5*1.2*1.0, est.Average, 1e-6)
	assert.InDelta(t, factor*2.5*1.2*0.95, est.Min, 1e-6)
	assert.InDelta(t, factor*2.5*1.2*1.05, est.Max, 1e-6)
	assert.Less(t, est.Min, est.Average)
	assert.Less(t, est.Average, est.Max)
}

func TestAnalyzeDamage_MatchesEstimate(t *testing.T) {
	cfg := baseScenario()
	cfg.FinalAttackMultiplier = 1.15
	cfg.OtherCoeff = 0.9
	cfg.Weakness = WeaknessResist

	b := AnalyzeDamage(cfg)
	assert.InDelta(t, CalculateDamage(cfg).Average, b.CriticalDamage, 1e-6)
	assert.InDelta(t, b.AttackPower*cfg.SkillCoeff, b.BaseDamage, 1e-9)
	assert.InDelta(t, b.DefendedDamage*0.5, b.WeaknessDamage, 1e-9)
	assert.Equal(t, 25.0, b.CriticalBonus)
}

func TestSampleDamage_WithinEstimate(t *testing.T) {
	cfg := baseScenario()
	est := CalculateDamage(cfg)
	rng := NewSeededRNG(99)
	for i := 0; i < 500; i++ {
		v := SampleDamage(cfg, rng)
		assert.GreaterOrEqual(t, v, est.Min)
		assert.LessOrEqual(t, v, est.Max)
	}
}

func TestCriticalSeries(t *testing.T) {
	pts := CriticalSeries(50, 0, 500, 5)
	assert.Len(t, pts, 101)
	assert.Equal(t, Point{X: 0, Y: 50}, pts[0])
	assert.Equal(t, Point{X: 150, Y: 125}, pts[30])
	assert.Nil(t, CriticalSeries(50, 0, 500, 0))
}

func TestDefenseSeries(t *testing.T) {
	pts := DefenseSeries(EnemyDefenseConfig{AdditionalDefenseCoeff: 10}, 0, 3000, 100)
	assert.Len(t, pts, 31)
	assert.Equal(t, 1.0, pts[0].Y)
	assert.InDelta(t, 1-330.0/1730.0, pts[3].Y, 1e-12)
	for i := 1; i < len(pts); i++ {
		assert.LessOrEqual(t, pts[i].Y, pts[i-1].Y)
	}
	assert.Nil(t, DefenseSeries(EnemyDefenseConfig{}, 100, 0, 10))
}

func TestSeries_KeepsEndpointDespiteRounding(t *testing.T) {
	// (0.3-0)/0.1 is 2.9999999999999996 in binary floating point
	pts := DefenseSeries(EnemyDefenseConfig{}, 0, 0.3, 0.1)
	require.Len(t, pts, 4)
	assert.InDelta(t, 0.3, pts[3].X, 1e-12)

	pts = CriticalSeries(50, 100, 100.7, 0.1)
	require.Len(t, pts, 8)
	assert.InDelta(t, 100.7, pts[7].X, 1e-9)

	// a range that stops short of the next step does not gain a point
	assert.Len(t, CriticalSeries(50, 0, 0.25, 0.1), 3)
}

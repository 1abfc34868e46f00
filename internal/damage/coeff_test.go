package damage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeaknessCoefficient(t *testing.T) {
	tests := []struct {
		w    Weakness
		want float64
	}{
		{WeaknessWeak, 1.2},
		{WeaknessNormal, 1.0},
		{WeaknessResist, 0.5},
		{"", 1.0},
		{"immune", 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeaknessCoefficient(tt.w), "weakness=%q", tt.w)
	}
	assert.True(t, Weakness("").Valid())
	assert.False(t, Weakness("immune").Valid())
}

func TestRandomCoefficientExpectation(t *testing.T) {
	assert.InDelta(t, 1.0, RandomCoefficientExpectation(RandomCoeffConfig{Min: 0.95, Max: 1.05}), 1e-12)
	assert.InDelta(t, 0.85, RandomCoefficientExpectation(RandomCoeffConfig{Min: 0.7, Max: 1.0}), 1e-12)
}

func TestSampleRandomCoefficient(t *testing.T) {
	cfg := RandomCoeffConfig{Min: 0.9, Max: 1.1}
	rng := NewSeededRNG(7)

	var sum float64
	const n = 20000
	for i := 0; i < n; i++ {
		v := SampleRandomCoefficient(cfg, rng)
		assert.GreaterOrEqual(t, v, cfg.Min)
		assert.LessOrEqual(t, v, cfg.Max)
		sum += v
	}
	// mean should sit near the midpoint
	assert.InDelta(t, 1.0, sum/n, 0.005)
}

func TestSampleRandomCoefficient_DegenerateInterval(t *testing.T) {
	assert.Equal(t, 1.0, SampleRandomCoefficient(RandomCoeffConfig{Min: 1, Max: 1}, nil))
	assert.Equal(t, 1.2, SampleRandomCoefficient(RandomCoeffConfig{Min: 1.2, Max: 0.8}, NewSeededRNG(1)))
}

func TestSumSelected(t *testing.T) {
	catalog := []Modifier{
		{ID: "buff1", Value: 10},
		{ID: "buff2", Value: 20},
		{ID: "buff3", Value: 30},
	}
	tests := []struct {
		name   string
		sel    Selection
		manual float64
		want   float64
	}{
		{"nothing", nil, 0, 0},
		{"manual only", Selection{}, 7.5, 7.5},
		{"two checked", Selection{"buff1": 10, "buff3": 30}, 0, 40},
		{"zero means unchecked", Selection{"buff1": 10, "buff2": 0}, 5, 15},
		{"unknown id ignored", Selection{"buff9": 99, "buff2": 20}, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SumSelected(tt.sel, catalog, tt.manual))
		})
	}
}

func TestNewSeededRNG_Replayable(t *testing.T) {
	a, b := NewSeededRNG(42), NewSeededRNG(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	v := DefaultRNG().Float64()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

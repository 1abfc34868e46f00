package damage

import "math"

// absorbs float error in (to-from)/step so an endpoint on the grid is kept
const sweepEpsilon = 1e-9

// Point is one sample of a chart series.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CriticalSeries samples the critical expectation (as a percentage, 100 = no
// bonus) over critical multipliers from..to for a fixed rate.
func CriticalSeries(rate, from, to, step float64) []Point {
	return sweep(from, to, step, func(mult float64) float64 {
		return 100 + CalculateCriticalExpectation(CriticalConfig{CriticalRate: rate, CriticalMultiplier: mult})
	})
}

// DefenseSeries samples the retained-damage fraction over base defense
// from..to, holding the rest of cfg fixed.
func DefenseSeries(cfg EnemyDefenseConfig, from, to, step float64) []Point {
	return sweep(from, to, step, func(def float64) float64 {
		c := cfg
		c.BaseDefense = def
		return CalculateEnemyDefense(c)
	})
}

func sweep(from, to, step float64, f func(float64) float64) []Point {
	if step <= 0 || to < from {
		return nil
	}
	n := int(math.Floor((to-from)/step+sweepEpsilon)) + 1
	out := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		x := from + float64(i)*step
		out = append(out, Point{X: x, Y: f(x)})
	}
	return out
}

package damage

import "math"

// MaxCriticalRate caps the critical rate; anything above always crits.
const MaxCriticalRate = 100.0

// CalculateCriticalExpectation returns the expected critical bonus in
// percentage points: rate 50%, multiplier 150% -> 25.
// It is additive; callers that need a multiplier wrap it with CriticalFactor.
func CalculateCriticalExpectation(cfg CriticalConfig) float64 {
	rate := math.Min(cfg.CriticalRate, MaxCriticalRate)
	return rate / 100 * (cfg.CriticalMultiplier - 100)
}

// CriticalFactor turns a bonus from CalculateCriticalExpectation into a factor.
func CriticalFactor(bonus float64) float64 {
	return 1 + bonus/100
}

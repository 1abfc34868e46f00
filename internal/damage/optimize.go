package damage

import (
	"encoding/json"
	"sort"
)

// CalculateOptimizationFactor multiplies the stages that are shared by every
// scenario: attack power, attack multiplier, defense retention and the critical
// factor. Skill, weakness, random and the other extras are left out, so the
// result is a comparator for Patterns, not a damage number.
func CalculateOptimizationFactor(cfg Config) float64 {
	return ResolveAttackPower(cfg.AttackPower) *
		CalculateAttackMultiplier(cfg.AttackMultiplier) *
		CalculateEnemyDefense(cfg.EnemyDefense) *
		CriticalFactor(CalculateCriticalExpectation(cfg.Critical))
}

// Pattern is one saved configuration with its cached optimization factor.
// The factor is only ever set through NewPattern and SetConfig.
type Pattern struct {
	ID   string
	Name string

	config Config
	factor float64
}

// NewPattern builds a Pattern and computes its factor.
func NewPattern(id, name string, cfg Config) Pattern {
	p := Pattern{ID: id, Name: name}
	p.SetConfig(cfg)
	return p
}

// SetConfig replaces the snapshot and recomputes the factor.
func (p *Pattern) SetConfig(cfg Config) {
	p.config = cfg
	p.factor = CalculateOptimizationFactor(cfg)
}

func (p Pattern) Config() Config              { return p.config }
func (p Pattern) OptimizationFactor() float64 { return p.factor }

type patternJSON struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Config             Config  `json:"config"`
	OptimizationFactor float64 `json:"optimization_factor"`
}

func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(patternJSON{
		ID:                 p.ID,
		Name:               p.Name,
		Config:             p.config,
		OptimizationFactor: p.factor,
	})
}

// UnmarshalJSON accepts the same shape; a factor in the payload is ignored
// and recomputed from the config.
func (p *Pattern) UnmarshalJSON(b []byte) error {
	var raw patternJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = NewPattern(raw.ID, raw.Name, raw.Config)
	return nil
}

// RankPatterns returns a copy of ps ordered by optimization factor, highest
// first. Equal factors keep their input order.
func RankPatterns(ps []Pattern) []Pattern {
	out := append([]Pattern(nil), ps...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].factor > out[j].factor
	})
	return out
}

// BestPattern returns the first pattern with the highest factor and its index.
func BestPattern(ps []Pattern) (Pattern, int, bool) {
	if len(ps) == 0 {
		return Pattern{}, -1, false
	}
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i].factor > ps[best].factor {
			best = i
		}
	}
	return ps[best], best, true
}

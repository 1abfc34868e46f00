// types.go
package catalog

import (
	"time"

	"github.com/xtding233/damage-coeff/internal/damage"
)

// Category names one group of selectable modifiers.
type Category string

const (
	CombatBuff          Category = "combat_buff"
	DamageIncrease      Category = "damage_increase"
	EnemyDamageIncrease Category = "enemy_damage_increase"
	Attribute           Category = "attribute"
	Penetration         Category = "penetration"
	DefenseDebuff       Category = "defense_debuff"
	CriticalRate        Category = "critical_rate"
	CriticalMultiplier  Category = "critical_multiplier"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CombatBuff,
	DamageIncrease,
	EnemyDamageIncrease,
	Attribute,
	Penetration,
	DefenseDebuff,
	CriticalRate,
	CriticalMultiplier,
}

// Known reports whether c is one of Categories.
func (c Category) Known() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Raw catalog loaded from YAML; mirrors the file schema.
type Raw struct {
	Version   string                          `yaml:"version"`
	Notes     string                          `yaml:"notes,omitempty"`
	Enemies   []RawEnemy                      `yaml:"enemies"`
	Modifiers map[Category][]damage.Modifier `yaml:"modifiers,omitempty"`
}

// RawEnemy uses pointers so an overlay can override single fields.
type RawEnemy struct {
	ID                 string     `yaml:"id"`
	Name               string     `yaml:"name,omitempty"`
	Def                *float64   `yaml:"def"`
	AdditionalDefCoeff *float64   `yaml:"additional_def_coeff"`
	HP                 *float64   `yaml:"hp,omitempty"`
	ValidFrom          *time.Time `yaml:"valid_from,omitempty"`
	ValidUntil         *time.Time `yaml:"valid_until,omitempty"`
}

// Enemy is a normalized, read-only catalog entry.
type Enemy struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	BaseDefense            float64   `json:"base_defense"`
	AdditionalDefenseCoeff float64   `json:"additional_defense_coeff"`
	HP                     float64   `json:"hp,omitempty"`
	ValidFrom              time.Time `json:"valid_from,omitzero"`  // zero = no lower bound
	ValidUntil             time.Time `json:"valid_until,omitzero"` // zero = no upper bound
}

// ActiveAt reports whether t falls inside the entry's validity window.
// ValidUntil is exclusive.
func (e Enemy) ActiveAt(t time.Time) bool {
	if !e.ValidFrom.IsZero() && t.Before(e.ValidFrom) {
		return false
	}
	if !e.ValidUntil.IsZero() && !t.Before(e.ValidUntil) {
		return false
	}
	return true
}

// ApplyTo copies the enemy's defense stats into cfg. The copy is one-way:
// later catalog reloads do not touch cfg.
func (e Enemy) ApplyTo(cfg damage.EnemyDefenseConfig) damage.EnemyDefenseConfig {
	cfg.BaseDefense = e.BaseDefense
	cfg.AdditionalDefenseCoeff = e.AdditionalDefenseCoeff
	return cfg
}

func (r RawEnemy) normalize() Enemy {
	e := Enemy{ID: r.ID, Name: r.Name}
	if e.Name == "" {
		e.Name = r.ID
	}
	if r.Def != nil {
		e.BaseDefense = *r.Def
	}
	if r.AdditionalDefCoeff != nil {
		e.AdditionalDefenseCoeff = *r.AdditionalDefCoeff
	}
	if r.HP != nil {
		e.HP = *r.HP
	}
	if r.ValidFrom != nil {
		e.ValidFrom = *r.ValidFrom
	}
	if r.ValidUntil != nil {
		e.ValidUntil = *r.ValidUntil
	}
	return e
}

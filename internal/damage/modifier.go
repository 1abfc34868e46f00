package damage

// Modifier is one named buff/debuff option, e.g. "attack up (small)" = 10%.
type Modifier struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Value       float64 `json:"value" yaml:"value"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Selection maps modifier id -> contributed value; a zero value means unchecked.
type Selection map[string]float64

// SumSelected adds up the catalog value of every selected modifier plus the
// manual override. Ids missing from the catalog contribute nothing.
func SumSelected(sel Selection, catalog []Modifier, manual float64) float64 {
	total := manual
	if len(sel) == 0 {
		return total
	}
	for _, m := range catalog {
		if v, ok := sel[m.ID]; ok && v != 0 {
			total += m.Value
		}
	}
	return total
}

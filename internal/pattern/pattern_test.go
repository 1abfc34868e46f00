package pattern

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/damage-coeff/internal/catalog"
	"github.com/xtding233/damage-coeff/internal/damage"
)

func testRepo(t *testing.T) *catalog.Store {
	t.Helper()
	def, coeff := 300.0, 10.0
	bossDef, bossCoeff := 1000.0, 50.0
	s, err := catalog.NewStore(catalog.Raw{
		Version: "test",
		Enemies: []catalog.RawEnemy{
			{ID: "normal", Name: "Normal", Def: &def, AdditionalDefCoeff: &coeff},
			{ID: "boss", Name: "Boss", Def: &bossDef, AdditionalDefCoeff: &bossCoeff},
		},
		Modifiers: map[catalog.Category][]damage.Modifier{
			catalog.CombatBuff:     {{ID: "b1", Value: 10}, {ID: "b2", Value: 20}},
			catalog.DamageIncrease: {{ID: "d1", Value: 15}},
			catalog.Penetration:    {{ID: "p1", Value: 25}},
			catalog.DefenseDebuff:  {{ID: "x1", Value: 10}},
			catalog.CriticalRate:   {{ID: "c1", Value: 30}},
		},
	})
	require.NoError(t, err)
	return s
}

func sampleInput() Input {
	return Input{
		Name: "sample",
		NonCombat: NonCombat{
			TargetAttackPower: 3180, // (1500+700)*1.4 + 100
			WeaponAttack:      700,
			AttackBuff:        40,
			AttackConstant:    100,
		},
		AttackMultiplier: damage.AttackMultiplierConfig{AttackMultiplierPlus: 20},
		EnemyID:          "normal",
		Critical:         damage.CriticalConfig{CriticalRate: 20, CriticalMultiplier: 150},
	}
}

func TestInput_CharacterBaseAttack(t *testing.T) {
	in := sampleInput()
	assert.Equal(t, 1500.0, in.CharacterBaseAttack())

	// rounding of a non-integral backed-out base
	in.NonCombat.TargetAttackPower = 3180.6
	assert.Equal(t, 1500.0, in.CharacterBaseAttack())
}

func TestInput_Resolve(t *testing.T) {
	repo := testRepo(t)
	in := sampleInput()
	in.CombatBonus = CombatBonus{CombatBuff: 5, CombatConstant: 50}
	in.Selections = map[catalog.Category]damage.Selection{
		catalog.CombatBuff:     {"b1": 1, "b2": 1},
		catalog.DamageIncrease: {"d1": 1},
		catalog.Penetration:    {"p1": 1},
		catalog.DefenseDebuff:  {"x1": 1},
		catalog.CriticalRate:   {"c1": 1},
	}

	cfg, err := in.Resolve(repo)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, cfg.AttackPower.CharacterBaseAttack)
	assert.Equal(t, 700.0, cfg.AttackPower.WeaponAttack)
	// 40 non-combat + 5 manual + 30 selected
	assert.InDelta(t, 1.75, cfg.AttackPower.AttackBuff, 1e-12)
	assert.Equal(t, 150.0, cfg.AttackPower.AttackConstant)

	assert.Equal(t, damage.BaseMultiplier, cfg.AttackMultiplier.BaseMultiplier)
	assert.Equal(t, 20.0, cfg.AttackMultiplier.AttackMultiplierPlus)
	assert.Equal(t, 15.0, cfg.AttackMultiplier.DamageIncreaseRate)

	assert.Equal(t, 300.0, cfg.EnemyDefense.BaseDefense)
	assert.Equal(t, 10.0, cfg.EnemyDefense.AdditionalDefenseCoeff)
	assert.Equal(t, 25.0, cfg.EnemyDefense.Penetration)
	assert.Equal(t, 10.0, cfg.EnemyDefense.DefenseDebuff)

	assert.Equal(t, 50.0, cfg.Critical.CriticalRate)
	assert.Equal(t, 150.0, cfg.Critical.CriticalMultiplier)

	assert.Equal(t, damage.WeaknessNormal, cfg.Weakness)
	assert.Equal(t, 1.0, cfg.SkillCoeff)
}

func TestInput_ResolveManualEnemy(t *testing.T) {
	in := sampleInput()
	in.EnemyID = ""
	in.EnemyDefense = damage.EnemyDefenseConfig{BaseDefense: 777, AdditionalDefenseCoeff: 5, IsWindAttack: true}

	cfg, err := in.Resolve(testRepo(t))
	require.NoError(t, err)
	assert.Equal(t, 777.0, cfg.EnemyDefense.BaseDefense)
	assert.True(t, cfg.EnemyDefense.IsWindAttack)
}

func TestInput_ResolveUnknownEnemy(t *testing.T) {
	in := sampleInput()
	in.EnemyID = "ghost"
	_, err := in.Resolve(testRepo(t))
	assert.ErrorIs(t, err, ErrUnknownEnemy)
}

func TestInput_UnsetCriticalMultiplierIsBaseline(t *testing.T) {
	in := sampleInput()
	in.Critical = damage.CriticalConfig{CriticalRate: 100}
	cfg, err := in.Resolve(testRepo(t))
	require.NoError(t, err)
	assert.Equal(t, 0.0, damage.CalculateCriticalExpectation(cfg.Critical))
}

func TestInput_Overrides(t *testing.T) {
	in := sampleInput()
	in.Weakness = damage.WeaknessWeak
	in.Random = &damage.RandomCoeffConfig{Min: 0.9, Max: 1.1}
	in.SkillCoeff = 2.5

	cfg, err := in.Resolve(testRepo(t))
	require.NoError(t, err)
	assert.Equal(t, damage.WeaknessWeak, cfg.Weakness)
	assert.Equal(t, 0.9, cfg.Random.Min)
	assert.Equal(t, 2.5, cfg.SkillCoeff)
}

func TestBook_AddGetUpdateRemove(t *testing.T) {
	b := NewBook(testRepo(t))

	e1, err := b.Add(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "p1", e1.Pattern.ID)
	assert.Equal(t, "sample", e1.Pattern.Name)

	in2 := sampleInput()
	in2.Name = ""
	e2, err := b.Add(in2)
	require.NoError(t, err)
	assert.Equal(t, "p2", e2.Pattern.ID)
	assert.Equal(t, "Pattern 2", e2.Pattern.Name)

	got, err := b.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, e1.Pattern.OptimizationFactor(), got.Pattern.OptimizationFactor())

	upd := sampleInput()
	upd.EnemyID = "boss"
	e1b, err := b.Update("p1", upd)
	require.NoError(t, err)
	assert.Less(t, e1b.Pattern.OptimizationFactor(), e1.Pattern.OptimizationFactor())

	// p2 untouched by the update
	got2, err := b.Get("p2")
	require.NoError(t, err)
	assert.Equal(t, e2.Pattern.OptimizationFactor(), got2.Pattern.OptimizationFactor())

	require.NoError(t, b.Remove("p1"))
	_, err = b.Get("p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, b.Remove("p1"), ErrNotFound)
	_, err = b.Update("p1", upd)
	assert.ErrorIs(t, err, ErrNotFound)

	// ids are never reused
	e3, err := b.Add(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "p3", e3.Pattern.ID)
	ids := []string{}
	for _, e := range b.List() {
		ids = append(ids, e.Pattern.ID)
	}
	assert.Equal(t, []string{"p2", "p3"}, ids)
}

func TestBook_RandomDefault(t *testing.T) {
	rc := damage.RandomCoeffConfig{Min: 0.9, Max: 1.1}
	b := NewBook(testRepo(t), WithRandomDefault(rc))

	e, err := b.Add(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, rc, e.Pattern.Config().Random)

	own := sampleInput()
	own.Random = &damage.RandomCoeffConfig{Min: 1, Max: 1}
	e, err = b.Update(e.Pattern.ID, own)
	require.NoError(t, err)
	assert.Equal(t, *own.Random, e.Pattern.Config().Random)

	// without the option the package default applies
	e, err = NewBook(testRepo(t)).Add(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, damage.DefaultConfig().Random, e.Pattern.Config().Random)
}

func TestBook_AddUnknownEnemyDoesNotConsumeID(t *testing.T) {
	b := NewBook(testRepo(t))
	bad := sampleInput()
	bad.EnemyID = "ghost"
	_, err := b.Add(bad)
	require.ErrorIs(t, err, ErrUnknownEnemy)

	e, err := b.Add(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "p1", e.Pattern.ID)
}

func TestBook_RankedAndBest(t *testing.T) {
	b := NewBook(testRepo(t))
	_, ok := b.Best()
	assert.False(t, ok)

	weak := sampleInput()
	weak.EnemyID = "boss"
	_, err := b.Add(weak)
	require.NoError(t, err)
	_, err = b.Add(sampleInput())
	require.NoError(t, err)
	tie := sampleInput()
	tie.Name = "tie"
	_, err = b.Add(tie)
	require.NoError(t, err)

	ranked := b.Ranked()
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"p2", "p3", "p1"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})

	best, ok := b.Best()
	require.True(t, ok)
	assert.Equal(t, "p2", best.ID)

	// List keeps insertion order regardless of rank
	assert.Equal(t, "p1", b.List()[0].Pattern.ID)
}

func TestBook_RefreshAfterCatalogReplace(t *testing.T) {
	repo := testRepo(t)
	b := NewBook(repo)
	e, err := b.Add(sampleInput())
	require.NoError(t, err)

	def, coeff := 3000.0, 10.0
	require.NoError(t, repo.Replace(catalog.Raw{Enemies: []catalog.RawEnemy{{ID: "normal", Def: &def, AdditionalDefCoeff: &coeff}}}))

	// stats were copied on select; nothing changes until Refresh
	got, _ := b.Get("p1")
	assert.Equal(t, e.Pattern.OptimizationFactor(), got.Pattern.OptimizationFactor())

	assert.Empty(t, b.Refresh())
	got, _ = b.Get("p1")
	assert.Less(t, got.Pattern.OptimizationFactor(), e.Pattern.OptimizationFactor())
}

func TestBook_Concurrent(t *testing.T) {
	b := NewBook(testRepo(t))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := sampleInput()
			in.Name = fmt.Sprintf("g%d", i)
			_, err := b.Add(in)
			assert.NoError(t, err)
			_ = b.Ranked()
		}(i)
	}
	wg.Wait()
	assert.Len(t, b.List(), 20)
}

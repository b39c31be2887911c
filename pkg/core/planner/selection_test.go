package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditops/manday-planner/pkg/core/model"
)

func highUnit(idx int, rating float64) *model.AuditUnit {
	return &model.AuditUnit{
		Index:        idx,
		Department:   "Finance",
		Section:      "Treasury",
		RiskCategory: model.RiskHigh,
		Rating:       rating,
	}
}

func mediumUnit(idx int, rating float64) *model.AuditUnit {
	u := highUnit(idx, rating)
	u.RiskCategory = model.RiskMedium
	return u
}

func selectedIndices(pool []*model.AuditUnit) []int {
	var indices []int
	for _, u := range pool {
		if u.Selected {
			indices = append(indices, u.Index)
		}
	}
	return indices
}

func TestStableSeed_Reproducible(t *testing.T) {
	assert.Equal(t, StableSeed("Finance"), StableSeed("Finance"))
	assert.NotEqual(t, StableSeed("Finance"), StableSeed("Operations"))
	// The seed is case-sensitive: it hashes the name as given.
	assert.NotEqual(t, StableSeed("Finance"), StableSeed("FINANCE"))
}

func TestSelectUnits_EmptyPool(t *testing.T) {
	trail := &Trail{}
	count, used := selectUnits(nil, 100, 10, model.RiskHigh, "Finance", trail)

	assert.Equal(t, 0, count)
	assert.Equal(t, 0.0, used)
	require.Len(t, trail.Lines(), 1)
	assert.Contains(t, trail.Lines()[0], "No pool or manday cost <= 0")
}

func TestSelectUnits_NonPositiveCost(t *testing.T) {
	pool := []*model.AuditUnit{mediumUnit(0, 5)}
	trail := &Trail{}
	count, used := selectUnits(pool, 100, 0, model.RiskMedium, "Finance", trail)

	assert.Equal(t, 0, count)
	assert.Equal(t, 0.0, used)
	assert.False(t, pool[0].Selected)
}

func TestSelectUnits_TargetTooLow(t *testing.T) {
	pool := []*model.AuditUnit{mediumUnit(0, 5)}
	trail := &Trail{}
	count, used := selectUnits(pool, 25, 30, model.RiskMedium, "Finance", trail)

	assert.Equal(t, 0, count)
	assert.Equal(t, 0.0, used)
	require.Len(t, trail.Lines(), 1)
	assert.Contains(t, trail.Lines()[0], "Target too low")
}

func TestSelectUnits_FloorSemantics(t *testing.T) {
	// target=100, cost=30 affords exactly 3 units, never 4.
	pool := []*model.AuditUnit{
		mediumUnit(0, 9), mediumUnit(1, 8), mediumUnit(2, 7),
		mediumUnit(3, 6), mediumUnit(4, 5),
	}

	count, used := selectUnits(pool, 100, 30, model.RiskMedium, "Finance", &Trail{})

	assert.Equal(t, 3, count)
	assert.Equal(t, 90.0, used)
	assert.LessOrEqual(t, used, 100.0)
	assert.Equal(t, []int{0, 1, 2}, selectedIndices(pool))
}

func TestSelectUnits_TopByRating(t *testing.T) {
	// Pool order is not rating order; selection must rank first.
	pool := []*model.AuditUnit{
		mediumUnit(0, 2), mediumUnit(1, 9), mediumUnit(2, 4), mediumUnit(3, 7),
	}

	count, used := selectUnits(pool, 20, 10, model.RiskMedium, "Finance", &Trail{})

	assert.Equal(t, 2, count)
	assert.Equal(t, 20.0, used)
	assert.Equal(t, []int{1, 3}, selectedIndices(pool))
}

func TestSelectUnits_StableTieBreak(t *testing.T) {
	// Equal ratings keep their ingestion order.
	pool := []*model.AuditUnit{
		mediumUnit(0, 5), mediumUnit(1, 5), mediumUnit(2, 5),
	}

	count, _ := selectUnits(pool, 20, 10, model.RiskMedium, "Finance", &Trail{})

	assert.Equal(t, 2, count)
	assert.Equal(t, []int{0, 1}, selectedIndices(pool))
}

func TestSelectUnits_PoolSmallerThanAffordable(t *testing.T) {
	// The engine never invents units: usage undershoots the target.
	pool := []*model.AuditUnit{mediumUnit(0, 5), mediumUnit(1, 4)}

	count, used := selectUnits(pool, 100, 10, model.RiskMedium, "Finance", &Trail{})

	assert.Equal(t, 2, count)
	assert.Equal(t, 20.0, used)
}

func TestSelectUnits_HighSingleUnitIsDeterministic(t *testing.T) {
	pool := []*model.AuditUnit{highUnit(0, 3), highUnit(1, 9), highUnit(2, 5)}
	trail := &Trail{}

	count, used := selectUnits(pool, 15, 10, model.RiskHigh, "Finance", trail)

	assert.Equal(t, 1, count)
	assert.Equal(t, 10.0, used)
	assert.Equal(t, []int{1}, selectedIndices(pool))
	// No random draw, so no disclosed seed.
	for _, line := range trail.Lines() {
		assert.NotContains(t, line, "seed")
	}
}

func TestSelectUnits_HighTierSplit(t *testing.T) {
	// 15 units, target=200, cost=20: 10 affordable, split 5 top + 5 random.
	pool := make([]*model.AuditUnit, 0, 15)
	for i := 0; i < 15; i++ {
		pool = append(pool, highUnit(i, float64(15-i)))
	}
	trail := &Trail{}

	count, used := selectUnits(pool, 200, 20, model.RiskHigh, "Finance", trail)

	assert.Equal(t, 10, count)
	assert.Equal(t, 200.0, used)

	// The top 5 by rating are always selected deterministically.
	for i := 0; i < 5; i++ {
		assert.True(t, pool[i].Selected, "top-rated unit %d must be selected", i)
	}

	// The remaining 5 selections come from the remainder pool.
	remainderSelected := 0
	for i := 5; i < 15; i++ {
		if pool[i].Selected {
			remainderSelected++
		}
	}
	assert.Equal(t, 5, remainderSelected)

	for _, u := range pool {
		if u.Selected {
			assert.Equal(t, 20.0, u.AssignedDays)
		} else {
			assert.Equal(t, 0.0, u.AssignedDays)
		}
	}

	require.Len(t, trail.Lines(), 2)
	assert.Contains(t, trail.Lines()[0], "5 top + 5 random x 20 days")
	assert.Contains(t, trail.Lines()[1], "Stable random seed for Finance")
}

func TestSelectUnits_HighTierSplitOddCount(t *testing.T) {
	// 3 affordable units: ceil(3*0.5)=2 top, 1 random.
	pool := make([]*model.AuditUnit, 0, 8)
	for i := 0; i < 8; i++ {
		pool = append(pool, highUnit(i, float64(8-i)))
	}
	trail := &Trail{}

	count, used := selectUnits(pool, 30, 10, model.RiskHigh, "Finance", trail)

	assert.Equal(t, 3, count)
	assert.Equal(t, 30.0, used)
	assert.True(t, pool[0].Selected)
	assert.True(t, pool[1].Selected)
	assert.Contains(t, trail.Lines()[0], "2 top + 1 random")
}

func TestSelectUnits_HighTierRemainderSmallerThanRequested(t *testing.T) {
	// 4 affordable but only 3 units in the pool: 2 top + the single
	// remaining unit; usage undershoots the target.
	pool := []*model.AuditUnit{highUnit(0, 9), highUnit(1, 8), highUnit(2, 7)}

	count, used := selectUnits(pool, 40, 10, model.RiskHigh, "Finance", &Trail{})

	assert.Equal(t, 3, count)
	assert.Equal(t, 30.0, used)
}

func TestSelectUnits_HighTierReproducible(t *testing.T) {
	build := func() []*model.AuditUnit {
		pool := make([]*model.AuditUnit, 0, 20)
		for i := 0; i < 20; i++ {
			pool = append(pool, highUnit(i, float64(20-i)))
		}
		return pool
	}

	first := build()
	second := build()
	selectUnits(first, 120, 10, model.RiskHigh, "Finance", &Trail{})
	selectUnits(second, 120, 10, model.RiskHigh, "Finance", &Trail{})

	assert.Equal(t, selectedIndices(first), selectedIndices(second))
}

func TestSelectUnits_SeedDependsOnDepartment(t *testing.T) {
	// Different department names derive different seeds; the trail discloses
	// each one.
	trailA := &Trail{}
	trailB := &Trail{}
	poolA := []*model.AuditUnit{highUnit(0, 5), highUnit(1, 4), highUnit(2, 3), highUnit(3, 2)}
	poolB := []*model.AuditUnit{highUnit(0, 5), highUnit(1, 4), highUnit(2, 3), highUnit(3, 2)}

	selectUnits(poolA, 20, 10, model.RiskHigh, "Finance", trailA)
	selectUnits(poolB, 20, 10, model.RiskHigh, "Operations", trailB)

	assert.NotEqual(t, trailA.Lines()[1], trailB.Lines()[1])
}

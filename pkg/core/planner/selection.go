package planner

import (
	"cmp"
	"crypto/md5"
	"encoding/binary"
	"math"
	"math/rand"
	"slices"
	"strconv"

	"github.com/auditops/manday-planner/pkg/core/model"
)

// StableSeed reduces a department name into the 32-bit seed space: the MD5
// digest of the name taken modulo 2^32 (the low four digest bytes). The seed
// exists purely so a re-run reproduces identical selections; it is disclosed
// in the audit trail so any allocation decision can be re-derived.
func StableSeed(name string) uint32 {
	sum := md5.Sum([]byte(name))
	return binary.BigEndian.Uint32(sum[12:])
}

// selectUnits picks audit units from pool until the tier target is spent and
// marks them selected in place.
//
// The pool is sorted by rating descending with a stable sort, so equal
// ratings keep their ingestion order. The number of affordable units is
// floor(target/mandayCost). For the High tier with more than one affordable
// unit, half the count (rounded up) is taken deterministically from the top
// of the ranking and the remainder is drawn from the rest of the pool with a
// generator seeded by StableSeed(department). Every other case takes the top
// units outright.
//
// Returns the count of units actually selected and the mandays consumed,
// which undershoot the target when the pool is too small: the engine never
// invents units.
func selectUnits(pool []*model.AuditUnit, target, mandayCost float64, tier model.RiskCategory, department string, trail *Trail) (int, float64) {
	if len(pool) == 0 || mandayCost <= 0 {
		trail.Linef("  %-10s | %-6s | No pool or manday cost <= 0", department, tier)
		return 0, 0
	}

	unitCount := int(math.Floor(target / mandayCost))
	if unitCount <= 0 {
		trail.Linef("  %-10s | %-6s | Target too low for manday cost %s", department, tier, formatDays(mandayCost))
		return 0, 0
	}

	ranked := slices.Clone(pool)
	slices.SortStableFunc(ranked, func(a, b *model.AuditUnit) int {
		return cmp.Compare(b.Rating, a.Rating)
	})

	var picked []*model.AuditUnit
	if tier == model.RiskHigh && unitCount > 1 {
		seed := StableSeed(department)
		topCount := (unitCount + 1) / 2
		if topCount > len(ranked) {
			topCount = len(ranked)
		}
		remainderCount := unitCount - topCount
		picked = append(picked, ranked[:topCount]...)

		remainder := ranked[topCount:]
		if remainderCount > len(remainder) {
			remainderCount = len(remainder)
		}
		if remainderCount > 0 {
			rng := rand.New(rand.NewSource(int64(seed)))
			for _, idx := range rng.Perm(len(remainder))[:remainderCount] {
				picked = append(picked, remainder[idx])
			}
		}

		trail.Linef("  %-10s | %-6s | %d top + %d random x %s days", department, tier, topCount, remainderCount, formatDays(mandayCost))
		trail.Linef("     Stable random seed for %s: %d", department, seed)
	} else {
		if unitCount > len(ranked) {
			unitCount = len(ranked)
		}
		picked = ranked[:unitCount]
		trail.Linef("  %-10s | %-6s | %d units x %s days", department, tier, unitCount, formatDays(mandayCost))
	}

	for _, unit := range picked {
		unit.Selected = true
		unit.AssignedDays = mandayCost
	}

	return len(picked), float64(len(picked)) * mandayCost
}

func formatDays(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

package rating

import (
	"testing"

	"stableride-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestTierForPoints(t *testing.T) {
	cases := []struct {
		points int64
		want   domain.Tier
	}{
		{0, domain.TierBeginner},
		{1200, domain.TierBeginner},
		{1300, domain.TierBeginner},
		{1301, domain.TierIntermediate},
		{1500, domain.TierIntermediate},
		{1700, domain.TierIntermediate},
		{1701, domain.TierAdvanced},
		{5000, domain.TierAdvanced},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TierForPoints(c.points), "points=%d", c.points)
	}
}

func TestPassed(t *testing.T) {
	assert.False(t, Passed(1))
	assert.False(t, Passed(6))
	assert.True(t, Passed(7))
	assert.True(t, Passed(10))
}

func TestDelta_FullMatrix(t *testing.T) {
	cases := []struct {
		rider, horse domain.Tier
		pass, fail   int64
	}{
		{domain.TierBeginner, domain.TierBeginner, 15, -10},
		{domain.TierBeginner, domain.TierIntermediate, 30, -5},
		{domain.TierBeginner, domain.TierAdvanced, 70, 0},
		{domain.TierIntermediate, domain.TierBeginner, -20, -40},
		{domain.TierIntermediate, domain.TierIntermediate, 20, -15},
		{domain.TierIntermediate, domain.TierAdvanced, 50, -10},
		{domain.TierAdvanced, domain.TierBeginner, -50, -80},
		{domain.TierAdvanced, domain.TierIntermediate, -10, -30},
		{domain.TierAdvanced, domain.TierAdvanced, 25, -20},
	}
	for _, c := range cases {
		assert.Equal(t, c.pass, Delta(c.rider, c.horse, true), "%s on %s pass", c.rider, c.horse)
		assert.Equal(t, c.fail, Delta(c.rider, c.horse, false), "%s on %s fail", c.rider, c.horse)
	}
}

func TestScore_BeginnerOnBeginnerPass(t *testing.T) {
	out := Score(1200, domain.TierBeginner, 8)
	assert.True(t, out.Pass)
	assert.Equal(t, int64(15), out.Delta)
	assert.Equal(t, int64(1215), out.NewPoints)
	assert.Equal(t, domain.TierBeginner, out.NewTier)
}

func TestScore_AdvancedDemotedByEasyHorse(t *testing.T) {
	// Passing an easy horse still costs an Advanced rider points, and the
	// tier is recomputed from the new total.
	out := Score(1750, domain.TierBeginner, 9)
	assert.True(t, out.Pass)
	assert.Equal(t, int64(-50), out.Delta)
	assert.Equal(t, int64(1700), out.NewPoints)
	assert.Equal(t, domain.TierIntermediate, out.NewTier)
}

func TestScore_PointsNeverNegative(t *testing.T) {
	for _, points := range []int64{0, 5, 50, 79} {
		for _, horse := range []domain.Tier{domain.TierBeginner, domain.TierIntermediate, domain.TierAdvanced} {
			for rps := 1; rps <= 10; rps++ {
				out := Score(points, horse, rps)
				assert.GreaterOrEqual(t, out.NewPoints, int64(0),
					"points=%d horse=%s rps=%d", points, horse, rps)
			}
		}
	}
}

func TestScore_CrossesTierBoundaryUpward(t *testing.T) {
	out := Score(1290, domain.TierIntermediate, 7)
	assert.Equal(t, int64(30), out.Delta)
	assert.Equal(t, int64(1320), out.NewPoints)
	assert.Equal(t, domain.TierIntermediate, out.NewTier)
}

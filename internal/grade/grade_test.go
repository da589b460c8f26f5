package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{0, TierBronze},
		{1, TierBronze},
		{99, TierBronze},
		{100, TierSilver},
		{101, TierSilver},
		{499, TierSilver},
		{500, TierGold},
		{501, TierGold},
		{100000, TierGold},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Calculate(tc.score), "score %d", tc.score)
	}
}

func TestCalculateMonotonic(t *testing.T) {
	prev := Calculate(0)
	for score := 1; score <= 1000; score++ {
		cur := Calculate(score)
		require.GreaterOrEqual(t, Compare(cur, prev), 0, "tier regressed at score %d", score)
		prev = cur
	}
}

func TestGetInfo(t *testing.T) {
	bronze := GetInfo(TierBronze)
	assert.Equal(t, "Bronze", bronze.Name)
	assert.Equal(t, TierSilver, bronze.NextTier)
	assert.Equal(t, SilverThreshold, bronze.NextTierThreshold)

	silver := GetInfo(TierSilver)
	assert.Equal(t, TierGold, silver.NextTier)
	assert.Equal(t, GoldThreshold, silver.NextTierThreshold)

	gold := GetInfo(TierGold)
	assert.Empty(t, gold.NextTier)
	assert.Zero(t, gold.NextTierThreshold)

	// Unknown tiers fall back to bronze rather than a zero Info.
	assert.Equal(t, bronze, GetInfo(Tier("platinum")))
}

func TestPointsToNext(t *testing.T) {
	assert.Equal(t, SilverThreshold, PointsToNext(0, TierBronze))
	assert.Equal(t, 1, PointsToNext(99, TierBronze))
	assert.Equal(t, GoldThreshold-SilverThreshold, PointsToNext(SilverThreshold, TierSilver))
	assert.Equal(t, 1, PointsToNext(499, TierSilver))

	// No next tier: always zero regardless of score.
	assert.Zero(t, PointsToNext(0, TierGold))
	assert.Zero(t, PointsToNext(10000, TierGold))
	assert.Zero(t, PointsToNext(0, TierAdmin))

	// Score past the threshold clamps at zero, never negative.
	assert.Zero(t, PointsToNext(150, TierBronze))
}

func TestProgress(t *testing.T) {
	assert.Zero(t, Progress(0, TierBronze))
	assert.Zero(t, Progress(SilverThreshold, TierSilver))

	assert.Equal(t, 50.0, Progress(50, TierBronze))
	assert.Equal(t, 50.0, Progress(300, TierSilver))

	// Approaches but never reaches 100 just below the threshold.
	assert.Less(t, Progress(99, TierBronze), 100.0)
	assert.Less(t, Progress(499, TierSilver), 100.0)

	assert.Equal(t, 100.0, Progress(0, TierGold))
	assert.Equal(t, 100.0, Progress(0, TierAdmin))
	assert.Equal(t, 100.0, Progress(99999, TierGold))
}

func TestCanEdit(t *testing.T) {
	// 10% of 1000 = 100 for bronze.
	assert.True(t, CanEdit(TierBronze, 1000, 100).CanEdit)
	denied := CanEdit(TierBronze, 1000, 150)
	assert.False(t, denied.CanEdit)
	assert.Contains(t, denied.Reason, "Bronze")
	assert.Contains(t, denied.Reason, "100")

	// Gold floor of 200 governs when 30% of the doc is smaller.
	assert.True(t, CanEdit(TierGold, 1000, 200).CanEdit)
	assert.True(t, CanEdit(TierGold, 1000, 300).CanEdit)
	assert.False(t, CanEdit(TierGold, 1000, 301).CanEdit)

	// New document: absolute floor alone governs.
	assert.True(t, CanEdit(TierBronze, 0, 50).CanEdit)
	assert.False(t, CanEdit(TierBronze, 0, 51).CanEdit)
	assert.True(t, CanEdit(TierSilver, 0, 100).CanEdit)
	assert.True(t, CanEdit(TierGold, 0, 200).CanEdit)

	// Admin is unlimited.
	assert.True(t, CanEdit(TierAdmin, 0, 1_000_000).CanEdit)
	assert.Empty(t, CanEdit(TierAdmin, 0, 1_000_000).Reason)
}

func TestCompareTotalOrder(t *testing.T) {
	tiers := []Tier{TierBronze, TierSilver, TierGold, TierAdmin}
	for i, a := range tiers {
		for j, b := range tiers {
			got := Compare(a, b)
			switch {
			case i < j:
				assert.Equal(t, -1, got, "%s vs %s", a, b)
			case i > j:
				assert.Equal(t, 1, got, "%s vs %s", a, b)
			default:
				assert.Zero(t, got, "%s vs %s", a, b)
			}
			// IsUpgrade must agree with Compare for every pair.
			assert.Equal(t, Compare(b, a) > 0, IsUpgrade(a, b), "upgrade %s -> %s", a, b)
		}
		assert.False(t, IsUpgrade(a, a))
	}
}

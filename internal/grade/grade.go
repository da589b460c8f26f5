package grade

import "fmt"

// Tier is the discrete membership level derived from a user's
// cumulative activity score. Admin is never reached through score;
// it is assigned out of band and bypasses every limit below.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
	TierAdmin  Tier = "admin"
)

const (
	SilverThreshold = 100
	GoldThreshold   = 500
)

// tierOrder backs Compare. Index position defines the total order.
var tierOrder = []Tier{TierBronze, TierSilver, TierGold, TierAdmin}

// Info is the static display metadata for a tier. NextTier and
// NextTierThreshold are zero values for gold and admin.
type Info struct {
	Name              string
	Icon              string
	NextTier          Tier
	NextTierThreshold int
}

var tierInfo = map[Tier]Info{
	TierBronze: {Name: "Bronze", Icon: "🥉", NextTier: TierSilver, NextTierThreshold: SilverThreshold},
	TierSilver: {Name: "Silver", Icon: "🥈", NextTier: TierGold, NextTierThreshold: GoldThreshold},
	TierGold:   {Name: "Gold", Icon: "🥇"},
	TierAdmin:  {Name: "Admin", Icon: "👑"},
}

// editLimit is the per-tier cap on a single wiki edit. The effective
// limit is max(Floor, Ratio * totalDocLength).
type editLimit struct {
	Floor int
	Ratio float64
}

var tierEditLimits = map[Tier]editLimit{
	TierBronze: {Floor: 50, Ratio: 0.10},
	TierSilver: {Floor: 100, Ratio: 0.20},
	TierGold:   {Floor: 200, Ratio: 0.30},
}

// Calculate maps a cumulative score to its tier. Tier is always
// derived from the score; it is never stored as a source of truth.
func Calculate(score int) Tier {
	switch {
	case score >= GoldThreshold:
		return TierGold
	case score >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// GetInfo returns display metadata for a tier. Unknown values map to
// the bronze entry so callers never branch on a missing tier.
func GetInfo(tier Tier) Info {
	if info, ok := tierInfo[tier]; ok {
		return info
	}
	return tierInfo[TierBronze]
}

// PointsToNext returns how many points remain until the next tier,
// zero for gold and admin.
func PointsToNext(score int, tier Tier) int {
	info := GetInfo(tier)
	if info.NextTier == "" {
		return 0
	}
	remaining := info.NextTierThreshold - score
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Progress returns the position inside the current tier as a
// percentage in [0, 100]. Gold and admin are always 100.
func Progress(score int, tier Tier) float64 {
	info := GetInfo(tier)
	if info.NextTier == "" {
		return 100
	}

	lower := 0
	if tier == TierSilver {
		lower = SilverThreshold
	}

	span := info.NextTierThreshold - lower
	if span <= 0 {
		return 100
	}

	pct := float64(score-lower) / float64(span) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Decision is the outcome of an edit-permission check. Reason is set
// only on denial.
type Decision struct {
	CanEdit bool
	Reason  string
}

// CanEdit decides whether a tier may save a wiki edit of editLength
// characters against a document of totalDocLength characters. For a
// new document (totalDocLength == 0) the absolute floor alone governs.
func CanEdit(tier Tier, totalDocLength, editLength int) Decision {
	if tier == TierAdmin {
		return Decision{CanEdit: true}
	}

	limit, ok := tierEditLimits[tier]
	if !ok {
		limit = tierEditLimits[TierBronze]
	}

	allowed := limit.Floor
	if scaled := int(limit.Ratio * float64(totalDocLength)); scaled > allowed {
		allowed = scaled
	}

	if editLength <= allowed {
		return Decision{CanEdit: true}
	}
	return Decision{
		CanEdit: false,
		Reason:  fmt.Sprintf("%s members may change at most %d characters per edit", GetInfo(tier).Name, allowed),
	}
}

// Compare orders two tiers: -1 when a < b, 0 when equal, 1 when a > b.
// bronze < silver < gold < admin.
func Compare(a, b Tier) int {
	ia, ib := indexOf(a), indexOf(b)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}

// IsUpgrade reports whether moving from one tier to another is a
// promotion. Equal tiers are not an upgrade.
func IsUpgrade(from, to Tier) bool {
	return Compare(to, from) > 0
}

func indexOf(tier Tier) int {
	for i, t := range tierOrder {
		if t == tier {
			return i
		}
	}
	return 0
}

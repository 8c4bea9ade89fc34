package performance

import (
	"math"

	"rostercheck/internal/roster"
	"rostercheck/internal/wgapi"
)

// TopTier is the highest vehicle tier.
const TopTier = 10

// totals accumulates actual and expected values over a set of vehicles.
type totals struct {
	battles int64
	wins    int64

	// WN8 sums cover only vehicles with expected values.
	damage, frags, spots, defs, winsRated float64
	expDamage, expFrags, expSpots        float64
	expDefs, expWins                     float64
}

func (t *totals) add(s wgapi.TankStats, exp wgapi.ExpectedValues, hasExp bool) {
	t.battles += s.Battles
	t.wins += s.Wins
	if !hasExp || s.Battles == 0 {
		return
	}
	b := float64(s.Battles)
	t.damage += float64(s.DamageDealt)
	t.frags += float64(s.Frags)
	t.spots += float64(s.Spotted)
	t.defs += float64(s.DroppedCapturePoints)
	t.winsRated += float64(s.Wins)
	t.expDamage += exp.Damage * b
	t.expFrags += exp.Frag * b
	t.expSpots += exp.Spot * b
	t.expDefs += exp.Def * b
	t.expWins += exp.WinRate / 100 * b
}

func (t *totals) winRate() float64 {
	if t.battles == 0 {
		return 0
	}
	return float64(t.wins) / float64(t.battles)
}

func (t *totals) wn8() float64 {
	if t.expDamage == 0 || t.expWins == 0 {
		return 0
	}
	return WN8(
		ratio(t.damage, t.expDamage),
		ratio(t.spots, t.expSpots),
		ratio(t.frags, t.expFrags),
		ratio(t.defs, t.expDefs),
		ratio(t.winsRated, t.expWins),
	)
}

func ratio(actual, expected float64) float64 {
	if expected == 0 {
		return 0
	}
	return actual / expected
}

// WN8 combines the actual/expected ratios with the standard weights.
func WN8(rDamage, rSpot, rFrag, rDef, rWin float64) float64 {
	rWinC := math.Max(0, (rWin-0.71)/(1-0.71))
	rDamageC := math.Max(0, (rDamage-0.22)/(1-0.22))
	rFragC := math.Max(0, math.Min(rDamageC+0.2, (rFrag-0.12)/(1-0.12)))
	rSpotC := math.Max(0, math.Min(rDamageC+0.1, (rSpot-0.38)/(1-0.38)))
	rDefC := math.Max(0, math.Min(rDamageC+0.1, (rDef-0.10)/(1-0.10)))

	return 980*rDamageC +
		210*rDamageC*rFragC +
		155*rFragC*rSpotC +
		75*rDefC*rFragC +
		145*math.Min(1.8, rWinC)
}

// Compute derives the figures of one player. Vehicles missing from the
// encyclopedia count toward battles and wins but not toward the average tier.
func Compute(stats []wgapi.TankStats, ref *Reference) roster.Performance {
	var (
		all, top       totals
		tierWeighted   float64
		tierBattles    int64
		topDamageTotal int64
	)
	for _, s := range stats {
		var (
			exp    wgapi.ExpectedValues
			hasExp bool
			tier   int
		)
		if ref != nil {
			exp, hasExp = ref.Expected[s.TankID]
			if v, ok := ref.Vehicles[s.TankID]; ok {
				tier = v.Tier
			}
		}
		all.add(s, exp, hasExp)
		if tier > 0 {
			tierWeighted += float64(tier) * float64(s.Battles)
			tierBattles += s.Battles
		}
		if tier == TopTier {
			top.add(s, exp, hasExp)
			topDamageTotal += s.DamageDealt
		}
	}

	perf := roster.Performance{
		Battles:       all.battles,
		WinRate:       all.winRate(),
		WN8:           all.wn8(),
		Tier10Battles: top.battles,
		Tier10WinRate: top.winRate(),
		Tier10WN8:     top.wn8(),
	}
	if tierBattles > 0 {
		perf.AvgTier = tierWeighted / float64(tierBattles)
	}
	if top.battles > 0 {
		perf.Tier10DirectDamage = float64(topDamageTotal) / float64(top.battles)
	}
	return perf
}

// Package scoring computes the composite player score and ranks records
// into a leaderboard ordering.
package scoring

import (
	"math"
	"sort"

	"github.com/courtpulse/courtpulse/internal/domain/stats"
)

// Weights for the composite score. The weighted sum is divided by 10 and
// rounded to 2 decimals. Made field goals carry no weight of their own; their
// value is already captured by points and attempts.
const (
	weightPoints             = 4.5546
	weightOffensiveRebounds  = 1.1876
	weightDefensiveRebounds  = 1.1876
	weightAssists            = 1.8509
	weightSteals             = 12.1842
	weightBlocks             = 4.0437
	weightTurnovers          = -3.5363
	weightFieldGoalAttempts  = -4.8825
	weightFieldGoalsMade     = 0.0
	weightThreePointersMade  = 9.5992
	weightThreePointAttempts = -2.2564
	weightPersonalFouls      = -2.109
	weightMinutes            = -0.7015
	weightPlusMinus          = 0.5746
)

// Score computes the composite score for one record.
func Score(p stats.PlayerStat) float64 {
	sum := weightPoints*float64(p.Points) +
		weightOffensiveRebounds*float64(p.OffensiveRebounds) +
		weightDefensiveRebounds*float64(p.DefensiveRebounds) +
		weightAssists*float64(p.Assists) +
		weightSteals*float64(p.Steals) +
		weightBlocks*float64(p.Blocks) +
		weightTurnovers*float64(p.Turnovers) +
		weightFieldGoalAttempts*float64(p.FieldGoalAttempts) +
		weightFieldGoalsMade*float64(p.FieldGoalsMade) +
		weightThreePointersMade*float64(p.ThreePointersMade) +
		weightThreePointAttempts*float64(p.ThreePointAttempts) +
		weightPersonalFouls*float64(p.PersonalFouls) +
		weightMinutes*p.MinutesNumeric +
		weightPlusMinus*float64(p.PlusMinus)

	return math.Round(sum/10*100) / 100
}

// Rank scores and orders records for a leaderboard. Records without playing
// time (including the minutes parse sentinel) are excluded. The sort is
// stable so equal scores keep their arrival order. A limit <= 0 means no
// truncation.
func Rank(records []stats.PlayerStat, limit int) []stats.PlayerStat {
	ranked := make([]stats.PlayerStat, 0, len(records))
	for _, p := range records {
		if !p.Played() {
			continue
		}
		p.CustomScore = Score(p)
		ranked = append(ranked, p)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CustomScore > ranked[j].CustomScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

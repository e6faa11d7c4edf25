// Package stats defines the canonical player-stat record and the
// normalization path from the two upstream box-score shapes into it.
// Everything downstream of the fetch boundary (scoring, persistence)
// works exclusively with PlayerStat.
package stats

// PlayerStat is the canonical, schema-independent representation of one
// player's performance in one game. Every field is always populated:
// counters missing upstream are zero, and minutes are derivable in both
// directions through ParseMinutes/FormatMinutes.
type PlayerStat struct {
	// PlayerName is "First Last" as supplied upstream, trimmed.
	PlayerName string `json:"player_name"`

	// Team is the short team code (e.g. "BOS"), passed through as upstream
	// sends it. Case differences between feeds are preserved.
	Team string `json:"team"`

	// Minutes is the display form "M:SS".
	Minutes string `json:"minutes"`

	// MinutesNumeric is decimal minutes, rounded to 2 places. The value
	// SentinelMinutes marks an unparsable upstream minutes field.
	MinutesNumeric float64 `json:"minutes_numeric"`

	Points              int `json:"points"`
	OffensiveRebounds   int `json:"offensive_rebounds"`
	DefensiveRebounds   int `json:"defensive_rebounds"`
	Assists             int `json:"assists"`
	Steals              int `json:"steals"`
	Blocks              int `json:"blocks"`
	Turnovers           int `json:"turnovers"`
	FieldGoalsMade      int `json:"field_goals_made"`
	FieldGoalAttempts   int `json:"field_goal_attempts"`
	ThreePointersMade   int `json:"three_pointers_made"`
	ThreePointAttempts  int `json:"three_point_attempts"`
	PersonalFouls       int `json:"personal_fouls"`
	PlusMinus           int `json:"plus_minus"`

	// CustomScore is filled in by the scoring engine; zero until scored.
	CustomScore float64 `json:"custom_score"`
}

// Played reports whether the record represents actual playing time.
// The parse sentinel counts as "did not play" so that unparsable minutes
// never rank (they remain distinguishable from a true zero for diagnostics).
func (p PlayerStat) Played() bool {
	return p.MinutesNumeric > SentinelMinutes
}

package stats

import (
	"fmt"
	"strings"
)

// Schema identifies which upstream box-score shape a raw row came from.
type Schema int

const (
	// SchemaUnknown means the fetch boundary could not tag the row; the
	// shape is then inferred from key presence.
	SchemaUnknown Schema = iota
	// SchemaCompleted is the historical box-score shape (UPPER_SNAKE keys).
	SchemaCompleted
	// SchemaLive is the live scoreboard shape (camelCase keys).
	SchemaLive
)

func (s Schema) String() string {
	switch s {
	case SchemaCompleted:
		return "completed"
	case SchemaLive:
		return "live"
	default:
		return "unknown"
	}
}

// RawRow is one player's row as fetched, tagged with the schema the transport
// layer observed. Fields hold the decoded JSON object as-is.
type RawRow struct {
	Schema Schema
	Fields map[string]any
}

// DetectSchema infers the shape of an untagged row from key presence. The
// two feeds share no key names, so a single marker per shape suffices.
func DetectSchema(fields map[string]any) Schema {
	if _, ok := fields["PLAYER_NAME"]; ok {
		return SchemaCompleted
	}
	if _, ok := fields["familyName"]; ok {
		return SchemaLive
	}
	if _, ok := fields["MIN"]; ok {
		return SchemaCompleted
	}
	if _, ok := fields["minutes"]; ok {
		return SchemaLive
	}
	return SchemaUnknown
}

// Normalize converts a raw row into the canonical record. Missing counters
// become zero and an unparsable minutes field becomes the sentinel; the
// returned error reports the minutes anomaly (if any) while the record is
// still fully usable. A row whose schema cannot be determined normalizes to
// an all-zero record.
func Normalize(row RawRow) (PlayerStat, error) {
	schema := row.Schema
	if schema == SchemaUnknown {
		schema = DetectSchema(row.Fields)
	}

	switch schema {
	case SchemaCompleted:
		return normalizeCompleted(row.Fields)
	case SchemaLive:
		return normalizeLive(row.Fields)
	default:
		var zero PlayerStat
		zero.Minutes = FormatMinutes(0)
		return zero, fmt.Errorf("normalize: unrecognized row shape")
	}
}

func normalizeCompleted(f map[string]any) (PlayerStat, error) {
	p := PlayerStat{
		PlayerName:         stringField(f, "PLAYER_NAME"),
		Team:               stringField(f, "TEAM_ABBREVIATION"),
		Points:             intField(f, "PTS"),
		OffensiveRebounds:  intField(f, "OREB"),
		DefensiveRebounds:  intField(f, "DREB"),
		Assists:            intField(f, "AST"),
		Steals:             intField(f, "STL"),
		Blocks:             intField(f, "BLK"),
		Turnovers:          intField(f, "TO"),
		FieldGoalsMade:     intField(f, "FGM"),
		FieldGoalAttempts:  intField(f, "FGA"),
		ThreePointersMade:  intField(f, "FG3M"),
		ThreePointAttempts: intField(f, "FG3A"),
		PersonalFouls:      intField(f, "PF"),
		PlusMinus:          intField(f, "PLUS_MINUS"),
	}

	var parseErr error
	// A pre-computed numeric value is authoritative when present.
	if v, ok := floatField(f, "MIN_NUMERIC"); ok {
		p.MinutesNumeric = round2(v)
	} else {
		p.MinutesNumeric, parseErr = ParseMinutes(stringField(f, "MIN"))
	}
	p.Minutes = FormatMinutes(p.MinutesNumeric)
	return p, parseErr
}

func normalizeLive(f map[string]any) (PlayerStat, error) {
	first := strings.TrimSpace(stringField(f, "firstName"))
	family := strings.TrimSpace(stringField(f, "familyName"))

	p := PlayerStat{
		PlayerName: strings.TrimSpace(first + " " + family),
		Team:       stringField(f, "teamTricode"),
	}

	// Per-player counters live in a nested "statistics" object on the live
	// feed; tolerate flattened rows as well.
	counters := f
	if nested, ok := f["statistics"].(map[string]any); ok {
		counters = nested
	}

	p.Points = intField(counters, "points")
	p.OffensiveRebounds = intField(counters, "reboundsOffensive")
	p.DefensiveRebounds = intField(counters, "reboundsDefensive")
	p.Assists = intField(counters, "assists")
	p.Steals = intField(counters, "steals")
	p.Blocks = intField(counters, "blocks")
	p.Turnovers = intField(counters, "turnovers")
	p.FieldGoalsMade = intField(counters, "fieldGoalsMade")
	p.FieldGoalAttempts = intField(counters, "fieldGoalsAttempted")
	p.ThreePointersMade = intField(counters, "threePointersMade")
	p.ThreePointAttempts = intField(counters, "threePointersAttempted")
	p.PersonalFouls = intField(counters, "foulsPersonal")
	p.PlusMinus = intField(counters, "plusMinusPoints")

	var parseErr error
	p.MinutesNumeric, parseErr = ParseMinutes(stringField(counters, "minutes"))
	p.Minutes = FormatMinutes(p.MinutesNumeric)
	return p, parseErr
}

func stringField(f map[string]any, key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// intField tolerates the numeric representations encoding/json produces
// (float64) plus stringly-typed numbers some feeds emit.
func intField(f map[string]any, key string) int {
	switch v := f[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &n); err == nil {
			return int(n)
		}
	}
	return 0
}

func floatField(f map[string]any, key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

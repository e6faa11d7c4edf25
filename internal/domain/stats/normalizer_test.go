package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedRow() map[string]any {
	return map[string]any{
		"PLAYER_NAME":       "Jayson Tatum",
		"TEAM_ABBREVIATION": "BOS",
		"MIN":               "36:45",
		"PTS":               float64(31),
		"OREB":              float64(1),
		"DREB":              float64(8),
		"AST":               float64(5),
		"STL":               float64(2),
		"BLK":               float64(1),
		"TO":                float64(3),
		"FGM":               float64(11),
		"FGA":               float64(22),
		"FG3M":              float64(4),
		"FG3A":              float64(10),
		"PF":                float64(2),
		"PLUS_MINUS":        float64(12),
	}
}

func liveRow() map[string]any {
	return map[string]any{
		"firstName":   "Luka",
		"familyName":  "Doncic",
		"teamTricode": "DAL",
		"statistics": map[string]any{
			"minutes":                 "PT17M14.00S",
			"points":                  float64(21),
			"reboundsOffensive":       float64(0),
			"reboundsDefensive":       float64(4),
			"assists":                 float64(7),
			"steals":                  float64(1),
			"blocks":                  float64(0),
			"turnovers":               float64(2),
			"fieldGoalsMade":          float64(8),
			"fieldGoalsAttempted":     float64(15),
			"threePointersMade":       float64(3),
			"threePointersAttempted":  float64(7),
			"foulsPersonal":           float64(1),
			"plusMinusPoints":         float64(-5),
		},
	}
}

func TestDetectSchema(t *testing.T) {
	assert.Equal(t, SchemaCompleted, DetectSchema(completedRow()))
	assert.Equal(t, SchemaLive, DetectSchema(liveRow()))
	assert.Equal(t, SchemaUnknown, DetectSchema(map[string]any{"foo": "bar"}))
	assert.Equal(t, SchemaCompleted, DetectSchema(map[string]any{"MIN": "12:00"}))
	assert.Equal(t, SchemaLive, DetectSchema(map[string]any{"minutes": "PT5M"}))
}

func TestNormalizeCompleted(t *testing.T) {
	got, err := Normalize(RawRow{Schema: SchemaCompleted, Fields: completedRow()})
	require.NoError(t, err)

	assert.Equal(t, "Jayson Tatum", got.PlayerName)
	assert.Equal(t, "BOS", got.Team)
	assert.InDelta(t, 36.75, got.MinutesNumeric, 0.0001)
	assert.Equal(t, "36:45", got.Minutes)
	assert.Equal(t, 31, got.Points)
	assert.Equal(t, 1, got.OffensiveRebounds)
	assert.Equal(t, 8, got.DefensiveRebounds)
	assert.Equal(t, 3, got.Turnovers)
	assert.Equal(t, 22, got.FieldGoalAttempts)
	assert.Equal(t, 12, got.PlusMinus)
}

func TestNormalizeCompletedTrustsNumericMinutes(t *testing.T) {
	row := completedRow()
	row["MIN"] = "garbage"
	row["MIN_NUMERIC"] = float64(36.75)

	got, err := Normalize(RawRow{Schema: SchemaCompleted, Fields: row})
	require.NoError(t, err)
	assert.InDelta(t, 36.75, got.MinutesNumeric, 0.0001)
	assert.Equal(t, "36:45", got.Minutes)
}

func TestNormalizeLive(t *testing.T) {
	got, err := Normalize(RawRow{Schema: SchemaLive, Fields: liveRow()})
	require.NoError(t, err)

	assert.Equal(t, "Luka Doncic", got.PlayerName)
	assert.Equal(t, "DAL", got.Team)
	assert.InDelta(t, 17.23, got.MinutesNumeric, 0.0001)
	assert.Equal(t, "17:14", got.Minutes)
	assert.Equal(t, 21, got.Points)
	assert.Equal(t, 4, got.DefensiveRebounds)
	assert.Equal(t, 15, got.FieldGoalAttempts)
	assert.Equal(t, -5, got.PlusMinus)
}

func TestNormalizeMissingCountersZeroed(t *testing.T) {
	got, err := Normalize(RawRow{Fields: map[string]any{
		"PLAYER_NAME":       "Bench Player",
		"TEAM_ABBREVIATION": "MIA",
		"MIN":               "3:30",
	}})
	require.NoError(t, err)

	assert.Equal(t, "Bench Player", got.PlayerName)
	assert.InDelta(t, 3.5, got.MinutesNumeric, 0.0001)
	assert.Zero(t, got.Points)
	assert.Zero(t, got.FieldGoalAttempts)
	assert.Zero(t, got.PlusMinus)
}

func TestNormalizeMissingMinutesIsZeroNotSentinel(t *testing.T) {
	// DNP rows carry no minutes field at all; that is normal data, not an
	// anomaly, so no error and no sentinel.
	row := completedRow()
	delete(row, "MIN")

	got, err := Normalize(RawRow{Schema: SchemaCompleted, Fields: row})
	require.NoError(t, err)
	assert.Zero(t, got.MinutesNumeric)
	assert.Equal(t, "0:00", got.Minutes)
	assert.False(t, got.Played())
}

func TestNormalizeEmptyLiveMinutesIsZero(t *testing.T) {
	row := liveRow()
	row["statistics"].(map[string]any)["minutes"] = ""

	got, err := Normalize(RawRow{Schema: SchemaLive, Fields: row})
	require.NoError(t, err)
	assert.Zero(t, got.MinutesNumeric)
	assert.Equal(t, "0:00", got.Minutes)
}

func TestNormalizeMalformedMinutesUsesSentinel(t *testing.T) {
	row := completedRow()
	row["MIN"] = "DNP - Coach's Decision"

	got, err := Normalize(RawRow{Schema: SchemaCompleted, Fields: row})
	require.Error(t, err)
	assert.InDelta(t, SentinelMinutes, got.MinutesNumeric, 0.0001)
	assert.False(t, got.Played())
	// Counters still normalize even when minutes do not parse.
	assert.Equal(t, 31, got.Points)
}

func TestNormalizeUnknownShape(t *testing.T) {
	got, err := Normalize(RawRow{Fields: map[string]any{"foo": "bar"}})
	require.Error(t, err)
	assert.Empty(t, got.PlayerName)
	assert.Zero(t, got.MinutesNumeric)
	assert.Zero(t, got.Points)
}

func TestNormalizeLiveTrimsNames(t *testing.T) {
	row := liveRow()
	row["firstName"] = "  Luka "
	row["familyName"] = " Doncic  "

	got, err := Normalize(RawRow{Schema: SchemaLive, Fields: row})
	require.NoError(t, err)
	assert.Equal(t, "Luka Doncic", got.PlayerName)
}

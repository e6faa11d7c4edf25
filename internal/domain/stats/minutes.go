package stats

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SentinelMinutes is stored when an upstream minutes field cannot be parsed.
// It is small enough to never rank yet nonzero so anomalies remain visible in
// the persisted data.
const SentinelMinutes = 0.01

// isoDurationRe matches the ISO-8601-style duration the live feed emits,
// e.g. "PT17M14.00S", "PT5M", "PT30.00S". Either component may be absent.
var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// ParseMinutes converts an upstream minutes value to decimal minutes rounded
// to 2 places. Accepted forms: ISO duration ("PT17M14.00S"), plain numerics
// ("17.23"), and the clock form ("17:14"). An absent or empty value means
// the player logged no minutes and parses to 0. Malformed input returns
// SentinelMinutes together with a non-nil error; callers persist the
// sentinel and use the error for diagnostics only.
func ParseMinutes(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	if m := isoDurationRe.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		var minutes, seconds float64
		if m[1] != "" {
			minutes, _ = strconv.ParseFloat(m[1], 64)
		}
		if m[2] != "" {
			seconds, _ = strconv.ParseFloat(m[2], 64)
		}
		return round2(minutes + seconds/60), nil
	}

	if mm, ss, ok := strings.Cut(s, ":"); ok {
		minutes, err1 := strconv.ParseFloat(mm, 64)
		seconds, err2 := strconv.ParseFloat(ss, 64)
		if err1 != nil || err2 != nil || minutes < 0 || seconds < 0 {
			return SentinelMinutes, fmt.Errorf("parse minutes: malformed clock value %q", raw)
		}
		return round2(minutes + seconds/60), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return SentinelMinutes, fmt.Errorf("parse minutes: unrecognized value %q", raw)
	}
	return round2(v), nil
}

// FormatMinutes renders decimal minutes as "M:SS". Fractional seconds round
// to the nearest whole second, carrying 60 into the minute.
func FormatMinutes(v float64) string {
	if v < 0 {
		v = 0
	}
	minutes := int(math.Floor(v))
	seconds := int(math.Round((v - math.Floor(v)) * 60))
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

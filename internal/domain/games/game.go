// Package games models NBA games and the discovery of which games a refresh
// cycle should pull box scores for.
package games

// Status is the coarse game state derived from the upstream scoreboard.
type Status int

const (
	StatusScheduled Status = iota
	StatusLive
	StatusFinal
)

func (s Status) String() string {
	switch s {
	case StatusLive:
		return "live"
	case StatusFinal:
		return "final"
	default:
		return "scheduled"
	}
}

// liveStatusID is the upstream numeric status for a game in progress.
const liveStatusID = 2

// finalStatusTexts are the status strings upstream uses for a finished game.
// The feed is not consistent about which one it sends.
var finalStatusTexts = map[string]struct{}{
	"Final":    {},
	"Finished": {},
	"Complete": {},
}

// Game is one scoreboard entry.
type Game struct {
	ID         string
	Date       string // Eastern calendar date, YYYY-MM-DD
	StatusID   int
	StatusText string
}

// Status derives the coarse state. The numeric id decides live; the status
// text decides final; everything else is scheduled.
func (g Game) Status() Status {
	if g.StatusID == liveStatusID {
		return StatusLive
	}
	if _, ok := finalStatusTexts[g.StatusText]; ok {
		return StatusFinal
	}
	return StatusScheduled
}

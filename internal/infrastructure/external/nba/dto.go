package nba

// scoreboardResponse is the wire shape of GET /scoreboard?date=YYYY-MM-DD.
type scoreboardResponse struct {
	Games []scoreboardGame `json:"games"`
}

type scoreboardGame struct {
	GameID         string `json:"gameId"`
	GameDate       string `json:"gameDate"`
	GameStatusID   int    `json:"gameStatusId"`
	GameStatusText string `json:"gameStatusText"`
}

// boxscoreResponse is the wire shape of GET /boxscore/{id}: the historical
// feed returns a flat list of player rows with UPPER_SNAKE keys. Rows are
// kept as raw maps; the normalizer owns field extraction.
type boxscoreResponse struct {
	PlayerStats []map[string]any `json:"playerStats"`
}

// liveBoxscoreResponse is the wire shape of GET /boxscore/{id}/live.
type liveBoxscoreResponse struct {
	Game liveGame `json:"game"`
}

type liveGame struct {
	HomeTeam liveTeam `json:"homeTeam"`
	AwayTeam liveTeam `json:"awayTeam"`
}

type liveTeam struct {
	TeamTricode string       `json:"teamTricode"`
	Players     []livePlayer `json:"players"`
}

type livePlayer struct {
	Status     string         `json:"status"`
	FirstName  string         `json:"firstName"`
	FamilyName string         `json:"familyName"`
	Statistics map[string]any `json:"statistics"`
}

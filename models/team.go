package models

// TeamStats is a cached league-table line. It is always recomputable from the
// tournament's completed matches; persisted values may be stale and must not
// be trusted as authoritative input.
type TeamStats struct {
	Played       int `json:"played"`
	Won          int `json:"won"`
	Drawn        int `json:"drawn"`
	Lost         int `json:"lost"`
	GoalsFor     int `json:"goalsFor"`
	GoalsAgainst int `json:"goalsAgainst"`
	Points       int `json:"points"`
}

// Team represents a side in a tournament.
type Team struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Players []Player  `json:"players"`
	Stats   TeamStats `json:"stats"`
}

func (t *Team) Clone() Team {
	out := *t
	out.Players = make([]Player, len(t.Players))
	copy(out.Players, t.Players)
	return out
}

package models

// MatchStatus represents the states of a fixture.
type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
)

// Match is a fixture between two teams. Team1 and Team2 are denormalized
// copies frozen at fixture-generation time, not live pointers: the remote
// store persists only their id and name, and the loader re-resolves them
// against the tournament's team list, falling back to the stored stub when
// the team no longer exists.
//
// Score1/Score2 should equal the per-side goal counts when goals are tracked,
// but this is deliberately not enforced so historical results can be entered
// by hand without a goal log.
type Match struct {
	ID       string      `json:"id"`
	Team1    Team        `json:"team1"`
	Team2    Team        `json:"team2"`
	Score1   int         `json:"score1"`
	Score2   int         `json:"score2"`
	Status   MatchStatus `json:"status"`
	Round    int         `json:"round"`
	Duration int         `json:"duration"`
	Goals    []Goal      `json:"goals"`
	Comments string      `json:"comments"`
}

func (m *Match) Clone() Match {
	out := *m
	out.Team1 = m.Team1.Clone()
	out.Team2 = m.Team2.Clone()
	out.Goals = make([]Goal, len(m.Goals))
	copy(out.Goals, m.Goals)
	return out
}

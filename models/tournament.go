package models

// TournamentStatus represents the lifecycle states of a tournament.
type TournamentStatus string

const (
	StatusSetup     TournamentStatus = "setup"
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
)

// Tournament is the aggregate root. Teams, fixtures and their goals are owned
// by the tournament and travel with it through save, migrate and
// cascade-delete operations.
type Tournament struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Date        string           `json:"date"`
	Status      TournamentStatus `json:"status"`
	Rounds      int              `json:"rounds"`
	TeamSize    int              `json:"teamSize"`
	HasHalfTime bool             `json:"hasHalfTime"`
	Teams       []Team           `json:"teams"`
	Fixtures    []Match          `json:"fixtures"`
}

// DerivedStatus reports "completed" for an active tournament whose fixtures
// have all been played. The completed state is never persisted; it is derived
// on read so that editing a finished match reopens the tournament naturally.
func (t *Tournament) DerivedStatus() TournamentStatus {
	if t.Status != StatusActive || len(t.Fixtures) == 0 {
		return t.Status
	}
	for i := range t.Fixtures {
		if t.Fixtures[i].Status != MatchCompleted {
			return t.Status
		}
	}
	return StatusCompleted
}

// Clone returns a deep copy of the tournament. Callers of the storage facade
// receive clones so they cannot mutate the coordinator's in-memory view.
func (t *Tournament) Clone() Tournament {
	out := *t
	out.Teams = make([]Team, len(t.Teams))
	for i := range t.Teams {
		out.Teams[i] = t.Teams[i].Clone()
	}
	out.Fixtures = make([]Match, len(t.Fixtures))
	for i := range t.Fixtures {
		out.Fixtures[i] = t.Fixtures[i].Clone()
	}
	return out
}

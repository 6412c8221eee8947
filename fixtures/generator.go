package fixtures

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mlukic/matchday/models"
)

// Generate creates the round-robin fixture list for a tournament: every team
// plays every other team once per round cycle, for t.Rounds cycles. Matches
// start pending with zero scores; each side is a frozen copy of the team as
// it exists now.
func Generate(t *models.Tournament) ([]models.Match, error) {
	if len(t.Teams) < 2 {
		return nil, fmt.Errorf("not enough teams for fixtures (found %d, min 2 required)", len(t.Teams))
	}

	rounds := t.Rounds
	if rounds < 1 {
		rounds = 1
	}

	matches := make([]models.Match, 0, rounds*len(t.Teams)*(len(t.Teams)-1)/2)
	for round := 1; round <= rounds; round++ {
		for i := 0; i < len(t.Teams); i++ {
			for j := i + 1; j < len(t.Teams); j++ {
				matches = append(matches, models.Match{
					ID:     uuid.NewString(),
					Team1:  t.Teams[i].Clone(),
					Team2:  t.Teams[j].Clone(),
					Status: models.MatchPending,
					Round:  round,
					Goals:  []models.Goal{},
				})
			}
		}
	}
	return matches, nil
}

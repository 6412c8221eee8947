package fixtures

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/mlukic/matchday/models"
)

// DrawTeams assembles balanced teams from a pool of registered players. The
// pool is split by hat, each hat is shuffled independently, and teams are
// filled by alternating picks so every team gets a similar mix of first-hat
// and second-hat players. Players that do not fill a complete team sit out.
func DrawTeams(players []models.Player, teamSize int) ([]models.Team, error) {
	if teamSize < 2 {
		return nil, fmt.Errorf("team size must be at least 2, got %d", teamSize)
	}
	if len(players) < 2*teamSize {
		return nil, fmt.Errorf("not enough players for a draw (found %d, min %d required)", len(players), 2*teamSize)
	}

	var firstHat, secondHat []models.Player
	for _, p := range players {
		if p.Hat == models.HatFirst {
			firstHat = append(firstHat, p)
		} else {
			secondHat = append(secondHat, p)
		}
	}
	rand.Shuffle(len(firstHat), func(i, j int) { firstHat[i], firstHat[j] = firstHat[j], firstHat[i] })
	rand.Shuffle(len(secondHat), func(i, j int) { secondHat[i], secondHat[j] = secondHat[j], secondHat[i] })

	teamCount := len(players) / teamSize
	teams := make([]models.Team, 0, teamCount)
	for i := 0; i < teamCount; i++ {
		teams = append(teams, models.Team{
			ID:      uuid.NewString(),
			Name:    fmt.Sprintf("Team %d", i+1),
			Players: make([]models.Player, 0, teamSize),
		})
	}

	// Deal first-hat players round-robin across teams, then top each team up
	// from the second hat. Once every roster is full the leftovers sit out.
	slot := 0
	for _, p := range firstHat {
		t := nextOpenTeam(teams, slot, teamSize)
		if t == nil {
			break
		}
		t.Players = append(t.Players, p)
		slot++
	}
	for _, p := range secondHat {
		t := nextOpenTeam(teams, 0, teamSize)
		if t == nil {
			break
		}
		t.Players = append(t.Players, p)
	}
	return teams, nil
}

// nextOpenTeam returns the first team with roster space, scanning from the
// given offset so round-robin dealing distributes picks evenly.
func nextOpenTeam(teams []models.Team, from, teamSize int) *models.Team {
	for i := 0; i < len(teams); i++ {
		t := &teams[(from+i)%len(teams)]
		if len(t.Players) < teamSize {
			return t
		}
	}
	return nil
}

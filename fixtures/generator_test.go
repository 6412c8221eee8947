package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlukic/matchday/models"
)

func tournamentWithTeams(rounds int, names ...string) models.Tournament {
	teams := make([]models.Team, len(names))
	for i, n := range names {
		teams[i] = models.Team{ID: n, Name: n}
	}
	return models.Tournament{ID: "t1", Name: "Cup", Rounds: rounds, Teams: teams}
}

func TestGenerateSingleRoundRobin(t *testing.T) {
	tour := tournamentWithTeams(1, "a", "b", "c", "d")

	matches, err := Generate(&tour)
	require.NoError(t, err)
	assert.Len(t, matches, 6, "4 teams play C(4,2) matches per cycle")

	pairings := make(map[string]int)
	ids := make(map[string]bool)
	for _, m := range matches {
		assert.Equal(t, models.MatchPending, m.Status)
		assert.Equal(t, 1, m.Round)
		assert.Zero(t, m.Score1)
		assert.Zero(t, m.Score2)
		assert.False(t, ids[m.ID], "match ids must be unique")
		ids[m.ID] = true
		pairings[m.Team1.ID+"-"+m.Team2.ID]++
	}
	for pairing, count := range pairings {
		assert.Equal(t, 1, count, "pairing %s scheduled more than once", pairing)
	}
}

func TestGenerateMultipleCycles(t *testing.T) {
	tour := tournamentWithTeams(2, "a", "b", "c")

	matches, err := Generate(&tour)
	require.NoError(t, err)
	assert.Len(t, matches, 6, "3 teams over 2 cycles")

	perRound := make(map[int]int)
	for _, m := range matches {
		perRound[m.Round]++
	}
	assert.Equal(t, 3, perRound[1])
	assert.Equal(t, 3, perRound[2])
}

func TestGenerateDefaultsToOneCycle(t *testing.T) {
	tour := tournamentWithTeams(0, "a", "b")

	matches, err := Generate(&tour)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestGenerateFreezesTeamCopies(t *testing.T) {
	tour := tournamentWithTeams(1, "a", "b")
	tour.Teams[0].Players = []models.Player{{ID: "p1", Name: "Ana"}}

	matches, err := Generate(&tour)
	require.NoError(t, err)

	matches[0].Team1.Players[0].Name = "mutated"
	assert.Equal(t, "Ana", tour.Teams[0].Players[0].Name, "fixtures must not alias the team list")
}

func TestGenerateNeedsTwoTeams(t *testing.T) {
	tour := tournamentWithTeams(1, "a")
	_, err := Generate(&tour)
	assert.Error(t, err)
}

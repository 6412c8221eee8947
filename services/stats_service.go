package services

import (
	"sort"

	"github.com/mlukic/matchday/models"
)

// Scorer is one line of the top-scorer table.
type Scorer struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamName   string `json:"teamName"`
	Goals      int    `json:"goals"`
}

// ComputeStandings rebuilds the league table from completed matches only.
// Persisted team stats are a cache and are ignored; wins are worth 3 points,
// draws 1. Ties break on goal difference, then goals scored.
func ComputeStandings(t *models.Tournament) []models.Team {
	table := make([]models.Team, len(t.Teams))
	index := make(map[string]int, len(t.Teams))
	for i := range t.Teams {
		table[i] = t.Teams[i].Clone()
		table[i].Stats = models.TeamStats{}
		index[table[i].ID] = i
	}

	for i := range t.Fixtures {
		m := &t.Fixtures[i]
		if m.Status != models.MatchCompleted {
			continue
		}
		i1, ok1 := index[m.Team1.ID]
		i2, ok2 := index[m.Team2.ID]
		if !ok1 || !ok2 {
			// A side frozen into the fixture that no longer exists in the
			// team list contributes nothing to the table.
			continue
		}

		table[i1].Stats.Played++
		table[i2].Stats.Played++
		table[i1].Stats.GoalsFor += m.Score1
		table[i1].Stats.GoalsAgainst += m.Score2
		table[i2].Stats.GoalsFor += m.Score2
		table[i2].Stats.GoalsAgainst += m.Score1

		switch {
		case m.Score1 > m.Score2:
			table[i1].Stats.Won++
			table[i1].Stats.Points += 3
			table[i2].Stats.Lost++
		case m.Score2 > m.Score1:
			table[i2].Stats.Won++
			table[i2].Stats.Points += 3
			table[i1].Stats.Lost++
		default:
			table[i1].Stats.Drawn++
			table[i2].Stats.Drawn++
			table[i1].Stats.Points++
			table[i2].Stats.Points++
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i].Stats, table[j].Stats
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if gdA, gdB := a.GoalsFor-a.GoalsAgainst, b.GoalsFor-b.GoalsAgainst; gdA != gdB {
			return gdA > gdB
		}
		return a.GoalsFor > b.GoalsFor
	})
	return table
}

// TopScorers counts goals per player across the tournament's goal records.
// Player names come from the denormalized snapshot on the goal, so scorers of
// deleted players still appear.
func TopScorers(t *models.Tournament) []Scorer {
	teamNames := make(map[string]string, len(t.Teams))
	for i := range t.Teams {
		teamNames[t.Teams[i].ID] = t.Teams[i].Name
	}

	byPlayer := make(map[string]*Scorer)
	order := make([]string, 0)
	for i := range t.Fixtures {
		for _, g := range t.Fixtures[i].Goals {
			s, ok := byPlayer[g.PlayerID]
			if !ok {
				s = &Scorer{
					PlayerID:   g.PlayerID,
					PlayerName: g.PlayerName,
					TeamName:   teamNames[g.TeamID],
				}
				byPlayer[g.PlayerID] = s
				order = append(order, g.PlayerID)
			}
			s.Goals++
		}
	}

	scorers := make([]Scorer, 0, len(order))
	for _, id := range order {
		scorers = append(scorers, *byPlayer[id])
	}
	sort.SliceStable(scorers, func(i, j int) bool {
		return scorers[i].Goals > scorers[j].Goals
	})
	return scorers
}

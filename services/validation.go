package services

import (
	"fmt"
	"log/slog"

	"github.com/mlukic/matchday/models"
)

// validateForSave checks the structural identity of a tournament before it is
// dispatched to either backend. Tournament, team and match defects reject the
// whole save; goal defects only drop the offending goal, because the goal
// list is an appendable log where one corrupt entry should not block the rest
// of the match.
func validateForSave(t *models.Tournament, logger *slog.Logger) error {
	if t.ID == "" || t.Name == "" {
		return ErrTournamentInvalid
	}
	for i := range t.Teams {
		team := &t.Teams[i]
		if team.ID == "" || team.Name == "" {
			name := team.Name
			if name == "" {
				name = "unnamed team"
			}
			return fmt.Errorf("%w: %s", ErrTeamInvalid, name)
		}
	}
	for i := range t.Fixtures {
		match := &t.Fixtures[i]
		if match.ID == "" || match.Team1.ID == "" || match.Team2.ID == "" {
			id := match.ID
			if id == "" {
				id = "unnamed match"
			}
			return fmt.Errorf("%w: %s", ErrMatchInvalid, id)
		}
		match.Goals = dropInvalidGoals(match.Goals, match.ID, logger)
	}
	return nil
}

// maxGoalMinute bounds recorded goal minutes. Zero means the minute was not
// recorded and is always accepted.
const maxGoalMinute = 999

func dropInvalidGoals(goals []models.Goal, matchID string, logger *slog.Logger) []models.Goal {
	kept := goals[:0]
	for _, g := range goals {
		if g.ID == "" || g.PlayerID == "" || g.TeamID == "" ||
			g.Minute < 0 || g.Minute > maxGoalMinute {
			logger.Warn("dropping invalid goal from match",
				slog.String("match_id", matchID),
				slog.String("goal_id", g.ID))
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

// filterValid drops tournaments without a structural identity. Invalid
// entries are logged, never surfaced: a corrupt document must not block the
// load path.
func filterValid(tournaments []models.Tournament, logger *slog.Logger) []models.Tournament {
	valid := make([]models.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		if t.ID == "" || t.Name == "" {
			logger.Warn("dropping invalid tournament",
				slog.String("id", t.ID), slog.String("name", t.Name))
			continue
		}
		valid = append(valid, t)
	}
	return valid
}

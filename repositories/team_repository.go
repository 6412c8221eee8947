package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mlukic/matchday/models"
)

// TeamRepository persists team documents keyed to their tournament. Stats are
// stored as a JSON document; they are a recomputable cache, not authoritative.
type TeamRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, tournamentID string, team *models.Team) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Team, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error
}

type postgresTeamRepository struct{}

func NewPostgresTeamRepository() TeamRepository {
	return &postgresTeamRepository{}
}

func (r *postgresTeamRepository) Upsert(ctx context.Context, exec SQLExecutor, tournamentID string, team *models.Team) error {
	stats, err := json.Marshal(team.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode team stats: %w", err)
	}

	query := `
		INSERT INTO teams (id, tournament_id, name, stats)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			tournament_id = EXCLUDED.tournament_id,
			name = EXCLUDED.name,
			stats = EXCLUDED.stats`

	_, err = exec.ExecContext(ctx, query, team.ID, tournamentID, team.Name, stats)
	return err
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Team, error) {
	query := `SELECT id, name, stats FROM teams WHERE tournament_id = $1 ORDER BY name`

	rows, err := exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		var stats []byte
		if scanErr := rows.Scan(&t.ID, &t.Name, &stats); scanErr != nil {
			return nil, scanErr
		}
		// A stats blob that fails to decode is treated as empty; it will be
		// recomputed from the match list anyway.
		if err := json.Unmarshal(stats, &t.Stats); err != nil {
			slog.Warn("corrupt team stats blob ignored",
				slog.String("team_id", t.ID), slog.Any("error", err))
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM teams WHERE tournament_id = $1`, tournamentID)
	return err
}

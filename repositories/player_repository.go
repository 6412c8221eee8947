package repositories

import (
	"context"

	"github.com/mlukic/matchday/models"
)

// PlayerRepository persists player documents keyed to their team.
type PlayerRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, teamID string, player *models.Player) error
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID string) ([]models.Player, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error
}

type postgresPlayerRepository struct{}

func NewPostgresPlayerRepository() PlayerRepository {
	return &postgresPlayerRepository{}
}

func (r *postgresPlayerRepository) Upsert(ctx context.Context, exec SQLExecutor, teamID string, player *models.Player) error {
	query := `
		INSERT INTO players (id, team_id, name, alias, hat, goals)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			name = EXCLUDED.name,
			alias = EXCLUDED.alias,
			hat = EXCLUDED.hat,
			goals = EXCLUDED.goals`

	_, err := exec.ExecContext(ctx, query,
		player.ID, teamID, player.Name, player.Alias, player.Hat, player.Goals,
	)
	return err
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID string) ([]models.Player, error) {
	query := `SELECT id, name, alias, hat, goals FROM players WHERE team_id = $1 ORDER BY name`

	rows, err := exec.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.Alias, &p.Hat, &p.Goals); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// DeleteByTournament removes every player belonging to one of the
// tournament's teams. There are no foreign keys, so the team walk is a
// subquery rather than a cascade.
func (r *postgresPlayerRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	query := `
		DELETE FROM players
		WHERE team_id IN (SELECT id FROM teams WHERE tournament_id = $1)`
	_, err := exec.ExecContext(ctx, query, tournamentID)
	return err
}

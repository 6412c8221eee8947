package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/mlukic/matchday/models"
)

// GoalDocument is a goal as stored remotely: the domain goal plus the
// back-references the storage layer stamps onto it. TournamentID is empty for
// rows written before the column existed; those are the repair service's
// target.
type GoalDocument struct {
	models.Goal
	MatchID      string
	TournamentID string
}

// GoalRepository persists goal documents and exposes the scan/patch/delete
// operations the repair service needs.
type GoalRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, tournamentID, matchID string, goal *models.Goal) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID string) ([]models.Goal, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]GoalDocument, error)
	SetTournamentID(ctx context.Context, exec SQLExecutor, goalID, tournamentID string) error
	Delete(ctx context.Context, exec SQLExecutor, goalID string) error
	DeleteByTournamentOrMatches(ctx context.Context, exec SQLExecutor, tournamentID string, matchIDs []string) error
}

type postgresGoalRepository struct{}

func NewPostgresGoalRepository() GoalRepository {
	return &postgresGoalRepository{}
}

func (r *postgresGoalRepository) Upsert(ctx context.Context, exec SQLExecutor, tournamentID, matchID string, goal *models.Goal) error {
	query := `
		INSERT INTO goals (id, match_id, tournament_id, player_id, player_name, team_id, minute)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			match_id = EXCLUDED.match_id,
			tournament_id = EXCLUDED.tournament_id,
			player_id = EXCLUDED.player_id,
			player_name = EXCLUDED.player_name,
			team_id = EXCLUDED.team_id,
			minute = EXCLUDED.minute`

	_, err := exec.ExecContext(ctx, query,
		goal.ID, matchID, tournamentID,
		goal.PlayerID, goal.PlayerName, goal.TeamID, goal.Minute,
	)
	return err
}

func (r *postgresGoalRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID string) ([]models.Goal, error) {
	query := `SELECT id, player_id, player_name, team_id, minute FROM goals WHERE match_id = $1 ORDER BY minute, id`

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]models.Goal, 0)
	for rows.Next() {
		var g models.Goal
		if scanErr := rows.Scan(&g.ID, &g.PlayerID, &g.PlayerName, &g.TeamID, &g.Minute); scanErr != nil {
			return nil, scanErr
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *postgresGoalRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]GoalDocument, error) {
	query := `SELECT id, match_id, tournament_id, player_id, player_name, team_id, minute FROM goals ORDER BY id`

	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]GoalDocument, 0)
	for rows.Next() {
		var d GoalDocument
		var tournamentID sql.NullString
		if scanErr := rows.Scan(&d.ID, &d.MatchID, &tournamentID, &d.PlayerID, &d.PlayerName, &d.TeamID, &d.Minute); scanErr != nil {
			return nil, scanErr
		}
		d.TournamentID = tournamentID.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *postgresGoalRepository) SetTournamentID(ctx context.Context, exec SQLExecutor, goalID, tournamentID string) error {
	_, err := exec.ExecContext(ctx,
		`UPDATE goals SET tournament_id = $1 WHERE id = $2`, tournamentID, goalID)
	return err
}

func (r *postgresGoalRepository) Delete(ctx context.Context, exec SQLExecutor, goalID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, goalID)
	return err
}

// DeleteByTournamentOrMatches deletes the union of goals located via the
// tournament back-reference and goals located by walking the tournament's
// match ids. The second path covers rows that predate the back-reference
// column.
func (r *postgresGoalRepository) DeleteByTournamentOrMatches(ctx context.Context, exec SQLExecutor, tournamentID string, matchIDs []string) error {
	_, err := exec.ExecContext(ctx,
		`DELETE FROM goals WHERE tournament_id = $1 OR match_id = ANY($2)`,
		tournamentID, pq.Array(matchIDs))
	return err
}

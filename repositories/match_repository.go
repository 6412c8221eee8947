package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mlukic/matchday/models"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchRepository persists match documents. Only the id and name of each side
// are embedded; the loader re-resolves full teams against the team collection.
type MatchRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, tournamentID string, match *models.Match) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Match, error)
	IDsByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]string, error)
	GetTournamentID(ctx context.Context, exec SQLExecutor, matchID string) (string, error)
	Exists(ctx context.Context, exec SQLExecutor, id string) (bool, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error
}

type postgresMatchRepository struct{}

func NewPostgresMatchRepository() MatchRepository {
	return &postgresMatchRepository{}
}

func (r *postgresMatchRepository) Upsert(ctx context.Context, exec SQLExecutor, tournamentID string, match *models.Match) error {
	query := `
		INSERT INTO matches (id, tournament_id, team1_id, team1_name, team2_id, team2_name,
			score1, score2, status, round, duration, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			tournament_id = EXCLUDED.tournament_id,
			team1_id = EXCLUDED.team1_id,
			team1_name = EXCLUDED.team1_name,
			team2_id = EXCLUDED.team2_id,
			team2_name = EXCLUDED.team2_name,
			score1 = EXCLUDED.score1,
			score2 = EXCLUDED.score2,
			status = EXCLUDED.status,
			round = EXCLUDED.round,
			duration = EXCLUDED.duration,
			comments = EXCLUDED.comments`

	_, err := exec.ExecContext(ctx, query,
		match.ID, tournamentID,
		match.Team1.ID, match.Team1.Name,
		match.Team2.ID, match.Team2.Name,
		match.Score1, match.Score2, match.Status, match.Round, match.Duration, match.Comments,
	)
	return err
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Match, error) {
	query := `
		SELECT id, team1_id, team1_name, team2_id, team2_name,
			score1, score2, status, round, duration, comments
		FROM matches
		WHERE tournament_id = $1
		ORDER BY round, id`

	rows, err := exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID,
			&m.Team1.ID, &m.Team1.Name,
			&m.Team2.ID, &m.Team2.Name,
			&m.Score1, &m.Score2, &m.Status, &m.Round, &m.Duration, &m.Comments,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) IDsByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]string, error) {
	rows, err := exec.QueryContext(ctx,
		`SELECT id FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresMatchRepository) GetTournamentID(ctx context.Context, exec SQLExecutor, matchID string) (string, error) {
	var tournamentID string
	err := exec.QueryRowContext(ctx,
		`SELECT tournament_id FROM matches WHERE id = $1`, matchID,
	).Scan(&tournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMatchNotFound
		}
		return "", err
	}
	return tournamentID, nil
}

func (r *postgresMatchRepository) Exists(ctx context.Context, exec SQLExecutor, id string) (bool, error) {
	var exists bool
	err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	return err
}

package repositories

import (
	"context"
	"errors"

	"github.com/mlukic/matchday/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentRepository persists tournament scalar fields only; teams and
// fixtures live in their own collections.
type TournamentRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	List(ctx context.Context, exec SQLExecutor) ([]models.Tournament, error)
	Exists(ctx context.Context, exec SQLExecutor, id string) (bool, error)
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresTournamentRepository struct{}

func NewPostgresTournamentRepository() TournamentRepository {
	return &postgresTournamentRepository{}
}

func (r *postgresTournamentRepository) Upsert(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	// Document-level last-write-wins: an existing row is fully replaced.
	query := `
		INSERT INTO tournaments (id, name, date, status, rounds, team_size, has_half_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			date = EXCLUDED.date,
			status = EXCLUDED.status,
			rounds = EXCLUDED.rounds,
			team_size = EXCLUDED.team_size,
			has_half_time = EXCLUDED.has_half_time,
			updated_at = now()`

	_, err := exec.ExecContext(ctx, query,
		t.ID, t.Name, t.Date, t.Status, t.Rounds, t.TeamSize, t.HasHalfTime,
	)
	return err
}

func (r *postgresTournamentRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Tournament, error) {
	query := `
		SELECT id, name, date, status, rounds, team_size, has_half_time
		FROM tournaments
		ORDER BY date DESC`

	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.Date, &t.Status, &t.Rounds, &t.TeamSize, &t.HasHalfTime,
		); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Exists(ctx context.Context, exec SQLExecutor, id string) (bool, error) {
	var exists bool
	err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tournaments WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

package stores

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mlukic/matchday/db"
	"github.com/mlukic/matchday/models"
	"github.com/mlukic/matchday/repositories"
)

// assembleConcurrency bounds the aggregate fan-out so a long tournament list
// does not exhaust the connection pool.
const assembleConcurrency = 4

// RemoteStore maps the nested Tournament aggregate onto the five flat remote
// collections. It performs no retries and no validation: any database error
// propagates unchanged to the coordinator, which owns the fallback policy.
type RemoteStore struct {
	db          *sql.DB
	tournaments repositories.TournamentRepository
	teams       repositories.TeamRepository
	players     repositories.PlayerRepository
	matches     repositories.MatchRepository
	goals       repositories.GoalRepository
	logger      *slog.Logger

	schemaMu    sync.Mutex
	schemaReady bool
}

func NewRemoteStore(
	db *sql.DB,
	tournaments repositories.TournamentRepository,
	teams repositories.TeamRepository,
	players repositories.PlayerRepository,
	matches repositories.MatchRepository,
	goals repositories.GoalRepository,
	logger *slog.Logger,
) *RemoteStore {
	return &RemoteStore{
		db:          db,
		tournaments: tournaments,
		teams:       teams,
		players:     players,
		matches:     matches,
		goals:       goals,
		logger:      logger,
	}
}

// ListAll loads every tournament aggregate, ordered by date descending.
// The per-tournament assembly cost is O(teams + matches) round trips; fine at
// the scale of informal tournaments, and bounded by assembleConcurrency.
func (s *RemoteStore) ListAll(ctx context.Context) ([]models.Tournament, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	tournaments, err := s.tournaments.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assembleConcurrency)
	for i := range tournaments {
		t := &tournaments[i]
		g.Go(func() error {
			return s.assemble(gctx, t)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (s *RemoteStore) assemble(ctx context.Context, t *models.Tournament) error {
	teams, err := s.teams.ListByTournament(ctx, s.db, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load teams for tournament %s: %w", t.ID, err)
	}
	for i := range teams {
		players, err := s.players.ListByTeam(ctx, s.db, teams[i].ID)
		if err != nil {
			return fmt.Errorf("failed to load players for team %s: %w", teams[i].ID, err)
		}
		teams[i].Players = players
	}
	t.Teams = teams

	matches, err := s.matches.ListByTournament(ctx, s.db, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load matches for tournament %s: %w", t.ID, err)
	}
	for i := range matches {
		goals, err := s.goals.ListByMatch(ctx, s.db, matches[i].ID)
		if err != nil {
			return fmt.Errorf("failed to load goals for match %s: %w", matches[i].ID, err)
		}
		matches[i].Goals = goals

		// Re-resolve the embedded team stubs against the fetched team list.
		// A stub that no longer resolves is kept as-is: stale display data
		// beats a load failure.
		if full, ok := findTeam(teams, matches[i].Team1.ID); ok {
			matches[i].Team1 = full
		}
		if full, ok := findTeam(teams, matches[i].Team2.ID); ok {
			matches[i].Team2 = full
		}
	}
	t.Fixtures = matches
	return nil
}

// ensureSchema applies the schema on the first successful contact with the
// database. It is deliberately lazy: the handle is created without a ping, so
// a database that was down at boot becomes usable on a later retry without a
// restart. Failure leaves the flag unset and the next call tries again.
func (s *RemoteStore) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	if err := db.Migrate(ctx, s.db); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.schemaReady = true
	return nil
}

func findTeam(teams []models.Team, id string) (models.Team, bool) {
	for i := range teams {
		if teams[i].ID == id {
			return teams[i].Clone(), true
		}
	}
	return models.Team{}, false
}

// Save writes the whole aggregate in one transaction: the tournament, every
// team, player, match and goal, each fully replacing any existing document
// with the same id. Goals are stamped with both their match id and their
// tournament id; the latter is the back-reference cascade deletes rely on.
func (s *RemoteStore) Save(ctx context.Context, t *models.Tournament) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tournaments.Upsert(ctx, tx, t); err != nil {
		return fmt.Errorf("failed to save tournament %s: %w", t.ID, err)
	}
	for i := range t.Teams {
		team := &t.Teams[i]
		if err := s.teams.Upsert(ctx, tx, t.ID, team); err != nil {
			return fmt.Errorf("failed to save team %s: %w", team.ID, err)
		}
		for j := range team.Players {
			if err := s.players.Upsert(ctx, tx, team.ID, &team.Players[j]); err != nil {
				return fmt.Errorf("failed to save player %s: %w", team.Players[j].ID, err)
			}
		}
	}
	for i := range t.Fixtures {
		match := &t.Fixtures[i]
		if err := s.matches.Upsert(ctx, tx, t.ID, match); err != nil {
			return fmt.Errorf("failed to save match %s: %w", match.ID, err)
		}
		for j := range match.Goals {
			if err := s.goals.Upsert(ctx, tx, t.ID, match.ID, &match.Goals[j]); err != nil {
				return fmt.Errorf("failed to save goal %s: %w", match.Goals[j].ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save transaction: %w", err)
	}
	return nil
}

// Delete cascades goals, matches, players, teams and the tournament itself in
// one transaction. Goals are located both by their tournament back-reference
// and by walking the tournament's match ids, because documents written before
// the back-reference existed can only be found through their match.
func (s *RemoteStore) Delete(ctx context.Context, tournamentID string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	matchIDs, err := s.matches.IDsByTournament(ctx, tx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to list matches for delete of %s: %w", tournamentID, err)
	}
	if err := s.goals.DeleteByTournamentOrMatches(ctx, tx, tournamentID, matchIDs); err != nil {
		return fmt.Errorf("failed to delete goals for %s: %w", tournamentID, err)
	}
	if err := s.matches.DeleteByTournament(ctx, tx, tournamentID); err != nil {
		return fmt.Errorf("failed to delete matches for %s: %w", tournamentID, err)
	}
	// Players must go before teams: without foreign keys they are located
	// through the still-present team rows.
	if err := s.players.DeleteByTournament(ctx, tx, tournamentID); err != nil {
		return fmt.Errorf("failed to delete players for %s: %w", tournamentID, err)
	}
	if err := s.teams.DeleteByTournament(ctx, tx, tournamentID); err != nil {
		return fmt.Errorf("failed to delete teams for %s: %w", tournamentID, err)
	}
	if err := s.tournaments.Delete(ctx, tx, tournamentID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete transaction: %w", err)
	}
	return nil
}

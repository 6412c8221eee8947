package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlukic/matchday/metrics"
	"github.com/mlukic/matchday/repositories"
)

// RepairReport summarizes one repair pass.
type RepairReport struct {
	BackReferencesFixed int `json:"backReferencesFixed"`
	OrphansRemoved      int `json:"orphansRemoved"`
}

// RepairService heals the two denormalization defects the constraint-free
// schema can accumulate: goal documents missing their tournament
// back-reference (the column was introduced after initial deployment) and
// goal documents whose match or tournament no longer exists.
//
// The service is idempotent and advisory: running it any number of times
// converges on the same document set, and skipping it entirely only lets
// unreachable documents accumulate without corrupting reachable data.
type RepairService struct {
	exec        repositories.SQLExecutor
	tournaments repositories.TournamentRepository
	matches     repositories.MatchRepository
	goals       repositories.GoalRepository
	logger      *slog.Logger
}

func NewRepairService(
	exec repositories.SQLExecutor,
	tournaments repositories.TournamentRepository,
	matches repositories.MatchRepository,
	goals repositories.GoalRepository,
	logger *slog.Logger,
) *RepairService {
	return &RepairService{
		exec:        exec,
		tournaments: tournaments,
		matches:     matches,
		goals:       goals,
		logger:      logger,
	}
}

// Run repairs back-references first and removes orphans second. The order
// matters: a goal fixed in the first step must be judged against its
// corrected tournament reference in the second, not deleted prematurely.
func (s *RepairService) Run(ctx context.Context) (RepairReport, error) {
	fixed, err := s.RepairMissingBackReferences(ctx)
	if err != nil {
		return RepairReport{}, err
	}
	removed, err := s.RemoveOrphans(ctx)
	if err != nil {
		return RepairReport{BackReferencesFixed: fixed}, err
	}
	return RepairReport{BackReferencesFixed: fixed, OrphansRemoved: removed}, nil
}

// RepairMissingBackReferences copies the tournament id of the parent match
// onto every goal that lacks one. Goals whose parent match is gone are left
// alone here; there is nothing to copy, and the orphan pass owns them.
func (s *RepairService) RepairMissingBackReferences(ctx context.Context) (int, error) {
	docs, err := s.goals.ListAll(ctx, s.exec)
	if err != nil {
		return 0, fmt.Errorf("failed to scan goals for back-reference repair: %w", err)
	}

	fixed := 0
	matchTournament := make(map[string]string)
	for _, d := range docs {
		if d.TournamentID != "" {
			continue
		}
		tournamentID, ok := matchTournament[d.MatchID]
		if !ok {
			var err error
			tournamentID, err = s.matches.GetTournamentID(ctx, s.exec, d.MatchID)
			if errors.Is(err, repositories.ErrMatchNotFound) {
				continue
			}
			if err != nil {
				return fixed, fmt.Errorf("failed to look up match %s: %w", d.MatchID, err)
			}
			matchTournament[d.MatchID] = tournamentID
		}
		if tournamentID == "" {
			continue
		}
		if err := s.goals.SetTournamentID(ctx, s.exec, d.ID, tournamentID); err != nil {
			return fixed, fmt.Errorf("failed to repair goal %s: %w", d.ID, err)
		}
		s.logger.Info("repaired goal back-reference",
			slog.String("goal_id", d.ID),
			slog.String("tournament_id", tournamentID))
		metrics.RepairedBackReferences.Inc()
		fixed++
	}
	return fixed, nil
}

// RemoveOrphans deletes goals whose referenced match or tournament no longer
// exists. A missing reference field alone never triggers deletion, only a
// dangling one: the existence probes run before any delete decision.
func (s *RepairService) RemoveOrphans(ctx context.Context) (int, error) {
	docs, err := s.goals.ListAll(ctx, s.exec)
	if err != nil {
		return 0, fmt.Errorf("failed to scan goals for orphan removal: %w", err)
	}

	removed := 0
	matchExists := make(map[string]bool)
	tournamentExists := make(map[string]bool)
	for _, d := range docs {
		// An absent match reference is not a dangling one; a goal with no
		// match id at all is left for the back-reference pass and for manual
		// cleanup, never deleted here.
		orphaned := false
		if d.MatchID != "" {
			exists, ok := matchExists[d.MatchID]
			if !ok {
				var err error
				exists, err = s.matches.Exists(ctx, s.exec, d.MatchID)
				if err != nil {
					return removed, fmt.Errorf("failed to probe match %s: %w", d.MatchID, err)
				}
				matchExists[d.MatchID] = exists
			}
			orphaned = !exists
		}

		if !orphaned && d.TournamentID != "" {
			exists, ok := tournamentExists[d.TournamentID]
			if !ok {
				var err error
				exists, err = s.tournaments.Exists(ctx, s.exec, d.TournamentID)
				if err != nil {
					return removed, fmt.Errorf("failed to probe tournament %s: %w", d.TournamentID, err)
				}
				tournamentExists[d.TournamentID] = exists
			}
			orphaned = !exists
		}

		if !orphaned {
			continue
		}
		if err := s.goals.Delete(ctx, s.exec, d.ID); err != nil {
			return removed, fmt.Errorf("failed to delete orphaned goal %s: %w", d.ID, err)
		}
		s.logger.Info("removed orphaned goal",
			slog.String("goal_id", d.ID),
			slog.String("match_id", d.MatchID))
		metrics.RemovedOrphanGoals.Inc()
		removed++
	}
	return removed, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mlukic/matchday/metrics"
	"github.com/mlukic/matchday/models"
	"github.com/mlukic/matchday/stores"
)

// Mode identifies which backend currently serves reads and writes.
type Mode string

const (
	ModeInitializing  Mode = "initializing"
	ModeRemoteActive  Mode = "remote-active"
	ModeLocalFallback Mode = "local-fallback"
)

const offlineAdvisory = "operating offline, changes will not sync"

// RemoteBackend is the aggregate-level contract of the remote document store.
type RemoteBackend interface {
	ListAll(ctx context.Context) ([]models.Tournament, error)
	Save(ctx context.Context, t *models.Tournament) error
	Delete(ctx context.Context, tournamentID string) error
}

// Notifier receives change events after successful mutations. The websocket
// hub implements it; a nil notifier disables broadcasting.
type Notifier interface {
	TournamentUpdated(t models.Tournament)
	TournamentDeleted(tournamentID string)
}

// Archiver receives aggregates for best-effort snapshot archival.
type Archiver interface {
	ArchiveTournament(ctx context.Context, t models.Tournament)
	RemoveTournament(ctx context.Context, tournamentID string)
}

// RepairRunner is the integrity repair hook invoked after a successful remote
// startup. RepairService implements it.
type RepairRunner interface {
	Run(ctx context.Context) (RepairReport, error)
}

// SyncService is the single storage facade the API layer talks to. It decides
// at startup which backend is authoritative, migrates pre-existing local data
// to the remote store once, validates aggregates before dispatch, and keeps
// the authoritative in-memory tournament list.
//
// Reads and writes from concurrent requests are serialized per field access
// by the mutex; callers that care about write ordering must await one Save
// before issuing the next, the facade does not queue.
type SyncService struct {
	remote   RemoteBackend // nil when no remote store is configured
	local    *stores.LocalStore
	repair   RepairRunner // nil disables opportunistic repair
	notifier Notifier
	archiver Archiver
	logger   *slog.Logger

	mu          sync.Mutex
	mode        Mode
	tournaments []models.Tournament
	lastErr     string
	loading     bool
}

// Status is the observable state exposed to the UI layer.
type Status struct {
	Mode         Mode   `json:"mode"`
	RemoteActive bool   `json:"remoteActive"`
	Loading      bool   `json:"loading"`
	LastError    string `json:"lastError,omitempty"`
	LocalPending int    `json:"localPending"`
}

func NewSyncService(
	remote RemoteBackend,
	local *stores.LocalStore,
	repair RepairRunner,
	notifier Notifier,
	archiver Archiver,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		remote:   remote,
		local:    local,
		repair:   repair,
		notifier: notifier,
		archiver: archiver,
		logger:   logger,
		mode:     ModeInitializing,
	}
}

// Initialize runs the startup algorithm: try the remote store, fall back to
// the local cache on any failure, and migrate local data to the remote store
// when the remote side is reachable but empty. A remote outage is not an
// error to the caller; only a failed migration propagates.
func (s *SyncService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	s.mode = ModeInitializing
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if s.remote == nil {
		s.logger.Info("no remote store configured, using local cache")
		s.enterLocalFallback()
		return nil
	}

	remoteTournaments, err := s.remote.ListAll(ctx)
	if err != nil {
		s.logger.Warn("remote store unavailable, using local cache", slog.Any("error", err))
		s.enterLocalFallback()
		return nil
	}

	valid := filterValid(remoteTournaments, s.logger)
	s.mu.Lock()
	s.tournaments = valid
	s.mode = ModeRemoteActive
	s.mu.Unlock()

	if len(valid) == 0 {
		if local := s.local.Tournaments(); len(local) > 0 {
			s.logger.Info("migrating local tournaments to remote store",
				slog.Int("count", len(local)))
			if err := s.migrate(ctx, local); err != nil {
				return err
			}
		}
	}

	s.runRepairAsync()
	return nil
}

// runRepairAsync invokes the integrity repair service off the critical path.
// Repair failure is logged and never propagated.
func (s *SyncService) runRepairAsync() {
	if s.repair == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		report, err := s.repair.Run(ctx)
		if err != nil {
			s.logger.Warn("integrity repair failed", slog.Any("error", err))
			return
		}
		if report.BackReferencesFixed > 0 || report.OrphansRemoved > 0 {
			s.logger.Info("integrity repair completed",
				slog.Int("backrefs_fixed", report.BackReferencesFixed),
				slog.Int("orphans_removed", report.OrphansRemoved))
		}
	}()
}

func (s *SyncService) enterLocalFallback() {
	local := s.local.Tournaments()
	s.mu.Lock()
	s.tournaments = local
	s.mode = ModeLocalFallback
	s.lastErr = offlineAdvisory
	s.mu.Unlock()
}

// migrate saves the locally cached tournaments to the remote store one at a
// time, in order. A failure aborts the run and leaves the local cache
// untouched so a later retry starts from the same data. Only after every
// tournament landed is the cache cleared and the in-memory view refreshed
// from the remote store, which is authoritative from then on.
func (s *SyncService) migrate(ctx context.Context, local []models.Tournament) error {
	for i := range local {
		if err := s.remote.Save(ctx, &local[i]); err != nil {
			s.setError("migration failed")
			return fmt.Errorf("failed to migrate tournament %s: %w", local[i].ID, err)
		}
	}
	metrics.MigratedTournaments.Add(float64(len(local)))
	s.logger.Info("migration completed", slog.Int("count", len(local)))

	s.local.Clear(stores.TournamentsKey)

	refreshed, err := s.remote.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload tournaments after migration: %w", err)
	}
	valid := filterValid(refreshed, s.logger)
	s.mu.Lock()
	s.tournaments = valid
	s.mode = ModeRemoteActive
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// List returns the current in-memory view, newest first. Callers get deep
// copies; mutations must go through Save.
func (s *SyncService) List() []models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Tournament, len(s.tournaments))
	for i := range s.tournaments {
		out[i] = s.tournaments[i].Clone()
	}
	return out
}

// Save validates the aggregate and dispatches it to the active backend. On
// the remote path the in-memory view is refreshed from the store afterwards
// so server-side normalization is picked up.
func (s *SyncService) Save(ctx context.Context, t *models.Tournament) error {
	if err := validateForSave(t, s.logger); err != nil {
		return err
	}

	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	if mode == ModeRemoteActive {
		if err := s.remote.Save(ctx, t); err != nil {
			metrics.FailedSaves.Inc()
			s.setError("failed to save tournament")
			return err
		}
		refreshed, err := s.remote.ListAll(ctx)
		if err != nil {
			s.setError("failed to save tournament")
			return err
		}
		s.mu.Lock()
		s.tournaments = filterValid(refreshed, s.logger)
		s.lastErr = ""
		s.mu.Unlock()
	} else {
		s.mu.Lock()
		replaced := false
		for i := range s.tournaments {
			if s.tournaments[i].ID == t.ID {
				s.tournaments[i] = t.Clone()
				replaced = true
				break
			}
		}
		if !replaced {
			s.tournaments = append(s.tournaments, t.Clone())
		}
		snapshot := make([]models.Tournament, len(s.tournaments))
		copy(snapshot, s.tournaments)
		s.mu.Unlock()
		s.local.SaveTournaments(snapshot)
	}

	metrics.SavedTournaments.Inc()
	if s.notifier != nil {
		s.notifier.TournamentUpdated(t.Clone())
	}
	if s.archiver != nil && mode == ModeRemoteActive {
		go s.archiver.ArchiveTournament(context.WithoutCancel(ctx), t.Clone())
	}
	return nil
}

// Delete removes a tournament from the active backend; the remote path
// cascades through all five collections.
func (s *SyncService) Delete(ctx context.Context, tournamentID string) error {
	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	if mode == ModeRemoteActive {
		if err := s.remote.Delete(ctx, tournamentID); err != nil {
			s.setError("failed to delete tournament")
			return err
		}
	}

	s.mu.Lock()
	kept := s.tournaments[:0]
	for _, t := range s.tournaments {
		if t.ID != tournamentID {
			kept = append(kept, t)
		}
	}
	s.tournaments = kept
	snapshot := make([]models.Tournament, len(s.tournaments))
	copy(snapshot, s.tournaments)
	s.mu.Unlock()

	if mode != ModeRemoteActive {
		s.local.SaveTournaments(snapshot)
	}

	if s.notifier != nil {
		s.notifier.TournamentDeleted(tournamentID)
	}
	if s.archiver != nil && mode == ModeRemoteActive {
		go s.archiver.RemoveTournament(context.WithoutCancel(ctx), tournamentID)
	}
	return nil
}

// RetryConnection re-runs the startup algorithm, allowing recovery from a
// transient remote outage without a restart.
func (s *SyncService) RetryConnection(ctx context.Context) error {
	return s.Initialize(ctx)
}

// MigrateNow manually migrates locally cached tournaments to the remote
// store. Used from local-fallback once the remote side is reachable again.
func (s *SyncService) MigrateNow(ctx context.Context) error {
	if s.remote == nil {
		return ErrRemoteUnavailable
	}
	local := s.local.Tournaments()
	if len(local) == 0 {
		return ErrNothingToMigrate
	}
	return s.migrate(ctx, local)
}

// Status reports the observable facade state.
func (s *SyncService) Status() Status {
	s.mu.Lock()
	mode := s.mode
	lastErr := s.lastErr
	loading := s.loading
	s.mu.Unlock()

	return Status{
		Mode:         mode,
		RemoteActive: mode == ModeRemoteActive,
		Loading:      loading,
		LastError:    lastErr,
		LocalPending: len(s.local.Tournaments()),
	}
}

// IsRemoteActive reports whether the remote store currently serves traffic.
func (s *SyncService) IsRemoteActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode == ModeRemoteActive
}

// setError records a user-visible advisory. It is cosmetic: a failed save
// does not change which backend is active.
func (s *SyncService) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

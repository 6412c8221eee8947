package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mlukic/matchday/models"
	"github.com/mlukic/matchday/storage"
)

// ArchiveService mirrors saved aggregates to an S3-compatible bucket as JSON
// snapshots. Archival is strictly best-effort: it runs off the save path and
// its failures are logged, never surfaced.
type ArchiveService struct {
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewArchiveService(uploader storage.FileUploader, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{uploader: uploader, logger: logger}
}

func snapshotKey(tournamentID string) string {
	return fmt.Sprintf("tournaments/%s.json", tournamentID)
}

func (s *ArchiveService) ArchiveTournament(ctx context.Context, t models.Tournament) {
	data, err := json.MarshalIndent(&t, "", "  ")
	if err != nil {
		s.logger.Warn("failed to encode tournament snapshot",
			slog.String("tournament_id", t.ID), slog.Any("error", err))
		return
	}
	if _, err := s.uploader.Upload(ctx, snapshotKey(t.ID), "application/json", bytes.NewReader(data)); err != nil {
		s.logger.Warn("failed to archive tournament snapshot",
			slog.String("tournament_id", t.ID), slog.Any("error", err))
		return
	}
	s.logger.Debug("archived tournament snapshot", slog.String("tournament_id", t.ID))
}

func (s *ArchiveService) RemoveTournament(ctx context.Context, tournamentID string) {
	if err := s.uploader.Delete(ctx, snapshotKey(tournamentID)); err != nil {
		s.logger.Warn("failed to remove tournament snapshot",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
	}
}

package stores

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mlukic/matchday/models"
)

// TournamentsKey is the single key under which the whole tournament list is
// cached as one nested JSON document.
const TournamentsKey = "tournaments"

// LocalStore is a file-backed key-value store used as the fallback backend
// when the remote store is unreachable, and as the source for one-time
// migration. Persistence failures are logged and swallowed: the in-memory
// state stays correct for the session even if a write never lands on disk.
type LocalStore struct {
	dir    string
	logger *slog.Logger
}

func NewLocalStore(dir string, logger *slog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read decodes the value stored under key into dst. A missing or corrupt
// entry leaves dst untouched, so callers pre-fill it with their default.
func (s *LocalStore) Read(key string, dst any) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read local cache entry",
				slog.String("key", key), slog.Any("error", err))
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("corrupt local cache entry ignored",
			slog.String("key", key), slog.Any("error", err))
	}
}

// Write persists the value under key. Failures (a full disk is the expected
// one) are logged, not retried and not surfaced.
func (s *LocalStore) Write(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode local cache entry",
			slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		s.logger.Warn("failed to write local cache entry",
			slog.String("key", key), slog.Any("error", err))
	}
}

// Clear removes the entry stored under key.
func (s *LocalStore) Clear(key string) {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to clear local cache entry",
			slog.String("key", key), slog.Any("error", err))
	}
}

// Tournaments returns the cached tournament list, empty if absent or corrupt.
func (s *LocalStore) Tournaments() []models.Tournament {
	tournaments := make([]models.Tournament, 0)
	s.Read(TournamentsKey, &tournaments)
	return tournaments
}

// SaveTournaments replaces the cached tournament list.
func (s *LocalStore) SaveTournaments(tournaments []models.Tournament) {
	s.Write(TournamentsKey, tournaments)
}

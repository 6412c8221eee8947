package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ArchiveConfig holds the optional S3-compatible bucket used for tournament
// snapshot archival. All fields must be set for archival to be enabled.
type ArchiveConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

// Config holds all application configuration.
type Config struct {
	ServerPort        int
	DatabaseURL       string // empty: no remote store configured, run local-only
	DataDir           string
	JWTSecretKey      string
	AdminPasswordHash string // bcrypt hash of the organizer password
	Archive           *ArchiveConfig
}

// Load reads configuration from environment variables, optionally sourcing a
// .env file first. DATABASE_URL is deliberately optional: without it the
// storage coordinator starts straight in local-fallback mode.
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if passwordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH environment variable is not set")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		ServerPort:        port,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DataDir:           dataDir,
		JWTSecretKey:      jwtKey,
		AdminPasswordHash: passwordHash,
	}

	archive := ArchiveConfig{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("R2_BUCKET_NAME"),
	}
	if archive.AccountID != "" && archive.AccessKeyID != "" &&
		archive.SecretAccessKey != "" && archive.BucketName != "" {
		cfg.Archive = &archive
	}

	return cfg, nil
}

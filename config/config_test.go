package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("R2_ACCOUNT_ID", "")
	t.Setenv("R2_ACCESS_KEY_ID", "")
	t.Setenv("R2_SECRET_ACCESS_KEY", "")
	t.Setenv("R2_BUCKET_NAME", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Nil(t, cfg.Archive)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresAdminPasswordHash(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("SERVER_PORT", "not-a-port")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "70000")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadArchiveNeedsAllFields(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("R2_ACCOUNT_ID", "acc")
	t.Setenv("R2_ACCESS_KEY_ID", "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Archive, "partial R2 configuration disables archival")

	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "bucket")

	cfg, err = Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Archive)
	assert.Equal(t, "bucket", cfg.Archive.BucketName)
}

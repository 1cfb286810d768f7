package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE", "FILE_STORAGE", "MAX_IMAGE_SIZE", "MAX_VIDEO_SIZE", "FEATURED_CACHE_TTL", "SHUTDOWN_TIMEOUT", "ENV"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, FileStorageLocal, cfg.FileStorage)
	assert.Equal(t, int64(5<<20), cfg.MaxImageSize)
	assert.Equal(t, int64(100<<20), cfg.MaxVideoSize)
	assert.Equal(t, 5*time.Minute, cfg.FeaturedCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.IsDev())
}

func TestLoadConfigBadDuration(t *testing.T) {
	t.Setenv("FEATURED_CACHE_TTL", "soon")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Storage: StoragePostgres, FileStorage: FileStorageLocal, Port: "8080"}
	_, err := cfg.Validate()
	assert.Error(t, err)

	cfg = &Config{Storage: StorageMemory, FileStorage: FileStorageGridFS, Port: "8080"}
	_, err = cfg.Validate()
	assert.Error(t, err)

	cfg = &Config{Storage: StorageMemory, FileStorage: FileStorageLocal, Port: "8080", JWTSecret: "s", RedisAddr: "r:6379"}
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Len(t, warnings, 1)

	cfg.JWTSecret = ""
	warnings, err = cfg.Validate()
	require.NoError(t, err)
	assert.Contains(t, warnings, "JWT_SECRET is empty")
}

func TestDSNSafeHidesPassword(t *testing.T) {
	cfg := &Config{DbUser: "u", DbPass: "secret", DbHost: "h", DbPort: "5432", DbName: "d", DbSSLMode: "disable"}
	assert.Contains(t, cfg.GetDSN(), "secret")
	assert.NotContains(t, cfg.GetDSNSafe(), "secret")
}

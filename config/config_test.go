package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodgram-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "test.sqlite")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRATION", "")
	t.Setenv("SHORTCODE_LENGTH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []byte(defaultJWTSecret), cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 10, cfg.Shortcode.Length)
	assert.Equal(t, 10, cfg.Shortcode.MaxAttempts)
	assert.Equal(t, 6, cfg.Shortcode.MaxWiden)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("SHORTCODE_LENGTH", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("BASE_URL", "https://foodgram.test/")
	t.Setenv("MEDIA_URL", "/media/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []byte("s3cret"), cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 8, cfg.Shortcode.Length)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://foodgram.test/media", cfg.MediaBaseURL())
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("SHORTCODE_LENGTH", "ten")
	_, err := Load()
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "SHORTCODE_LENGTH", verr.Field)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		DBDriver:  "mysql",
		Shortcode: ShortcodeConfig{Length: 2, MaxAttempts: 0, MaxWiden: -1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"DB_DRIVER", "JWT_SECRET", "JWT_EXPIRATION", "SHORTCODE_LENGTH", "SHORTCODE_MAX_ATTEMPTS", "SHORTCODE_MAX_WIDEN", "MEDIA_ROOT"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestParseGormLogLevel(t *testing.T) {
	level, err := parseGormLogLevel("INFO")
	require.NoError(t, err)
	assert.Equal(t, gormlogger.Info, level)

	level, err = parseGormLogLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, defaultGormLogLevel, level)
}

func TestNewImageStoreFallsBackToLocal(t *testing.T) {
	cfg := &Config{BaseURL: "http://localhost:8080", MediaRoot: t.TempDir(), MediaURL: "/media"}

	store, err := NewImageStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, store)
	assert.Equal(t, "http://localhost:8080/media/users/a.png", store.URL("users/a.png"))
}

func TestNewRedisClientDisabled(t *testing.T) {
	client, err := NewRedisClient(context.Background(), &Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestInitDBSqlite(t *testing.T) {
	cfg := &Config{DBDriver: "sqlite", DBPath: "file::memory:?cache=shared", GormLogLevel: "silent"}

	db, err := InitDB(cfg)
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("short_urls"))
	assert.True(t, db.Migrator().HasTable("user_recipes"))
}

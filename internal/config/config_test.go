package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_PATH", "EXPORT_DIR", "LOG_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "expenses.db", cfg.DBPath)
	assert.Equal(t, ".", cfg.ExportDir)
	assert.Equal(t, "", cfg.LogFile)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/ledger/data.db")
	t.Setenv("EXPORT_DIR", "/tmp/ledger/exports")
	t.Setenv("LOG_FILE", "/tmp/ledger/app.log")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "/tmp/ledger/data.db", cfg.DBPath)
	assert.Equal(t, "/tmp/ledger/exports", cfg.ExportDir)
	assert.Equal(t, "/tmp/ledger/app.log", cfg.LogFile)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadInvalidLevelFallsBack(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	cfg := Load()
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestValidateCreatesDirectories(t *testing.T) {
	tmp := t.TempDir()
	cfg := &Config{
		DBPath:    filepath.Join(tmp, "data", "ledger.db"),
		ExportDir: filepath.Join(tmp, "exports"),
	}

	require.NoError(t, cfg.Validate())
	assert.DirExists(t, filepath.Join(tmp, "data"))
	assert.DirExists(t, filepath.Join(tmp, "exports"))
}

func TestValidateEmptyDBPath(t *testing.T) {
	cfg := &Config{DBPath: ""}
	assert.Error(t, cfg.Validate())
}

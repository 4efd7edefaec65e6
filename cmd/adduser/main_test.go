package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-ledger/internal/accounts"
	"expense-ledger/internal/storage"
)

// provision runs the CLI against dbPath and returns its stdout.
func provision(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	if dbPath != "" {
		args = append(args, "-db", dbPath)
	}
	err := run(args, new(bytes.Buffer), stdout, stderr)
	return stdout.String(), err
}

// login opens dbPath and verifies the credentials through the engine.
func login(t *testing.T, dbPath, username, password string) error {
	t.Helper()
	db, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = accounts.NewDirectory(db).Login(context.Background(), username, password)
	return err
}

func TestRunCreatesUsableAccount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	out, err := provision(t, dbPath, "-user", "alice", "-password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "User alice created successfully with ID")

	// The account must be loginable, not just present as a row.
	assert.NoError(t, login(t, dbPath, "alice", "secret1"))
	assert.ErrorIs(t, login(t, dbPath, "alice", "wrong"), accounts.ErrWrongPassword)
}

func TestRunTrimsCredentials(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	_, err := provision(t, dbPath, "-user", "  bob  ", "-password", "  pass  ")
	require.NoError(t, err)

	assert.NoError(t, login(t, dbPath, "bob", "pass"), "stored account uses the trimmed username and password")
}

func TestRunDuplicateUsername(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	_, err := provision(t, dbPath, "-user", "alice", "-password", "secret1")
	require.NoError(t, err)

	// Same username, different password: the insert itself must refuse.
	_, err = provision(t, dbPath, "-user", "alice", "-password", "other")
	require.ErrorIs(t, err, accounts.ErrUsernameTaken)
	assert.Contains(t, err.Error(), "user alice already exists")

	// The original credentials still work.
	assert.NoError(t, login(t, dbPath, "alice", "secret1"))
}

func TestRunMissingUsername(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run([]string{"-password", "secret1"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: user")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRunPromptsForPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	stdout := new(bytes.Buffer)

	// Piped stdin stands in for the hidden terminal prompt.
	stdin := bytes.NewBufferString("typed-secret\n")
	err := run([]string{"-user", "carol", "-db", dbPath}, stdin, stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")

	assert.NoError(t, login(t, dbPath, "carol", "typed-secret"), "prompted password is the stored credential")
}

func TestRunRejectsEmptyPassword(t *testing.T) {
	stdin := bytes.NewBufferString("\n")
	err := run([]string{"-user", "carol"}, stdin, new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestRunDBPathFromEnv(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	t.Setenv("DB_PATH", dbPath)

	// No -db flag: the env var decides where the database lives.
	_, err := provision(t, "", "-user", "dave", "-password", "secret1")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
	assert.NoError(t, login(t, dbPath, "dave", "secret1"))
}

func TestRunInvalidDBPath(t *testing.T) {
	// A directory is not a valid database file.
	_, err := provision(t, t.TempDir(), "-user", "dave", "-password", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestRunUnknownFlag(t *testing.T) {
	err := run([]string{"-frobnicate"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}

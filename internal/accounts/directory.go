package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/models"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrInvalidInput is returned when a required field is empty after trimming.
	ErrInvalidInput = errors.New("username and password must not be empty")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserNotFound is returned when no account matches the username.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is returned when the password digest does not match.
	ErrWrongPassword = errors.New("wrong password")
)

// Directory owns user identity and credential verification.
type Directory struct {
	db *sql.DB
}

// NewDirectory creates a Directory on top of an open database handle.
func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// Register creates a new account and returns its assigned id.
// Uniqueness is enforced by the users.username constraint rather than a
// lookup, so two racing registrations cannot both succeed.
func (d *Directory) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return 0, ErrInvalidInput
	}

	res, err := d.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, auth.HashPassword(password), time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read user id: %w", err)
	}
	return id, nil
}

// Login verifies credentials and returns the session value the caller
// threads into every ledger operation for the rest of its session.
func (d *Directory) Login(ctx context.Context, username, password string) (models.Session, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	var (
		id     int64
		digest string
	)
	err := d.db.QueryRowContext(ctx,
		"SELECT id, password_hash FROM users WHERE username = ?",
		username,
	).Scan(&id, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrUserNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("look up user: %w", err)
	}

	if !auth.CheckPassword(password, digest) {
		return models.Session{}, ErrWrongPassword
	}

	return models.Session{UserID: id, Username: username}, nil
}

// UserCount returns the number of registered users.
func (d *Directory) UserCount(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

package models

import "time"

// Expense is a single ledger entry. Entries are immutable once written:
// they can be deleted by their owner but never edited.
type Expense struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
	Note     string    `json:"note,omitempty"`
	Date     time.Time `json:"date"`
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session identifies an authenticated user for the duration of one
// interactive session. The caller holds it and threads it into every
// ledger call; the engine keeps no session state of its own.
type Session struct {
	UserID   int64
	Username string
}

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"expense-ledger/internal/models"
)

// FallbackCategory is assigned when an expense arrives with a blank category.
const FallbackCategory = "Other"

// ErrInvalidAmount is returned when an amount does not parse as a finite number.
var ErrInvalidAmount = errors.New("amount is not a valid number")

// Store provides user-scoped create, list, delete and aggregation over
// expense records. Every operation is a single statement against durable
// storage; the Store itself holds no state beyond the handle.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a Store on top of an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// AddExpense records a new expense for userID and returns it with its
// assigned id and timestamp. The amount is validated here, not coerced:
// anything that does not parse as a finite number is rejected. Negative
// and zero amounts are accepted (refunds come through as negatives).
func (s *Store) AddExpense(ctx context.Context, userID int64, amount, category, note string) (models.Expense, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return models.Expense{}, ErrInvalidAmount
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = FallbackCategory
	}

	e := models.Expense{
		UserID:   userID,
		Amount:   value,
		Category: category,
		Note:     strings.TrimSpace(note),
		Date:     s.now(),
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO expenses (user_id, amount, category, note, date) VALUES (?, ?, ?, ?, ?)",
		e.UserID, e.Amount, e.Category, e.Note, e.Date,
	)
	if err != nil {
		return models.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return models.Expense{}, fmt.Errorf("read expense id: %w", err)
	}
	return e, nil
}

// ListExpenses returns the user's expenses, newest first; rows with equal
// timestamps come back in insertion order. A non-empty searchTerm keeps
// only rows where the term is a case-insensitive substring of the amount,
// category, note or date as displayed.
func (s *Store) ListExpenses(ctx context.Context, userID int64, searchTerm string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, amount, category, note, date FROM expenses WHERE user_id = ? ORDER BY date DESC, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	term := strings.ToLower(strings.TrimSpace(searchTerm))

	var expenses []models.Expense
	for rows.Next() {
		var (
			e    models.Expense
			note sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &note, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Note = note.String
		if term == "" || matches(e, term) {
			expenses = append(expenses, e)
		}
	}
	return expenses, rows.Err()
}

func matches(e models.Expense, term string) bool {
	for _, rendering := range []string{
		strconv.FormatFloat(e.Amount, 'f', -1, 64),
		e.Category,
		e.Note,
		e.Date.Format(time.RFC3339),
	} {
		if strings.Contains(strings.ToLower(rendering), term) {
			return true
		}
	}
	return false
}

// DeleteExpenses removes the given expense ids that belong to userID and
// reports how many rows were actually deleted. Ids owned by other users or
// matching no row are skipped silently. One statement keeps the batch atomic.
func (s *Store) DeleteExpenses(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimPrefix(strings.Repeat(",?", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM expenses WHERE user_id = ? AND id IN (%s)", placeholders),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expenses: %w", err)
	}
	return res.RowsAffected()
}

// AggregateByCategory sums the user's expenses per category. Category names
// are compared exactly, so "Food" and "food" stay separate buckets. An empty
// map means the user has no expenses, which is not an error.
func (s *Store) AggregateByCategory(ctx context.Context, userID int64) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, SUM(amount) FROM expenses WHERE user_id = ? GROUP BY category",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query category totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var (
			category string
			total    float64
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals[category] = total
	}
	return totals, rows.Err()
}

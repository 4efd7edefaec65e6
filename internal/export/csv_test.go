package export

import (
	"bytes"
	"testing"
	"time"

	"expense-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	date := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	expenses := []models.Expense{
		{ID: 2, Amount: 12.5, Category: "Food", Note: "coffee", Date: date.Add(time.Hour)},
		{ID: 1, Amount: 50, Category: "Travel", Note: "", Date: date},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, expenses))

	want := "Amount,Category,Note,Date\n" +
		"12.50,Food,coffee,2025-03-10T13:30:00Z\n" +
		"50.00,Travel,,2025-03-10T12:30:00Z\n"
	assert.Equal(t, want, buf.String(), "rows must keep the order they were given in")
}

func TestWriteQuotesFields(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 1, Category: "Food, drinks", Note: `say "cheese"`, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, expenses))

	assert.Contains(t, buf.String(), `"Food, drinks"`)
	assert.Contains(t, buf.String(), `"say ""cheese"""`)
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, "Amount,Category,Note,Date\n", buf.String())
}

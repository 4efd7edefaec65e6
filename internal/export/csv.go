package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"expense-ledger/internal/models"
)

// Header is the column order produced by Write.
var Header = []string{"Amount", "Category", "Note", "Date"}

// Write serializes expenses to w in the order given, header row first.
func Write(w io.Writer, expenses []models.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range expenses {
		record := []string{
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Category,
			e.Note,
			e.Date.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

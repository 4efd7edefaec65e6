package ui

import (
	"fmt"
	"sort"
	"strings"

	"expense-ledger/internal/models"
)

const (
	noteWidth = 24
	barWidth  = 30
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Expense Ledger") + "\n\n")

	switch m.step {
	case stepLoginUsername:
		s.WriteString(promptStyle.Render("Login: username") + "\n")
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		if m.noAccounts {
			s.WriteString("\n\n" + helpStyle.Render("No accounts yet. Press Ctrl+N to register."))
		}
		s.WriteString("\n\n" + helpStyle.Render("Enter to continue, Ctrl+N to register, Ctrl+C to quit") + "\n")

	case stepLoginPassword:
		s.WriteString(promptStyle.Render("Login: password") + "\n")
		s.WriteString(inputStyle.Render("> " + masked(m.currentInput)))
		s.WriteString("\n\n" + helpStyle.Render("Enter to login, Ctrl+N to register") + "\n")

	case stepLoggingIn, stepRegistering, stepSaving:
		s.WriteString(m.message + "\n")
		return s.String()

	case stepRegisterUsername:
		s.WriteString(promptStyle.Render("Create account: username") + "\n")
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\n" + helpStyle.Render("Enter to continue, Ctrl+N to go back to login") + "\n")

	case stepRegisterPassword:
		s.WriteString(promptStyle.Render("Create account: password") + "\n")
		s.WriteString(inputStyle.Render("> " + masked(m.currentInput)))
		s.WriteString("\n\n" + helpStyle.Render("Enter to continue") + "\n")

	case stepRegisterConfirm:
		s.WriteString(promptStyle.Render("Create account: confirm password") + "\n")
		s.WriteString(inputStyle.Render("> " + masked(m.currentInput)))
		s.WriteString("\n\n" + helpStyle.Render("Enter to create the account") + "\n")

	case stepDashboard, stepSearching, stepConfirmDelete:
		s.WriteString(m.viewDashboard())

	case stepAddAmount:
		s.WriteString(promptStyle.Render("Add expense: amount") + "\n")
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\n" + helpStyle.Render("Enter to continue, Esc to cancel") + "\n")

	case stepAddCategory:
		s.WriteString(promptStyle.Render("Add expense: category") + "\n\n")
		for i, c := range categories {
			if i == m.categoryCursor {
				s.WriteString("> " + selectedStyle.Render(c) + "\n")
			} else {
				s.WriteString("  " + c + "\n")
			}
		}
		s.WriteString("\n" + helpStyle.Render("Up/Down to choose, Enter to continue, Esc to cancel") + "\n")

	case stepChart:
		s.WriteString(m.viewChart())
	}

	if m.message != "" && m.step != stepDashboard && m.step != stepSearching && m.step != stepConfirmDelete {
		s.WriteString("\n" + m.message + "\n")
	}

	return s.String()
}

func (m Model) viewDashboard() string {
	var s strings.Builder

	s.WriteString(fmt.Sprintf("Logged in as: %s\n", selectedStyle.Render(m.session.Username)))

	if m.step == stepSearching {
		s.WriteString(promptStyle.Render("Search: ") + inputStyle.Render(m.currentInput+"_") + "\n\n")
	} else if m.search != "" {
		s.WriteString(fmt.Sprintf("Search: %s\n\n", inputStyle.Render(m.search)))
	} else {
		s.WriteString("\n")
	}

	s.WriteString(headerStyle.Render(fmt.Sprintf("   %4s  %10s  %-14s  %-*s  %s",
		"ID", "Amount", "Category", noteWidth, "Note", "Date")) + "\n")

	if len(m.expenses) == 0 {
		s.WriteString(helpStyle.Render("  (no expenses)") + "\n")
	}
	for i, e := range m.expenses {
		s.WriteString(m.renderRow(i, e) + "\n")
	}

	if m.step == stepConfirmDelete {
		s.WriteString("\n" + promptStyle.Render(fmt.Sprintf("Delete %d record(s)? (y/n)", len(m.deletionTargets()))) + "\n")
	} else if m.step == stepSearching {
		s.WriteString("\n" + helpStyle.Render("Enter to keep filter, Esc to clear") + "\n")
	} else {
		s.WriteString("\n" + helpStyle.Render("a add  space select  d delete  / search  c chart  e export  l logout  q quit") + "\n")
	}

	if m.message != "" {
		s.WriteString("\n" + m.message + "\n")
	}

	return s.String()
}

func (m Model) renderRow(i int, e models.Expense) string {
	cursor := " "
	if i == m.cursor {
		cursor = ">"
	}
	mark := " "
	if _, ok := m.selected[e.ID]; ok {
		mark = "*"
	}

	row := fmt.Sprintf("%s%s %4d  %10.2f  %-14s  %-*s  %s",
		cursor, mark, e.ID, e.Amount, truncate(e.Category, 14),
		noteWidth, truncate(e.Note, noteWidth), e.Date.Format("2006-01-02 15:04"))

	if i == m.cursor {
		return selectedStyle.Render(row)
	}
	return row
}

// viewChart renders the per-category totals as a horizontal bar chart,
// largest bucket first.
func (m Model) viewChart() string {
	type bucket struct {
		category string
		total    float64
	}

	buckets := make([]bucket, 0, len(m.totals))
	var grand, maxTotal float64
	for category, total := range m.totals {
		buckets = append(buckets, bucket{category: category, total: total})
		grand += total
		if total > maxTotal {
			maxTotal = total
		}
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].total != buckets[j].total {
			return buckets[i].total > buckets[j].total
		}
		return buckets[i].category < buckets[j].category
	})

	var s strings.Builder
	s.WriteString(promptStyle.Render("Spending by category") + "\n\n")

	for _, b := range buckets {
		width := 0
		if maxTotal > 0 {
			width = int(b.total / maxTotal * barWidth)
		}
		if width < 1 && b.total > 0 {
			width = 1
		}
		pct := 0.0
		if grand != 0 {
			pct = b.total / grand * 100
		}
		s.WriteString(fmt.Sprintf("%-14s %s %10.2f  %5.1f%%\n",
			truncate(b.category, 14), barStyle.Render(strings.Repeat("█", width)), b.total, pct))
	}

	s.WriteString(fmt.Sprintf("\n%-14s %*s %10.2f\n", "Total", barWidth, "", grand))
	s.WriteString("\n" + helpStyle.Render("Esc to go back") + "\n")

	return s.String()
}

func masked(s string) string {
	return strings.Repeat("•", len([]rune(s)))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"expense-ledger/internal/accounts"
	"expense-ledger/internal/export"
	"expense-ledger/internal/ledger"
	"expense-ledger/internal/models"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))
)

// Categories suggested by the add-expense form. The engine accepts any
// non-empty string; a blank one falls back to ledger.FallbackCategory.
var categories = []string{"Food", "Travel", "Groceries", "Bills", "Entertainment", ledger.FallbackCategory}

type step int

const (
	stepLoginUsername step = iota
	stepLoginPassword
	stepLoggingIn
	stepRegisterUsername
	stepRegisterPassword
	stepRegisterConfirm
	stepRegistering
	stepDashboard
	stepSearching
	stepAddAmount
	stepAddCategory
	stepAddNote
	stepSaving
	stepConfirmDelete
	stepChart
)

// Model is the top-level bubbletea model for the interactive application.
type Model struct {
	directory *accounts.Directory
	store     *ledger.Store
	exportDir string
	logger    *slog.Logger

	step    step
	session models.Session

	// form state
	currentInput   string
	username       string
	password       string
	amount         string
	note           string
	categoryCursor int

	// dashboard state
	expenses []models.Expense
	cursor   int
	selected map[int64]struct{}
	search   string

	// chart state
	totals map[string]float64

	noAccounts bool
	message    string
	quitting   bool
}

type userCountMsg int
type sessionMsg models.Session
type registeredMsg struct{ id int64 }
type expensesMsg []models.Expense
type expenseSavedMsg models.Expense
type deletedMsg struct{ count int64 }
type totalsMsg map[string]float64
type exportedMsg struct {
	path  string
	count int
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// New creates the initial model.
func New(directory *accounts.Directory, store *ledger.Store, exportDir string, logger *slog.Logger) Model {
	return Model{
		directory: directory,
		store:     store,
		exportDir: exportDir,
		logger:    logger,
		step:      stepLoginUsername,
		selected:  map[int64]struct{}{},
	}
}

func (m Model) Init() tea.Cmd {
	return m.checkAccounts()
}

// checkAccounts drives the first-run hint on the login screen.
func (m Model) checkAccounts() tea.Cmd {
	return func() tea.Msg {
		count, err := m.directory.UserCount(context.Background())
		if err != nil {
			m.logger.Warn("count users", "error", err)
			return nil
		}
		return userCountMsg(count)
	}
}

func (m Model) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.directory.Login(context.Background(), username, password)
		if err != nil {
			return errMsg{err}
		}
		m.logger.Info("user logged in", "user_id", session.UserID, "username", session.Username)
		return sessionMsg(session)
	}
}

func (m Model) register(username, password string) tea.Cmd {
	return func() tea.Msg {
		id, err := m.directory.Register(context.Background(), username, password)
		if err != nil {
			return errMsg{err}
		}
		m.logger.Info("user registered", "user_id", id, "username", username)
		return registeredMsg{id: id}
	}
}

func (m Model) loadExpenses(term string) tea.Cmd {
	userID := m.session.UserID
	return func() tea.Msg {
		expenses, err := m.store.ListExpenses(context.Background(), userID, term)
		if err != nil {
			return errMsg{err}
		}
		return expensesMsg(expenses)
	}
}

func (m Model) saveExpense(amount, category, note string) tea.Cmd {
	userID := m.session.UserID
	return func() tea.Msg {
		e, err := m.store.AddExpense(context.Background(), userID, amount, category, note)
		if err != nil {
			return errMsg{err}
		}
		m.logger.Info("expense added", "id", e.ID, "user_id", userID, "amount", e.Amount, "category", e.Category)
		return expenseSavedMsg(e)
	}
}

func (m Model) deleteExpenses(ids []int64) tea.Cmd {
	userID := m.session.UserID
	return func() tea.Msg {
		count, err := m.store.DeleteExpenses(context.Background(), userID, ids)
		if err != nil {
			return errMsg{err}
		}
		m.logger.Info("expenses deleted", "user_id", userID, "requested", len(ids), "deleted", count)
		return deletedMsg{count: count}
	}
}

func (m Model) loadTotals() tea.Cmd {
	userID := m.session.UserID
	return func() tea.Msg {
		totals, err := m.store.AggregateByCategory(context.Background(), userID)
		if err != nil {
			return errMsg{err}
		}
		return totalsMsg(totals)
	}
}

func (m Model) exportCSV() tea.Cmd {
	userID := m.session.UserID
	username := m.session.Username
	return func() tea.Msg {
		// Export is always the full, unfiltered ledger, newest first.
		expenses, err := m.store.ListExpenses(context.Background(), userID, "")
		if err != nil {
			return errMsg{err}
		}
		if len(expenses) == 0 {
			return exportedMsg{count: 0}
		}

		path := filepath.Join(m.exportDir, fmt.Sprintf("expenses_%s.csv", username))
		f, err := os.Create(path)
		if err != nil {
			return errMsg{fmt.Errorf("create export file: %w", err)}
		}
		defer f.Close()

		if err := export.Write(f, expenses); err != nil {
			return errMsg{fmt.Errorf("write export file: %w", err)}
		}
		m.logger.Info("expenses exported", "user_id", userID, "path", path, "count", len(expenses))
		return exportedMsg{path: path, count: len(expenses)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case userCountMsg:
		m.noAccounts = msg == 0

	case sessionMsg:
		m.session = models.Session(msg)
		m.step = stepDashboard
		m.message = successStyle.Render("Logged in as " + m.session.Username)
		m.search = ""
		m.cursor = 0
		m.selected = map[int64]struct{}{}
		return m, m.loadExpenses("")

	case registeredMsg:
		m.step = stepLoginUsername
		m.currentInput = ""
		m.username = ""
		m.password = ""
		m.noAccounts = false
		m.message = successStyle.Render("Account created. Please login.")

	case expensesMsg:
		m.expenses = []models.Expense(msg)
		if m.cursor >= len(m.expenses) {
			m.cursor = max(0, len(m.expenses)-1)
		}

	case expenseSavedMsg:
		m.step = stepDashboard
		m.message = successStyle.Render(fmt.Sprintf("Expense added: %.2f %s", msg.Amount, msg.Category))
		return m, m.loadExpenses(m.search)

	case deletedMsg:
		m.step = stepDashboard
		m.selected = map[int64]struct{}{}
		m.message = successStyle.Render(fmt.Sprintf("Deleted %d record(s)", msg.count))
		return m, m.loadExpenses(m.search)

	case totalsMsg:
		if len(msg) == 0 {
			m.message = "Add some expenses to see charts"
			return m, nil
		}
		m.totals = map[string]float64(msg)
		m.step = stepChart

	case exportedMsg:
		if msg.count == 0 {
			m.message = "No records to export"
		} else {
			m.message = successStyle.Render(fmt.Sprintf("Exported %d record(s) to %s", msg.count, msg.path))
		}

	case errMsg:
		m.message = errorStyle.Render(errorText(msg.err))
		m.logger.Warn("operation failed", "error", msg.err)
		switch m.step {
		case stepLoggingIn:
			m.step = stepLoginUsername
			m.currentInput = m.username
		case stepRegistering:
			m.step = stepRegisterUsername
			m.currentInput = m.username
		case stepSaving:
			m.step = stepAddAmount
			m.currentInput = m.amount
		default:
			m.step = stepDashboard
		}
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.step {
	case stepLoginUsername, stepLoginPassword,
		stepRegisterUsername, stepRegisterPassword, stepRegisterConfirm:
		return m.updateAuthKey(msg)
	case stepDashboard:
		return m.updateDashboardKey(msg)
	case stepSearching:
		return m.updateSearchKey(msg)
	case stepAddAmount, stepAddCategory, stepAddNote:
		return m.updateAddKey(msg)
	case stepConfirmDelete:
		switch msg.String() {
		case "y", "Y", "enter":
			m.step = stepDashboard
			return m, m.deleteExpenses(m.deletionTargets())
		case "n", "N", "esc":
			m.step = stepDashboard
		}
	case stepChart:
		switch msg.String() {
		case "esc", "enter", "q":
			m.step = stepDashboard
		}
	}

	return m, nil
}

func (m Model) updateAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+n":
		// Switch between login and registration.
		if m.step <= stepLoggingIn {
			m.step = stepRegisterUsername
		} else {
			m.step = stepLoginUsername
		}
		m.currentInput = ""
		m.username = ""
		m.password = ""
		m.message = ""

	case "backspace":
		if len(m.currentInput) > 0 {
			m.currentInput = m.currentInput[:len(m.currentInput)-1]
		}

	case "enter":
		return m.submitAuthField()

	default:
		if msg.Type == tea.KeyRunes {
			m.currentInput += string(msg.Runes)
		}
	}

	return m, nil
}

func (m Model) submitAuthField() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.currentInput)

	switch m.step {
	case stepLoginUsername:
		if input == "" {
			m.message = errorStyle.Render("Please enter username and password")
			return m, nil
		}
		m.username = input
		m.currentInput = ""
		m.step = stepLoginPassword

	case stepLoginPassword:
		if input == "" {
			m.message = errorStyle.Render("Please enter username and password")
			return m, nil
		}
		m.password = input
		m.currentInput = ""
		m.step = stepLoggingIn
		m.message = "Logging in..."
		return m, m.login(m.username, m.password)

	case stepRegisterUsername:
		if input == "" {
			m.message = errorStyle.Render("Fill all fields")
			return m, nil
		}
		m.username = input
		m.currentInput = ""
		m.step = stepRegisterPassword

	case stepRegisterPassword:
		if input == "" {
			m.message = errorStyle.Render("Fill all fields")
			return m, nil
		}
		m.password = input
		m.currentInput = ""
		m.step = stepRegisterConfirm

	case stepRegisterConfirm:
		if input != m.password {
			m.message = errorStyle.Render("Passwords do not match")
			m.currentInput = ""
			m.step = stepRegisterPassword
			m.password = ""
			return m, nil
		}
		m.currentInput = ""
		m.step = stepRegistering
		m.message = "Creating account..."
		return m, m.register(m.username, m.password)
	}

	return m, nil
}

func (m Model) updateDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.expenses)-1 {
			m.cursor++
		}

	case " ":
		if m.cursor < len(m.expenses) {
			id := m.expenses[m.cursor].ID
			if _, ok := m.selected[id]; ok {
				delete(m.selected, id)
			} else {
				m.selected[id] = struct{}{}
			}
		}

	case "a":
		m.step = stepAddAmount
		m.currentInput = ""
		m.amount = ""
		m.note = ""
		m.categoryCursor = 0
		m.message = ""

	case "d":
		if len(m.deletionTargets()) == 0 {
			m.message = errorStyle.Render("Select a row to delete")
			return m, nil
		}
		m.step = stepConfirmDelete

	case "/":
		m.step = stepSearching
		m.currentInput = m.search

	case "c":
		return m, m.loadTotals()

	case "e":
		return m, m.exportCSV()

	case "l":
		m.session = models.Session{}
		m.expenses = nil
		m.selected = map[int64]struct{}{}
		m.search = ""
		m.step = stepLoginUsername
		m.currentInput = ""
		m.username = ""
		m.password = ""
		m.message = ""
	}

	return m, nil
}

func (m Model) updateSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.step = stepDashboard

	case "esc":
		m.step = stepDashboard
		m.search = ""
		return m, m.loadExpenses("")

	case "backspace":
		if len(m.currentInput) > 0 {
			m.currentInput = m.currentInput[:len(m.currentInput)-1]
		}
		m.search = m.currentInput
		return m, m.loadExpenses(m.search)

	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.currentInput += string(msg.Runes)
		case tea.KeySpace:
			m.currentInput += " "
		default:
			return m, nil
		}
		m.search = m.currentInput
		return m, m.loadExpenses(m.search)
	}

	return m, nil
}

func (m Model) updateAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.step = stepDashboard
		m.message = ""
		return m, nil
	}

	if m.step == stepAddCategory {
		switch msg.String() {
		case "up", "k":
			if m.categoryCursor > 0 {
				m.categoryCursor--
			}
		case "down", "j":
			if m.categoryCursor < len(categories)-1 {
				m.categoryCursor++
			}
		case "enter":
			m.step = stepAddNote
			m.currentInput = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "backspace":
		if len(m.currentInput) > 0 {
			m.currentInput = m.currentInput[:len(m.currentInput)-1]
		}

	case "enter":
		if m.step == stepAddAmount {
			m.amount = m.currentInput
			m.step = stepAddCategory
			return m, nil
		}
		// note entered, save
		m.note = m.currentInput
		m.currentInput = ""
		m.step = stepSaving
		m.message = "Saving..."
		return m, m.saveExpense(m.amount, categories[m.categoryCursor], m.note)

	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.currentInput += string(msg.Runes)
		case tea.KeySpace:
			m.currentInput += " "
		}
	}

	return m, nil
}

// deletionTargets returns the selected expense ids, falling back to the row
// under the cursor when nothing is selected.
func (m Model) deletionTargets() []int64 {
	if len(m.selected) > 0 {
		ids := make([]int64, 0, len(m.selected))
		for id := range m.selected {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return ids
	}
	if m.cursor < len(m.expenses) {
		return []int64{m.expenses[m.cursor].ID}
	}
	return nil
}

func errorText(err error) string {
	switch {
	case errors.Is(err, accounts.ErrUserNotFound):
		return "User not found. Please register first."
	case errors.Is(err, accounts.ErrWrongPassword):
		return "Wrong password"
	case errors.Is(err, accounts.ErrUsernameTaken):
		return "Username already exists"
	case errors.Is(err, accounts.ErrInvalidInput):
		return "Please enter username and password"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "Enter a valid amount"
	default:
		return "Something went wrong: " + err.Error()
	}
}

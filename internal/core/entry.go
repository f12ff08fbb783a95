package core

import (
	"strings"
	"time"
)

const (
	NecessityNecessary   Necessity = "necessary"
	NecessityUnnecessary Necessity = "unnecessary"

	TypeExpense    EntryType = "expense"
	TypeInvestment EntryType = "investment"

	StatusOpen   EntryStatus = "open"
	StatusClosed EntryStatus = "closed"
)

type (
	Necessity   string
	EntryType   string
	EntryStatus string

	// Expense is the day container: one row per calendar date, created
	// lazily the first time an entry is logged for that date.
	Expense struct {
		ID        string
		Date      Date
		CreatedAt time.Time
	}

	// Entry is a single ledger line. Credit entries are always linked to a
	// statement and stay open until the statement is paid.
	Entry struct {
		ID              string
		ExpenseID       string
		Date            Date // joined from the day container
		Name            string
		Amount          Money
		ModeID          string
		CategoryID      string
		AccountID       string
		Necessity       Necessity
		Type            EntryType
		Status          EntryStatus
		ExpectedClosure *Date
		StatementID     string // empty for non-credit entries
		Tags            []string
		CreatedAt       time.Time
	}

	// Income is a cash inflow against an account.
	Income struct {
		ID        string
		Date      Date
		Source    string
		Amount    Money
		AccountID string
		CreatedAt time.Time
	}

	// ExpenseWithEntries is the per-day view with derived sums.
	ExpenseWithEntries struct {
		Expense
		Entries           []Entry
		TotalAmount       Money
		UnnecessaryAmount Money
		OpenAmount        Money
	}

	// MonthTotals aggregates one month of expense entries.
	MonthTotals struct {
		Total       Money
		Unnecessary Money
		Open        Money
	}

	// CategoryAmount represents an amount aggregated by category.
	CategoryAmount struct {
		CategoryID string
		Amount     Money
	}
)

func (n Necessity) Valid() bool {
	return n == NecessityNecessary || n == NecessityUnnecessary
}

func (t EntryType) Valid() bool {
	return t == TypeExpense || t == TypeInvestment
}

func (s EntryStatus) Valid() bool {
	return s == StatusOpen || s == StatusClosed
}

func (e Entry) Validate() error {
	if len(strings.TrimSpace(e.Name)) == 0 {
		return ErrEmptyName
	}
	if len(e.Name) > 200 {
		return NewValidationError("name", "too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.ModeID == "" {
		return NewValidationError("modeId", "required")
	}
	if e.CategoryID == "" {
		return NewValidationError("categoryId", "required")
	}
	if e.AccountID == "" {
		return NewValidationError("accountId", "required")
	}
	if !e.Necessity.Valid() {
		return NewValidationError("necessity", "must be necessary or unnecessary")
	}
	if !e.Type.Valid() {
		return NewValidationError("type", "must be expense or investment")
	}
	if !e.Status.Valid() {
		return NewValidationError("status", "must be open or closed")
	}
	return nil
}

func (i Income) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(i.Source)) == 0 {
		return NewValidationError("source", "required")
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if i.AccountID == "" {
		return NewValidationError("accountId", "required")
	}
	return nil
}

// Sums derives the per-day aggregates from the member entries.
func (e *ExpenseWithEntries) Sums() {
	e.TotalAmount = Money{}
	e.UnnecessaryAmount = Money{}
	e.OpenAmount = Money{}
	for _, en := range e.Entries {
		e.TotalAmount = e.TotalAmount.Add(en.Amount)
		if en.Necessity == NecessityUnnecessary {
			e.UnnecessaryAmount = e.UnnecessaryAmount.Add(en.Amount)
		}
		if en.Status == StatusOpen {
			e.OpenAmount = e.OpenAmount.Add(en.Amount)
		}
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"badger/internal/core"
	"badger/internal/log"
	"badger/internal/storage"
)

// EntryService owns the expense ledger: entry writes behind the
// month-close guard, credit-mode statement stamping, and the day and
// month read projections.
type EntryService struct {
	repo *storage.SQLiteRepository
}

func NewEntryService(repo *storage.SQLiteRepository) *EntryService {
	return &EntryService{repo: repo}
}

// EntryInput carries the caller-supplied fields for a new entry. Status
// is optional and defaults to closed; it is ignored for credit modes,
// which always start open.
type EntryInput struct {
	Date            core.Date
	Name            string
	Amount          core.Money
	ModeID          string
	CategoryID      string
	AccountID       string
	Necessity       core.Necessity
	Type            core.EntryType
	Status          core.EntryStatus
	ExpectedClosure *core.Date
	Tags            []string
}

// EntryPatch updates an entry. Nil fields are left unchanged.
// ClearExpectedClosure removes the expected closure date; it wins over
// ExpectedClosure when both are set.
type EntryPatch struct {
	Date                 *core.Date
	Name                 *string
	Amount               *core.Money
	ModeID               *string
	CategoryID           *string
	AccountID            *string
	Necessity            *core.Necessity
	Type                 *core.EntryType
	Status               *core.EntryStatus
	ExpectedClosure      *core.Date
	ClearExpectedClosure bool
	Tags                 []string
}

// CreateEntry validates the input, checks the month lock, and inserts the
// entry. Entries paid with a credit mode are stamped with the statement
// covering their date and forced open regardless of the requested status.
func (s *EntryService) CreateEntry(ctx context.Context, in EntryInput) (core.Entry, error) {
	if err := in.Date.Validate(); err != nil {
		return core.Entry{}, err
	}

	entry := core.Entry{
		ID:              uuid.NewString(),
		Date:            in.Date,
		Name:            in.Name,
		Amount:          in.Amount,
		ModeID:          in.ModeID,
		CategoryID:      in.CategoryID,
		AccountID:       in.AccountID,
		Necessity:       in.Necessity,
		Type:            in.Type,
		Status:          in.Status,
		ExpectedClosure: in.ExpectedClosure,
		Tags:            in.Tags,
	}
	if entry.Status == "" {
		entry.Status = core.StatusClosed
	}
	if err := entry.Validate(); err != nil {
		return core.Entry{}, err
	}

	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		if err := ensureMonthOpen(ctx, q, entry.Date); err != nil {
			return err
		}
		mode, err := s.checkRefs(ctx, q, entry)
		if err != nil {
			return err
		}
		if err := s.stampStatement(ctx, q, &entry, mode); err != nil {
			return err
		}

		expense, err := q.GetOrCreateExpense(ctx, entry.Date)
		if err != nil {
			return err
		}
		entry.ExpenseID = expense.ID
		return q.CreateEntry(ctx, entry)
	})
	if err != nil {
		return core.Entry{}, err
	}

	slog.InfoContext(ctx, "Entry created",
		log.FieldEntryID, entry.ID,
		log.FieldDate, entry.Date.String(),
		log.FieldAmountCents, entry.Amount.Cents,
		log.FieldStatementID, entry.StatementID)

	return s.repo.Queries().GetEntry(ctx, entry.ID)
}

// UpdateEntry applies a patch to an entry. Moving an entry between months
// requires both months open. A mode or date change re-resolves the linked
// statement; it is rejected while the current statement is paid, as is
// closing a credit entry by hand.
func (s *EntryService) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (core.Entry, error) {
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		entry, err := q.GetEntry(ctx, id)
		if err != nil {
			return err
		}

		oldDate := entry.Date
		oldStatementID := entry.StatementID
		applyEntryPatch(&entry, patch)
		if err := entry.Date.Validate(); err != nil {
			return err
		}
		if err := entry.Validate(); err != nil {
			return err
		}

		if err := ensureMonthOpen(ctx, q, oldDate); err != nil {
			return err
		}
		if !entry.Date.Equal(oldDate) {
			if err := ensureMonthOpen(ctx, q, entry.Date); err != nil {
				return err
			}
		}

		mode, err := s.checkRefs(ctx, q, entry)
		if err != nil {
			return err
		}

		if oldStatementID != "" {
			statement, err := q.GetStatement(ctx, oldStatementID)
			if err != nil {
				return err
			}
			if statement.Paid() {
				return fmt.Errorf("entry on paid statement %s: %w",
					statement.ID, core.ErrInvalidTransition)
			}
			if mode.IsCredit && entry.Status == core.StatusClosed {
				return fmt.Errorf("credit entry closes only through settlement: %w",
					core.ErrInvalidTransition)
			}
		}

		if err := s.stampStatement(ctx, q, &entry, mode); err != nil {
			return err
		}

		if !entry.Date.Equal(oldDate) {
			expense, err := q.GetOrCreateExpense(ctx, entry.Date)
			if err != nil {
				return err
			}
			entry.ExpenseID = expense.ID
		}
		return q.UpdateEntry(ctx, entry)
	})
	if err != nil {
		return core.Entry{}, err
	}
	return s.repo.Queries().GetEntry(ctx, id)
}

// DeleteEntry removes an entry. Entries on a paid statement and entries in
// a closed month are immutable.
func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(q *storage.Queries) error {
		entry, err := q.GetEntry(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureMonthOpen(ctx, q, entry.Date); err != nil {
			return err
		}
		if entry.StatementID != "" {
			statement, err := q.GetStatement(ctx, entry.StatementID)
			if err != nil {
				return err
			}
			if statement.Paid() {
				return fmt.Errorf("entry on paid statement %s: %w",
					statement.ID, core.ErrInvalidTransition)
			}
		}
		return q.DeleteEntry(ctx, id)
	})
}

// DuplicateEntry copies an entry onto another date, keeping every field
// except the identifiers and timestamps. Credit copies resolve their own
// statement for the new date.
func (s *EntryService) DuplicateEntry(ctx context.Context, id string, date core.Date) (core.Entry, error) {
	src, err := s.repo.Queries().GetEntry(ctx, id)
	if err != nil {
		return core.Entry{}, err
	}
	return s.CreateEntry(ctx, EntryInput{
		Date:            date,
		Name:            src.Name,
		Amount:          src.Amount,
		ModeID:          src.ModeID,
		CategoryID:      src.CategoryID,
		AccountID:       src.AccountID,
		Necessity:       src.Necessity,
		Type:            src.Type,
		Status:          src.Status,
		ExpectedClosure: src.ExpectedClosure,
		Tags:            src.Tags,
	})
}

func (s *EntryService) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	return s.repo.Queries().GetEntry(ctx, id)
}

// DayView returns the day container with its entries and derived sums.
func (s *EntryService) DayView(ctx context.Context, date core.Date) (core.ExpenseWithEntries, error) {
	q := s.repo.Queries()

	expense, err := q.GetExpenseByDate(ctx, date)
	if err != nil {
		return core.ExpenseWithEntries{}, err
	}
	entries, err := q.ListEntriesByExpense(ctx, expense.ID)
	if err != nil {
		return core.ExpenseWithEntries{}, err
	}

	view := core.ExpenseWithEntries{Expense: expense, Entries: entries}
	view.Sums()
	return view, nil
}

// MonthView returns every day of the month that has entries, oldest first.
func (s *EntryService) MonthView(ctx context.Context, year, month int) ([]core.ExpenseWithEntries, error) {
	if month < 1 || month > 12 {
		return nil, core.NewValidationError("month", "must be between 1 and 12")
	}
	q := s.repo.Queries()

	start, end := monthBounds(year, month)
	expenses, err := q.ListExpensesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	views := make([]core.ExpenseWithEntries, 0, len(expenses))
	for _, expense := range expenses {
		entries, err := q.ListEntriesByExpense(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		view := core.ExpenseWithEntries{Expense: expense, Entries: entries}
		view.Sums()
		views = append(views, view)
	}
	return views, nil
}

// MonthTotals aggregates expense-type entries of a calendar month.
func (s *EntryService) MonthTotals(ctx context.Context, year, month int) (core.MonthTotals, error) {
	if month < 1 || month > 12 {
		return core.MonthTotals{}, core.NewValidationError("month", "must be between 1 and 12")
	}
	start, end := monthBounds(year, month)
	return s.repo.Queries().MonthTotals(ctx, start, end)
}

// OpenEntries lists outstanding liabilities across all days.
func (s *EntryService) OpenEntries(ctx context.Context) ([]core.Entry, error) {
	return s.repo.Queries().ListOpenEntries(ctx)
}

// CategoryTotals groups expense amounts by category over [start, end].
func (s *EntryService) CategoryTotals(ctx context.Context, start, end core.Date) ([]core.CategoryAmount, error) {
	return s.repo.Queries().SumEntriesByCategory(ctx, start, end)
}

// checkRefs verifies the referenced mode, category, account, and tags
// exist, and returns the mode for credit handling.
func (s *EntryService) checkRefs(ctx context.Context, q *storage.Queries, entry core.Entry) (core.Mode, error) {
	mode, err := q.GetMode(ctx, entry.ModeID)
	if err != nil {
		return core.Mode{}, err
	}
	if _, err := q.GetCategory(ctx, entry.CategoryID); err != nil {
		return core.Mode{}, err
	}
	if _, err := q.GetAccount(ctx, entry.AccountID); err != nil {
		return core.Mode{}, err
	}
	if len(entry.Tags) > 0 {
		n, err := q.CountTags(ctx, entry.Tags)
		if err != nil {
			return core.Mode{}, err
		}
		if n != len(entry.Tags) {
			return core.Mode{}, fmt.Errorf("unknown tag: %w", core.ErrNotFound)
		}
	}
	return mode, nil
}

// stampStatement links credit entries to the statement covering their
// date and forces them open; non-credit entries carry no statement.
func (s *EntryService) stampStatement(ctx context.Context, q *storage.Queries, entry *core.Entry, mode core.Mode) error {
	if !mode.IsCredit {
		entry.StatementID = ""
		return nil
	}

	card, err := q.GetCreditCard(ctx, mode.CreditCardID)
	if err != nil {
		return err
	}
	statement, err := resolveStatement(ctx, q, card, entry.Date)
	if err != nil {
		return err
	}
	entry.StatementID = statement.ID
	entry.Status = core.StatusOpen
	return nil
}

func applyEntryPatch(e *core.Entry, p EntryPatch) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.ModeID != nil {
		e.ModeID = *p.ModeID
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
	}
	if p.Necessity != nil {
		e.Necessity = *p.Necessity
	}
	if p.AccountID != nil {
		e.AccountID = *p.AccountID
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.ExpectedClosure != nil {
		e.ExpectedClosure = p.ExpectedClosure
	}
	if p.ClearExpectedClosure {
		e.ExpectedClosure = nil
	}
	if p.Tags != nil {
		e.Tags = p.Tags
	}
}

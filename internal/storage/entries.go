package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"badger/internal/core"
)

// Expenses (day containers)

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		e         core.Expense
		date      string
		createdAt string
	)
	if err := row.Scan(&e.ID, &date, &createdAt); err != nil {
		return core.Expense{}, err
	}
	var err error
	if e.Date, err = core.ParseDate(date); err != nil {
		return core.Expense{}, err
	}
	e.CreatedAt = parseTimestamp(createdAt)
	return e, nil
}

// GetOrCreateExpense resolves the day container for a date, creating it
// lazily on the first entry logged for that day.
func (q *Queries) GetOrCreateExpense(ctx context.Context, date core.Date) (core.Expense, error) {
	e, err := q.GetExpenseByDate(ctx, date)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Expense{}, err
	}

	e = core.Expense{ID: uuid.NewString(), Date: date}
	if _, err := q.db.ExecContext(ctx,
		"INSERT INTO expenses (id, date) VALUES (?, ?)", e.ID, date.String()); err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

// CreateExpense inserts a day container with a caller-chosen id. Used by
// backup import to preserve entry links; normal writes go through
// GetOrCreateExpense.
func (q *Queries) CreateExpense(ctx context.Context, e core.Expense) error {
	if _, err := q.db.ExecContext(ctx,
		"INSERT INTO expenses (id, date) VALUES (?, ?)", e.ID, e.Date.String()); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (q *Queries) GetExpenseByDate(ctx context.Context, date core.Date) (core.Expense, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT id, date, created_at FROM expenses WHERE date = ?", date.String())
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense for %s: %w", date, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by date: %w", err)
	}
	return e, nil
}

// ListExpensesBetween returns day containers with date in [start, end).
func (q *Queries) ListExpensesBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, date, created_at FROM expenses WHERE date >= ? AND date < ? ORDER BY date ASC",
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Entries

const entryJoinedColumns = `e.id, e.expense_id, exp.date, e.name, e.amount_cents, e.mode_id,
	e.category_id, e.account_id, e.necessity, e.type, e.status, e.expected_closure,
	e.statement_id, e.created_at`

func scanEntry(row interface{ Scan(...any) error }) (core.Entry, error) {
	var (
		e               core.Entry
		date            string
		necessity       string
		entryType       string
		status          string
		expectedClosure sql.NullString
		statementID     sql.NullString
		createdAt       string
	)
	err := row.Scan(&e.ID, &e.ExpenseID, &date, &e.Name, &e.Amount.Cents, &e.ModeID,
		&e.CategoryID, &e.AccountID, &necessity, &entryType, &status, &expectedClosure,
		&statementID, &createdAt)
	if err != nil {
		return core.Entry{}, err
	}

	if e.Date, err = core.ParseDate(date); err != nil {
		return core.Entry{}, err
	}
	e.Necessity = core.Necessity(necessity)
	e.Type = core.EntryType(entryType)
	e.Status = core.EntryStatus(status)
	if expectedClosure.Valid {
		d, err := core.ParseDate(expectedClosure.String)
		if err != nil {
			return core.Entry{}, err
		}
		e.ExpectedClosure = &d
	}
	e.StatementID = statementID.String
	e.CreatedAt = parseTimestamp(createdAt)
	return e, nil
}

func (q *Queries) CreateEntry(ctx context.Context, e core.Entry) error {
	var expectedClosure sql.NullString
	if e.ExpectedClosure != nil {
		expectedClosure = sql.NullString{String: e.ExpectedClosure.String(), Valid: true}
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO entries (
			id, expense_id, name, amount_cents, mode_id, category_id, account_id,
			necessity, type, status, expected_closure, statement_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ExpenseID, e.Name, e.Amount.Cents, e.ModeID, e.CategoryID, e.AccountID,
		string(e.Necessity), string(e.Type), string(e.Status), expectedClosure,
		nullString(e.StatementID))
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return q.replaceEntryTags(ctx, e.ID, e.Tags)
}

func (q *Queries) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+entryJoinedColumns+`
		FROM entries e
		JOIN expenses exp ON e.expense_id = exp.id
		WHERE e.id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, fmt.Errorf("entry %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	if e.Tags, err = q.entryTagIDs(ctx, e.ID); err != nil {
		return core.Entry{}, err
	}
	return e, nil
}

// UpdateEntry rewrites all mutable fields of the row. The service layer
// applies the typed patch before calling this.
func (q *Queries) UpdateEntry(ctx context.Context, e core.Entry) error {
	var expectedClosure sql.NullString
	if e.ExpectedClosure != nil {
		expectedClosure = sql.NullString{String: e.ExpectedClosure.String(), Valid: true}
	}

	res, err := q.db.ExecContext(ctx, `
		UPDATE entries SET
			name = ?, amount_cents = ?, mode_id = ?, category_id = ?, account_id = ?,
			necessity = ?, type = ?, status = ?, expected_closure = ?, statement_id = ?
		WHERE id = ?`,
		e.Name, e.Amount.Cents, e.ModeID, e.CategoryID, e.AccountID,
		string(e.Necessity), string(e.Type), string(e.Status), expectedClosure,
		nullString(e.StatementID), e.ID)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if err := ensureRowFound(res, e.ID); err != nil {
		return err
	}
	return q.replaceEntryTags(ctx, e.ID, e.Tags)
}

func (q *Queries) DeleteEntry(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return ensureRowFound(res, id)
}

func (q *Queries) ListEntriesByExpense(ctx context.Context, expenseID string) ([]core.Entry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+entryJoinedColumns+`
		FROM entries e
		JOIN expenses exp ON e.expense_id = exp.id
		WHERE e.expense_id = ?
		ORDER BY e.created_at DESC`, expenseID)
	if err != nil {
		return nil, fmt.Errorf("list entries by expense: %w", err)
	}
	return q.collectEntries(ctx, rows)
}

// ListOpenEntries returns all open entries (outstanding liabilities),
// newest day first.
func (q *Queries) ListOpenEntries(ctx context.Context) ([]core.Entry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+entryJoinedColumns+`
		FROM entries e
		JOIN expenses exp ON e.expense_id = exp.id
		WHERE e.status = 'open'
		ORDER BY exp.date DESC, e.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}
	return q.collectEntries(ctx, rows)
}

func (q *Queries) collectEntries(ctx context.Context, rows *sql.Rows) ([]core.Entry, error) {
	defer rows.Close()
	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range entries {
		tags, err := q.entryTagIDs(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Tags = tags
	}
	return entries, nil
}

// MonthTotals aggregates expense-type entries with date in [start, end).
func (q *Queries) MonthTotals(ctx context.Context, start, end core.Date) (core.MonthTotals, error) {
	var t core.MonthTotals
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(e.amount_cents), 0),
			COALESCE(SUM(CASE WHEN e.necessity = 'unnecessary' THEN e.amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN e.status = 'open' THEN e.amount_cents ELSE 0 END), 0)
		FROM entries e
		JOIN expenses exp ON e.expense_id = exp.id
		WHERE exp.date >= ? AND exp.date < ? AND e.type = 'expense'`,
		start.String(), end.String()).Scan(&t.Total.Cents, &t.Unnecessary.Cents, &t.Open.Cents)
	if err != nil {
		return core.MonthTotals{}, fmt.Errorf("month totals: %w", err)
	}
	return t, nil
}

// SumEntriesByCategory groups expense-type entry amounts by category over
// [start, end] inclusive.
func (q *Queries) SumEntriesByCategory(ctx context.Context, start, end core.Date) ([]core.CategoryAmount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT e.category_id, SUM(e.amount_cents)
		FROM entries e
		JOIN expenses exp ON e.expense_id = exp.id
		WHERE exp.date >= ? AND exp.date <= ? AND e.type = 'expense'
		GROUP BY e.category_id`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("sum entries by category: %w", err)
	}
	defer rows.Close()

	var sums []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.CategoryID, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, ca)
	}
	return sums, rows.Err()
}

// Entry tags (join table)

func (q *Queries) entryTagIDs(ctx context.Context, entryID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT tag_id FROM entry_tags WHERE entry_id = ? ORDER BY tag_id", entryID)
	if err != nil {
		return nil, fmt.Errorf("list entry tags: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan entry tag: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (q *Queries) replaceEntryTags(ctx context.Context, entryID string, tagIDs []string) error {
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM entry_tags WHERE entry_id = ?", entryID); err != nil {
		return fmt.Errorf("clear entry tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := q.db.ExecContext(ctx,
			"INSERT INTO entry_tags (entry_id, tag_id) VALUES (?, ?)", entryID, tagID); err != nil {
			return fmt.Errorf("insert entry tag: %w", err)
		}
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"badger/internal/core"
)

const cardColumns = "id, name, closing_day, due_day, is_active, sort_order, created_at"

func scanCreditCard(row interface{ Scan(...any) error }) (core.CreditCard, error) {
	var (
		c         core.CreditCard
		isActive  int64
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.ClosingDay, &c.DueDay, &isActive, &c.SortOrder, &createdAt); err != nil {
		return core.CreditCard{}, err
	}
	c.IsActive = isActive == 1
	c.CreatedAt = parseTimestamp(createdAt)
	return c, nil
}

func (q *Queries) CreateCreditCard(ctx context.Context, c core.CreditCard) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO credit_cards (id, name, closing_day, due_day, is_active, sort_order) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.Name, c.ClosingDay, c.DueDay, boolToInt(c.IsActive), c.SortOrder)
	if err != nil {
		return fmt.Errorf("insert credit card: %w", err)
	}
	return nil
}

func (q *Queries) GetCreditCard(ctx context.Context, id string) (core.CreditCard, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM credit_cards WHERE id = ?", id)
	c, err := scanCreditCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CreditCard{}, fmt.Errorf("credit card %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("get credit card: %w", err)
	}
	return c, nil
}

func (q *Queries) ListCreditCards(ctx context.Context, includeInactive bool) ([]core.CreditCard, error) {
	query := "SELECT " + cardColumns + " FROM credit_cards WHERE is_active = 1 ORDER BY sort_order, name"
	if includeInactive {
		query = "SELECT " + cardColumns + " FROM credit_cards ORDER BY sort_order, name"
	}
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	defer rows.Close()

	var cards []core.CreditCard
	for rows.Next() {
		c, err := scanCreditCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (q *Queries) UpdateCreditCard(ctx context.Context, c core.CreditCard) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE credit_cards SET name = ?, closing_day = ?, due_day = ?, is_active = ?, sort_order = ? WHERE id = ?",
		c.Name, c.ClosingDay, c.DueDay, boolToInt(c.IsActive), c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update credit card: %w", err)
	}
	return ensureRowFound(res, c.ID)
}

func (q *Queries) CountUnpaidStatements(ctx context.Context, cardID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM credit_card_statements WHERE credit_card_id = ? AND status = 'open'",
		cardID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unpaid statements: %w", err)
	}
	return n, nil
}

// Statements

const statementColumns = "id, credit_card_id, period_start, period_end, status, paid_date, created_at"

func scanStatement(row interface{ Scan(...any) error }) (core.Statement, error) {
	var (
		s           core.Statement
		periodStart string
		periodEnd   string
		status      string
		paidDate    sql.NullString
		createdAt   string
	)
	if err := row.Scan(&s.ID, &s.CardID, &periodStart, &periodEnd, &status, &paidDate, &createdAt); err != nil {
		return core.Statement{}, err
	}

	var err error
	if s.PeriodStart, err = core.ParseDate(periodStart); err != nil {
		return core.Statement{}, err
	}
	if s.PeriodEnd, err = core.ParseDate(periodEnd); err != nil {
		return core.Statement{}, err
	}
	s.Status = core.StatementStatus(status)
	if paidDate.Valid {
		d, err := core.ParseDate(paidDate.String)
		if err != nil {
			return core.Statement{}, err
		}
		s.PaidDate = &d
	}
	s.CreatedAt = parseTimestamp(createdAt)
	return s, nil
}

func (q *Queries) CreateStatement(ctx context.Context, s core.Statement) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO credit_card_statements (id, credit_card_id, period_start, period_end, status) VALUES (?, ?, ?, ?, ?)",
		s.ID, s.CardID, s.PeriodStart.String(), s.PeriodEnd.String(), string(s.Status))
	if err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}
	return nil
}

func (q *Queries) GetStatement(ctx context.Context, id string) (core.Statement, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+statementColumns+" FROM credit_card_statements WHERE id = ?", id)
	s, err := scanStatement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Statement{}, fmt.Errorf("statement %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Statement{}, fmt.Errorf("get statement: %w", err)
	}
	return s, nil
}

// FindStatementByPeriod looks up the statement keyed by (card, period).
// The period is the deduplication key: StatementPeriod is pure, so the
// same transaction date always lands here.
func (q *Queries) FindStatementByPeriod(ctx context.Context, cardID string, period core.Period) (core.Statement, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+statementColumns+" FROM credit_card_statements WHERE credit_card_id = ? AND period_start = ? AND period_end = ?",
		cardID, period.Start.String(), period.End.String())
	s, err := scanStatement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Statement{}, core.ErrNotFound
	}
	if err != nil {
		return core.Statement{}, fmt.Errorf("find statement by period: %w", err)
	}
	return s, nil
}

func (q *Queries) ListStatementsByCard(ctx context.Context, cardID string) ([]core.Statement, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+statementColumns+" FROM credit_card_statements WHERE credit_card_id = ? ORDER BY period_end DESC",
		cardID)
	if err != nil {
		return nil, fmt.Errorf("list statements by card: %w", err)
	}
	return collectStatements(rows)
}

// ListUnpaidStatements returns open statements, newest period first.
// An empty cardID means all cards.
func (q *Queries) ListUnpaidStatements(ctx context.Context, cardID string) ([]core.Statement, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if cardID == "" {
		rows, err = q.db.QueryContext(ctx,
			"SELECT "+statementColumns+" FROM credit_card_statements WHERE status = 'open' ORDER BY period_end DESC")
	} else {
		rows, err = q.db.QueryContext(ctx,
			"SELECT "+statementColumns+" FROM credit_card_statements WHERE credit_card_id = ? AND status = 'open' ORDER BY period_end DESC",
			cardID)
	}
	if err != nil {
		return nil, fmt.Errorf("list unpaid statements: %w", err)
	}
	return collectStatements(rows)
}

func collectStatements(rows *sql.Rows) ([]core.Statement, error) {
	defer rows.Close()
	var statements []core.Statement
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		statements = append(statements, s)
	}
	return statements, rows.Err()
}

// SumStatementEntries recomputes the statement total from the live ledger.
// Totals are never trusted from storage, so they cannot drift from the
// entries even after out-of-band edits.
func (q *Queries) SumStatementEntries(ctx context.Context, statementID string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM entries WHERE statement_id = ?",
		statementID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum statement entries: %w", err)
	}
	return total, nil
}

func (q *Queries) MarkStatementPaid(ctx context.Context, id string, paidDate core.Date) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE credit_card_statements SET status = 'paid', paid_date = ? WHERE id = ?",
		paidDate.String(), id)
	if err != nil {
		return fmt.Errorf("mark statement paid: %w", err)
	}
	return ensureRowFound(res, id)
}

// CloseStatementEntries bulk-closes every entry on the statement. This is
// the settlement path, the only sanctioned way credit entries close.
func (q *Queries) CloseStatementEntries(ctx context.Context, statementID string) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE entries SET status = 'closed' WHERE statement_id = ?",
		statementID)
	if err != nil {
		return fmt.Errorf("close statement entries: %w", err)
	}
	return nil
}

func (q *Queries) ListStatementEntries(ctx context.Context, statementID string) ([]core.Entry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+entryJoinedColumns+`
		FROM entries e
		JOIN expenses exp ON e.expense_id = exp.id
		WHERE e.statement_id = ?
		ORDER BY exp.date DESC, e.created_at DESC`,
		statementID)
	if err != nil {
		return nil, fmt.Errorf("list statement entries: %w", err)
	}
	return q.collectEntries(ctx, rows)
}

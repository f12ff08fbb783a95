package storage

import (
	"context"
	"fmt"

	"badger/internal/core"
)

// Bulk listing used by export. Each method returns every row of its table
// in a stable order so exports diff cleanly.

func (q *Queries) ListAllStatements(ctx context.Context) ([]core.Statement, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+statementColumns+" FROM credit_card_statements ORDER BY period_start, credit_card_id")
	if err != nil {
		return nil, fmt.Errorf("list all statements: %w", err)
	}
	return collectStatements(rows)
}

func (q *Queries) ListAllExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, date, created_at FROM expenses ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("list all expenses: %w", err)
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

func (q *Queries) ListAllEntries(ctx context.Context) ([]core.Entry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+entryJoinedColumns+`
		FROM entries e
		JOIN expenses exp ON e.expense_id = exp.id
		ORDER BY e.created_at, e.id`)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	return q.collectEntries(ctx, rows)
}

func (q *Queries) ListAllIncome(ctx context.Context) ([]core.Income, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+incomeColumns+" FROM income ORDER BY date, created_at")
	if err != nil {
		return nil, fmt.Errorf("list all income: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, i)
	}
	return incomes, rows.Err()
}

func (q *Queries) ListAllMonthClose(ctx context.Context) ([]core.MonthClose, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, year, month, status, closed_at FROM month_close ORDER BY year, month")
	if err != nil {
		return nil, fmt.Errorf("list all month close: %w", err)
	}
	defer rows.Close()

	var months []core.MonthClose
	for rows.Next() {
		m, err := scanMonthClose(rows)
		if err != nil {
			return nil, fmt.Errorf("scan month close: %w", err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

// WipeAll deletes every ledger and reference row in dependency order.
// Import runs this before reloading; the settings row survives and is
// updated in place.
func (q *Queries) WipeAll(ctx context.Context) error {
	// The surviving settings row references modes and categories; clear
	// those links before the tables they point into go away.
	if _, err := q.db.ExecContext(ctx,
		"UPDATE settings SET settlement_mode_id = NULL, settlement_category_id = NULL"); err != nil {
		return fmt.Errorf("clear settings references: %w", err)
	}

	tables := []string{
		"entry_tags",
		"entries",
		"expenses",
		"credit_card_statements",
		"income",
		"month_close",
		"tags",
		"modes",
		"credit_cards",
		"categories",
		"accounts",
	}

	for _, table := range tables {
		if _, err := q.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}
	return nil
}

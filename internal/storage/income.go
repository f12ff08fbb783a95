package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"badger/internal/core"
)

const incomeColumns = "id, date, source, amount_cents, account_id, created_at"

func scanIncome(row interface{ Scan(...any) error }) (core.Income, error) {
	var (
		i         core.Income
		date      string
		createdAt string
	)
	if err := row.Scan(&i.ID, &date, &i.Source, &i.Amount.Cents, &i.AccountID, &createdAt); err != nil {
		return core.Income{}, err
	}
	var err error
	if i.Date, err = core.ParseDate(date); err != nil {
		return core.Income{}, err
	}
	i.CreatedAt = parseTimestamp(createdAt)
	return i, nil
}

func (q *Queries) CreateIncome(ctx context.Context, i core.Income) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO income (id, date, source, amount_cents, account_id) VALUES (?, ?, ?, ?, ?)",
		i.ID, i.Date.String(), i.Source, i.Amount.Cents, i.AccountID)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

func (q *Queries) GetIncome(ctx context.Context, id string) (core.Income, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+incomeColumns+" FROM income WHERE id = ?", id)
	i, err := scanIncome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, fmt.Errorf("income %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	return i, nil
}

func (q *Queries) UpdateIncome(ctx context.Context, i core.Income) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE income SET date = ?, source = ?, amount_cents = ?, account_id = ? WHERE id = ?",
		i.Date.String(), i.Source, i.Amount.Cents, i.AccountID, i.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return ensureRowFound(res, i.ID)
}

func (q *Queries) DeleteIncome(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM income WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return ensureRowFound(res, id)
}

// ListIncomeBetween returns income rows with date in [start, end), newest first.
func (q *Queries) ListIncomeBetween(ctx context.Context, start, end core.Date) ([]core.Income, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+incomeColumns+" FROM income WHERE date >= ? AND date < ? ORDER BY date DESC, created_at DESC",
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
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

func (q *Queries) SumIncomeBetween(ctx context.Context, start, end core.Date) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM income WHERE date >= ? AND date < ?",
		start.String(), end.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum income: %w", err)
	}
	return total, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"badger/internal/core"
)

const accountColumns = "id, name, opening_balance_cents, is_active, sort_order, created_at"

func scanAccount(row interface{ Scan(...any) error }) (core.Account, error) {
	var (
		a         core.Account
		isActive  int64
		createdAt string
	)
	err := row.Scan(&a.ID, &a.Name, &a.OpeningBalance.Cents, &isActive, &a.SortOrder, &createdAt)
	if err != nil {
		return core.Account{}, err
	}
	a.IsActive = isActive == 1
	a.CreatedAt = parseTimestamp(createdAt)
	return a, nil
}

func (q *Queries) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, opening_balance_cents, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.OpeningBalance.Cents, boolToInt(a.IsActive), a.SortOrder)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (q *Queries) GetAccount(ctx context.Context, id string) (core.Account, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (q *Queries) ListAccounts(ctx context.Context, includeInactive bool) ([]core.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE is_active = 1 ORDER BY sort_order, name"
	if includeInactive {
		query = "SELECT " + accountColumns + " FROM accounts ORDER BY sort_order, name"
	}
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (q *Queries) UpdateAccount(ctx context.Context, a core.Account) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, opening_balance_cents = ?, is_active = ?, sort_order = ?
		WHERE id = ?`,
		a.Name, a.OpeningBalance.Cents, boolToInt(a.IsActive), a.SortOrder, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return ensureRowFound(res, a.ID)
}

func (q *Queries) MaxAccountOrder(ctx context.Context) (int, error) {
	var max sql.NullInt64
	if err := q.db.QueryRowContext(ctx, "SELECT MAX(sort_order) FROM accounts").Scan(&max); err != nil {
		return 0, fmt.Errorf("max account order: %w", err)
	}
	return int(max.Int64), nil
}

// SumIncomeByAccount is the income leg of the balance projection.
func (q *Queries) SumIncomeByAccount(ctx context.Context, accountID string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM income WHERE account_id = ?",
		accountID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum income by account: %w", err)
	}
	return total, nil
}

// SumClosedEntriesByAccount is the expense leg of the balance projection.
// Open credit entries are excluded: money has not left the account until
// the statement is paid.
func (q *Queries) SumClosedEntriesByAccount(ctx context.Context, accountID string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM entries WHERE account_id = ? AND status = 'closed'",
		accountID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum closed entries by account: %w", err)
	}
	return total, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func ensureRowFound(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("row %s: %w", id, core.ErrNotFound)
	}
	return nil
}

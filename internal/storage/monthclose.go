package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"badger/internal/core"
)

func scanMonthClose(row interface{ Scan(...any) error }) (core.MonthClose, error) {
	var (
		m        core.MonthClose
		status   string
		closedAt sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Year, &m.Month, &status, &closedAt); err != nil {
		return core.MonthClose{}, err
	}
	m.Status = core.MonthStatus(status)
	if closedAt.Valid {
		t := parseTimestamp(closedAt.String)
		m.ClosedAt = &t
	}
	return m, nil
}

func (q *Queries) GetMonthClose(ctx context.Context, year, month int) (core.MonthClose, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT id, year, month, status, closed_at FROM month_close WHERE year = ? AND month = ?",
		year, month)
	m, err := scanMonthClose(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthClose{}, core.ErrNotFound
	}
	if err != nil {
		return core.MonthClose{}, fmt.Errorf("get month close: %w", err)
	}
	return m, nil
}

// UpsertMonthClose writes the lock row for (year, month), creating it on
// first close.
func (q *Queries) UpsertMonthClose(ctx context.Context, m core.MonthClose) error {
	var closedAt sql.NullString
	if m.ClosedAt != nil {
		closedAt = sql.NullString{String: formatTimestamp(*m.ClosedAt), Valid: true}
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO month_close (id, year, month, status, closed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (year, month) DO UPDATE SET status = excluded.status, closed_at = excluded.closed_at`,
		m.ID, m.Year, m.Month, string(m.Status), closedAt)
	if err != nil {
		return fmt.Errorf("upsert month close: %w", err)
	}
	return nil
}

func (q *Queries) ListClosedMonths(ctx context.Context) ([]core.MonthClose, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, year, month, status, closed_at FROM month_close WHERE status = 'closed' ORDER BY year DESC, month DESC")
	if err != nil {
		return nil, fmt.Errorf("list closed months: %w", err)
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

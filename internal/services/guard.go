// Package services orchestrates ledger operations over the SQLite
// repository: entry and income writes behind the month-close guard,
// lazy statement resolution for credit entries, and the atomic
// settlement transaction.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"badger/internal/core"
	"badger/internal/storage"
)

// ensureMonthOpen rejects mutations dated inside a closed month. Reads are
// never guarded.
func ensureMonthOpen(ctx context.Context, q *storage.Queries, d core.Date) error {
	mc, err := q.GetMonthClose(ctx, d.Year(), d.Month())
	if errors.Is(err, core.ErrNotFound) {
		// No row means the month has never been closed.
		return nil
	}
	if err != nil {
		return err
	}
	if mc.IsClosed() {
		return fmt.Errorf("%d-%02d: %w", d.Year(), d.Month(), core.ErrMonthLocked)
	}
	return nil
}

// resolveStatement returns the statement covering date for the card,
// creating it if this is the first transaction in the period. The total
// is recomputed live from the linked entries.
func resolveStatement(ctx context.Context, q *storage.Queries, card core.CreditCard, date core.Date) (core.Statement, error) {
	period, err := core.StatementPeriod(card.ClosingDay, date)
	if err != nil {
		return core.Statement{}, err
	}

	statement, err := q.FindStatementByPeriod(ctx, card.ID, period)
	if errors.Is(err, core.ErrNotFound) {
		statement = core.Statement{
			ID:          uuid.NewString(),
			CardID:      card.ID,
			PeriodStart: period.Start,
			PeriodEnd:   period.End,
			Status:      core.StatementOpen,
		}
		if err := q.CreateStatement(ctx, statement); err != nil {
			return core.Statement{}, err
		}
	} else if err != nil {
		return core.Statement{}, err
	}

	total, err := q.SumStatementEntries(ctx, statement.ID)
	if err != nil {
		return core.Statement{}, err
	}
	statement.TotalAmount = core.Money{Cents: total}
	return statement, nil
}

// monthBounds returns the [start, end) date range of a calendar month.
func monthBounds(year, month int) (core.Date, core.Date) {
	start := core.NewDate(year, month, 1)
	if month == 12 {
		return start, core.NewDate(year+1, 1, 1)
	}
	return start, core.NewDate(year, month+1, 1)
}

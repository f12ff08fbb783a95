package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"badger/internal/core"
	"badger/internal/log"
	"badger/internal/statemachine"
	"badger/internal/storage"
)

// MonthCloseService drives the per-month write lock. Closing a month is
// reversible and never rewrites ledger rows; it only gates mutations.
type MonthCloseService struct {
	repo *storage.SQLiteRepository
}

func NewMonthCloseService(repo *storage.SQLiteRepository) *MonthCloseService {
	return &MonthCloseService{repo: repo}
}

// CloseMonth locks (year, month) against entry and income mutations.
func (s *MonthCloseService) CloseMonth(ctx context.Context, year, month int) (core.MonthClose, error) {
	return s.transition(ctx, year, month, func(mc *core.MonthClose) error {
		return statemachine.NewMonthFSM(mc).Close(ctx, time.Now())
	})
}

// ReopenMonth lifts the lock again.
func (s *MonthCloseService) ReopenMonth(ctx context.Context, year, month int) (core.MonthClose, error) {
	return s.transition(ctx, year, month, func(mc *core.MonthClose) error {
		return statemachine.NewMonthFSM(mc).Reopen(ctx)
	})
}

// IsMonthClosed reports the lock state; a month with no row is open.
func (s *MonthCloseService) IsMonthClosed(ctx context.Context, year, month int) (bool, error) {
	if err := validateYearMonth(year, month); err != nil {
		return false, err
	}

	mc, err := s.repo.Queries().GetMonthClose(ctx, year, month)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return mc.IsClosed(), nil
}

func (s *MonthCloseService) ListClosed(ctx context.Context) ([]core.MonthClose, error) {
	return s.repo.Queries().ListClosedMonths(ctx)
}

func (s *MonthCloseService) transition(ctx context.Context, year, month int, step func(*core.MonthClose) error) (core.MonthClose, error) {
	if err := validateYearMonth(year, month); err != nil {
		return core.MonthClose{}, err
	}

	var mc core.MonthClose
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		var err error
		mc, err = q.GetMonthClose(ctx, year, month)
		if errors.Is(err, core.ErrNotFound) {
			mc = core.MonthClose{
				ID:     uuid.NewString(),
				Year:   year,
				Month:  month,
				Status: core.MonthOpen,
			}
		} else if err != nil {
			return err
		}

		if err := step(&mc); err != nil {
			return err
		}
		return q.UpsertMonthClose(ctx, mc)
	})
	if err != nil {
		return core.MonthClose{}, err
	}

	slog.InfoContext(ctx, "Month lock changed",
		log.FieldYear, year, log.FieldMonth, month, "status", string(mc.Status))
	return mc, nil
}

func validateYearMonth(year, month int) error {
	if year < 1 {
		return core.NewValidationError("year", "must be positive")
	}
	if month < 1 || month > 12 {
		return core.NewValidationError("month", "must be between 1 and 12")
	}
	return nil
}

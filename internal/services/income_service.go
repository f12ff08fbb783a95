package services

import (
	"context"

	"github.com/google/uuid"

	"badger/internal/core"
	"badger/internal/storage"
)

// IncomeService manages the income ledger. Writes go through the same
// month-close guard as entries.
type IncomeService struct {
	repo *storage.SQLiteRepository
}

func NewIncomeService(repo *storage.SQLiteRepository) *IncomeService {
	return &IncomeService{repo: repo}
}

// IncomePatch updates an income row. Nil fields are left unchanged.
type IncomePatch struct {
	Date      *core.Date
	Source    *string
	Amount    *core.Money
	AccountID *string
}

func (s *IncomeService) CreateIncome(ctx context.Context, income core.Income) (core.Income, error) {
	income.ID = uuid.NewString()
	if err := income.Validate(); err != nil {
		return core.Income{}, err
	}

	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		if err := ensureMonthOpen(ctx, q, income.Date); err != nil {
			return err
		}
		if _, err := q.GetAccount(ctx, income.AccountID); err != nil {
			return err
		}
		return q.CreateIncome(ctx, income)
	})
	if err != nil {
		return core.Income{}, err
	}
	return s.repo.Queries().GetIncome(ctx, income.ID)
}

// UpdateIncome applies a patch. Moving income between months requires
// both months open.
func (s *IncomeService) UpdateIncome(ctx context.Context, id string, patch IncomePatch) (core.Income, error) {
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		income, err := q.GetIncome(ctx, id)
		if err != nil {
			return err
		}

		oldDate := income.Date
		if patch.Date != nil {
			income.Date = *patch.Date
		}
		if patch.Source != nil {
			income.Source = *patch.Source
		}
		if patch.Amount != nil {
			income.Amount = *patch.Amount
		}
		if patch.AccountID != nil {
			income.AccountID = *patch.AccountID
		}
		if err := income.Validate(); err != nil {
			return err
		}

		if err := ensureMonthOpen(ctx, q, oldDate); err != nil {
			return err
		}
		if !income.Date.Equal(oldDate) {
			if err := ensureMonthOpen(ctx, q, income.Date); err != nil {
				return err
			}
		}
		if _, err := q.GetAccount(ctx, income.AccountID); err != nil {
			return err
		}
		return q.UpdateIncome(ctx, income)
	})
	if err != nil {
		return core.Income{}, err
	}
	return s.repo.Queries().GetIncome(ctx, id)
}

func (s *IncomeService) DeleteIncome(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(q *storage.Queries) error {
		income, err := q.GetIncome(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureMonthOpen(ctx, q, income.Date); err != nil {
			return err
		}
		return q.DeleteIncome(ctx, id)
	})
}

func (s *IncomeService) GetIncome(ctx context.Context, id string) (core.Income, error) {
	return s.repo.Queries().GetIncome(ctx, id)
}

// MonthIncome lists income rows of a calendar month, oldest first.
func (s *IncomeService) MonthIncome(ctx context.Context, year, month int) ([]core.Income, error) {
	if month < 1 || month > 12 {
		return nil, core.NewValidationError("month", "must be between 1 and 12")
	}
	start, end := monthBounds(year, month)
	return s.repo.Queries().ListIncomeBetween(ctx, start, end)
}

// MonthIncomeTotal sums income of a calendar month.
func (s *IncomeService) MonthIncomeTotal(ctx context.Context, year, month int) (core.Money, error) {
	if month < 1 || month > 12 {
		return core.Money{}, core.NewValidationError("month", "must be between 1 and 12")
	}
	start, end := monthBounds(year, month)
	total, err := s.repo.Queries().SumIncomeBetween(ctx, start, end)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: total}, nil
}

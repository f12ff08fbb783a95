package services

import (
	"context"

	"github.com/google/uuid"

	"badger/internal/core"
	"badger/internal/storage"
)

// AccountService manages accounts and projects their derived balances.
// Balances are never stored: each one is opening balance plus all income
// minus all closed entries for the account.
type AccountService struct {
	repo *storage.SQLiteRepository
}

func NewAccountService(repo *storage.SQLiteRepository) *AccountService {
	return &AccountService{repo: repo}
}

// AccountPatch updates an account. Nil fields are left unchanged.
type AccountPatch struct {
	Name           *string
	OpeningBalance *core.Money
	IsActive       *bool
	SortOrder      *int
}

func (s *AccountService) CreateAccount(ctx context.Context, name string, openingBalance core.Money) (core.Account, error) {
	account := core.Account{
		ID:             uuid.NewString(),
		Name:           name,
		OpeningBalance: openingBalance,
		IsActive:       true,
	}
	if err := account.Validate(); err != nil {
		return core.Account{}, err
	}

	q := s.repo.Queries()
	maxOrder, err := q.MaxAccountOrder(ctx)
	if err != nil {
		return core.Account{}, err
	}
	account.SortOrder = maxOrder + 1

	if err := q.CreateAccount(ctx, account); err != nil {
		return core.Account{}, err
	}
	return q.GetAccount(ctx, account.ID)
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (core.Account, error) {
	return s.repo.Queries().GetAccount(ctx, id)
}

func (s *AccountService) ListAccounts(ctx context.Context, includeInactive bool) ([]core.Account, error) {
	return s.repo.Queries().ListAccounts(ctx, includeInactive)
}

func (s *AccountService) UpdateAccount(ctx context.Context, id string, patch AccountPatch) (core.Account, error) {
	q := s.repo.Queries()

	account, err := q.GetAccount(ctx, id)
	if err != nil {
		return core.Account{}, err
	}
	if patch.Name != nil {
		account.Name = *patch.Name
	}
	if patch.OpeningBalance != nil {
		account.OpeningBalance = *patch.OpeningBalance
	}
	if patch.IsActive != nil {
		account.IsActive = *patch.IsActive
	}
	if patch.SortOrder != nil {
		account.SortOrder = *patch.SortOrder
	}
	if err := account.Validate(); err != nil {
		return core.Account{}, err
	}

	if err := q.UpdateAccount(ctx, account); err != nil {
		return core.Account{}, err
	}
	return q.GetAccount(ctx, id)
}

// Balance projects the derived balance of one account. Inactive accounts
// still project; deactivation hides, never deletes.
func (s *AccountService) Balance(ctx context.Context, id string) (core.AccountBalance, error) {
	q := s.repo.Queries()

	account, err := q.GetAccount(ctx, id)
	if err != nil {
		return core.AccountBalance{}, err
	}
	return s.project(ctx, q, account)
}

// AllBalances projects every active account in sort order.
func (s *AccountService) AllBalances(ctx context.Context) ([]core.AccountBalance, error) {
	q := s.repo.Queries()

	accounts, err := q.ListAccounts(ctx, false)
	if err != nil {
		return nil, err
	}

	balances := make([]core.AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		b, err := s.project(ctx, q, account)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, nil
}

func (s *AccountService) project(ctx context.Context, q *storage.Queries, account core.Account) (core.AccountBalance, error) {
	income, err := q.SumIncomeByAccount(ctx, account.ID)
	if err != nil {
		return core.AccountBalance{}, err
	}
	expense, err := q.SumClosedEntriesByAccount(ctx, account.ID)
	if err != nil {
		return core.AccountBalance{}, err
	}

	return core.AccountBalance{
		AccountID:      account.ID,
		AccountName:    account.Name,
		OpeningBalance: account.OpeningBalance,
		TotalIncome:    core.Money{Cents: income},
		TotalExpense:   core.Money{Cents: expense},
		CurrentBalance: core.Money{Cents: account.OpeningBalance.Cents + income - expense},
	}, nil
}

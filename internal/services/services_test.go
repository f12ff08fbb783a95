package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"badger/internal/core"
	"badger/internal/storage"
)

// fixture wires a repository on a throwaway database with the reference
// rows most tests need: one bank account, one category, one cash mode,
// and one credit card with its credit mode (closing day 5).
type fixture struct {
	repo       *storage.SQLiteRepository
	account    core.Account
	category   core.Category
	cashMode   core.Mode
	card       core.CreditCard
	creditMode core.Mode

	entries     *EntryService
	statements  *StatementService
	settlements *SettlementService
	accounts    *AccountService
	cards       *CardService
	income      *IncomeService
	months      *MonthCloseService
	refs        *ReferenceService
	backups     *BackupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	f := &fixture{
		repo:        repo,
		entries:     NewEntryService(repo),
		statements:  NewStatementService(repo),
		settlements: NewSettlementService(repo),
		accounts:    NewAccountService(repo),
		cards:       NewCardService(repo),
		income:      NewIncomeService(repo),
		months:      NewMonthCloseService(repo),
		refs:        NewReferenceService(repo),
		backups:     NewBackupService(repo),
	}

	f.account, err = f.accounts.CreateAccount(ctx, "Primary Bank", core.Money{Cents: 0})
	require.NoError(t, err)

	f.category, err = f.refs.CreateCategory(ctx, "Food", 1)
	require.NoError(t, err)

	f.cashMode, err = f.refs.CreateMode(ctx, core.Mode{Name: "Cash"})
	require.NoError(t, err)

	f.card, err = f.cards.CreateCard(ctx, "Platinum", 5, 20)
	require.NoError(t, err)

	f.creditMode, err = f.refs.CreateMode(ctx, core.Mode{
		Name: "Platinum Card", IsCredit: true, CreditCardID: f.card.ID,
	})
	require.NoError(t, err)

	return f
}

// entry builds a valid input against the fixture's reference rows.
func (f *fixture) entry(date core.Date, name string, cents int64, modeID string) EntryInput {
	return EntryInput{
		Date:       date,
		Name:       name,
		Amount:     core.Money{Cents: cents},
		ModeID:     modeID,
		CategoryID: f.category.ID,
		AccountID:  f.account.ID,
		Necessity:  core.NecessityNecessary,
		Type:       core.TypeExpense,
	}
}

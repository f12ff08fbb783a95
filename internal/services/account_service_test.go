package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badger/internal/core"
)

func TestBalanceDerivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account, err := f.accounts.CreateAccount(ctx, "Savings", core.Money{Cents: 100000})
	require.NoError(t, err)

	_, err = f.income.CreateIncome(ctx, core.Income{
		Date: core.NewDate(2025, 1, 1), Source: "Salary",
		Amount: core.Money{Cents: 500000}, AccountID: account.ID,
	})
	require.NoError(t, err)

	// Closed entry hits the balance.
	closedIn := f.entry(core.NewDate(2025, 1, 5), "Rent", 200000, f.cashMode.ID)
	closedIn.AccountID = account.ID
	closedIn.Status = core.StatusClosed
	_, err = f.entries.CreateEntry(ctx, closedIn)
	require.NoError(t, err)

	// Open entry does not, until it closes.
	openIn := f.entry(core.NewDate(2025, 1, 6), "Pending order", 50000, f.cashMode.ID)
	openIn.AccountID = account.ID
	openIn.Status = core.StatusOpen
	open, err := f.entries.CreateEntry(ctx, openIn)
	require.NoError(t, err)

	balance, err := f.accounts.Balance(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance.OpeningBalance.Cents)
	assert.Equal(t, int64(500000), balance.TotalIncome.Cents)
	assert.Equal(t, int64(200000), balance.TotalExpense.Cents)
	assert.Equal(t, int64(400000), balance.CurrentBalance.Cents)

	closed := core.StatusClosed
	_, err = f.entries.UpdateEntry(ctx, open.ID, EntryPatch{Status: &closed})
	require.NoError(t, err)

	balance, err = f.accounts.Balance(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), balance.TotalExpense.Cents)
	assert.Equal(t, int64(350000), balance.CurrentBalance.Cents)
}

func TestSettlementMovesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	spend, err := f.accounts.CreateAccount(ctx, "Card Ledger", core.Money{Cents: 100000})
	require.NoError(t, err)
	paying, err := f.accounts.CreateAccount(ctx, "Checking", core.Money{Cents: 100000})
	require.NoError(t, err)

	// Open credit spend: no balance impact until settlement.
	in := f.entry(core.NewDate(2025, 1, 3), "Credit buy", 30000, f.creditMode.ID)
	in.AccountID = spend.ID
	entry, err := f.entries.CreateEntry(ctx, in)
	require.NoError(t, err)

	balance, err := f.accounts.Balance(ctx, spend.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance.CurrentBalance.Cents)

	_, err = f.settlements.PayStatement(ctx, entry.StatementID, paying.ID, core.NewDate(2025, 1, 10))
	require.NoError(t, err)

	// Settlement closes the spend entry and posts the cash-out against
	// the paying account.
	balance, err = f.accounts.Balance(ctx, spend.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), balance.CurrentBalance.Cents)

	balance, err = f.accounts.Balance(ctx, paying.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), balance.CurrentBalance.Cents)
}

func TestInactiveAccountStillProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive := false
	_, err := f.accounts.UpdateAccount(ctx, f.account.ID, AccountPatch{IsActive: &inactive})
	require.NoError(t, err)

	// Hidden from the default listing.
	balances, err := f.accounts.AllBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, balances)

	// But still queryable directly.
	balance, err := f.accounts.Balance(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, f.account.ID, balance.AccountID)
}

func TestAccountSortOrderAssigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second, err := f.accounts.CreateAccount(ctx, "Second", core.Money{})
	require.NoError(t, err)
	assert.Greater(t, second.SortOrder, f.account.SortOrder)
}

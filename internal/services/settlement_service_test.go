package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badger/internal/core"
)

func TestPayStatementSettlesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e1, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 3), "First", 50000, f.creditMode.ID))
	require.NoError(t, err)
	_, err = f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 5), "Second", 30000, f.creditMode.ID))
	require.NoError(t, err)

	paid, err := f.settlements.PayStatement(ctx, e1.StatementID, f.account.ID, core.NewDate(2025, 1, 10))
	require.NoError(t, err)

	assert.Equal(t, core.StatementPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, core.NewDate(2025, 1, 10), *paid.PaidDate)
	assert.Equal(t, int64(80000), paid.TotalAmount.Cents)

	// Every linked entry is closed.
	statement, err := f.statements.Get(ctx, e1.StatementID)
	require.NoError(t, err)
	for _, e := range statement.Entries {
		assert.Equal(t, core.StatusClosed, e.Status)
	}

	// The cash-out entry lands on the paid date, closed, for the full
	// statement amount.
	day, err := f.entries.DayView(ctx, core.NewDate(2025, 1, 10))
	require.NoError(t, err)
	require.Len(t, day.Entries, 1)
	cashOut := day.Entries[0]
	assert.Equal(t, int64(80000), cashOut.Amount.Cents)
	assert.Equal(t, core.StatusClosed, cashOut.Status)
	assert.Equal(t, f.account.ID, cashOut.AccountID)
	assert.Empty(t, cashOut.StatementID)
}

func TestPayStatementTwiceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 3), "Buy", 1000, f.creditMode.ID))
	require.NoError(t, err)

	_, err = f.settlements.PayStatement(ctx, entry.StatementID, f.account.ID, core.NewDate(2025, 1, 10))
	require.NoError(t, err)

	_, err = f.settlements.PayStatement(ctx, entry.StatementID, f.account.ID, core.NewDate(2025, 1, 11))
	assert.ErrorIs(t, err, core.ErrAlreadyPaid)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	// The one cash-out entry from the first settlement is all there is.
	day, err := f.entries.DayView(ctx, core.NewDate(2025, 1, 10))
	require.NoError(t, err)
	assert.Len(t, day.Entries, 1)
}

func TestPayEmptyStatementSkipsCashOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 3), "Refunded", 1000, f.creditMode.ID))
	require.NoError(t, err)
	statementID := entry.StatementID
	require.NoError(t, f.entries.DeleteEntry(ctx, entry.ID))

	paid, err := f.settlements.PayStatement(ctx, statementID, f.account.ID, core.NewDate(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(0), paid.TotalAmount.Cents)

	// No synthetic entry for a zero total.
	_, err = f.entries.DayView(ctx, core.NewDate(2025, 1, 10))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPayStatementUsesConfiguredSettlementRefs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	billsCategory, err := f.refs.CreateCategory(ctx, "Bills", 2)
	require.NoError(t, err)
	bankMode, err := f.refs.CreateMode(ctx, core.Mode{Name: "Bank Transfer"})
	require.NoError(t, err)

	_, err = f.refs.UpdateSettings(ctx, core.Settings{
		Currency:             "INR",
		SettlementModeID:     bankMode.ID,
		SettlementCategoryID: billsCategory.ID,
	})
	require.NoError(t, err)

	entry, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 3), "Buy", 5000, f.creditMode.ID))
	require.NoError(t, err)
	_, err = f.settlements.PayStatement(ctx, entry.StatementID, f.account.ID, core.NewDate(2025, 1, 10))
	require.NoError(t, err)

	day, err := f.entries.DayView(ctx, core.NewDate(2025, 1, 10))
	require.NoError(t, err)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, bankMode.ID, day.Entries[0].ModeID)
	assert.Equal(t, billsCategory.ID, day.Entries[0].CategoryID)
}

func TestPayStatementInClosedMonthRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 3), "Buy", 1000, f.creditMode.ID))
	require.NoError(t, err)

	_, err = f.months.CloseMonth(ctx, 2025, 2)
	require.NoError(t, err)

	_, err = f.settlements.PayStatement(ctx, entry.StatementID, f.account.ID, core.NewDate(2025, 2, 10))
	assert.ErrorIs(t, err, core.ErrMonthLocked)

	// The statement is untouched by the failed attempt.
	statement, err := f.statements.Get(ctx, entry.StatementID)
	require.NoError(t, err)
	assert.Equal(t, core.StatementOpen, statement.Status)
	assert.Equal(t, core.StatusOpen, statement.Entries[0].Status)
}

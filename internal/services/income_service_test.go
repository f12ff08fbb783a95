package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badger/internal/core"
)

func TestIncomeLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	income, err := f.income.CreateIncome(ctx, core.Income{
		Date: core.NewDate(2025, 1, 1), Source: "Salary",
		Amount: core.Money{Cents: 500000}, AccountID: f.account.ID,
	})
	require.NoError(t, err)

	amount := core.Money{Cents: 550000}
	income, err = f.income.UpdateIncome(ctx, income.ID, IncomePatch{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, int64(550000), income.Amount.Cents)

	total, err := f.income.MonthIncomeTotal(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(550000), total.Cents)

	rows, err := f.income.MonthIncome(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, f.income.DeleteIncome(ctx, income.ID))
	_, err = f.income.GetIncome(ctx, income.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestIncomeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.income.CreateIncome(ctx, core.Income{
		Date: core.NewDate(2025, 1, 1), Source: " ",
		Amount: core.Money{Cents: 1000}, AccountID: f.account.ID,
	})
	assert.True(t, core.IsValidation(err))

	_, err = f.income.CreateIncome(ctx, core.Income{
		Date: core.NewDate(2025, 1, 1), Source: "Salary",
		Amount: core.Money{Cents: 1000}, AccountID: "missing",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMovingIncomeGuardsBothMonths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	income, err := f.income.CreateIncome(ctx, core.Income{
		Date: core.NewDate(2025, 1, 1), Source: "Salary",
		Amount: core.Money{Cents: 1000}, AccountID: f.account.ID,
	})
	require.NoError(t, err)

	_, err = f.months.CloseMonth(ctx, 2025, 1)
	require.NoError(t, err)

	// Source month locked: the row cannot move out either.
	target := core.NewDate(2025, 2, 1)
	_, err = f.income.UpdateIncome(ctx, income.ID, IncomePatch{Date: &target})
	assert.ErrorIs(t, err, core.ErrMonthLocked)

	err = f.income.DeleteIncome(ctx, income.ID)
	assert.ErrorIs(t, err, core.ErrMonthLocked)
}

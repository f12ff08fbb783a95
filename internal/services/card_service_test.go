package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badger/internal/core"
)

func TestCreateCardValidatesDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cards.CreateCard(ctx, "Bad card", 0, 15)
	assert.True(t, core.IsValidation(err))
	_, err = f.cards.CreateCard(ctx, "Bad card", 5, 32)
	assert.True(t, core.IsValidation(err))
	_, err = f.cards.CreateCard(ctx, "  ", 5, 15)
	assert.ErrorIs(t, err, core.ErrEmptyName)
}

func TestDeactivateCardWithUnpaidStatementRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 3), "Buy", 1000, f.creditMode.ID))
	require.NoError(t, err)

	err = f.cards.DeactivateCard(ctx, f.card.ID)
	assert.ErrorIs(t, err, core.ErrConstraintViolation)

	// Once the statement is paid the card can retire.
	_, err = f.settlements.PayStatement(ctx, entry.StatementID, f.account.ID, core.NewDate(2025, 1, 10))
	require.NoError(t, err)

	require.NoError(t, f.cards.DeactivateCard(ctx, f.card.ID))

	card, err := f.cards.GetCard(ctx, f.card.ID)
	require.NoError(t, err)
	assert.False(t, card.IsActive)

	// History stays queryable after deactivation.
	statements, err := f.statements.ListByCard(ctx, f.card.ID)
	require.NoError(t, err)
	assert.Len(t, statements, 1)
}

func TestUpdateCardClosingDayAffectsOnlyNewPeriods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 3), "Old cycle", 1000, f.creditMode.ID))
	require.NoError(t, err)

	newClosing := 20
	_, err = f.cards.UpdateCard(ctx, f.card.ID, CardPatch{ClosingDay: &newClosing})
	require.NoError(t, err)

	after, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 2, 10), "New cycle", 1000, f.creditMode.ID))
	require.NoError(t, err)

	existing, err := f.statements.Get(ctx, before.StatementID)
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2025, 1, 5), existing.PeriodEnd)

	fresh, err := f.statements.Get(ctx, after.StatementID)
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2025, 2, 20), fresh.PeriodEnd)
}

func TestListUnpaidStatements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e1, err := f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 3), "First cycle", 1000, f.creditMode.ID))
	require.NoError(t, err)
	_, err = f.entries.CreateEntry(ctx, f.entry(core.NewDate(2025, 1, 6), "Second cycle", 2000, f.creditMode.ID))
	require.NoError(t, err)

	unpaid, err := f.statements.ListUnpaid(ctx, f.card.ID)
	require.NoError(t, err)
	assert.Len(t, unpaid, 2)

	_, err = f.settlements.PayStatement(ctx, e1.StatementID, f.account.ID, core.NewDate(2025, 1, 10))
	require.NoError(t, err)

	unpaid, err = f.statements.ListUnpaid(ctx, "")
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, int64(2000), unpaid[0].TotalAmount.Cents)

	_, err = f.statements.ListByCard(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

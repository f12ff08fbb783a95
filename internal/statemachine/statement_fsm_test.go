package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badger/internal/core"
)

func TestStatementFSMPayOnce(t *testing.T) {
	st := &core.Statement{ID: "s1", Status: core.StatementOpen}
	m := NewStatementFSM(st)

	paidDate := core.NewDate(2025, 1, 10)
	require.NoError(t, m.Pay(context.Background(), paidDate))
	assert.Equal(t, core.StatementPaid, st.Status)
	require.NotNil(t, st.PaidDate)
	assert.Equal(t, "2025-01-10", st.PaidDate.String())
}

func TestStatementFSMRejectsDoublePay(t *testing.T) {
	st := &core.Statement{ID: "s1", Status: core.StatementPaid}
	m := NewStatementFSM(st)

	err := m.Pay(context.Background(), core.NewDate(2025, 1, 11))
	require.ErrorIs(t, err, core.ErrAlreadyPaid)
	require.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestMonthFSMCycle(t *testing.T) {
	mc := &core.MonthClose{Year: 2025, Month: 1, Status: core.MonthOpen}
	m := NewMonthFSM(mc)
	ctx := context.Background()

	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.Close(ctx, now))
	assert.Equal(t, core.MonthClosed, mc.Status)
	require.NotNil(t, mc.ClosedAt)

	require.NoError(t, m.Reopen(ctx))
	assert.Equal(t, core.MonthOpen, mc.Status)
	assert.Nil(t, mc.ClosedAt)

	// no other transitions
	require.ErrorIs(t, m.Reopen(ctx), core.ErrInvalidTransition)
	require.NoError(t, m.Close(ctx, now))
	require.ErrorIs(t, m.Close(ctx, now), core.ErrInvalidTransition)
}

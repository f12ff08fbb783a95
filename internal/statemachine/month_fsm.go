package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"badger/internal/core"
)

// MonthFSM wraps a month-close record with its state machine.
type MonthFSM struct {
	month *core.MonthClose
	fsm   *fsm.FSM
}

// NewMonthFSM creates the state machine seeded from the month's current status.
func NewMonthFSM(month *core.MonthClose) *MonthFSM {
	m := &MonthFSM{month: month}

	m.fsm = fsm.NewFSM(
		string(month.Status),
		fsm.Events{
			{Name: "close", Src: []string{string(core.MonthOpen)}, Dst: string(core.MonthClosed)},
			{Name: "reopen", Src: []string{string(core.MonthClosed)}, Dst: string(core.MonthOpen)},
		},
		fsm.Callbacks{},
	)

	return m
}

// Close transitions the month to closed and stamps the close time.
func (m *MonthFSM) Close(ctx context.Context, at time.Time) error {
	if !m.fsm.Can("close") {
		return fmt.Errorf("month %d-%02d already closed: %w", m.month.Year, m.month.Month, core.ErrInvalidTransition)
	}

	if err := m.fsm.Event(ctx, "close"); err != nil {
		return fmt.Errorf("close month %d-%02d: %w", m.month.Year, m.month.Month, err)
	}

	m.month.Status = core.MonthStatus(m.fsm.Current())
	m.month.ClosedAt = &at
	return nil
}

// Reopen transitions the month back to open and clears the close time.
func (m *MonthFSM) Reopen(ctx context.Context) error {
	if !m.fsm.Can("reopen") {
		return fmt.Errorf("month %d-%02d is not closed: %w", m.month.Year, m.month.Month, core.ErrInvalidTransition)
	}

	if err := m.fsm.Event(ctx, "reopen"); err != nil {
		return fmt.Errorf("reopen month %d-%02d: %w", m.month.Year, m.month.Month, err)
	}

	m.month.Status = core.MonthStatus(m.fsm.Current())
	m.month.ClosedAt = nil
	return nil
}

// Current returns the current state
func (m *MonthFSM) Current() string {
	return m.fsm.Current()
}

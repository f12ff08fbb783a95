// Package statemachine makes the two ledger lifecycles explicit: a
// statement moves open→paid exactly once, a month toggles open↔closed.
// Illegal transitions surface as core errors instead of being checked
// ad hoc at every call site.
package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"badger/internal/core"
)

// StatementFSM wraps a statement with its state machine.
type StatementFSM struct {
	statement *core.Statement
	fsm       *fsm.FSM
}

// NewStatementFSM creates the state machine seeded from the statement's
// current status.
func NewStatementFSM(statement *core.Statement) *StatementFSM {
	s := &StatementFSM{statement: statement}

	s.fsm = fsm.NewFSM(
		string(statement.Status),
		fsm.Events{
			// open → paid, the only transition a statement ever makes
			{Name: "pay", Src: []string{string(core.StatementOpen)}, Dst: string(core.StatementPaid)},
		},
		fsm.Callbacks{},
	)

	return s
}

// Pay transitions the statement to paid and stamps the payment date.
// Paying an already-paid statement returns core.ErrAlreadyPaid.
func (s *StatementFSM) Pay(ctx context.Context, paidDate core.Date) error {
	if !s.fsm.Can("pay") {
		return fmt.Errorf("statement %s: %w", s.statement.ID, core.ErrAlreadyPaid)
	}

	if err := s.fsm.Event(ctx, "pay"); err != nil {
		return fmt.Errorf("pay statement %s: %w", s.statement.ID, err)
	}

	s.statement.Status = core.StatementStatus(s.fsm.Current())
	s.statement.PaidDate = &paidDate
	return nil
}

// Current returns the current state
func (s *StatementFSM) Current() string {
	return s.fsm.Current()
}

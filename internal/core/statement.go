package core

import "time"

const (
	StatementOpen StatementStatus = "open"
	StatementPaid StatementStatus = "paid"

	MonthOpen   MonthStatus = "open"
	MonthClosed MonthStatus = "closed"
)

type (
	StatementStatus string
	MonthStatus     string

	// Statement is one billing cycle of a credit card. It is created lazily
	// on the first transaction inside its period and never deleted.
	// TotalAmount is always the live sum of linked entries, never trusted
	// from storage.
	Statement struct {
		ID          string
		CardID      string
		PeriodStart Date
		PeriodEnd   Date
		TotalAmount Money
		Status      StatementStatus
		PaidDate    *Date
		CreatedAt   time.Time
	}

	// StatementWithEntries joins the member entries onto the statement.
	StatementWithEntries struct {
		Statement
		Entries []Entry
	}

	// MonthClose is the per-(year, month) write lock over the ledger.
	MonthClose struct {
		ID       string
		Year     int
		Month    int // 1-12
		Status   MonthStatus
		ClosedAt *time.Time
	}
)

// Paid reports whether the statement has been settled.
func (s Statement) Paid() bool {
	return s.Status == StatementPaid
}

// IsClosed reports whether the month rejects ledger mutations.
func (m MonthClose) IsClosed() bool {
	return m.Status == MonthClosed
}

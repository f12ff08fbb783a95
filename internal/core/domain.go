package core

import (
	"strings"
	"time"
)

type (
	// Account is a real-world money holder. Its balance is never stored;
	// it is always derived from the opening balance and the ledger.
	Account struct {
		ID             string
		Name           string
		OpeningBalance Money
		IsActive       bool
		SortOrder      int
		CreatedAt      time.Time
	}

	// Category is display/reporting reference data for entries.
	Category struct {
		ID        string
		Name      string
		IsActive  bool
		SortOrder int
		CreatedAt time.Time
	}

	// Mode is a payment method. Credit modes carry the card they bill to.
	Mode struct {
		ID           string
		Name         string
		IsCredit     bool
		CreditCardID string // set only when IsCredit
		IsActive     bool
		SortOrder    int
		CreatedAt    time.Time
	}

	// Tag is a free-form label attached to entries through a join table.
	Tag struct {
		ID        string
		Name      string
		IsActive  bool
		CreatedAt time.Time
	}

	// CreditCard holds the billing-cycle configuration for a card.
	CreditCard struct {
		ID         string
		Name       string
		ClosingDay int // 1-31
		DueDay     int // 1-31
		IsActive   bool
		SortOrder  int
		CreatedAt  time.Time
	}

	// AccountBalance is the derived balance projection for one account.
	AccountBalance struct {
		AccountID      string
		AccountName    string
		OpeningBalance Money
		TotalIncome    Money
		TotalExpense   Money
		CurrentBalance Money
	}
)

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return NewValidationError("closingDay", "must be between 1 and 31")
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return NewValidationError("dueDay", "must be between 1 and 31")
	}
	return nil
}

func (m Mode) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if m.IsCredit && m.CreditCardID == "" {
		return NewValidationError("creditCardId", "required for credit modes")
	}
	if !m.IsCredit && m.CreditCardID != "" {
		return NewValidationError("creditCardId", "only valid for credit modes")
	}
	return nil
}

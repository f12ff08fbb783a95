package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateParseRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-01-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2025-01-05" {
		t.Fatalf("round trip: got %s", d)
	}
	if _, err := ParseDate("05/01/2025"); err == nil {
		t.Fatal("expected error for bad layout")
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Fatalf("%d-%s: got %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestCreditCardValidate(t *testing.T) {
	good := CreditCard{Name: "Amex", ClosingDay: 5, DueDay: 15}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []CreditCard{
		{Name: "", ClosingDay: 5, DueDay: 15},
		{Name: "x", ClosingDay: 0, DueDay: 15},
		{Name: "x", ClosingDay: 32, DueDay: 15},
		{Name: "x", ClosingDay: 5, DueDay: 0},
		{Name: "x", ClosingDay: 5, DueDay: 32},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestModeValidate(t *testing.T) {
	if err := (Mode{Name: "UPI"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Mode{Name: "Credit", IsCredit: true, CreditCardID: "c1"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Mode{Name: "Credit", IsCredit: true}).Validate(); err == nil {
		t.Fatal("credit mode without card should fail")
	}
	if err := (Mode{Name: "Cash", CreditCardID: "c1"}).Validate(); err == nil {
		t.Fatal("non-credit mode with card should fail")
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Name:       "coffee",
		Amount:     Money{Cents: 450},
		ModeID:     "m1",
		CategoryID: "c1",
		AccountID:  "a1",
		Necessity:  NecessityUnnecessary,
		Type:       TypeExpense,
		Status:     StatusClosed,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Amount = Money{}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	bad = good
	bad.Necessity = "sometimes"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for bad necessity")
	}

	bad = good
	bad.Status = "pending"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for bad status")
	}
}

func TestErrAlreadyPaidIsInvalidTransition(t *testing.T) {
	if !errors.Is(ErrAlreadyPaid, ErrInvalidTransition) {
		t.Fatal("ErrAlreadyPaid must unwrap to ErrInvalidTransition")
	}
}

func TestExpenseWithEntriesSums(t *testing.T) {
	day := ExpenseWithEntries{
		Entries: []Entry{
			{Amount: Money{Cents: 500}, Necessity: NecessityNecessary, Status: StatusClosed},
			{Amount: Money{Cents: 300}, Necessity: NecessityUnnecessary, Status: StatusOpen},
			{Amount: Money{Cents: 200}, Necessity: NecessityUnnecessary, Status: StatusClosed},
		},
	}
	day.Sums()
	if day.TotalAmount.Cents != 1000 {
		t.Fatalf("total: got %d", day.TotalAmount.Cents)
	}
	if day.UnnecessaryAmount.Cents != 500 {
		t.Fatalf("unnecessary: got %d", day.UnnecessaryAmount.Cents)
	}
	if day.OpenAmount.Cents != 300 {
		t.Fatalf("open: got %d", day.OpenAmount.Cents)
	}
}

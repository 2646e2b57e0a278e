package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:        Expense,
		Category:    "groceries",
		Description: "weekly shop",
		Amount:      Money{Cents: 45_00},
		Date:        NewDate(2024, time.May, 3),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"empty category", func(tx *Transaction) { tx.Category = " " }, ErrEmptyCategory},
		{"empty description", func(tx *Transaction) { tx.Description = "" }, ErrEmptyDescription},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -1 }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		tx := valid
		tc.mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if !errors.Is(tx.Validate(), ErrValidation) {
			t.Fatalf("%s: error should be classified as validation", tc.name)
		}
	}
}

func TestCheckTransition(t *testing.T) {
	c := Check{
		Type:    Incoming,
		Payee:   "acme",
		Amount:  Money{Cents: 100_00},
		DueDate: NewDate(2024, time.June, 1),
		Status:  Pending,
	}
	if err := c.Transition(Cashed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != Cashed {
		t.Fatalf("expected cashed, got %s", c.Status)
	}
	// Terminal states do not move again.
	if err := c.Transition(Bounced); !errors.Is(err, ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition, got %v", err)
	}

	p := Check{Status: Pending}
	if err := p.Transition(Pending); !errors.Is(err, ErrStatusTransition) {
		t.Fatalf("pending -> pending should be rejected, got %v", err)
	}
	if err := p.Transition("torn"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.March || d.Day() != 9 {
		t.Fatalf("unexpected date: %v", d)
	}
	if _, err := ParseDate("09/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

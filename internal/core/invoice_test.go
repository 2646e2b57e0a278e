package core

import (
	"errors"
	"testing"
)

func TestCalculatorTotals(t *testing.T) {
	calc := NewCalculator(900)
	items := []LineItem{
		{Description: "widget", Quantity: 2, UnitPrice: Money{Cents: 100_00}},
		{Description: "gadget", Quantity: 1, UnitPrice: Money{Cents: 50_00}},
	}
	got, err := calc.Totals(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subtotal.Cents != 250_00 {
		t.Fatalf("expected subtotal 25000, got %d", got.Subtotal.Cents)
	}
	if got.Tax.Cents != 22_50 {
		t.Fatalf("expected tax 2250, got %d", got.Tax.Cents)
	}
	if got.GrandTotal.Cents != 272_50 {
		t.Fatalf("expected grand total 27250, got %d", got.GrandTotal.Cents)
	}
}

func TestCalculatorEmptyAndRate(t *testing.T) {
	got, err := NewCalculator(0).Totals(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subtotal.Cents != 0 || got.Tax.Cents != 0 || got.GrandTotal.Cents != 0 {
		t.Fatalf("expected all-zero totals, got %+v", got)
	}

	// 5% of 10.01 is 0.5005 -> rounds half-up to 0.50.
	got, err = NewCalculator(500).Totals([]LineItem{{Quantity: 1, UnitPrice: Money{Cents: 10_01}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tax.Cents != 50 {
		t.Fatalf("expected tax 50, got %d", got.Tax.Cents)
	}
}

func TestCalculatorRejectsMalformed(t *testing.T) {
	calc := NewCalculator(900)
	if _, err := calc.Totals([]LineItem{{Quantity: -1, UnitPrice: Money{Cents: 100}}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := calc.Totals([]LineItem{{Quantity: 1, UnitPrice: Money{Cents: -100}}}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCalculatorOverflow(t *testing.T) {
	calc := NewCalculator(900)

	// A single line whose product wraps int64 must fail, not return zero.
	got, err := calc.Totals([]LineItem{{Quantity: 1 << 62, UnitPrice: Money{Cents: 4}}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v (totals %+v)", err, got)
	}

	// Lines that fit individually but overflow the subtotal.
	big := LineItem{Quantity: 1, UnitPrice: Money{Cents: 1<<63 - 1}}
	if _, err := calc.Totals([]LineItem{big, big}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount on subtotal overflow, got %v", err)
	}

	// A subtotal that fits but cannot be scaled by the tax rate.
	almost := LineItem{Quantity: 1, UnitPrice: Money{Cents: (1<<63 - 1) / 100}}
	if _, err := calc.Totals([]LineItem{almost}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount on tax scaling overflow, got %v", err)
	}
}

func TestDraftMutations(t *testing.T) {
	var d Draft
	d.AddItem()
	d.AddItem()
	if len(d.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(d.Items))
	}
	if d.Items[0] != (LineItem{}) {
		t.Fatalf("AddItem should append a zero-valued line, got %+v", d.Items[0])
	}

	if err := d.SetDescription(0, "widget"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetQuantity(0, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetUnitPrice(0, 12_00); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total, err := d.Items[0].Total()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total.Cents != 36_00 {
		t.Fatalf("expected line total 3600, got %d", total.Cents)
	}

	if err := d.SetQuantity(0, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := d.SetUnitPrice(0, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if d.Items[0].Quantity != 3 || d.Items[0].UnitPrice.Cents != 12_00 {
		t.Fatalf("rejected update must not change the line: %+v", d.Items[0])
	}

	if err := d.RemoveItem(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(d.Items))
	}
}

func TestDraftRemoveOutOfRange(t *testing.T) {
	d := Draft{Items: []LineItem{
		{Description: "a", Quantity: 1, UnitPrice: Money{Cents: 100}},
		{Description: "b", Quantity: 2, UnitPrice: Money{Cents: 200}},
	}}
	before := append([]LineItem(nil), d.Items...)
	for _, idx := range []int{-1, 2, 5} {
		if err := d.RemoveItem(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
	if len(d.Items) != len(before) {
		t.Fatalf("failed removal changed the list: %d vs %d items", len(d.Items), len(before))
	}
	for i := range before {
		if d.Items[i] != before[i] {
			t.Fatalf("item %d changed: %+v vs %+v", i, d.Items[i], before[i])
		}
	}
}

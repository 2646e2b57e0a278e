package core

import (
	"errors"
	"testing"
)

func TestApplyStockDelta(t *testing.T) {
	cases := []struct {
		stock, delta, want int64
	}{
		{5, 1, 6},
		{5, -1, 4},
		{5, -5, 0},
		{5, -10_000, 0}, // floor at zero, never negative
		{0, -1, 0},
		{0, 3, 3},
	}
	for _, tc := range cases {
		if got := ApplyStockDelta(tc.stock, tc.delta); got != tc.want {
			t.Fatalf("ApplyStockDelta(%d, %d) = %d, expected %d", tc.stock, tc.delta, got, tc.want)
		}
	}
}

func TestTotalValue(t *testing.T) {
	items := []Product{
		{Name: "a", Stock: 3, UnitPrice: Money{Cents: 10_00}},
		{Name: "b", Stock: 0, UnitPrice: Money{Cents: 99_99}},
		{Name: "c", Stock: 2, UnitPrice: Money{Cents: 5_50}},
	}
	got, err := TotalValue(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cents != 41_00 {
		t.Fatalf("expected 4100, got %d", got.Cents)
	}

	v, err := ItemValue(items[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Cents != 30_00 {
		t.Fatalf("expected item value 3000, got %d", v.Cents)
	}

	empty, err := TotalValue(nil)
	if err != nil || empty.Cents != 0 {
		t.Fatalf("expected zero value for empty inventory, got %d (err=%v)", empty.Cents, err)
	}
}

func TestTotalValueRejectsMalformed(t *testing.T) {
	if _, err := TotalValue([]Product{{Name: "x", Stock: -1, UnitPrice: Money{Cents: 1}}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := TotalValue([]Product{{Name: "x", Stock: 1, UnitPrice: Money{Cents: -1}}}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestItemValueOverflow(t *testing.T) {
	huge := Product{Name: "x", Stock: 1 << 62, UnitPrice: Money{Cents: 4}}

	if _, err := ItemValue(huge); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := TotalValue([]Product{huge}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// Each item fits; the running sum does not.
	big := Product{Name: "y", Stock: 1, UnitPrice: Money{Cents: 1<<63 - 1}}
	if _, err := TotalValue([]Product{big, big}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount on sum overflow, got %v", err)
	}
}

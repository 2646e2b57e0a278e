package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"daftar/internal/core"
)

func TestTransactionIDsMonotonic(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		tx := core.Transaction{
			Type:        core.Income,
			Category:    "salary",
			Description: "pay",
			Amount:      core.Money{Cents: 1000},
			Date:        core.NewDate(2024, time.May, i),
		}
		got, err := s.AddTransaction(ctx, tx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != int64(i) {
			t.Fatalf("expected id %d, got %d", i, got.ID)
		}
	}
	list, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(list))
	}
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.AddTransaction(context.Background(), core.Transaction{Type: "transfer"})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	list, _ := s.ListTransactions(context.Background())
	if len(list) != 0 {
		t.Fatalf("rejected record must not be stored, got %d", len(list))
	}
}

func TestAdjustStockClampAndNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, err := s.AddProduct(ctx, core.Product{Name: "widget", Barcode: "123", Stock: 5, UnitPrice: core.Money{Cents: 100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.AdjustStock(ctx, p.ID, -10_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("expected stock clamped at 0, got %d", got.Stock)
	}

	if _, err := s.AdjustStock(ctx, 999, 1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckDefaultsAndStatusUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()
	c, err := s.AddCheck(ctx, core.Check{
		Type:    core.Incoming,
		Payee:   "acme",
		Amount:  core.Money{Cents: 5000},
		DueDate: core.NewDate(2024, time.July, 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != core.Pending {
		t.Fatalf("new checks default to pending, got %s", c.Status)
	}

	updated, err := s.UpdateCheckStatus(ctx, c.ID, core.Cashed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != core.Cashed {
		t.Fatalf("expected cashed, got %s", updated.Status)
	}

	if _, err := s.UpdateCheckStatus(ctx, c.ID, core.Bounced); !errors.Is(err, core.ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition, got %v", err)
	}
	if _, err := s.UpdateCheckStatus(ctx, 42, core.Cashed); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.AddProduct(ctx, core.Product{Name: "widget", Stock: 5, UnitPrice: core.Money{Cents: 100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, _ := s.ListProducts(ctx)
	list[0].Stock = 999
	again, _ := s.ListProducts(ctx)
	if again[0].Stock != 5 {
		t.Fatalf("list must return a copy, store was mutated to %d", again[0].Stock)
	}
}

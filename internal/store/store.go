// Package store is the in-memory record store. It backs the memory data
// backend and the aggregate tests; ids are assigned from a monotonic
// counter per collection.
package store

import (
	"context"
	"sync"

	"daftar/internal/core"
)

type Store struct {
	mu sync.Mutex

	nextTransactionID int64
	nextCheckID       int64
	nextProductID     int64
	nextInvoiceID     int64

	transactions []core.Transaction
	checks       []core.Check
	products     []core.Product
	invoices     []core.Invoice
}

func New() *Store {
	return &Store{}
}

// AddTransaction validates, assigns an id and appends. The stored record is
// returned; the input is not retained.
func (s *Store) AddTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTransactionID++
	t.ID = s.nextTransactionID
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

func (s *Store) AddCheck(_ context.Context, c core.Check) (core.Check, error) {
	if c.Status == "" {
		c.Status = core.Pending
	}
	if err := c.Validate(); err != nil {
		return core.Check{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCheckID++
	c.ID = s.nextCheckID
	s.checks = append(s.checks, c)
	return c, nil
}

func (s *Store) ListChecks(_ context.Context) ([]core.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Check(nil), s.checks...), nil
}

// UpdateCheckStatus applies the pending -> cashed/bounced transition.
// Unknown ids surface core.ErrNotFound rather than a silent no-op.
func (s *Store) UpdateCheckStatus(_ context.Context, id int64, status core.CheckStatus) (core.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.checks {
		if s.checks[i].ID != id {
			continue
		}
		if err := s.checks[i].Transition(status); err != nil {
			return core.Check{}, err
		}
		return s.checks[i], nil
	}
	return core.Check{}, core.ErrNotFound
}

func (s *Store) AddProduct(_ context.Context, p core.Product) (core.Product, error) {
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProductID++
	p.ID = s.nextProductID
	s.products = append(s.products, p)
	return p, nil
}

func (s *Store) ListProducts(_ context.Context) ([]core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Product(nil), s.products...), nil
}

// AdjustStock applies a signed delta clamped at zero.
func (s *Store) AdjustStock(_ context.Context, id int64, delta int64) (core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		s.products[i].Stock = core.ApplyStockDelta(s.products[i].Stock, delta)
		return s.products[i], nil
	}
	return core.Product{}, core.ErrNotFound
}

// AddInvoice seeds the read-only invoice list. The dashboard never writes
// invoices; this exists for seeding and tests.
func (s *Store) AddInvoice(_ context.Context, inv core.Invoice) (core.Invoice, error) {
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextInvoiceID++
	inv.ID = s.nextInvoiceID
	s.invoices = append(s.invoices, inv)
	return inv, nil
}

func (s *Store) ListInvoices(_ context.Context) ([]core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Invoice(nil), s.invoices...), nil
}

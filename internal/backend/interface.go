// Package backend defines the persistence ports consumed by the HTTP layer
// and a factory that builds a concrete backend from configuration.
package backend

import (
	"context"

	"daftar/internal/core"
)

// TransactionStore appends and lists ledger transactions. Transactions are
// immutable once created and are never deleted in-app.
type TransactionStore interface {
	AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// CheckStore manages checks, including the pending -> cashed/bounced
// status transition.
type CheckStore interface {
	AddCheck(ctx context.Context, c core.Check) (core.Check, error)
	ListChecks(ctx context.Context) ([]core.Check, error)
	UpdateCheckStatus(ctx context.Context, id int64, status core.CheckStatus) (core.Check, error)
}

// ProductStore manages inventory items. AdjustStock applies a signed delta
// with a floor at zero and returns core.ErrNotFound for unknown ids.
type ProductStore interface {
	AddProduct(ctx context.Context, p core.Product) (core.Product, error)
	ListProducts(ctx context.Context) ([]core.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int64) (core.Product, error)
}

// InvoiceReader lists the persisted invoices shown in the read-only
// dashboard view.
type InvoiceReader interface {
	ListInvoices(ctx context.Context) ([]core.Invoice, error)
}

// Backend is the unified persistence surface.
type Backend interface {
	TransactionStore
	CheckStore
	ProductStore
	InvoiceReader
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result carries a constructed backend and its optional cleanup.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Type selects a backend implementation.
type Type string

const (
	MemoryBackend   Type = "memory"
	SQLiteBackend   Type = "sqlite"
	SupabaseBackend Type = "supabase"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, SupabaseBackend:
		return true
	default:
		return false
	}
}

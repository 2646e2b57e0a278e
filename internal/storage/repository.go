package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"daftar/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		TxDate:      t.Date.Format(dateLayout),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"type", row.Type,
		"amount_cents", row.AmountCents,
		"date", row.TxDate)

	return transactionFromRow(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// GetTransaction retrieves one row for the sync worker.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return transactionFromRow(row)
}

func (r *SQLiteRepository) AddCheck(ctx context.Context, c core.Check) (core.Check, error) {
	if c.Status == "" {
		c.Status = core.Pending
	}
	if err := c.Validate(); err != nil {
		return core.Check{}, err
	}
	row, err := r.queries.CreateCheck(ctx, CreateCheckParams{
		Type:        string(c.Type),
		Payee:       c.Payee,
		AmountCents: c.Amount.Cents,
		DueDate:     c.DueDate.Format(dateLayout),
		Status:      string(c.Status),
		Description: c.Description,
	})
	if err != nil {
		return core.Check{}, fmt.Errorf("create check: %w", err)
	}

	slog.InfoContext(ctx, "Check saved to SQLite",
		"id", row.ID,
		"payee", row.Payee,
		"due_date", row.DueDate)

	return checkFromRow(row)
}

func (r *SQLiteRepository) ListChecks(ctx context.Context) ([]core.Check, error) {
	rows, err := r.queries.ListChecks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	out := make([]core.Check, 0, len(rows))
	for _, row := range rows {
		c, err := checkFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateCheckStatus(ctx context.Context, id int64, status core.CheckStatus) (core.Check, error) {
	row, err := r.queries.GetCheck(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Check{}, core.ErrNotFound
	}
	if err != nil {
		return core.Check{}, fmt.Errorf("get check: %w", err)
	}

	current, err := checkFromRow(row)
	if err != nil {
		return core.Check{}, err
	}
	if err := current.Transition(status); err != nil {
		return core.Check{}, err
	}

	updated, err := r.queries.UpdateCheckStatus(ctx, id, string(status))
	if err != nil {
		return core.Check{}, fmt.Errorf("update check status: %w", err)
	}

	slog.InfoContext(ctx, "Check status updated", "id", id, "status", string(status))
	return checkFromRow(updated)
}

func (r *SQLiteRepository) GetCheck(ctx context.Context, id int64) (core.Check, error) {
	row, err := r.queries.GetCheck(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Check{}, core.ErrNotFound
	}
	if err != nil {
		return core.Check{}, fmt.Errorf("get check: %w", err)
	}
	return checkFromRow(row)
}

func (r *SQLiteRepository) AddProduct(ctx context.Context, p core.Product) (core.Product, error) {
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	row, err := r.queries.CreateProduct(ctx, CreateProductParams{
		Name:           p.Name,
		Barcode:        p.Barcode,
		Stock:          p.Stock,
		UnitPriceCents: p.UnitPrice.Cents,
	})
	if err != nil {
		return core.Product{}, fmt.Errorf("create product: %w", err)
	}

	slog.InfoContext(ctx, "Product saved to SQLite",
		"id", row.ID,
		"name", row.Name,
		"stock", row.Stock)

	return productFromRow(row), nil
}

func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := r.queries.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]core.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, productFromRow(row))
	}
	return out, nil
}

func (r *SQLiteRepository) AdjustStock(ctx context.Context, id int64, delta int64) (core.Product, error) {
	row, err := r.queries.GetProduct(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Product{}, core.ErrNotFound
	}
	if err != nil {
		return core.Product{}, fmt.Errorf("get product: %w", err)
	}

	next := core.ApplyStockDelta(row.Stock, delta)
	updated, err := r.queries.SetProductStock(ctx, id, next)
	if err != nil {
		return core.Product{}, fmt.Errorf("set product stock: %w", err)
	}

	slog.InfoContext(ctx, "Product stock adjusted",
		"id", id,
		"delta", delta,
		"stock", updated.Stock)

	return productFromRow(updated), nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id int64) (core.Product, error) {
	row, err := r.queries.GetProduct(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Product{}, core.ErrNotFound
	}
	if err != nil {
		return core.Product{}, fmt.Errorf("get product: %w", err)
	}
	return productFromRow(row), nil
}

func (r *SQLiteRepository) AddInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, err
	}
	row, err := r.queries.CreateInvoice(ctx, CreateInvoiceParams{
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		AmountCents:   inv.Amount.Cents,
		DueDate:       inv.DueDate.Format(dateLayout),
		Status:        string(inv.Status),
	})
	if err != nil {
		return core.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	return invoiceFromRow(row)
}

func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.queries.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]core.Invoice, 0, len(rows))
	for _, row := range rows {
		inv, err := invoiceFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// PendingSyncRecord identifies a row waiting to be pushed to the remote
// backend.
type PendingSyncRecord struct {
	Entity  string
	ID      int64
	Version int64
}

// GetPendingSync returns up to limit rows per entity that still need a
// remote push.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSyncRecord, error) {
	var out []PendingSyncRecord

	txs, err := r.queries.GetPendingSyncTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	for _, row := range txs {
		out = append(out, PendingSyncRecord{Entity: "transaction", ID: row.ID, Version: row.Version})
	}

	checks, err := r.queries.GetPendingSyncChecks(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync checks: %w", err)
	}
	for _, row := range checks {
		out = append(out, PendingSyncRecord{Entity: "check", ID: row.ID, Version: row.Version})
	}

	products, err := r.queries.GetPendingSyncProducts(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync products: %w", err)
	}
	for _, row := range products {
		out = append(out, PendingSyncRecord{Entity: "product", ID: row.ID, Version: row.Version})
	}

	return out, nil
}

// MarkSynced marks a row as pushed to the remote backend.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, entity string, id int64) error {
	var err error
	switch entity {
	case "transaction":
		err = r.queries.MarkTransactionSynced(ctx, id)
	case "check":
		err = r.queries.MarkCheckSynced(ctx, id)
	case "product":
		err = r.queries.MarkProductSynced(ctx, id)
	default:
		return fmt.Errorf("unsupported sync entity: %s", entity)
	}
	if err != nil {
		return fmt.Errorf("mark %s synced: %w", entity, err)
	}

	slog.InfoContext(ctx, "Record marked as synced", "entity", entity, "id", id)
	return nil
}

// MarkSyncError marks a row as failed; the sweep will not retry it until
// the row changes again.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, entity string, id int64) error {
	var err error
	switch entity {
	case "transaction":
		err = r.queries.MarkTransactionSyncError(ctx, id)
	case "check":
		err = r.queries.MarkCheckSyncError(ctx, id)
	case "product":
		err = r.queries.MarkProductSyncError(ctx, id)
	default:
		return fmt.Errorf("unsupported sync entity: %s", entity)
	}
	if err != nil {
		return fmt.Errorf("mark %s sync error: %w", entity, err)
	}

	slog.WarnContext(ctx, "Record marked with sync error", "entity", entity, "id", id)
	return nil
}

func transactionFromRow(row TransactionRow) (core.Transaction, error) {
	d, err := core.ParseDate(row.TxDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", row.ID, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Type:        core.TransactionType(row.Type),
		Category:    row.Category,
		Description: row.Description,
		Amount:      core.Money{Cents: row.AmountCents},
		Date:        d,
	}, nil
}

func checkFromRow(row CheckRow) (core.Check, error) {
	d, err := core.ParseDate(row.DueDate)
	if err != nil {
		return core.Check{}, fmt.Errorf("check %d: %w", row.ID, err)
	}
	return core.Check{
		ID:          row.ID,
		Type:        core.CheckType(row.Type),
		Payee:       row.Payee,
		Amount:      core.Money{Cents: row.AmountCents},
		DueDate:     d,
		Status:      core.CheckStatus(row.Status),
		Description: row.Description,
	}, nil
}

func productFromRow(row ProductRow) core.Product {
	return core.Product{
		ID:        row.ID,
		Name:      row.Name,
		Barcode:   row.Barcode,
		Stock:     row.Stock,
		UnitPrice: core.Money{Cents: row.UnitPriceCents},
	}
}

func invoiceFromRow(row InvoiceRow) (core.Invoice, error) {
	d, err := core.ParseDate(row.DueDate)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("invoice %d: %w", row.ID, err)
	}
	return core.Invoice{
		ID:            row.ID,
		InvoiceNumber: row.InvoiceNumber,
		CustomerName:  row.CustomerName,
		Amount:        core.Money{Cents: row.AmountCents},
		DueDate:       d,
		Status:        core.InvoiceStatus(row.Status),
	}, nil
}

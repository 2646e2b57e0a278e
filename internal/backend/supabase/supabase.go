// Package supabase implements the persistence ports on top of a Supabase
// project, speaking PostgREST to the hosted tables. Every row is keyed by
// user_id so multiple users can share one project.
package supabase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/supabase-community/postgrest-go"

	"daftar/internal/auth"
	"daftar/internal/core"
)

const dateLayout = "2006-01-02"

type Client struct {
	rest *postgrest.Client
}

// NewClient connects to the project's PostgREST endpoint. The anon key is
// sent both as the api key and as the fallback bearer token.
func NewClient(projectURL, anonKey string) (*Client, error) {
	if projectURL == "" || anonKey == "" {
		return nil, fmt.Errorf("supabase url and anon key are required")
	}

	rest := postgrest.NewClient(projectURL+"/rest/v1", "public", map[string]string{
		"apikey":        anonKey,
		"Authorization": "Bearer " + anonKey,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("create postgrest client: %w", rest.ClientError)
	}

	return &Client{rest: rest}, nil
}

type transactionRow struct {
	ID          int64  `json:"id,omitempty"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	TxDate      string `json:"tx_date"`
}

type checkRow struct {
	ID          int64  `json:"id,omitempty"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Payee       string `json:"payee"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type productRow struct {
	ID             int64  `json:"id,omitempty"`
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Barcode        string `json:"barcode"`
	Stock          int64  `json:"stock"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type invoiceRow struct {
	ID            int64  `json:"id,omitempty"`
	UserID        string `json:"user_id"`
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
	AmountCents   int64  `json:"amount_cents"`
	DueDate       string `json:"due_date"`
	Status        string `json:"status"`
}

func (c *Client) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	row := transactionRow{
		UserID:      auth.UserID(ctx),
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		TxDate:      t.Date.Format(dateLayout),
	}

	var out []transactionRow
	_, err := c.rest.From("transactions").
		Insert(row, false, "", "representation", "").
		ExecuteTo(&out)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if len(out) == 0 {
		return core.Transaction{}, fmt.Errorf("insert transaction: empty response")
	}

	slog.InfoContext(ctx, "Transaction saved to Supabase", "id", out[0].ID)
	return transactionFromRow(out[0])
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	var rows []transactionRow
	_, err := c.rest.From("transactions").
		Select("*", "", false).
		Eq("user_id", auth.UserID(ctx)).
		ExecuteTo(&rows)
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

func (c *Client) AddCheck(ctx context.Context, ch core.Check) (core.Check, error) {
	if ch.Status == "" {
		ch.Status = core.Pending
	}
	if err := ch.Validate(); err != nil {
		return core.Check{}, err
	}

	row := checkRow{
		UserID:      auth.UserID(ctx),
		Type:        string(ch.Type),
		Payee:       ch.Payee,
		AmountCents: ch.Amount.Cents,
		DueDate:     ch.DueDate.Format(dateLayout),
		Status:      string(ch.Status),
		Description: ch.Description,
	}

	var out []checkRow
	_, err := c.rest.From("checks").
		Insert(row, false, "", "representation", "").
		ExecuteTo(&out)
	if err != nil {
		return core.Check{}, fmt.Errorf("insert check: %w", err)
	}
	if len(out) == 0 {
		return core.Check{}, fmt.Errorf("insert check: empty response")
	}

	slog.InfoContext(ctx, "Check saved to Supabase", "id", out[0].ID)
	return checkFromRow(out[0])
}

func (c *Client) ListChecks(ctx context.Context) ([]core.Check, error) {
	var rows []checkRow
	_, err := c.rest.From("checks").
		Select("*", "", false).
		Eq("user_id", auth.UserID(ctx)).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}

	out := make([]core.Check, 0, len(rows))
	for _, row := range rows {
		ch, err := checkFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

func (c *Client) UpdateCheckStatus(ctx context.Context, id int64, status core.CheckStatus) (core.Check, error) {
	var rows []checkRow
	_, err := c.rest.From("checks").
		Select("*", "", false).
		Eq("user_id", auth.UserID(ctx)).
		Eq("id", strconv.FormatInt(id, 10)).
		ExecuteTo(&rows)
	if err != nil {
		return core.Check{}, fmt.Errorf("get check: %w", err)
	}
	if len(rows) == 0 {
		return core.Check{}, core.ErrNotFound
	}

	current, err := checkFromRow(rows[0])
	if err != nil {
		return core.Check{}, err
	}
	if err := current.Transition(status); err != nil {
		return core.Check{}, err
	}

	var updated []checkRow
	_, err = c.rest.From("checks").
		Update(map[string]string{"status": string(status)}, "representation", "").
		Eq("user_id", auth.UserID(ctx)).
		Eq("id", strconv.FormatInt(id, 10)).
		ExecuteTo(&updated)
	if err != nil {
		return core.Check{}, fmt.Errorf("update check status: %w", err)
	}
	if len(updated) == 0 {
		return core.Check{}, core.ErrNotFound
	}

	slog.InfoContext(ctx, "Check status updated in Supabase", "id", id, "status", string(status))
	return checkFromRow(updated[0])
}

func (c *Client) AddProduct(ctx context.Context, p core.Product) (core.Product, error) {
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}

	row := productRow{
		UserID:         auth.UserID(ctx),
		Name:           p.Name,
		Barcode:        p.Barcode,
		Stock:          p.Stock,
		UnitPriceCents: p.UnitPrice.Cents,
	}

	var out []productRow
	_, err := c.rest.From("products").
		Insert(row, false, "", "representation", "").
		ExecuteTo(&out)
	if err != nil {
		return core.Product{}, fmt.Errorf("insert product: %w", err)
	}
	if len(out) == 0 {
		return core.Product{}, fmt.Errorf("insert product: empty response")
	}

	slog.InfoContext(ctx, "Product saved to Supabase", "id", out[0].ID)
	return productFromRow(out[0]), nil
}

func (c *Client) ListProducts(ctx context.Context) ([]core.Product, error) {
	var rows []productRow
	_, err := c.rest.From("products").
		Select("*", "", false).
		Eq("user_id", auth.UserID(ctx)).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]core.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, productFromRow(row))
	}
	return out, nil
}

func (c *Client) AdjustStock(ctx context.Context, id int64, delta int64) (core.Product, error) {
	var rows []productRow
	_, err := c.rest.From("products").
		Select("*", "", false).
		Eq("user_id", auth.UserID(ctx)).
		Eq("id", strconv.FormatInt(id, 10)).
		ExecuteTo(&rows)
	if err != nil {
		return core.Product{}, fmt.Errorf("get product: %w", err)
	}
	if len(rows) == 0 {
		return core.Product{}, core.ErrNotFound
	}

	next := core.ApplyStockDelta(rows[0].Stock, delta)

	var updated []productRow
	_, err = c.rest.From("products").
		Update(map[string]int64{"stock": next}, "representation", "").
		Eq("user_id", auth.UserID(ctx)).
		Eq("id", strconv.FormatInt(id, 10)).
		ExecuteTo(&updated)
	if err != nil {
		return core.Product{}, fmt.Errorf("update product stock: %w", err)
	}
	if len(updated) == 0 {
		return core.Product{}, core.ErrNotFound
	}

	slog.InfoContext(ctx, "Product stock adjusted in Supabase", "id", id, "delta", delta)
	return productFromRow(updated[0]), nil
}

func (c *Client) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	var rows []invoiceRow
	_, err := c.rest.From("invoices").
		Select("*", "", false).
		Eq("user_id", auth.UserID(ctx)).
		ExecuteTo(&rows)
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

// UpsertTransaction pushes a locally-stored transaction by its local id.
// Used by the sync worker; the local id doubles as the remote conflict key.
func (c *Client) UpsertTransaction(ctx context.Context, t core.Transaction) error {
	row := transactionRow{
		ID:          t.ID,
		UserID:      auth.UserID(ctx),
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		TxDate:      t.Date.Format(dateLayout),
	}
	_, _, err := c.rest.From("transactions").
		Insert(row, true, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert transaction: %w", err)
	}
	return nil
}

// UpsertCheck pushes a locally-stored check by its local id.
func (c *Client) UpsertCheck(ctx context.Context, ch core.Check) error {
	row := checkRow{
		ID:          ch.ID,
		UserID:      auth.UserID(ctx),
		Type:        string(ch.Type),
		Payee:       ch.Payee,
		AmountCents: ch.Amount.Cents,
		DueDate:     ch.DueDate.Format(dateLayout),
		Status:      string(ch.Status),
		Description: ch.Description,
	}
	_, _, err := c.rest.From("checks").
		Insert(row, true, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert check: %w", err)
	}
	return nil
}

// UpsertProduct pushes a locally-stored product by its local id.
func (c *Client) UpsertProduct(ctx context.Context, p core.Product) error {
	row := productRow{
		ID:             p.ID,
		UserID:         auth.UserID(ctx),
		Name:           p.Name,
		Barcode:        p.Barcode,
		Stock:          p.Stock,
		UnitPriceCents: p.UnitPrice.Cents,
	}
	_, _, err := c.rest.From("products").
		Insert(row, true, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

func transactionFromRow(row transactionRow) (core.Transaction, error) {
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

func checkFromRow(row checkRow) (core.Check, error) {
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

func productFromRow(row productRow) core.Product {
	return core.Product{
		ID:        row.ID,
		Name:      row.Name,
		Barcode:   row.Barcode,
		Stock:     row.Stock,
		UnitPrice: core.Money{Cents: row.UnitPriceCents},
	}
}

func invoiceFromRow(row invoiceRow) (core.Invoice, error) {
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

package storage

import (
	"context"
	"database/sql"
)

// Queries is the low-level query layer over the sqlite schema. Rows carry
// raw column values; mapping to core types happens in the repository.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type TransactionRow struct {
	ID          int64
	Type        string
	Category    string
	Description string
	AmountCents int64
	TxDate      string
	CreatedAt   sql.NullTime
	Version     int64
	SyncStatus  string
}

type CheckRow struct {
	ID          int64
	Type        string
	Payee       string
	AmountCents int64
	DueDate     string
	Status      string
	Description string
	CreatedAt   sql.NullTime
	Version     int64
	SyncStatus  string
}

type ProductRow struct {
	ID             int64
	Name           string
	Barcode        string
	Stock          int64
	UnitPriceCents int64
	CreatedAt      sql.NullTime
	Version        int64
	SyncStatus     string
}

type InvoiceRow struct {
	ID            int64
	InvoiceNumber string
	CustomerName  string
	AmountCents   int64
	DueDate       string
	Status        string
	CreatedAt     sql.NullTime
}

type CreateTransactionParams struct {
	Type        string
	Category    string
	Description string
	AmountCents int64
	TxDate      string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO transactions (type, category, description, amount_cents, tx_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, type, category, description, amount_cents, tx_date, created_at, version, sync_status`,
		arg.Type, arg.Category, arg.Description, arg.AmountCents, arg.TxDate)
	var t TransactionRow
	err := row.Scan(&t.ID, &t.Type, &t.Category, &t.Description, &t.AmountCents, &t.TxDate, &t.CreatedAt, &t.Version, &t.SyncStatus)
	return t, err
}

func (q *Queries) GetTransaction(ctx context.Context, id int64) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, type, category, description, amount_cents, tx_date, created_at, version, sync_status
		FROM transactions WHERE id = ?`, id)
	var t TransactionRow
	err := row.Scan(&t.ID, &t.Type, &t.Category, &t.Description, &t.AmountCents, &t.TxDate, &t.CreatedAt, &t.Version, &t.SyncStatus)
	return t, err
}

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, type, category, description, amount_cents, tx_date, created_at, version, sync_status
		FROM transactions ORDER BY tx_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransactionRow
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(&t.ID, &t.Type, &t.Category, &t.Description, &t.AmountCents, &t.TxDate, &t.CreatedAt, &t.Version, &t.SyncStatus); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type CreateCheckParams struct {
	Type        string
	Payee       string
	AmountCents int64
	DueDate     string
	Status      string
	Description string
}

func (q *Queries) CreateCheck(ctx context.Context, arg CreateCheckParams) (CheckRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO checks (type, payee, amount_cents, due_date, status, description)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, type, payee, amount_cents, due_date, status, description, created_at, version, sync_status`,
		arg.Type, arg.Payee, arg.AmountCents, arg.DueDate, arg.Status, arg.Description)
	var c CheckRow
	err := row.Scan(&c.ID, &c.Type, &c.Payee, &c.AmountCents, &c.DueDate, &c.Status, &c.Description, &c.CreatedAt, &c.Version, &c.SyncStatus)
	return c, err
}

func (q *Queries) GetCheck(ctx context.Context, id int64) (CheckRow, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, type, payee, amount_cents, due_date, status, description, created_at, version, sync_status
		FROM checks WHERE id = ?`, id)
	var c CheckRow
	err := row.Scan(&c.ID, &c.Type, &c.Payee, &c.AmountCents, &c.DueDate, &c.Status, &c.Description, &c.CreatedAt, &c.Version, &c.SyncStatus)
	return c, err
}

func (q *Queries) ListChecks(ctx context.Context) ([]CheckRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, type, payee, amount_cents, due_date, status, description, created_at, version, sync_status
		FROM checks ORDER BY due_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CheckRow
	for rows.Next() {
		var c CheckRow
		if err := rows.Scan(&c.ID, &c.Type, &c.Payee, &c.AmountCents, &c.DueDate, &c.Status, &c.Description, &c.CreatedAt, &c.Version, &c.SyncStatus); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCheckStatus bumps the version and resets sync_status so the row is
// picked up by the sync sweep again.
func (q *Queries) UpdateCheckStatus(ctx context.Context, id int64, status string) (CheckRow, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE checks
		SET status = ?, version = version + 1, sync_status = 'pending', synced_at = NULL
		WHERE id = ?
		RETURNING id, type, payee, amount_cents, due_date, status, description, created_at, version, sync_status`,
		status, id)
	var c CheckRow
	err := row.Scan(&c.ID, &c.Type, &c.Payee, &c.AmountCents, &c.DueDate, &c.Status, &c.Description, &c.CreatedAt, &c.Version, &c.SyncStatus)
	return c, err
}

type CreateProductParams struct {
	Name           string
	Barcode        string
	Stock          int64
	UnitPriceCents int64
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (ProductRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO products (name, barcode, stock, unit_price_cents)
		VALUES (?, ?, ?, ?)
		RETURNING id, name, barcode, stock, unit_price_cents, created_at, version, sync_status`,
		arg.Name, arg.Barcode, arg.Stock, arg.UnitPriceCents)
	var p ProductRow
	err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.Stock, &p.UnitPriceCents, &p.CreatedAt, &p.Version, &p.SyncStatus)
	return p, err
}

func (q *Queries) GetProduct(ctx context.Context, id int64) (ProductRow, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, name, barcode, stock, unit_price_cents, created_at, version, sync_status
		FROM products WHERE id = ?`, id)
	var p ProductRow
	err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.Stock, &p.UnitPriceCents, &p.CreatedAt, &p.Version, &p.SyncStatus)
	return p, err
}

func (q *Queries) ListProducts(ctx context.Context) ([]ProductRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, barcode, stock, unit_price_cents, created_at, version, sync_status
		FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProductRow
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Barcode, &p.Stock, &p.UnitPriceCents, &p.CreatedAt, &p.Version, &p.SyncStatus); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetProductStock writes an already-clamped stock value.
func (q *Queries) SetProductStock(ctx context.Context, id int64, stock int64) (ProductRow, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = ?, version = version + 1, sync_status = 'pending', synced_at = NULL
		WHERE id = ?
		RETURNING id, name, barcode, stock, unit_price_cents, created_at, version, sync_status`,
		stock, id)
	var p ProductRow
	err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.Stock, &p.UnitPriceCents, &p.CreatedAt, &p.Version, &p.SyncStatus)
	return p, err
}

type CreateInvoiceParams struct {
	InvoiceNumber string
	CustomerName  string
	AmountCents   int64
	DueDate       string
	Status        string
}

func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (InvoiceRow, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO invoices (invoice_number, customer_name, amount_cents, due_date, status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, invoice_number, customer_name, amount_cents, due_date, status, created_at`,
		arg.InvoiceNumber, arg.CustomerName, arg.AmountCents, arg.DueDate, arg.Status)
	var inv InvoiceRow
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerName, &inv.AmountCents, &inv.DueDate, &inv.Status, &inv.CreatedAt)
	return inv, err
}

func (q *Queries) ListInvoices(ctx context.Context) ([]InvoiceRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, invoice_number, customer_name, amount_cents, due_date, status, created_at
		FROM invoices ORDER BY due_date DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InvoiceRow
	for rows.Next() {
		var inv InvoiceRow
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerName, &inv.AmountCents, &inv.DueDate, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

type PendingSyncRow struct {
	ID      int64
	Version int64
}

func (q *Queries) getPendingSync(ctx context.Context, table string, limit int64) ([]PendingSyncRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, version FROM `+table+` WHERE sync_status = 'pending' ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PendingSyncRow
	for rows.Next() {
		var r PendingSyncRow
		if err := rows.Scan(&r.ID, &r.Version); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) GetPendingSyncTransactions(ctx context.Context, limit int64) ([]PendingSyncRow, error) {
	return q.getPendingSync(ctx, "transactions", limit)
}

func (q *Queries) GetPendingSyncChecks(ctx context.Context, limit int64) ([]PendingSyncRow, error) {
	return q.getPendingSync(ctx, "checks", limit)
}

func (q *Queries) GetPendingSyncProducts(ctx context.Context, limit int64) ([]PendingSyncRow, error) {
	return q.getPendingSync(ctx, "products", limit)
}

func (q *Queries) markSync(ctx context.Context, table string, id int64, status string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE `+table+` SET sync_status = ?, synced_at = CASE WHEN ? = 'synced' THEN CURRENT_TIMESTAMP ELSE synced_at END WHERE id = ?`,
		status, status, id)
	return err
}

func (q *Queries) MarkTransactionSynced(ctx context.Context, id int64) error {
	return q.markSync(ctx, "transactions", id, "synced")
}

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id int64) error {
	return q.markSync(ctx, "transactions", id, "error")
}

func (q *Queries) MarkCheckSynced(ctx context.Context, id int64) error {
	return q.markSync(ctx, "checks", id, "synced")
}

func (q *Queries) MarkCheckSyncError(ctx context.Context, id int64) error {
	return q.markSync(ctx, "checks", id, "error")
}

func (q *Queries) MarkProductSynced(ctx context.Context, id int64) error {
	return q.markSync(ctx, "products", id, "synced")
}

func (q *Queries) MarkProductSyncError(ctx context.Context, id int64) error {
	return q.markSync(ctx, "products", id, "error")
}

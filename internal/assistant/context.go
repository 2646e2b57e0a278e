package assistant

import (
	"encoding/json"
	"fmt"
	"time"

	"daftar/internal/core"
)

// Snapshot is the full financial picture handed to the model alongside the
// user's question.
type Snapshot struct {
	GeneratedAt  string            `json:"generated_at"`
	Summary      summaryJSON       `json:"summary"`
	Months       []monthJSON       `json:"months"`
	Transactions []transactionJSON `json:"transactions"`
	Checks       []checkJSON       `json:"checks"`
	Products     []productJSON     `json:"products"`
	Invoices     []invoiceJSON     `json:"invoices"`
}

type summaryJSON struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	NetBalance   int64  `json:"net_balance_cents"`
}

type monthJSON struct {
	Label   string `json:"label"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type transactionJSON struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

type checkJSON struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Payee   string `json:"payee"`
	Amount  string `json:"amount"`
	DueDate string `json:"due_date"`
	Status  string `json:"status"`
}

type productJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
	UnitPrice string `json:"unit_price"`
}

type invoiceJSON struct {
	ID            int64  `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
	Amount        string `json:"amount"`
	DueDate       string `json:"due_date"`
	Status        string `json:"status"`
}

// BuildContext serializes every record the user owns into the JSON payload
// sent with the question. Nothing is sampled: the model sees the whole set.
func BuildContext(now time.Time, loc core.Locale, txs []core.Transaction, checks []core.Check, products []core.Product, invoices []core.Invoice) (string, error) {
	summary, err := core.Summarize(txs)
	if err != nil {
		return "", fmt.Errorf("summarize transactions: %w", err)
	}
	buckets, err := core.MonthlyBuckets(txs, loc)
	if err != nil {
		return "", fmt.Errorf("bucket transactions: %w", err)
	}

	snap := Snapshot{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Summary: summaryJSON{
			TotalIncome:  summary.TotalIncome.String(),
			TotalExpense: summary.TotalExpense.String(),
			NetBalance:   summary.NetBalance,
		},
	}

	for _, b := range buckets {
		snap.Months = append(snap.Months, monthJSON{
			Label:   b.Label,
			Income:  b.Income.String(),
			Expense: b.Expense.String(),
		})
	}
	for _, t := range txs {
		snap.Transactions = append(snap.Transactions, transactionJSON{
			ID:          t.ID,
			Type:        string(t.Type),
			Category:    t.Category,
			Description: t.Description,
			Amount:      t.Amount.String(),
			Date:        t.Date.String(),
		})
	}
	for _, c := range checks {
		snap.Checks = append(snap.Checks, checkJSON{
			ID:      c.ID,
			Type:    string(c.Type),
			Payee:   c.Payee,
			Amount:  c.Amount.String(),
			DueDate: c.DueDate.String(),
			Status:  string(c.Status),
		})
	}
	for _, p := range products {
		snap.Products = append(snap.Products, productJSON{
			ID:        p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			UnitPrice: p.UnitPrice.String(),
		})
	}
	for _, inv := range invoices {
		snap.Invoices = append(snap.Invoices, invoiceJSON{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			Amount:        inv.Amount.String(),
			DueDate:       inv.DueDate.String(),
			Status:        string(inv.Status),
		})
	}

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal context payload: %w", err)
	}
	return string(payload), nil
}

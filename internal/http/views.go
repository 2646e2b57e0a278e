package http

import (
	"daftar/internal/core"
)

// View structs carry amounts twice: cents for arithmetic-safe clients and a
// formatted decimal string for display.

type moneyView struct {
	Cents   int64  `json:"cents"`
	Display string `json:"display"`
}

func money(m core.Money) moneyView {
	return moneyView{Cents: m.Cents, Display: m.String()}
}

type transactionView struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      moneyView `json:"amount"`
	Date        string    `json:"date"`
}

func transactionToView(t core.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		Amount:      money(t.Amount),
		Date:        t.Date.String(),
	}
}

type checkView struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Payee       string    `json:"payee"`
	Amount      moneyView `json:"amount"`
	DueDate     string    `json:"due_date"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
}

func checkToView(c core.Check) checkView {
	return checkView{
		ID:          c.ID,
		Type:        string(c.Type),
		Payee:       c.Payee,
		Amount:      money(c.Amount),
		DueDate:     c.DueDate.String(),
		Status:      string(c.Status),
		Description: c.Description,
	}
}

type productView struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Barcode    string    `json:"barcode,omitempty"`
	Stock      int64     `json:"stock"`
	UnitPrice  moneyView `json:"unit_price"`
	StockValue moneyView `json:"stock_value"`
}

func productToView(p core.Product) (productView, error) {
	value, err := core.ItemValue(p)
	if err != nil {
		return productView{}, err
	}
	return productView{
		ID:         p.ID,
		Name:       p.Name,
		Barcode:    p.Barcode,
		Stock:      p.Stock,
		UnitPrice:  money(p.UnitPrice),
		StockValue: money(value),
	}, nil
}

type invoiceView struct {
	ID            int64     `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerName  string    `json:"customer_name"`
	Amount        moneyView `json:"amount"`
	DueDate       string    `json:"due_date"`
	Status        string    `json:"status"`
}

func invoiceToView(inv core.Invoice) invoiceView {
	return invoiceView{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		Amount:        money(inv.Amount),
		DueDate:       inv.DueDate.String(),
		Status:        string(inv.Status),
	}
}

type monthBucketView struct {
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Label   string    `json:"label"`
	Income  moneyView `json:"income"`
	Expense moneyView `json:"expense"`
}

type summaryView struct {
	TotalIncome     moneyView         `json:"total_income"`
	TotalExpense    moneyView         `json:"total_expense"`
	NetBalanceCents int64             `json:"net_balance_cents"`
	ThisMonth       monthSnapshotView `json:"this_month"`
	Months          []monthBucketView `json:"months"`
	UpcomingChecks  []checkView       `json:"upcoming_checks"`
	InventoryValue  moneyView         `json:"inventory_value"`
}

type monthSnapshotView struct {
	Year     int       `json:"year"`
	Month    int       `json:"month"`
	Income   moneyView `json:"income"`
	Expense  moneyView `json:"expense"`
	NetCents int64     `json:"net_cents"`
}

func snapshotToView(s core.MonthSnapshot) monthSnapshotView {
	return monthSnapshotView{
		Year:     s.Year,
		Month:    int(s.Month),
		Income:   money(s.Income),
		Expense:  money(s.Expense),
		NetCents: s.Net,
	}
}

func bucketsToView(buckets []core.MonthBucket) []monthBucketView {
	out := make([]monthBucketView, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, monthBucketView{
			Year:    b.Year,
			Month:   int(b.Month),
			Label:   b.Label,
			Income:  money(b.Income),
			Expense: money(b.Expense),
		})
	}
	return out
}

type totalsView struct {
	Subtotal   moneyView `json:"subtotal"`
	Tax        moneyView `json:"tax"`
	GrandTotal moneyView `json:"grand_total"`
	TaxRateBP  int64     `json:"tax_rate_bp"`
}

func totalsToView(t core.Totals, rateBP int64) totalsView {
	return totalsView{
		Subtotal:   money(t.Subtotal),
		Tax:        money(t.Tax),
		GrandTotal: money(t.GrandTotal),
		TaxRateBP:  rateBP,
	}
}

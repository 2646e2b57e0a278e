package http

import (
	"net/http"
	"strconv"
	"strings"

	"daftar/internal/core"
)

type createTransactionRequest struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}

	tx := core.Transaction{
		Type:        core.TransactionType(strings.TrimSpace(req.Type)),
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Date:        date,
	}

	saved, err := s.store.AddTransaction(r.Context(), tx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, transactionToView(saved))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	views := make([]transactionView, 0, len(txs))
	for _, t := range txs {
		views = append(views, transactionToView(t))
	}
	writeJSON(w, http.StatusOK, views)
}

type createCheckRequest struct {
	Type        string `json:"type"`
	Payee       string `json:"payee"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
}

func (s *Server) handleCreateCheck(w http.ResponseWriter, r *http.Request) {
	var req createCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	due, err := core.ParseDate(req.DueDate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	check := core.Check{
		Type:        core.CheckType(strings.TrimSpace(req.Type)),
		Payee:       sanitizeInput(req.Payee),
		Amount:      amount,
		DueDate:     due,
		Status:      core.Pending,
		Description: sanitizeInput(req.Description),
	}

	saved, err := s.store.AddCheck(r.Context(), check)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkToView(saved))
}

func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := s.store.ListChecks(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	views := make([]checkView, 0, len(checks))
	for _, c := range checks {
		views = append(views, checkToView(c))
	}
	writeJSON(w, http.StatusOK, views)
}

type updateCheckStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateCheckStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateCheckStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.UpdateCheckStatus(r.Context(), id, core.CheckStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkToView(updated))
}

type createProductRequest struct {
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Stock     int64  `json:"stock"`
	UnitPrice string `json:"unit_price"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	price, err := parseAmount(req.UnitPrice)
	if err != nil {
		respondError(w, r, err)
		return
	}

	product := core.Product{
		Name:      sanitizeInput(req.Name),
		Barcode:   sanitizeInput(req.Barcode),
		Stock:     req.Stock,
		UnitPrice: price,
	}

	saved, err := s.store.AddProduct(r.Context(), product)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view, err := productToView(saved)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		view, err := productToView(p)
		if err != nil {
			respondError(w, r, err)
			return
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

type adjustStockRequest struct {
	Delta int64 `json:"delta"`
}

func (s *Server) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view, err := productToView(updated)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleInventoryValue(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	total, err := core.TotalValue(products)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Total moneyView `json:"total"`
		Items int       `json:"items"`
	}{Total: money(total), Items: len(products)})
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.ListInvoices(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, invoiceToView(inv))
	}
	writeJSON(w, http.StatusOK, views)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, core.ErrNotFound
	}
	return id, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

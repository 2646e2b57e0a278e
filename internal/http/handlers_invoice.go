package http

import (
	"net/http"

	"daftar/internal/core"
)

type lineItemRequest struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type computeInvoiceRequest struct {
	Items []lineItemRequest `json:"items"`
}

// handleComputeInvoice prices an ephemeral invoice draft. Nothing is
// persisted; the caller sends line items and gets the totals back.
func (s *Server) handleComputeInvoice(w http.ResponseWriter, r *http.Request) {
	var req computeInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]core.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		price, err := parseAmount(it.UnitPrice)
		if err != nil {
			respondError(w, r, err)
			return
		}
		items = append(items, core.LineItem{
			Description: sanitizeInput(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   price,
		})
	}

	totals, err := s.calculator.Totals(items)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, totalsToView(totals, s.calculator.TaxRateBP))
}

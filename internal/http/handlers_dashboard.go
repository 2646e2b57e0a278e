package http

import (
	"net/http"
	"time"

	"daftar/internal/core"
)

// handleSummary assembles the dashboard aggregate: all-time totals, the
// current month snapshot, the monthly series, upcoming pending checks and
// the inventory value. Everything is computed fresh from the stored
// records on each request.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	checks, err := s.store.ListChecks(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	summary, err := core.Summarize(txs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	buckets, err := core.MonthlyBuckets(txs, s.locale)
	if err != nil {
		respondError(w, r, err)
		return
	}
	now := time.Now()
	snapshot, err := core.SnapshotMonth(txs, now)
	if err != nil {
		respondError(w, r, err)
		return
	}
	inventory, err := core.TotalValue(products)
	if err != nil {
		respondError(w, r, err)
		return
	}

	upcoming := core.UpcomingPending(checks, now, s.upcomingLimit)
	upcomingViews := make([]checkView, 0, len(upcoming))
	for _, c := range upcoming {
		upcomingViews = append(upcomingViews, checkToView(c))
	}

	writeJSON(w, http.StatusOK, summaryView{
		TotalIncome:     money(summary.TotalIncome),
		TotalExpense:    money(summary.TotalExpense),
		NetBalanceCents: summary.NetBalance,
		ThisMonth:       snapshotToView(snapshot),
		Months:          bucketsToView(buckets),
		UpcomingChecks:  upcomingViews,
		InventoryValue:  money(inventory),
	})
}

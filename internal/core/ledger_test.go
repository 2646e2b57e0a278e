package core

import (
	"math/rand"
	"testing"
	"time"
)

func tx(typ TransactionType, cents int64, year int, month time.Month, day int) Transaction {
	return Transaction{
		Type:        typ,
		Category:    "general",
		Description: "test",
		Amount:      Money{Cents: cents},
		Date:        NewDate(year, month, day),
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 0 || s.NetBalance != 0 {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
	buckets, err := MonthlyBuckets(nil, LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 0 {
		t.Fatalf("expected no buckets, got %d", len(buckets))
	}
}

func TestSummarizeNetIdentity(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100_00, 2024, time.March, 1),
		tx(Expense, 250_00, 2024, time.March, 5),
		tx(Income, 40_00, 2024, time.April, 2),
	}
	s, err := Summarize(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NetBalance != s.TotalIncome.Cents-s.TotalExpense.Cents {
		t.Fatalf("net %d != income %d - expense %d", s.NetBalance, s.TotalIncome.Cents, s.TotalExpense.Cents)
	}
	if s.NetBalance != -110_00 {
		t.Fatalf("expected net -11000, got %d", s.NetBalance)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	txs := []Transaction{
		tx(Income, 1_00, 2023, time.January, 1),
		tx(Expense, 2_00, 2023, time.February, 2),
		tx(Income, 3_00, 2023, time.March, 3),
		tx(Expense, 4_00, 2023, time.April, 4),
		tx(Income, 5_00, 2023, time.May, 5),
	}
	want, err := Summarize(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := Summarize(shuffled)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("permutation %d changed summary: %+v vs %+v", i, got, want)
		}
	}
}

func TestSummarizeRejectsMalformed(t *testing.T) {
	if _, err := Summarize([]Transaction{tx(Income, -1, 2024, time.May, 1)}); err == nil {
		t.Fatal("expected error for negative amount")
	}
	bad := tx(Income, 100, 2024, time.May, 1)
	bad.Type = "transfer"
	if _, err := Summarize([]Transaction{bad}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestMonthlyBucketsPartition(t *testing.T) {
	txs := []Transaction{
		tx(Income, 10_00, 2024, time.January, 15),
		tx(Expense, 3_00, 2024, time.January, 20),
		tx(Income, 7_00, 2024, time.March, 1),
		tx(Expense, 2_00, 2023, time.December, 31),
		tx(Income, 1_00, 2024, time.March, 30),
	}
	buckets, err := MonthlyBuckets(txs, LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	// Chronological ascending.
	if buckets[0].Year != 2023 || buckets[0].Month != time.December {
		t.Fatalf("expected Dec 2023 first, got %d-%d", buckets[0].Year, buckets[0].Month)
	}
	if buckets[2].Month != time.March {
		t.Fatalf("expected Mar 2024 last, got %d-%d", buckets[2].Year, buckets[2].Month)
	}
	// Partition law: bucket sums equal totals.
	var income, expense int64
	for _, b := range buckets {
		income += b.Income.Cents
		expense += b.Expense.Cents
	}
	s, err := Summarize(txs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if income != s.TotalIncome.Cents || expense != s.TotalExpense.Cents {
		t.Fatalf("bucket sums %d/%d do not match totals %d/%d",
			income, expense, s.TotalIncome.Cents, s.TotalExpense.Cents)
	}
}

func TestMonthlyBucketsLabels(t *testing.T) {
	txs := []Transaction{tx(Income, 1_00, 2024, time.March, 1)}
	en, err := MonthlyBuckets(txs, LocaleEN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if en[0].Label != "Mar 2024" {
		t.Fatalf("expected 'Mar 2024', got %q", en[0].Label)
	}
	fa, err := MonthlyBuckets(txs, LocaleFA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fa[0].Label == en[0].Label || fa[0].Label == "" {
		t.Fatalf("expected localized label, got %q", fa[0].Label)
	}
}

func TestAggregatorIdempotent(t *testing.T) {
	txs := []Transaction{
		tx(Income, 12_34, 2024, time.June, 1),
		tx(Expense, 5_67, 2024, time.July, 2),
	}
	a, _ := Summarize(txs)
	b, _ := Summarize(txs)
	if a != b {
		t.Fatalf("summaries differ: %+v vs %+v", a, b)
	}
	ba, _ := MonthlyBuckets(txs, LocaleEN)
	bb, _ := MonthlyBuckets(txs, LocaleEN)
	if len(ba) != len(bb) {
		t.Fatalf("bucket counts differ: %d vs %d", len(ba), len(bb))
	}
	for i := range ba {
		if ba[i] != bb[i] {
			t.Fatalf("bucket %d differs: %+v vs %+v", i, ba[i], bb[i])
		}
	}
}

func TestSnapshotMonth(t *testing.T) {
	now := time.Date(2024, time.May, 14, 10, 30, 0, 0, time.UTC)
	txs := []Transaction{
		tx(Income, 100_00, 2024, time.May, 1),
		tx(Expense, 30_00, 2024, time.May, 20),
		tx(Income, 999_00, 2024, time.April, 30), // out of window
		tx(Expense, 999_00, 2023, time.May, 14),  // same month, other year
	}
	snap, err := SnapshotMonth(txs, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Income.Cents != 100_00 || snap.Expense.Cents != 30_00 || snap.Net != 70_00 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestUpcomingPendingWindow(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	day := func(offset int) Date { return DateOf(now.AddDate(0, 0, offset)) }
	checks := []Check{
		{ID: 1, Type: Outgoing, Payee: "a", Amount: Money{Cents: 100}, DueDate: day(2), Status: Pending},
		{ID: 2, Type: Outgoing, Payee: "b", Amount: Money{Cents: 100}, DueDate: day(10), Status: Pending},
		{ID: 3, Type: Incoming, Payee: "c", Amount: Money{Cents: 100}, DueDate: day(-5), Status: Cashed},
		{ID: 4, Type: Outgoing, Payee: "d", Amount: Money{Cents: 100}, DueDate: day(20), Status: Pending},
		{ID: 5, Type: Incoming, Payee: "e", Amount: Money{Cents: 100}, DueDate: day(-40), Status: Bounced},
	}
	got := UpcomingPending(checks, now, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("expected ids [1 2], got [%d %d]", got[0].ID, got[1].ID)
	}

	// Past-due pending checks are excluded even without a window.
	checks[0].DueDate = day(-1)
	got = UpcomingPending(checks, now, 0)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 4 {
		t.Fatalf("expected ids [2 4], got %+v", got)
	}
}

func TestUpcomingPendingIncludesToday(t *testing.T) {
	now := time.Date(2024, time.May, 10, 23, 59, 0, 0, time.UTC)
	checks := []Check{
		{ID: 1, Type: Outgoing, Payee: "a", Amount: Money{Cents: 100}, DueDate: DateOf(now), Status: Pending},
	}
	if got := UpcomingPending(checks, now, 5); len(got) != 1 {
		t.Fatalf("check due today should be upcoming, got %d results", len(got))
	}
}

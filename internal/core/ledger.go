package core

import (
	"sort"
	"time"
)

// Summary is the all-time ledger aggregate.
type Summary struct {
	TotalIncome  Money
	TotalExpense Money
	// NetBalance is income minus expense and may be negative.
	NetBalance int64
}

// MonthBucket is the (year, month) aggregate used for time-series charts.
type MonthBucket struct {
	Year    int
	Month   time.Month
	Label   string
	Income  Money
	Expense Money
}

// MonthSnapshot is the aggregate restricted to a single calendar month,
// normally the current one.
type MonthSnapshot struct {
	Year    int
	Month   time.Month
	Income  Money
	Expense Money
	Net     int64
}

// Summarize computes the all-time totals over a transaction sequence. Input
// order does not matter. Malformed records (negative amount, unknown type)
// fail with a validation error instead of being skipped.
func Summarize(txs []Transaction) (Summary, error) {
	var s Summary
	for _, t := range txs {
		if !t.Type.Valid() {
			return Summary{}, ErrInvalidType
		}
		if t.Amount.Cents < 0 {
			return Summary{}, ErrInvalidAmount
		}
		if t.Type == Income {
			s.TotalIncome.Cents += t.Amount.Cents
		} else {
			s.TotalExpense.Cents += t.Amount.Cents
		}
	}
	s.NetBalance = s.TotalIncome.Cents - s.TotalExpense.Cents
	return s, nil
}

// MonthlyBuckets groups transactions by (year, month) of their date and
// returns the buckets in chronological order. Labels are formatted for the
// given locale. Every record lands in exactly one bucket, so the bucket
// sums partition the totals.
func MonthlyBuckets(txs []Transaction, loc Locale) ([]MonthBucket, error) {
	type key struct {
		year  int
		month time.Month
	}
	byMonth := make(map[key]*MonthBucket)
	for _, t := range txs {
		if !t.Type.Valid() {
			return nil, ErrInvalidType
		}
		if t.Amount.Cents < 0 {
			return nil, ErrInvalidAmount
		}
		if err := t.Date.Validate(); err != nil {
			return nil, err
		}
		k := key{t.Date.Year(), t.Date.Month()}
		b, ok := byMonth[k]
		if !ok {
			b = &MonthBucket{
				Year:  k.year,
				Month: k.month,
				Label: loc.MonthLabel(k.year, k.month),
			}
			byMonth[k] = b
		}
		if t.Type == Income {
			b.Income.Cents += t.Amount.Cents
		} else {
			b.Expense.Cents += t.Amount.Cents
		}
	}
	buckets := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Month < buckets[j].Month
	})
	return buckets, nil
}

// SnapshotMonth restricts the aggregate to the calendar month containing
// now. It is evaluated against the caller's clock on every call and never
// cached.
func SnapshotMonth(txs []Transaction, now time.Time) (MonthSnapshot, error) {
	year, month, _ := now.UTC().Date()
	snap := MonthSnapshot{Year: year, Month: month}
	for _, t := range txs {
		if !t.Type.Valid() {
			return MonthSnapshot{}, ErrInvalidType
		}
		if t.Amount.Cents < 0 {
			return MonthSnapshot{}, ErrInvalidAmount
		}
		if t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		if t.Type == Income {
			snap.Income.Cents += t.Amount.Cents
		} else {
			snap.Expense.Cents += t.Amount.Cents
		}
	}
	snap.Net = snap.Income.Cents - snap.Expense.Cents
	return snap, nil
}

// UpcomingPending filters checks to status pending with a due date on or
// after today, sorted ascending by due date, truncated to limit entries.
// A limit <= 0 means no window. Check statuses are never mutated here.
func UpcomingPending(checks []Check, now time.Time, limit int) []Check {
	today := DateOf(now)
	upcoming := make([]Check, 0, len(checks))
	for _, c := range checks {
		if c.Status != Pending {
			continue
		}
		if c.DueDate.Before(today.Time) {
			continue
		}
		upcoming = append(upcoming, c)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate.Time)
	})
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

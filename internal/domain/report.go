package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotals holds credit and debit subtotals for one category.
type CategoryTotals struct {
	Credits decimal.Decimal
	Debits  decimal.Decimal
}

// Report aggregates entries dated within [StartDate, EndDate].
type Report struct {
	StartDate    time.Time
	EndDate      time.Time
	ByCategory   map[Category]CategoryTotals
	Entries      []*Entry
	TotalCredits decimal.Decimal
	TotalDebits  decimal.Decimal
	Net          decimal.Decimal
}

// BuildReport folds entries whose date falls in the inclusive range. Entries outside the range
// are ignored, so callers may pass a superset.
func BuildReport(start, end time.Time, entries []*Entry) (*Report, error) {
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	r := &Report{
		StartDate:    start,
		EndDate:      end,
		ByCategory:   make(map[Category]CategoryTotals),
		Entries:      make([]*Entry, 0, len(entries)),
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
	}

	for _, e := range entries {
		d := DateOf(e.EntryDate)
		if d.Before(start) || d.After(end) {
			continue
		}
		r.add(e)
	}
	SortEntries(r.Entries)
	r.Net = r.TotalCredits.Sub(r.TotalDebits)
	return r, nil
}

func (r *Report) add(e *Entry) {
	totals := r.ByCategory[e.Category]
	switch e.Type {
	case EntryTypeCredit:
		r.TotalCredits = r.TotalCredits.Add(e.Amount)
		totals.Credits = totals.Credits.Add(e.Amount)
	case EntryTypeDebit:
		r.TotalDebits = r.TotalDebits.Add(e.Amount)
		totals.Debits = totals.Debits.Add(e.Amount)
	}
	r.ByCategory[e.Category] = totals
	r.Entries = append(r.Entries, e)
}

package service

import (
	"sort"

	"github.com/teknova-erp/resource-api/internal/domain"
)

// PeriodIndex partitions personnel records by their (year, month) period.
// It is a snapshot: build it from a freshly listed collection and discard
// it after use.
type PeriodIndex struct {
	buckets map[domain.Period][]*domain.Personnel
}

// BuildPeriodIndex groups the records by period, keeping insertion order
// inside each bucket.
func BuildPeriodIndex(records []*domain.Personnel) *PeriodIndex {
	buckets := make(map[domain.Period][]*domain.Personnel)
	for _, rec := range records {
		p := rec.Period()
		buckets[p] = append(buckets[p], rec)
	}
	return &PeriodIndex{buckets: buckets}
}

// Get returns the records for one period. A period with no records yields
// an empty slice, not nil.
func (idx *PeriodIndex) Get(p domain.Period) []*domain.Personnel {
	records := idx.buckets[p]
	if records == nil {
		return []*domain.Personnel{}
	}
	out := make([]*domain.Personnel, len(records))
	copy(out, records)
	return out
}

// Periods returns every period with at least one record, in calendar order.
func (idx *PeriodIndex) Periods() []domain.Period {
	periods := make([]domain.Period, 0, len(idx.buckets))
	for p := range idx.buckets {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}

// Latest returns the most recent period, and false when the index is empty.
func (idx *PeriodIndex) Latest() (domain.Period, bool) {
	var latest domain.Period
	found := false
	for p := range idx.buckets {
		if !found || latest.Before(p) {
			latest = p
			found = true
		}
	}
	return latest, found
}

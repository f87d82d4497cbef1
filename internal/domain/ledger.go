package domain

import "time"

// LedgerID is the key of the single performance ledger.
const LedgerID = "default"

type BadEntry struct {
	Name  string
	Score int
}

// Bucket aggregates one day's scored events.
type Bucket struct {
	Good int
	Bad  []BadEntry
}

type LedgerRecord struct {
	Day     time.Time
	Buckets []Bucket
}

// BadTotal sums the scores of the day's bad entries.
func (r LedgerRecord) BadTotal() int {
	total := 0
	for _, b := range r.Buckets {
		for _, e := range b.Bad {
			total += e.Score
		}
	}
	return total
}

// GoodTotal sums the positive scores recorded for the day.
func (r LedgerRecord) GoodTotal() int {
	total := 0
	for _, b := range r.Buckets {
		total += b.Good
	}
	return total
}

type PerformanceLedger struct {
	ID          string
	Performance int
	Records     []LedgerRecord
	Version     int
	UpdatedAt   time.Time
}

func NewPerformanceLedger(now time.Time) *PerformanceLedger {
	return &PerformanceLedger{ID: LedgerID, UpdatedAt: now}
}

// Apply adds score to the running total and to the bucket for now's day.
// Positive scores accumulate in Good; negative scores are itemized in Bad only
// when bad is non-nil. A zero score changes nothing and returns false.
func (l *PerformanceLedger) Apply(score int, bad *BadEntry, now time.Time) bool {
	if score == 0 {
		return false
	}
	l.Performance += score

	rec := l.recordFor(now)
	bucket := &rec.Buckets[0]
	if score > 0 {
		bucket.Good += score
	} else if bad != nil {
		bucket.Bad = append(bucket.Bad, BadEntry{Name: bad.Name, Score: score})
	}
	l.UpdatedAt = now
	return true
}

// Today returns the record for now's day, or nil when nothing was scored yet.
func (l *PerformanceLedger) Today(now time.Time) *LedgerRecord {
	for i := range l.Records {
		if SameDay(l.Records[i].Day, now) {
			return &l.Records[i]
		}
	}
	return nil
}

func (l *PerformanceLedger) recordFor(now time.Time) *LedgerRecord {
	if rec := l.Today(now); rec != nil {
		if len(rec.Buckets) == 0 {
			rec.Buckets = []Bucket{{}}
		}
		return rec
	}
	l.Records = append(l.Records, LedgerRecord{
		Day:     StartOfDay(now),
		Buckets: []Bucket{{Bad: []BadEntry{}}},
	})
	return &l.Records[len(l.Records)-1]
}

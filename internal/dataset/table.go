// Package dataset holds the in-memory ride table loaded at startup and the
// date range filter applied on every request.
package dataset

import (
	"errors"
	"time"

	"github.com/jengzang/rides-dashboard-go/internal/models"
)

var (
	// ErrSourceUnavailable is returned when the backing file or object cannot be read
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrSchemaMismatch is returned when required columns are absent or malformed
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInvalidRange is returned when a filter start date is after its end date
	ErrInvalidRange = errors.New("invalid date range")
)

// Predicate selects rows of a table
type Predicate func(r models.RideRecord) bool

// All matches every row
func All(models.RideRecord) bool { return true }

// IsSuccess matches completed rides
func IsSuccess(r models.RideRecord) bool { return r.BookingStatus.IsSuccess() }

// IsCanceled matches rides canceled by either party
func IsCanceled(r models.RideRecord) bool { return r.BookingStatus.IsCanceled() }

// IsIncomplete matches rides flagged incomplete
func IsIncomplete(r models.RideRecord) bool { return r.IncompleteRides }

// StatusIs matches one exact status
func StatusIs(s models.BookingStatus) Predicate {
	return func(r models.RideRecord) bool { return r.BookingStatus == s }
}

// LoadStats describes what happened while parsing the source
type LoadStats struct {
	Rows           int `json:"rows"`
	InvalidRatings int `json:"invalid_ratings"` // Out-of-scale ratings dropped to absent
}

// Table is an immutable, ordered set of ride records. Every method that
// narrows a table returns a new one; nothing aliases the receiver's storage.
type Table struct {
	records []models.RideRecord
	stats   LoadStats
}

// NewTable builds a table from a copy of records
func NewTable(records []models.RideRecord) *Table {
	cp := make([]models.RideRecord, len(records))
	copy(cp, records)
	return &Table{records: cp, stats: LoadStats{Rows: len(cp)}}
}

// Len returns the row count
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Row returns a copy of the i-th row
func (t *Table) Row(i int) models.RideRecord {
	return t.records[i]
}

// Records returns a copy of all rows
func (t *Table) Records() []models.RideRecord {
	cp := make([]models.RideRecord, t.Len())
	if t != nil {
		copy(cp, t.records)
	}
	return cp
}

// Each calls fn for every row in order
func (t *Table) Each(fn func(r models.RideRecord)) {
	if t == nil {
		return
	}
	for _, r := range t.records {
		fn(r)
	}
}

// Where returns the rows matching pred, order preserved
func (t *Table) Where(pred Predicate) *Table {
	out := &Table{}
	if t == nil {
		return out
	}
	for _, r := range t.records {
		if pred(r) {
			out.records = append(out.records, r)
		}
	}
	out.stats = LoadStats{Rows: len(out.records)}
	return out
}

// DateBounds returns the earliest and latest booking day. ok is false for
// an empty table.
func (t *Table) DateBounds() (min, max time.Time, ok bool) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = t.records[0].Date, t.records[0].Date
	for _, r := range t.records[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, true
}

// LoadStats returns parse statistics recorded when the table was loaded
func (t *Table) LoadStats() LoadStats {
	if t == nil {
		return LoadStats{}
	}
	return t.stats
}

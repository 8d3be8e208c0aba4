package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/rides-dashboard-go/internal/models"
)

// FilterRange returns the rows whose booking day lies in [start, end].
// Bounds are compared at day granularity. A range wider than the data is
// fine, and an empty intersection yields an empty table.
func FilterRange(t *Table, start, end time.Time) (*Table, error) {
	start, end = Day(start), Day(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, start.Format(models.DateLayout), end.Format(models.DateLayout))
	}

	return t.Where(func(r models.RideRecord) bool {
		return !r.Date.Before(start) && !r.Date.After(end)
	}), nil
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD request parameter
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidRange, s)
	}
	return d, nil
}

// ResolveRange turns an optional request range into concrete bounds.
// A missing start defaults to the earlier of the data minimum and the
// requested end; a missing end to the later of the data maximum and the
// requested start. Only an explicit start after an explicit end is invalid.
func ResolveRange(t *Table, q models.DateRangeQuery) (models.DateRange, error) {
	min, max, ok := t.DateBounds()
	if !ok {
		min, max = Day(time.Now()), Day(time.Now())
	}

	var start, end time.Time
	if q.Start != "" {
		d, err := ParseDay(q.Start)
		if err != nil {
			return models.DateRange{}, err
		}
		start = d
	}
	if q.End != "" {
		d, err := ParseDay(q.End)
		if err != nil {
			return models.DateRange{}, err
		}
		end = d
	}

	switch {
	case q.Start != "" && q.End != "":
		if start.After(end) {
			return models.DateRange{}, fmt.Errorf("%w: start %s is after end %s",
				ErrInvalidRange, start.Format(models.DateLayout), end.Format(models.DateLayout))
		}
	case q.Start != "":
		end = max
		if start.After(end) {
			end = start
		}
	case q.End != "":
		start = min
		if start.After(end) {
			start = end
		}
	default:
		start, end = min, max
	}
	return models.DateRange{Start: start, End: end}, nil
}

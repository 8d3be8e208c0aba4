package models

import "time"

// DateRangeQuery represents the global date filter of every dashboard page
type DateRangeQuery struct {
	Start string `form:"start"` // YYYY-MM-DD, inclusive; empty = dataset minimum
	End   string `form:"end"`   // YYYY-MM-DD, inclusive; empty = dataset maximum
}

// DateRange is a resolved, inclusive day interval
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DateRangeView is a range rendered as day strings
type DateRangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// View formats the range for responses
func (r DateRange) View() DateRangeView {
	return DateRangeView{
		Start: r.Start.Format(DateLayout),
		End:   r.End.Format(DateLayout),
	}
}

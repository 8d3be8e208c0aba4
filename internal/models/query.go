package models

// CannedQuery is a fixed, parameterless SQL statement offered by the explorer
type CannedQuery struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	SQL   string `json:"sql"`
}

// QueryResult represents the rows returned by a canned query
type QueryResult struct {
	Query      CannedQuery `json:"query"`
	Columns    []string    `json:"columns"`
	Rows       [][]any     `json:"rows"`
	RowCount   int         `json:"row_count"`
	DurationMS int64       `json:"duration_ms"`
}

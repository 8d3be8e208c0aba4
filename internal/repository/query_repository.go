package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/rides-dashboard-go/internal/database"
	"github.com/jengzang/rides-dashboard-go/internal/models"
)

// ErrUnknownQuery is returned for a query id outside the canned set
var ErrUnknownQuery = errors.New("unknown query")

// cannedQueries are run verbatim; they take no parameters
var cannedQueries = []models.CannedQuery{
	{ID: 1, Label: "Retrieve all successful bookings", SQL: `
		SELECT * FROM rides WHERE "Booking_Status" = 'Success' LIMIT 10;`},
	{ID: 2, Label: "Average ride distance by vehicle type", SQL: `
		SELECT "Vehicle_Type", AVG("Ride_Distance") AS avg_distance
		FROM rides GROUP BY "Vehicle_Type";`},
	{ID: 3, Label: "Total cancelled rides by customers", SQL: `
		SELECT COUNT(*) AS total_customer_cancellations
		FROM rides WHERE "Booking_Status" = 'Canceled by Customer';`},
	{ID: 4, Label: "Top 5 customers by rides", SQL: `
		SELECT "Customer_ID", COUNT(*) AS total_rides
		FROM rides GROUP BY "Customer_ID"
		ORDER BY total_rides DESC LIMIT 5;`},
	{ID: 5, Label: "Driver cancellations (personal & car issues)", SQL: `
		SELECT COUNT(*) AS driver_cancellations_personal
		FROM rides WHERE "Booking_Status" = 'Canceled by Driver'
		AND "Canceled_Rides_by_Driver" = 'Personal & Car related issue';`},
	{ID: 6, Label: "Max & Min driver ratings for Prime Sedan", SQL: `
		SELECT MAX("Driver_Ratings") AS max_rating, MIN("Driver_Ratings") AS min_rating
		FROM rides WHERE "Vehicle_Type" = 'Prime Sedan' AND "Driver_Ratings" IS NOT NULL;`},
	{ID: 7, Label: "All rides paid with UPI", SQL: `
		SELECT * FROM rides WHERE "Payment_Method" = 'UPI' LIMIT 10;`},
	{ID: 8, Label: "Average customer rating per vehicle type", SQL: `
		SELECT "Vehicle_Type", AVG("Customer_Rating") AS avg_rating
		FROM rides WHERE "Customer_Rating" IS NOT NULL
		GROUP BY "Vehicle_Type";`},
	{ID: 9, Label: "Total booking value of successful rides", SQL: `
		SELECT SUM("Booking_Value") AS total_success_value
		FROM rides WHERE "Booking_Status" = 'Success';`},
	{ID: 10, Label: "Incomplete rides with reasons", SQL: `
		SELECT Booking_ID, Incomplete_Rides, Incomplete_Rides_Reason
		FROM rides WHERE Incomplete_Rides = 'Yes' LIMIT 10;`},
}

// QueryRepository runs the canned queries against the read-only store
type QueryRepository struct {
	path string
}

// NewQueryRepository creates a repository over the store file at path.
// Nothing is opened until a query runs.
func NewQueryRepository(path string) *QueryRepository {
	return &QueryRepository{path: path}
}

// List returns the canned queries in id order
func (r *QueryRepository) List() []models.CannedQuery {
	out := make([]models.CannedQuery, len(cannedQueries))
	for i, q := range cannedQueries {
		q.SQL = strings.TrimSpace(q.SQL)
		out[i] = q
	}
	return out
}

// Get returns one canned query by id
func (r *QueryRepository) Get(id int) (models.CannedQuery, error) {
	for _, q := range r.List() {
		if q.ID == id {
			return q, nil
		}
	}
	return models.CannedQuery{}, fmt.Errorf("%w: %d", ErrUnknownQuery, id)
}

// Execute runs the canned query id on a fresh read-only connection that is
// closed before returning
func (r *QueryRepository) Execute(ctx context.Context, id int) (*models.QueryResult, error) {
	q, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	db, err := database.OpenReadOnly(ctx, r.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	start := time.Now()
	rows, err := db.QueryContext(ctx, q.SQL)
	if err != nil {
		return nil, fmt.Errorf("failed to run query %d: %w", id, err)
	}
	defer rows.Close()

	columns, data, err := scanAll(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read query %d: %w", id, err)
	}

	return &models.QueryResult{
		Query:      q,
		Columns:    columns,
		Rows:       data,
		RowCount:   len(data),
		DurationMS: time.Since(start).Milliseconds(),
	}, nil
}

// scanAll reads every row into generic cells. Text comes back as string,
// NULL as nil.
func scanAll(rows *sql.Rows) ([]string, [][]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	data := [][]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}
	return columns, data, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/rides-dashboard-go/internal/database"
	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/internal/models"
)

// RideRepository writes ride records into the query store. It is only used
// when building the store; the server never writes.
type RideRepository struct {
	db *sql.DB
}

// NewRideRepository creates a new ride repository
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{db: db}
}

const insertRide = `INSERT INTO rides (
	"Date", "Time", "Booking_ID", "Booking_Status", "Customer_ID", "Vehicle_Type",
	"Pickup_Location", "Drop_Location", "V_TAT", "C_TAT",
	"Canceled_Rides_by_Customer", "Canceled_Rides_by_Driver",
	"Incomplete_Rides", "Incomplete_Rides_Reason", "Booking_Value", "Payment_Method",
	"Ride_Distance", "Driver_Ratings", "Customer_Rating",
	"Day_of_Week", "Ride_Hour", "Ride_Week"
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertAll writes every row of t in one transaction and returns the
// number of rows written
func (r *RideRepository) InsertAll(ctx context.Context, t *dataset.Table) (int, error) {
	written := 0
	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertRide)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i := 0; i < t.Len(); i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := t.Row(i)
			if _, err := stmt.ExecContext(ctx, rideArgs(rec)...); err != nil {
				return fmt.Errorf("failed to insert ride %s: %w", rec.BookingID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Count returns the number of rows in the rides table
func (r *RideRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rides`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rides: %w", err)
	}
	return n, nil
}

func rideArgs(rec models.RideRecord) []interface{} {
	incomplete := "No"
	if rec.IncompleteRides {
		incomplete = "Yes"
	}
	return []interface{}{
		rec.DateKey(),
		nullString(rec.Time),
		rec.BookingID,
		rec.BookingStatus.String(),
		nullString(rec.CustomerID),
		nullString(rec.VehicleType),
		nullString(rec.PickupLocation),
		nullString(rec.DropLocation),
		nullFloat(rec.VTAT),
		nullFloat(rec.CTAT),
		nullString(rec.CanceledByCustomer),
		nullString(rec.CanceledByDriver),
		incomplete,
		nullString(rec.IncompleteReason),
		nullFloat(rec.BookingValue),
		nullString(rec.PaymentMethod),
		nullFloat(rec.RideDistance),
		nullFloat(rec.DriverRatings),
		nullFloat(rec.CustomerRating),
		rec.DayOfWeek,
		rec.RideHour,
		rec.RideWeek,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v models.OptionalFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Value, Valid: v.Valid}
}

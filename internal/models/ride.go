package models

import (
	"encoding/json"
	"time"
)

// OptionalFloat is a numeric cell that may be absent in the source extract.
// Absent values are never treated as zero.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Some wraps a present value
func Some(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// MarshalJSON encodes an absent value as null
func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// RideRecord represents one booking attempt from the rides extract
type RideRecord struct {
	// Booking identification
	BookingID     string        `json:"booking_id"`
	Date          time.Time     `json:"date"`           // UTC midnight of the booking day
	Time          string        `json:"time,omitempty"` // HH:MM:SS as recorded
	BookingStatus BookingStatus `json:"booking_status"`
	CustomerID    string        `json:"customer_id"`

	// Trip
	VehicleType    string        `json:"vehicle_type"`
	PickupLocation string        `json:"pickup_location"`
	DropLocation   string        `json:"drop_location"`
	VTAT           OptionalFloat `json:"v_tat"` // Vehicle turnaround time, minutes
	CTAT           OptionalFloat `json:"c_tat"` // Customer turnaround time, minutes
	RideDistance   OptionalFloat `json:"ride_distance"`

	// Cancellation and completion
	CanceledByCustomer string `json:"canceled_rides_by_customer,omitempty"`
	CanceledByDriver   string `json:"canceled_rides_by_driver,omitempty"`
	IncompleteRides    bool   `json:"incomplete_rides"`
	IncompleteReason   string `json:"incomplete_rides_reason,omitempty"`

	// Payment
	BookingValue  OptionalFloat `json:"booking_value"`
	PaymentMethod string        `json:"payment_method"`

	// Ratings (0-5 scale)
	DriverRatings  OptionalFloat `json:"driver_ratings"`
	CustomerRating OptionalFloat `json:"customer_rating"`

	// Calendar facets derived from Date at load time
	DayOfWeek string `json:"day_of_week"`
	RideHour  int    `json:"ride_hour"`
	RideWeek  int    `json:"ride_week"` // ISO week number
}

// DateKey returns the booking day as YYYY-MM-DD
func (r RideRecord) DateKey() string {
	return r.Date.Format(DateLayout)
}

// DateLayout is the day format used on the wire
const DateLayout = "2006-01-02"

package stats

import (
	"fmt"
	"strconv"

	"github.com/jengzang/rides-dashboard-go/internal/models"
)

// Column names a ride attribute that can be grouped on or reduced
type Column string

// Categorical columns
const (
	ColBookingID          Column = "booking_id"
	ColDate               Column = "date"
	ColBookingStatus      Column = "booking_status"
	ColCustomerID         Column = "customer_id"
	ColVehicleType        Column = "vehicle_type"
	ColPickupLocation     Column = "pickup_location"
	ColDropLocation       Column = "drop_location"
	ColPaymentMethod      Column = "payment_method"
	ColDayOfWeek          Column = "day_of_week"
	ColRideHour           Column = "ride_hour"
	ColRideWeek           Column = "ride_week"
	ColIncompleteReason   Column = "incomplete_rides_reason"
	ColCanceledByDriver   Column = "canceled_rides_by_driver"
	ColCanceledByCustomer Column = "canceled_rides_by_customer"
)

// Numeric columns
const (
	ColBookingValue   Column = "booking_value"
	ColRideDistance   Column = "ride_distance"
	ColCustomerRating Column = "customer_rating"
	ColDriverRatings  Column = "driver_ratings"
	ColVTAT           Column = "v_tat"
	ColCTAT           Column = "c_tat"
)

// Label returns the categorical value of c for r. ok is false when the
// value is absent.
func (c Column) Label(r models.RideRecord) (string, bool) {
	var v string
	switch c {
	case ColBookingID:
		v = r.BookingID
	case ColDate:
		v = r.DateKey()
	case ColBookingStatus:
		v = r.BookingStatus.String()
	case ColCustomerID:
		v = r.CustomerID
	case ColVehicleType:
		v = r.VehicleType
	case ColPickupLocation:
		v = r.PickupLocation
	case ColDropLocation:
		v = r.DropLocation
	case ColPaymentMethod:
		v = r.PaymentMethod
	case ColDayOfWeek:
		v = r.DayOfWeek
	case ColRideHour:
		v = strconv.Itoa(r.RideHour)
	case ColRideWeek:
		v = strconv.Itoa(r.RideWeek)
	case ColIncompleteReason:
		v = r.IncompleteReason
	case ColCanceledByDriver:
		v = r.CanceledByDriver
	case ColCanceledByCustomer:
		v = r.CanceledByCustomer
	default:
		if f, ok := c.Value(r); ok {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		return "", false
	}
	return v, v != ""
}

// Value returns the numeric value of c for r. ok is false when the value
// is absent or c is not numeric.
func (c Column) Value(r models.RideRecord) (float64, bool) {
	var v models.OptionalFloat
	switch c {
	case ColBookingValue:
		v = r.BookingValue
	case ColRideDistance:
		v = r.RideDistance
	case ColCustomerRating:
		v = r.CustomerRating
	case ColDriverRatings:
		v = r.DriverRatings
	case ColVTAT:
		v = r.VTAT
	case ColCTAT:
		v = r.CTAT
	case ColRideHour:
		return float64(r.RideHour), true
	case ColRideWeek:
		return float64(r.RideWeek), true
	}
	return v.Value, v.Valid
}

// IsNumeric reports whether Value can ever succeed for c
func (c Column) IsNumeric() bool {
	switch c {
	case ColBookingValue, ColRideDistance, ColCustomerRating, ColDriverRatings,
		ColVTAT, ColCTAT, ColRideHour, ColRideWeek:
		return true
	}
	return false
}

// Known reports whether c names a ride attribute
func (c Column) Known() bool {
	if c.IsNumeric() {
		return true
	}
	switch c {
	case ColBookingID, ColDate, ColBookingStatus, ColCustomerID, ColVehicleType,
		ColPickupLocation, ColDropLocation, ColPaymentMethod, ColDayOfWeek,
		ColIncompleteReason, ColCanceledByDriver, ColCanceledByCustomer:
		return true
	}
	return false
}

func (c Column) check() error {
	if !c.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, string(c))
	}
	return nil
}

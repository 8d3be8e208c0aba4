package models

import "strings"

// BookingStatus is the outcome of a booking attempt
type BookingStatus string

const (
	StatusSuccess            BookingStatus = "Success"
	StatusCanceledByCustomer BookingStatus = "Canceled by Customer"
	StatusCanceledByDriver   BookingStatus = "Canceled by Driver"
	StatusDriverNotFound     BookingStatus = "Driver Not Found"
)

var knownStatuses = map[string]BookingStatus{
	"success":               StatusSuccess,
	"canceled by customer":  StatusCanceledByCustomer,
	"cancelled by customer": StatusCanceledByCustomer,
	"canceled by driver":    StatusCanceledByDriver,
	"cancelled by driver":   StatusCanceledByDriver,
	"driver not found":      StatusDriverNotFound,
}

// ParseBookingStatus normalizes a raw status label. Unknown labels are kept
// verbatim (trimmed) so they still group separately.
func ParseBookingStatus(raw string) BookingStatus {
	trimmed := strings.TrimSpace(raw)
	if s, ok := knownStatuses[strings.ToLower(trimmed)]; ok {
		return s
	}
	return BookingStatus(trimmed)
}

// IsSuccess reports whether the ride completed
func (s BookingStatus) IsSuccess() bool {
	return s == StatusSuccess
}

// IsCanceled reports whether either party canceled. Driver Not Found is not
// a cancellation.
func (s BookingStatus) IsCanceled() bool {
	return s == StatusCanceledByCustomer || s == StatusCanceledByDriver
}

func (s BookingStatus) String() string {
	return string(s)
}

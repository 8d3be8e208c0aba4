package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/rides-dashboard-go/internal/models"
)

// CSV header names of the cleaned rides extract
const (
	ColDate               = "Date"
	ColTime               = "Time"
	ColBookingID          = "Booking_ID"
	ColBookingStatus      = "Booking_Status"
	ColCustomerID         = "Customer_ID"
	ColVehicleType        = "Vehicle_Type"
	ColPickupLocation     = "Pickup_Location"
	ColDropLocation       = "Drop_Location"
	ColVTAT               = "V_TAT"
	ColCTAT               = "C_TAT"
	ColCanceledByCustomer = "Canceled_Rides_by_Customer"
	ColCanceledByDriver   = "Canceled_Rides_by_Driver"
	ColIncompleteRides    = "Incomplete_Rides"
	ColIncompleteReason   = "Incomplete_Rides_Reason"
	ColBookingValue       = "Booking_Value"
	ColPaymentMethod      = "Payment_Method"
	ColRideDistance       = "Ride_Distance"
	ColDriverRatings      = "Driver_Ratings"
	ColCustomerRating     = "Customer_Rating"
	ColRideHour           = "Ride_Hour"
)

// RequiredColumns must be present in the header
var RequiredColumns = []string{
	ColBookingID, ColDate, ColBookingStatus, ColVehicleType, ColCustomerID,
	ColPickupLocation, ColDropLocation, ColBookingValue, ColPaymentMethod,
	ColRideDistance, ColDriverRatings, ColCustomerRating,
}

// MaxRating is the top of the platform's rating scale
const MaxRating = 5.0

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"01/02/2006 15:04",
	"02-01-2006",
}

// Load reads and parses the rides extract from src
func Load(ctx context.Context, src Source) (*Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src.Name(), err)
	}
	defer rc.Close()

	return Parse(rc)
}

// LoadFile is shorthand for loading a local CSV
func LoadFile(ctx context.Context, path string) (*Table, error) {
	return Load(ctx, FileSource{Path: path})
}

// Parse builds a table from CSV text with a header row
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file, no header row", ErrSchemaMismatch)
		}
		return nil, readError(err)
	}

	idx := indexHeader(header)
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	p := rowParser{idx: idx}
	seen := make(map[string]int)
	t := &Table{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		line++

		ride, err := p.parse(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSchemaMismatch, line, err)
		}
		if prev, dup := seen[ride.BookingID]; dup {
			return nil, fmt.Errorf("%w: line %d: booking id %q already seen on line %d",
				ErrSchemaMismatch, line, ride.BookingID, prev)
		}
		seen[ride.BookingID] = line
		t.records = append(t.records, ride)
	}

	t.stats = LoadStats{Rows: len(t.records), InvalidRatings: p.invalidRatings}
	return t, nil
}

func readError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
}

// indexHeader maps canonical column names to positions. Matching ignores
// case, surrounding spaces and a UTF-8 BOM.
func indexHeader(header []string) map[string]int {
	canonical := make(map[string]string)
	for _, c := range []string{
		ColDate, ColTime, ColBookingID, ColBookingStatus, ColCustomerID, ColVehicleType,
		ColPickupLocation, ColDropLocation, ColVTAT, ColCTAT, ColCanceledByCustomer,
		ColCanceledByDriver, ColIncompleteRides, ColIncompleteReason, ColBookingValue,
		ColPaymentMethod, ColRideDistance, ColDriverRatings, ColCustomerRating, ColRideHour,
	} {
		canonical[strings.ToLower(c)] = c
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if c, ok := canonical[h]; ok {
			idx[c] = i
		}
	}
	return idx
}

type rowParser struct {
	idx            map[string]int
	invalidRatings int
}

func (p *rowParser) cell(rec []string, col string) string {
	i, ok := p.idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// text returns a categorical cell with missing markers mapped to ""
func (p *rowParser) text(rec []string, col string) string {
	v := p.cell(rec, col)
	if isMissing(v) {
		return ""
	}
	return v
}

func (p *rowParser) parse(rec []string) (models.RideRecord, error) {
	var r models.RideRecord

	r.BookingID = p.cell(rec, ColBookingID)
	if r.BookingID == "" {
		return r, fmt.Errorf("empty %s", ColBookingID)
	}

	ts, hasClock, err := parseDate(p.cell(rec, ColDate))
	if err != nil {
		return r, err
	}
	r.Date = Day(ts)

	r.Time = p.text(rec, ColTime)
	r.RideHour, err = p.hour(rec, ts, hasClock)
	if err != nil {
		return r, err
	}
	r.DayOfWeek = r.Date.Weekday().String()
	_, r.RideWeek = r.Date.ISOWeek()

	r.BookingStatus = models.ParseBookingStatus(p.cell(rec, ColBookingStatus))
	r.CustomerID = p.text(rec, ColCustomerID)
	r.VehicleType = p.text(rec, ColVehicleType)
	r.PickupLocation = p.text(rec, ColPickupLocation)
	r.DropLocation = p.text(rec, ColDropLocation)
	r.CanceledByCustomer = p.text(rec, ColCanceledByCustomer)
	r.CanceledByDriver = p.text(rec, ColCanceledByDriver)
	r.IncompleteReason = p.text(rec, ColIncompleteReason)
	r.PaymentMethod = p.text(rec, ColPaymentMethod)

	r.IncompleteRides, err = parseFlag(p.cell(rec, ColIncompleteRides))
	if err != nil {
		return r, fmt.Errorf("%s: %v", ColIncompleteRides, err)
	}

	if r.VTAT, err = p.nonNegative(rec, ColVTAT); err != nil {
		return r, err
	}
	if r.CTAT, err = p.nonNegative(rec, ColCTAT); err != nil {
		return r, err
	}
	if r.BookingValue, err = p.nonNegative(rec, ColBookingValue); err != nil {
		return r, err
	}
	if r.RideDistance, err = p.nonNegative(rec, ColRideDistance); err != nil {
		return r, err
	}
	if r.DriverRatings, err = p.rating(rec, ColDriverRatings); err != nil {
		return r, err
	}
	if r.CustomerRating, err = p.rating(rec, ColCustomerRating); err != nil {
		return r, err
	}

	return r, nil
}

// hour prefers the Time column, then a clock in Date, then a precomputed
// Ride_Hour column.
func (p *rowParser) hour(rec []string, ts time.Time, hasClock bool) (int, error) {
	if t := p.text(rec, ColTime); t != "" {
		for _, layout := range []string{"15:04:05", "15:04"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.Hour(), nil
			}
		}
		return 0, fmt.Errorf("%s: cannot parse %q", ColTime, t)
	}
	if hasClock {
		return ts.Hour(), nil
	}
	if h := p.text(rec, ColRideHour); h != "" {
		f, err := strconv.ParseFloat(h, 64)
		if err != nil || f < 0 || f > 23 {
			return 0, fmt.Errorf("%s: cannot parse %q", ColRideHour, h)
		}
		return int(f), nil
	}
	return 0, nil
}

func (p *rowParser) number(rec []string, col string) (models.OptionalFloat, error) {
	v := p.cell(rec, col)
	if isMissing(v) {
		return models.OptionalFloat{}, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return models.OptionalFloat{}, fmt.Errorf("%s: cannot parse %q as number", col, v)
	}
	if math.IsNaN(f) {
		return models.OptionalFloat{}, nil
	}
	if math.IsInf(f, 0) {
		return models.OptionalFloat{}, fmt.Errorf("%s: infinite value", col)
	}
	return models.Some(f), nil
}

func (p *rowParser) nonNegative(rec []string, col string) (models.OptionalFloat, error) {
	v, err := p.number(rec, col)
	if err != nil {
		return v, err
	}
	if v.Valid && v.Value < 0 {
		return models.OptionalFloat{}, fmt.Errorf("%s: negative value %v", col, v.Value)
	}
	return v, nil
}

// rating drops out-of-scale values to absent and counts them
func (p *rowParser) rating(rec []string, col string) (models.OptionalFloat, error) {
	v, err := p.number(rec, col)
	if err != nil {
		return v, err
	}
	if v.Valid && (v.Value < 0 || v.Value > MaxRating) {
		p.invalidRatings++
		return models.OptionalFloat{}, nil
	}
	return v, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if s == "" {
		return time.Time{}, false, fmt.Errorf("empty %s", ColDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, strings.Contains(layout, "15"), nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%s: cannot parse %q", ColDate, s)
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0", "":
		return false, nil
	}
	if isMissing(s) {
		return false, nil
	}
	return false, fmt.Errorf("cannot parse %q as yes/no", s)
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "null", "none", "na", "n/a":
		return true
	}
	return false
}

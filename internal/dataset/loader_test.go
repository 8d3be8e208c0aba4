package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rides-dashboard-go/internal/models"
)

const sampleHeader = "Date,Time,Booking_ID,Booking_Status,Customer_ID,Vehicle_Type,Pickup_Location,Drop_Location," +
	"V_TAT,C_TAT,Canceled_Rides_by_Customer,Canceled_Rides_by_Driver,Incomplete_Rides,Incomplete_Rides_Reason," +
	"Booking_Value,Payment_Method,Ride_Distance,Driver_Ratings,Customer_Rating\n"

const sampleCSV = sampleHeader +
	"2024-07-26,14:00:00,CNR001,Success,CID1,Auto,Whitefield,Indiranagar,60,90,,,No,,250,UPI,12.5,4.5,4.0\n" +
	"2024-07-26,08:15:00,CNR002,Canceled by Customer,CID2,Bike,Vijayanagar,Whitefield,,,Change of plans,,No,,,Not Applicable,,,\n" +
	"2024-07-27,21:30:00,CNR003,Canceled by Driver,CID1,Prime Sedan,Whitefield,Koramangala,,,,Personal & Car related issue,No,,,Not Applicable,,,\n" +
	"2024-07-29,09:00:00,CNR004,Driver Not Found,CID3,eBike,Tumkur Road,Hebbal,,,,,No,,,Not Applicable,,,\n" +
	"2024-07-29,19:45:00,CNR005,Success,CID4,Auto,Whitefield,Hebbal,30,45,,,Yes,Vehicle Breakdown,180,Cash,7,3.9,NaN\n"

func TestParse(t *testing.T) {
	t.Parallel()

	table, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 5, table.Len())

	first := table.Row(0)
	assert.Equal(t, "CNR001", first.BookingID)
	assert.Equal(t, time.Date(2024, 7, 26, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, models.StatusSuccess, first.BookingStatus)
	assert.Equal(t, models.Some(250), first.BookingValue)
	assert.Equal(t, 14, first.RideHour)
	assert.Equal(t, "Friday", first.DayOfWeek)
	assert.Equal(t, 30, first.RideWeek)

	canceled := table.Row(1)
	assert.True(t, canceled.BookingStatus.IsCanceled())
	assert.False(t, canceled.BookingValue.Valid, "absent fare must not become zero")
	assert.Equal(t, "Change of plans", canceled.CanceledByCustomer)

	last := table.Row(4)
	assert.True(t, last.IncompleteRides)
	assert.Equal(t, "Vehicle Breakdown", last.IncompleteReason)
	assert.False(t, last.CustomerRating.Valid)
	assert.Equal(t, "Monday", last.DayOfWeek)
	assert.Equal(t, 31, last.RideWeek)
}

func TestParseSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
	}{
		{name: "empty file", csv: ""},
		{name: "missing columns", csv: "Date,Booking_ID\n2024-01-01,A\n"},
		{name: "bad date", csv: sampleHeader + "yesterday,,A,Success,C,Auto,X,Y,,,,,No,,1,UPI,1,4,4\n"},
		{name: "bad number", csv: sampleHeader + "2024-01-01,,A,Success,C,Auto,X,Y,,,,,No,,abc,UPI,1,4,4\n"},
		{name: "negative distance", csv: sampleHeader + "2024-01-01,,A,Success,C,Auto,X,Y,,,,,No,,1,UPI,-3,4,4\n"},
		{name: "duplicate booking id", csv: sampleHeader +
			"2024-01-01,,A,Success,C,Auto,X,Y,,,,,No,,1,UPI,1,4,4\n" +
			"2024-01-02,,A,Success,C,Auto,X,Y,,,,,No,,1,UPI,1,4,4\n"},
		{name: "ragged row", csv: sampleHeader + "2024-01-01,A\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaMismatch), "got %v", err)
		})
	}
}

func TestParseRatingsOutOfScale(t *testing.T) {
	t.Parallel()

	csv := sampleHeader + "2024-01-01,,A,Success,C,Auto,X,Y,,,,,No,,1,UPI,1,7.5,4.2\n"
	table, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	r := table.Row(0)
	assert.False(t, r.DriverRatings.Valid)
	assert.Equal(t, models.Some(4.2), r.CustomerRating)
	assert.Equal(t, 1, table.LoadStats().InvalidRatings)
}

func TestParseHeaderVariants(t *testing.T) {
	t.Parallel()

	csv := "\ufeffbooking_id, date ,booking_status,vehicle_type,customer_id,pickup_location,drop_location," +
		"booking_value,payment_method,ride_distance,driver_ratings,customer_rating,Ride_Hour\n" +
		"A,2024-03-05,cancelled by driver,Auto,C,X,Y,,Not Applicable,,,,17\n"
	table, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, models.StatusCanceledByDriver, table.Row(0).BookingStatus)
	assert.Equal(t, 17, table.Row(0).RideHour)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads a file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "rides.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

		table, err := LoadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 5, table.Len())
	})

	t.Run("missing file is unavailable", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rides-dashboard-go/internal/auth"
	"github.com/jengzang/rides-dashboard-go/internal/models"
)

const ridesCSV = "Date,Time,Booking_ID,Booking_Status,Customer_ID,Vehicle_Type,Pickup_Location,Drop_Location," +
	"V_TAT,C_TAT,Canceled_Rides_by_Customer,Canceled_Rides_by_Driver,Incomplete_Rides,Incomplete_Rides_Reason," +
	"Booking_Value,Payment_Method,Ride_Distance,Driver_Ratings,Customer_Rating\n" +
	"2024-07-01,09:00:00,CNR1,Success,C1,Auto,Hebbal,Yelahanka,40,60,,,No,,100,UPI,5,4.5,4.0\n" +
	"2024-07-02,18:30:00,CNR2,Success,C2,Prime Sedan,Whitefield,Hebbal,50,70,,,No,,200,Cash,10,4.0,4.5\n" +
	"2024-07-03,07:10:00,CNR3,Canceled by Customer,C1,Auto,Hebbal,Jayanagar,,,Change of plans,,No,,,,,,\n" +
	"2024-07-04,21:45:00,CNR4,Canceled by Driver,C3,Bike,Hebbal,Koramangala,,,,Personal & Car related issue,No,,,,,,\n"

type workspace struct {
	dir    string
	csv    string
	db     string
	config string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		dir:    dir,
		csv:    filepath.Join(dir, "rides.csv"),
		db:     filepath.Join(dir, "rides.db"),
		config: filepath.Join(dir, "rides.toml"),
	}
	require.NoError(t, os.WriteFile(ws.csv, []byte(ridesCSV), 0o644))

	cfg := "[server]\njwt-secret = \"cli-secret\"\n\n[data]\ncsv = " + quote(ws.csv) + "\ndb = " + quote(ws.db) + "\n\n[log]\noutput = \"stderr\"\n"
	require.NoError(t, os.WriteFile(ws.config, []byte(cfg), 0o644))
	return ws
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildDBThenQuery(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)

	out, err := run(t, "build-db", "--config", ws.config)
	require.NoError(t, err)
	assert.Contains(t, out, "4 rides written")

	out, err = run(t, "query", "3", "--config", ws.config)
	require.NoError(t, err)
	var result models.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"total_customer_cancellations"}, result.Columns)
	assert.Equal(t, [][]any{{float64(1)}}, result.Rows)

	out, err = run(t, "query", "--config", ws.config)
	require.NoError(t, err)
	var list []models.CannedQuery
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 10)

	_, err = run(t, "query", "42", "--config", ws.config)
	assert.Error(t, err)
	_, err = run(t, "query", "first", "--config", ws.config)
	assert.Error(t, err)
}

func TestQueryWithoutStore(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)

	_, err := run(t, "query", "1", "--config", ws.config, "--db", filepath.Join(ws.dir, "absent.db"))
	assert.Error(t, err)
}

func TestKPICommand(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)

	out, err := run(t, "kpi", "--config", ws.config, "--start", "2024-07-01", "--end", "2024-07-02")
	require.NoError(t, err)

	var report models.KPIReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, "2024-07-01", report.Range.Start)
	require.Len(t, report.KPIs, 4)
	assert.Equal(t, "150", report.KPIs[2].Display)

	_, err = run(t, "kpi", "--config", ws.config, "--start", "2024-07-04", "--end", "2024-07-01")
	assert.Error(t, err)

	_, err = run(t, "kpi", "--config", ws.config, "--csv", filepath.Join(ws.dir, "missing.csv"))
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)

	out, err := run(t, "token", "--config", ws.config, "--subject", "ops", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := auth.Verify("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}

func TestConfigErrorsAbort(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[server]\nunknown = 1\n"), 0o644))

	_, err := run(t, "kpi", "--config", bad)
	assert.ErrorContains(t, err, "failed to load config")
}

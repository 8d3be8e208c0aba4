package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/jengzang/rides-dashboard-go/pkg/logger"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// RidesTable is the table the canned queries read
const RidesTable = "rides"

// RidesMigrations build the query store schema. Column names mirror the CSV
// header so the canned queries can quote them verbatim.
var RidesMigrations = []Migration{
	{
		Version: 1,
		Name:    "001_create_rides",
		SQL: `
			CREATE TABLE rides (
				"Date" TEXT NOT NULL,
				"Time" TEXT,
				"Booking_ID" TEXT PRIMARY KEY,
				"Booking_Status" TEXT NOT NULL,
				"Customer_ID" TEXT,
				"Vehicle_Type" TEXT,
				"Pickup_Location" TEXT,
				"Drop_Location" TEXT,
				"V_TAT" REAL,
				"C_TAT" REAL,
				"Canceled_Rides_by_Customer" TEXT,
				"Canceled_Rides_by_Driver" TEXT,
				"Incomplete_Rides" TEXT,
				"Incomplete_Rides_Reason" TEXT,
				"Booking_Value" REAL,
				"Payment_Method" TEXT,
				"Ride_Distance" REAL,
				"Driver_Ratings" REAL,
				"Customer_Rating" REAL,
				"Day_of_Week" TEXT,
				"Ride_Hour" INTEGER,
				"Ride_Week" INTEGER
			)
		`,
	},
	{
		Version: 2,
		Name:    "002_index_rides",
		SQL: `
			CREATE INDEX idx_rides_status ON rides ("Booking_Status");
			CREATE INDEX idx_rides_vehicle ON rides ("Vehicle_Type");
			CREATE INDEX idx_rides_customer ON rides ("Customer_ID");
		`,
	},
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db         *sql.DB
	migrations []Migration
	log        *logger.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB, log *logger.Logger, migrations []Migration) *MigrationManager {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	return &MigrationManager{
		db:         db,
		migrations: sorted,
		log:        log,
	}
}

// InitMigrationsTable creates the migrations tracking table
func (m *MigrationManager) InitMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns a list of applied migration versions
func (m *MigrationManager) GetAppliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ApplyMigration applies a single migration
func (m *MigrationManager) ApplyMigration(ctx context.Context, migration Migration) error {
	err := Transaction(ctx, m.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.log.WithField("version", migration.Version).Infof("Applied migration %s", migration.Name)
	return nil
}

// RunMigrations runs all pending migrations
func (m *MigrationManager) RunMigrations(ctx context.Context) error {
	if err := m.InitMigrationsTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if applied[migration.Version] {
			m.log.Debugf("Skipping already applied migration %d: %s", migration.Version, migration.Name)
			continue
		}

		if err := m.ApplyMigration(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}

package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/tailscale/tailsql/server/tailsql"

	"github.com/jengzang/rides-dashboard-go/internal/database"
)

// TailSQLPrefix is where the SQL console is mounted
const TailSQLPrefix = "/debug/tailsql/"

// NewTailSQL opens the query store read-only and serves a tailsql console
// over it. The caller closes the returned database on shutdown.
func NewTailSQL(ctx context.Context, dbPath string) (http.Handler, *sql.DB, error) {
	db, err := database.OpenReadOnly(ctx, dbPath)
	if err != nil {
		return nil, nil, err
	}

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: TailSQLPrefix,
	})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://"+dbPath, db, &tailsql.DBOptions{
		Label: "Rides query store",
	})
	return tsql.NewMux(), db, nil
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jengzang/rides-dashboard-go/internal/auth"
	"github.com/jengzang/rides-dashboard-go/internal/database"
	"github.com/jengzang/rides-dashboard-go/internal/models"
	"github.com/jengzang/rides-dashboard-go/internal/repository"
	"github.com/jengzang/rides-dashboard-go/internal/service"
)

func newBuildDBCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build-db",
		Short: "Write the rides extract into a fresh SQLite query store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd, true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			table, _, err := loadTable(ctx, cfg, log)
			if err != nil {
				return err
			}

			db, err := database.Create(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.NewMigrationManager(db, log, database.RidesMigrations).RunMigrations(ctx); err != nil {
				return err
			}

			n, err := repository.NewRideRepository(db).InsertAll(ctx, table)
			if err != nil {
				return err
			}

			log.Infof("Wrote %s rides to %s", humanize.Comma(int64(n)), cfg.DBPath)
			fmt.Fprintf(cmd.OutOrStdout(), "%d rides written to %s\n", n, cfg.DBPath)
			return nil
		},
	}
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "query [id]",
		Short: "Run a canned query against the query store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd, true)
			if err != nil {
				return err
			}
			svc := service.NewQueryService(repository.NewQueryRepository(cfg.DBPath), log)

			if list || len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), svc.List())
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid query id %q", args[0])
			}
			result, err := svc.Execute(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list the canned queries instead of running one")
	return cmd
}

func newKPICmd(opts *rootOptions) *cobra.Command {
	var query models.DateRangeQuery

	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Print the headline KPIs for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd, true)
			if err != nil {
				return err
			}

			table, source, err := loadTable(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			report, err := service.NewDashboardService(table, source, cfg.BIDashboardURL).KPIs(query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&query.Start, "start", "", "first day, YYYY-MM-DD (default: earliest booking)")
	cmd.Flags().StringVar(&query.End, "end", "", "last day, YYYY-MM-DD (default: latest booking)")
	return cmd
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the SQL explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load(cmd, true)
			if err != nil {
				return err
			}

			token, err := auth.Issue(cfg.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "analyst", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

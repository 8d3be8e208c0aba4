package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/rides-dashboard-go/internal/api"
	"github.com/jengzang/rides-dashboard-go/internal/config"
	"github.com/jengzang/rides-dashboard-go/internal/handler"
	"github.com/jengzang/rides-dashboard-go/internal/middleware"
	"github.com/jengzang/rides-dashboard-go/internal/render"
	"github.com/jengzang/rides-dashboard-go/internal/repository"
	"github.com/jengzang/rides-dashboard-go/internal/service"
	"github.com/jengzang/rides-dashboard-go/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the rides extract and serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = config.NormalizePort(port)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// 加载数据集
			table, source, err := loadTable(ctx, cfg, log)
			if err != nil {
				log.WithError(err).Error("Failed to load rides dataset")
				return err
			}

			dashboardService := service.NewDashboardService(table, source, cfg.BIDashboardURL)
			queryService := service.NewQueryService(repository.NewQueryRepository(cfg.DBPath), log)

			deps := api.Deps{
				Log: log,
				Dashboard: handler.NewDashboardHandler(dashboardService, render.Options{
					AssetsHost: cfg.ChartAssetsHost,
				}),
				Queries:   handler.NewQueryHandler(queryService),
				JWTSecret: cfg.JWTSecret,
			}

			if cfg.RateLimitPerMinute > 0 {
				limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
				defer limiter.Stop()
				deps.Limiter = limiter
			}

			if cfg.TailSQLEnabled {
				h, db, err := api.NewTailSQL(ctx, cfg.DBPath)
				if err != nil {
					log.WithError(err).Warn("SQL console disabled")
				} else {
					defer db.Close()
					deps.TailSQL = h
					log.Infof("SQL console mounted at %s", api.TailSQLPrefix)
				}
			}

			errorLog := log.WithField("component", "http").Writer(logger.WarnLevel)
			defer errorLog.Close()

			// 初始化路由
			srv := &http.Server{
				Addr:              cfg.Port,
				Handler:           api.SetupRouter(deps),
				ReadHeaderTimeout: 10 * time.Second,
				ErrorLog:          stdlog.New(errorLog, "", 0),
			}

			// 启动服务器
			errCh := make(chan error, 1)
			go func() {
				log.Infof("Server starting on port %s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("failed to start server: %w", err)
			case <-ctx.Done():
			}

			log.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen address, e.g. :8080 (overrides PORT)")
	return cmd
}

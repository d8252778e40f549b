package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"complyhub/docs"
	"complyhub/internal/database/migration"
	handlers "complyhub/internal/http/handler"
	"complyhub/internal/http/middleware"
	"complyhub/internal/jobs"
	"complyhub/internal/otel"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP API and background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := otel.Init(ctx, otel.SettingsFromEnv(), log)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				log.WithError(err).Warn("tracing shutdown")
			}
		}()

		a, err := bootstrap(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.close()

		if err := migration.EnsureMigrated(ctx, a.db, log, cfg.Database.Host); err != nil {
			return err
		}

		prom, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}

		server := fiber.New(fiber.Config{
			ErrorHandler:          handlers.ErrorHandler(log),
			BodyLimit:             uploadBodyLimit,
			DisableStartupMessage: true,
		})
		server.Use(otelfiber.Middleware())
		server.Use(middleware.RequestID())
		server.Use(middleware.Logger(log))
		server.Use(prom.Handler())
		server.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		handlers.RegisterRoutes(server, handlers.Deps{
			DB:         a.db,
			Documents:  a.documents,
			Links:      a.links,
			Evidence:   a.evidence,
			Mappings:   a.mappings,
			Sync:       a.sync,
			Scheduler:  a.scheduler,
			Reindex:    a.reindex,
			Limiter:    a.limiter,
			RateLimits: cfg.RateLimit,
			Log:        log,
		})

		// Swagger UI with dynamic host and scheme
		server.Get("/swagger/*", func(c *fiber.Ctx) error {
			scheme := c.Protocol()
			if proto := c.Get("X-Forwarded-Proto"); proto != "" {
				scheme = strings.Split(proto, ",")[0]
			}
			docs.SwaggerInfo.Host = c.Get("Host")
			docs.SwaggerInfo.Schemes = []string{scheme}
			return swagger.HandlerDefault(c)
		})

		if cfg.Scheduler.Enabled {
			runner := jobs.NewRunner(time.Hour, log)
			if err := runner.Add("overdue_reminders", cfg.Scheduler.ReminderSpec, jobs.ReminderSweep(a.scheduler, log)); err != nil {
				return err
			}
			runner.Start()
			defer runner.Stop()
		}

		errCh := make(chan error, 1)
		go func() {
			log.WithField("addr", ":"+cfg.Port).Info("http server listening")
			errCh <- server.Listen(":" + cfg.Port)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		return server.ShutdownWithTimeout(shutdownTimeout)
	},
}

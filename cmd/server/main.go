package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"sadapurne/internal/document"
	"sadapurne/internal/platform/config"
	"sadapurne/internal/platform/health"
	"sadapurne/internal/platform/logger"
	"sadapurne/internal/platform/metrics"
	"sadapurne/internal/producer/export"
	producerhandler "sadapurne/internal/producer/handler"
	producermetrics "sadapurne/internal/producer/metrics"
	verifyhandler "sadapurne/internal/verification/handler"
	verifymetrics "sadapurne/internal/verification/metrics"
	"sadapurne/internal/verification/policy"
	"sadapurne/internal/verification/service"
	"sadapurne/pkg/platform/middleware/request"
	"sadapurne/pkg/platform/tracer"
)

// main wires dependencies, exposes the HTTP router and keeps the server
// lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pol, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		return err
	}

	log.Info("initializing sadapurne",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"producer_store", cfg.Storage.Backend,
		"audit_sink", cfg.Audit.Sink,
		"state_license_threshold", pol.Income.StateLicenseThreshold,
		"central_license_threshold", pol.Income.CentralLicenseThreshold,
	)

	reg := metrics.NewRegistry(health.Version, cfg.Server.Environment)
	healthHandler := health.New(cfg.Server.Environment)
	g, gctx := errgroup.WithContext(ctx)

	deps := &infra{cfg: cfg, log: log, reg: reg, health: healthHandler, group: g}
	defer deps.close()

	producerMetrics := producermetrics.New(reg)
	producers, err := deps.producerStore(gctx, producerMetrics)
	if err != nil {
		return err
	}
	auditPublisher, err := deps.auditPublisher(gctx)
	if err != nil {
		return err
	}

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		tr = tracer.NewOTel()
	}

	verifier := service.New(document.NewPDFExtractor(), producers,
		service.WithLogger(log),
		service.WithMetrics(verifymetrics.New(reg)),
		service.WithTracer(tr),
		service.WithAuditPublisher(auditPublisher),
		service.WithNameConfig(pol.Names),
		service.WithIncomeConfig(pol.Income),
	)

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.ClientMetadata)
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(request.NewMetrics(reg)))
	r.Use(request.Timeout(cfg.Server.RequestTimeout))
	r.Use(request.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(request.ContentTypeJSON)

	verifyhandler.New(verifier, log).Register(r)
	producerhandler.New(producers, export.New(producers, log), log,
		producerhandler.WithAuditPublisher(auditPublisher),
		producerhandler.WithMetrics(producerMetrics),
	).Register(r)
	healthHandler.Register(r)
	r.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

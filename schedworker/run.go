// Package schedworker wires and runs the schedule-assist worker process.
package schedworker

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/veltaplan/schedule-assist/internal/api"
	"github.com/veltaplan/schedule-assist/internal/assembler"
	"github.com/veltaplan/schedule-assist/internal/config"
	"github.com/veltaplan/schedule-assist/internal/gateway"
	"github.com/veltaplan/schedule-assist/internal/health"
	"github.com/veltaplan/schedule-assist/internal/logger"
	"github.com/veltaplan/schedule-assist/internal/nlparser"
	"github.com/veltaplan/schedule-assist/internal/objstore"
	"github.com/veltaplan/schedule-assist/internal/resolver"
	"github.com/veltaplan/schedule-assist/internal/runledger"
	"github.com/veltaplan/schedule-assist/internal/solver"
	"github.com/veltaplan/schedule-assist/internal/worker"
)

const healthInterval = 30 * time.Second

// Run starts the worker loop and admin server and blocks until shutdown
// or error.
func Run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	log := logger.New("schedule-assist-worker", logger.ParseLevel(cfg.LogLevel))

	// Root context bound to SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledger, err := runledger.Open(cfg.LedgerPath)
	if err != nil {
		log.Error().Stack().Err(err).Msg("run ledger unavailable")
		return err
	}
	defer func() { _ = ledger.Close() }()

	store, err := objstore.NewS3Store(ctx, cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("object store unavailable")
		return err
	}

	gw := gateway.NewClient(cfg.GatewayURL, cfg.GatewayAdminSecret, cfg.GatewayRole, log)
	solverClient := solver.NewClient(cfg.SolverURL, cfg.SolverUsername, cfg.SolverPassword, log)

	asm := assembler.New(gw, store, solverClient, ledger, cfg.WorkerConcurrency, cfg.SolverDelay, cfg.CallbackURL, log)
	res := resolver.New(gw, cfg.WorkerConcurrency, log)

	var parser worker.Parser
	if cfg.ParserURL != "" {
		parser = nlparser.NewClient(cfg.ParserURL, log)
	}
	handler := worker.NewHandler(gw, res, asm, parser, log)

	nc, consumer, err := worker.Connect(ctx, cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("queue unavailable")
		return err
	}
	defer nc.Close()

	pub, err := worker.NewPublisher(nc, cfg.QueueSubject)
	if err != nil {
		return err
	}

	ready := func(ctx context.Context) error {
		if !nc.IsConnected() {
			return errors.New("nats disconnected")
		}
		return gw.Ping(ctx)
	}
	svcHealth := startHealthCheckers(ctx, log, nc.IsConnected, gw.Ping)

	server := newAdminServer(ctx, cfg, api.NewRouter(svcHealth.IsHealthy, ready, pub, log))
	serverErr := serveAdmin(server, cfg, log)

	workerErr := make(chan error, 1)
	go func() {
		workerErr <- worker.NewWorker(consumer, handler, cfg.QueueFetchWait, log).Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Stack().Err(err).Msg("admin server forced to shut down")
			return err
		}
		// Let the in-flight message drain.
		if err := <-workerErr; err != nil {
			return err
		}
		log.Info().Msg("worker exited")
		return nil
	case err := <-serverErr:
		log.Error().Stack().Err(err).Msg("admin server failed")
		return err
	case err := <-workerErr:
		if err != nil {
			log.Error().Stack().Err(err).Msg("worker loop failed")
		}
		return err
	}
}

func startHealthCheckers(ctx context.Context, log zerolog.Logger, natsConnected func() bool, gatewayPing func(ctx context.Context) error) *health.ServiceHealthChecker {
	natsChecker := health.NewPingChecker("nats", health.PingFunc(func(ctx context.Context) error {
		if !natsConnected() {
			return errors.New("nats disconnected")
		}
		return nil
	}), 5*time.Second)
	go natsChecker.Start(ctx, healthInterval)

	gatewayChecker := health.NewPingChecker("gateway", health.PingFunc(gatewayPing), 5*time.Second)
	go gatewayChecker.Start(ctx, healthInterval)

	svcHealth := health.NewServiceHealthChecker(log, natsChecker, gatewayChecker)
	go svcHealth.Start(ctx, healthInterval)
	return svcHealth
}

func newAdminServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveAdmin(server *http.Server, cfg *config.Config, log zerolog.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("admin server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

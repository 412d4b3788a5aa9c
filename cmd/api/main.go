package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "nftfavorites/docs"
	"nftfavorites/pkg/bootstrap"
	"nftfavorites/pkg/config"
	"nftfavorites/pkg/favorites"
	"nftfavorites/pkg/logger"
	"nftfavorites/pkg/otel"
)

const shutdownTimeout = 10 * time.Second

// @title NFT Favorites API
// @version 1.0
// @description NFT floor prices and per-caller favorite collections
// @host localhost:8443
// @BasePath /
// @securityDefinitions.apikey CallerIdentity
// @in header
// @name X-Caller-Identity
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, level, cfg.Telemetry.ServiceName, otel.GetTraceID)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Host:        cfg.Telemetry.TraceHost,
		Probability: cfg.Telemetry.Probability,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	shutdownMetrics, err := otel.InitMetrics(log, otel.MetricsConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.MetricsEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer shutdownMetrics(context.Background())

	kv, closeKV, err := bootstrap.OpenStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeKV()

	resolver, closeResolver, err := bootstrap.Resolver(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeResolver()

	a := &api{
		log:    log,
		store:  favorites.NewStore(kv),
		prices: bootstrap.PriceLookup(cfg.Price),
	}
	r := newRouter(a, resolver, tp.Tracer(cfg.Telemetry.ServiceName))
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	var wg conc.WaitGroup
	wg.Go(func() {
		defer stop()
		tls := cfg.Server.TLSCert != ""
		log.Info(ctx, "listening", "addr", srv.Addr, "tls", tls)

		var err error
		if tls {
			err = srv.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown", "error", err)
	}
	wg.Wait()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server closed: %w", err)
	default:
	}
	log.Info(context.Background(), "server stopped")
	return nil
}

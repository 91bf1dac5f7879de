package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rodrigoasouza93/cep-form/configs"
	"github.com/rodrigoasouza93/cep-form/internal/form"
	"github.com/rodrigoasouza93/cep-form/internal/infra/web"
	"github.com/rodrigoasouza93/cep-form/internal/logger"
	"github.com/rodrigoasouza93/cep-form/internal/storage"
	"github.com/rodrigoasouza93/cep-form/internal/telemetry"
	"github.com/rodrigoasouza93/cep-form/internal/viacep"
	"github.com/rs/zerolog/log"
)

const serviceName = "cep-form"

func main() {
	cfg, err := configs.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	lg := logger.New(os.Stdout, serviceName, cfg.Env, cfg.LogLevel)
	log.Logger = lg

	tp, err := telemetry.NewTracerProvider(serviceName, cfg.ZipkinEndpoint)
	if err != nil {
		lg.Fatal().Err(err).Msg("cannot set up tracing")
	}
	tracer := tp.Tracer(serviceName)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	open, err := storage.NewOpener(cfg.StorageDir)
	if err != nil {
		lg.Fatal().Err(err).Msg("cannot open storage")
	}

	controller := form.NewController(
		viacep.NewClient(cfg.ViaCepBaseURL, http.DefaultClient, tracer),
		form.WithLogger(lg),
		form.WithMetrics(telemetry.NewFormMetrics(reg)),
		form.WithSubmitDelay(cfg.SubmitDelay),
	)
	server := &http.Server{
		Addr:    cfg.WebServerPort,
		Handler: web.NewServer(tracer, controller, open, cfg.SessionTTL, reg, lg).CreateServer(),
	}

	go func() {
		lg.Info().Str("addr", cfg.WebServerPort).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("cannot serve")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("failed to shut down server")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("failed to flush traces")
	}
}

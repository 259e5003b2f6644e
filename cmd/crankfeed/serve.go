package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buzzcrank/crankfeed/client"
	"github.com/buzzcrank/crankfeed/internal/infra/gateway"
	"github.com/buzzcrank/crankfeed/internal/infra/telemetry"
	"github.com/buzzcrank/crankfeed/internal/present/rest"
	"github.com/buzzcrank/crankfeed/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard, events, blog and now-playing endpoints",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		shutdown, err := telemetry.SetupTraceProvider(ctx, conf.Server.TraceEndpoint, "crankfeed", version)
		if err != nil {
			return errors.Wrap(err, "failed to setup tracing")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("trace provider shutdown failed", zap.Error(err))
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := client.NewMetrics(registry)

	airtableClient := client.New(client.Options{
		Timeout:   conf.Airtable.Timeout,
		UserAgent: conf.Airtable.UserAgent,
		Metrics:   metrics,
	})
	feedClient := client.New(client.Options{Timeout: conf.Feed.Timeout, Metrics: metrics})
	nowPlayingClient := client.New(client.Options{Timeout: conf.NowPlaying.Timeout, Metrics: metrics})

	records := gateway.NewRecordGateway(airtableClient, conf.Airtable)
	feed := gateway.NewFeedGateway(feedClient, conf.Feed)
	source := gateway.NewNowPlayingGateway(nowPlayingClient, conf.NowPlaying)

	handler := rest.NewHandler(
		usecase.NewDashboardUsecase(records, conf.Airtable, conf.Dashboard),
		usecase.NewEventsUsecase(records, conf.Airtable),
		usecase.NewBlogUsecase(feed),
		usecase.NewNowPlayingUsecase(source),
		logger,
	)
	e := rest.NewServer(handler, conf.Server, registry, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", conf.Server.Listen),
			zap.String("filterMode", string(conf.Dashboard.FilterMode)),
			zap.String("version", version),
		)
		errCh <- e.Start(conf.Server.Listen)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server stopped")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

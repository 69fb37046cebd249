package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/arcsight-connector/pkg/controller/http"
	"github.com/secmon-lab/arcsight-connector/pkg/service/worker"
	"github.com/secmon-lab/arcsight-connector/pkg/usecase"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var addr string
	var apiToken string
	var enableMetrics bool
	var pollInterval time.Duration
	var pollCaseIDs string
	var rt runtimeConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Bearer token required on /api routes (no authentication when empty)",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_API_TOKEN"),
			Destination: &apiToken,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_METRICS"),
			Destination: &enableMetrics,
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Interval of scheduled on-poll ingestion (disabled when 0)",
			Category:    "Ingestion",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_POLL_INTERVAL"),
			Destination: &pollInterval,
		},
		&cli.StringFlag{
			Name:        "poll-ids",
			Usage:       "Comma separated case resource IDs for scheduled polls (all cases when empty)",
			Category:    "Ingestion",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_POLL_IDS"),
			Destination: &pollCaseIDs,
		},
	}
	flags = append(flags, rt.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server for action invocations and scheduled polling",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			r, err := rt.build(ctx)
			if err != nil {
				return err
			}
			defer r.Close(ctx)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpOpts := []httpctrl.Options{
				httpctrl.WithPoller(r.useCases.Ingest),
				httpctrl.WithMetrics(enableMetrics),
			}
			if apiToken != "" {
				httpOpts = append(httpOpts, httpctrl.WithAPIToken(apiToken))
			} else {
				logging.Default().Warn("API token is not configured, /api routes are not authenticated")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(r.dispatcher, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			var pollWorker *worker.PollWorker
			if pollInterval > 0 {
				req := usecase.PollRequest{CaseIDs: usecase.ParseCaseIDs(pollCaseIDs)}
				pollWorker = worker.NewPollWorker(r.useCases.Ingest, req, pollInterval)
				if err := pollWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start poll worker")
				}
			}

			eg, ctx := errgroup.WithContext(ctx)

			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr, "metrics", enableMetrics)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
				return nil
			})

			eg.Go(func() error {
				<-ctx.Done()
				logging.Default().Info("Shutting down")

				if pollWorker != nil {
					pollWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			})

			return eg.Wait()
		},
	}
}

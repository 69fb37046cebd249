package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/usecase"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
)

// Poller runs one on-poll ingestion
type Poller interface {
	Poll(ctx context.Context, req usecase.PollRequest) (*model.IngestReport, error)
}

// PollWorker runs scheduled on-poll ingestion at a fixed interval
//
// Only one instance should poll a given ESM. Concurrent pollers are safe
// against duplicates through source data identifier dedup but waste API calls.
type PollWorker struct {
	poller   Poller
	request  usecase.PollRequest
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewPollWorker creates a worker that calls poller with req every interval
func NewPollWorker(poller Poller, req usecase.PollRequest, interval time.Duration) *PollWorker {
	return &PollWorker{
		poller:   poller,
		request:  req,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background poll loop. The first poll runs immediately.
func (w *PollWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("poll interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Poll worker starting", "interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *PollWorker) Stop() {
	logging.Default().Info("Poll worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Poll worker stopped")
}

// Done is closed when the poll loop exits
func (w *PollWorker) Done() <-chan struct{} {
	return w.doneCh
}

func (w *PollWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.poll(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Poll worker context cancelled")
			return
		}
	}
}

func (w *PollWorker) poll(ctx context.Context) {
	startTime := time.Now()
	runID := model.NewRunID()
	logger := logging.Default().With("run_id", string(runID))
	ctx = logging.With(ctx, logger)

	report, err := w.poller.Poll(ctx, w.request)
	if err != nil {
		// retried on the next tick
		logger.Error("Scheduled poll failed", "error", err.Error())
		return
	}

	logger.Info("Scheduled poll completed",
		"cases_requested", report.CasesRequested,
		"cases_skipped", report.CasesSkipped,
		"containers_saved", report.ContainersSaved,
		"artifacts_saved", report.ArtifactsSaved,
		"duration", time.Since(startTime).String(),
	)
}

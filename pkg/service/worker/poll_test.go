package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/service/worker"
	"github.com/secmon-lab/arcsight-connector/pkg/usecase"
)

type mockPoller struct {
	mu    sync.Mutex
	calls []usecase.PollRequest
	err   error
}

func (m *mockPoller) Poll(ctx context.Context, req usecase.PollRequest) (*model.IngestReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return &model.IngestReport{CasesRequested: len(req.CaseIDs)}, nil
}

func (m *mockPoller) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestPollWorker_ImmediatePoll(t *testing.T) {
	p := &mockPoller{}
	req := usecase.PollRequest{CaseIDs: []string{"c1"}, ContainerCount: 5}
	w := worker.NewPollWorker(p, req, 10*time.Minute)

	gt.NoError(t, w.Start(context.Background())).Required()
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)

	p.mu.Lock()
	defer p.mu.Unlock()
	gt.Array(t, p.calls).Length(1).Required()
	gt.Array(t, p.calls[0].CaseIDs).Equal([]string{"c1"})
	gt.Value(t, p.calls[0].ContainerCount).Equal(5)
}

func TestPollWorker_PeriodicPoll(t *testing.T) {
	p := &mockPoller{}
	w := worker.NewPollWorker(p, usecase.PollRequest{}, 50*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	defer w.Stop()

	time.Sleep(180 * time.Millisecond)

	gt.Bool(t, p.count() >= 3).True()
}

func TestPollWorker_ContinuesAfterError(t *testing.T) {
	p := &mockPoller{err: errors.New("esm unavailable")}
	w := worker.NewPollWorker(p, usecase.PollRequest{}, 50*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	defer w.Stop()

	time.Sleep(130 * time.Millisecond)

	gt.Bool(t, p.count() >= 2).True()
}

func TestPollWorker_StopsOnContextCancel(t *testing.T) {
	p := &mockPoller{}
	w := worker.NewPollWorker(p, usecase.PollRequest{}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, w.Start(ctx)).Required()

	cancel()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}

func TestPollWorker_StopsCleanly(t *testing.T) {
	p := &mockPoller{}
	w := worker.NewPollWorker(p, usecase.PollRequest{}, 100*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	time.Sleep(20 * time.Millisecond)

	stopStart := time.Now()
	w.Stop()
	if d := time.Since(stopStart); d > time.Second {
		t.Errorf("Stop() took too long: %v", d)
	}
}

func TestPollWorker_RejectsInvalidInterval(t *testing.T) {
	w := worker.NewPollWorker(&mockPoller{}, usecase.PollRequest{}, 0)
	gt.Value(t, w.Start(context.Background())).NotNil()
}

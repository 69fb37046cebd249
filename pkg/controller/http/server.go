package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/arcsight-connector/pkg/controller/action"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/usecase"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/async"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/errutil"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/safe"
)

// Dispatcher executes one action invocation
type Dispatcher interface {
	Dispatch(ctx context.Context, req *action.Request) *model.ActionResult
}

// Poller runs one on-poll ingestion
type Poller interface {
	Poll(ctx context.Context, req usecase.PollRequest) (*model.IngestReport, error)
}

type Server struct {
	router     *chi.Mux
	dispatcher Dispatcher
	poller     Poller
	apiToken   string
	metrics    bool
}

type Options func(*Server)

// WithPoller enables POST /api/v1/ingest
func WithPoller(poller Poller) Options {
	return func(s *Server) {
		s.poller = poller
	}
}

// WithAPIToken requires "Authorization: Bearer <token>" on /api routes
func WithAPIToken(token string) Options {
	return func(s *Server) {
		s.apiToken = token
	}
}

// WithMetrics exposes Prometheus metrics on GET /metrics
func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.metrics = enabled
	}
}

func New(dispatcher Dispatcher, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		dispatcher: dispatcher,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	if s.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.apiToken != "" {
			r.Use(tokenMiddleware(s.apiToken))
		}
		r.Post("/actions", s.actionHandler)
		if s.poller != nil {
			r.Post("/ingest", s.ingestHandler)
		}
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) actionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	defer safe.Close(ctx, r.Body)

	req, err := action.DecodeRequest(r.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid action request"), http.StatusBadRequest)
		return
	}

	result := s.dispatcher.Dispatch(ctx, req)
	writeJSON(ctx, w, http.StatusOK, result)
}

// ingestHandler starts an on-poll ingestion in the background and returns immediately
func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	defer safe.Close(ctx, r.Body)

	var body struct {
		ContainerID    string `json:"container_id"`
		ContainerCount int    `json:"container_count"`
		ArtifactCount  int    `json:"artifact_count"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid ingest request"), http.StatusBadRequest)
			return
		}
	}

	req := usecase.PollRequest{
		CaseIDs:        usecase.ParseCaseIDs(body.ContainerID),
		ContainerCount: body.ContainerCount,
		ArtifactCount:  body.ArtifactCount,
	}
	runID := model.NewRunID()
	logger := logging.From(ctx).With("run_id", string(runID))

	async.Dispatch(logging.With(ctx, logger), func(ctx context.Context) error {
		report, err := s.poller.Poll(ctx, req)
		if err != nil {
			return goerr.Wrap(err, "background ingestion failed", goerr.V("run_id", runID))
		}
		logging.From(ctx).Info("Background ingestion done",
			"containers_saved", report.ContainersSaved,
			"artifacts_saved", report.ArtifactsSaved,
		)
		return nil
	})

	writeJSON(ctx, w, http.StatusAccepted, map[string]string{"run_id": string(runID)})
}

func requestContext(r *http.Request) context.Context {
	ctx := r.Context()
	logger := logging.From(ctx).With("request_id", middleware.GetReqID(ctx))
	return logging.With(ctx, logger)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

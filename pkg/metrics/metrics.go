package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArcSight API metrics
	ArcSightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcsight_connector_api_requests_total",
			Help: "Total number of ArcSight API requests",
		},
		[]string{"endpoint", "result"},
	)

	ArcSightRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arcsight_connector_api_request_duration_seconds",
			Help:    "Duration of ArcSight API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Action metrics
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arcsight_connector_actions_total",
			Help: "Total number of executed actions",
		},
		[]string{"action", "status"},
	)

	// Ingestion metrics
	ContainersSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arcsight_connector_containers_saved_total",
			Help: "Total number of containers persisted",
		},
	)

	ArtifactsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arcsight_connector_artifacts_saved_total",
			Help: "Total number of artifacts persisted",
		},
	)

	CasesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arcsight_connector_cases_skipped_total",
			Help: "Total number of cases skipped because they could not be fetched",
		},
	)

	PersistenceErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arcsight_connector_persistence_errors_total",
			Help: "Total number of container or artifact persistence errors",
		},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arcsight_connector_ingest_duration_seconds",
			Help:    "Duration of one ingestion batch in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// API call results
const (
	ResultSuccess         = "success"
	ResultConnectionError = "connection_error"
	ResultAPIError        = "api_error"
	ResultInvalidResponse = "invalid_response"
)

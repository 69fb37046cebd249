package usecase

import (
	"github.com/secmon-lab/arcsight-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
)

type UseCases struct {
	repo          interfaces.Repository
	arcsight      arcsight.Service
	ingestOptions model.IngestOptions

	Connectivity *ConnectivityUseCase
	Ticket       *TicketUseCase
	Query        *QueryUseCase
	Ingest       *IngestUseCase
}

type Option func(*UseCases)

// WithIngestOptions sets the default caps and common fields of on-poll ingestion
func WithIngestOptions(opts model.IngestOptions) Option {
	return func(uc *UseCases) {
		uc.ingestOptions = opts
	}
}

func New(repo interfaces.Repository, svc arcsight.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		arcsight: svc,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Connectivity = NewConnectivityUseCase(svc)
	uc.Ticket = NewTicketUseCase(svc)
	uc.Query = NewQueryUseCase(svc)
	uc.Ingest = NewIngestUseCase(repo, svc, uc.ingestOptions)

	return uc
}

package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/cli/config"
	"github.com/secmon-lab/arcsight-connector/pkg/controller/action"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/arcsight-connector/pkg/usecase"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// runtimeConfig groups the flags every command that talks to ESM needs
type runtimeConfig struct {
	arcsight   config.ArcSight
	repository config.Repository
	ingest     config.Ingest
}

func (x *runtimeConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.arcsight.Flags()...)
	flags = append(flags, x.repository.Flags()...)
	flags = append(flags, x.ingest.Flags()...)
	return flags
}

// runtime is the wired dependency graph of one command execution
type runtime struct {
	repo       interfaces.Repository
	useCases   *usecase.UseCases
	dispatcher *action.Dispatcher
}

func (x *runtimeConfig) build(ctx context.Context) (*runtime, error) {
	svc, err := x.arcsight.Configure()
	if err != nil {
		return nil, err
	}

	ingestOpts, err := x.ingest.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load ingestion config")
	}

	repo, err := x.repository.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}

	logging.Default().Debug("Runtime configured",
		"arcsight", x.arcsight,
		"repository", x.repository,
		"ingest", x.ingest,
	)

	uc := usecase.New(repo, svc, usecase.WithIngestOptions(ingestOpts))
	return &runtime{
		repo:       repo,
		useCases:   uc,
		dispatcher: action.New(uc),
	}, nil
}

func (r *runtime) Close(ctx context.Context) {
	if err := r.repo.Close(ctx); err != nil {
		logging.Default().Error("failed to close repository", "error", err.Error())
	}
}

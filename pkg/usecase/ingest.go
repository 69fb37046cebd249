package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/metrics"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/errutil"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
)

type IngestUseCase struct {
	repo     interfaces.Repository
	arcsight arcsight.Service
	defaults model.IngestOptions
}

func NewIngestUseCase(repo interfaces.Repository, svc arcsight.Service, defaults model.IngestOptions) *IngestUseCase {
	return &IngestUseCase{
		repo:     repo,
		arcsight: svc,
		defaults: defaults.Normalize(),
	}
}

// PollRequest holds the on-poll parameters. Zero values fall back to the configured defaults.
type PollRequest struct {
	CaseIDs        []string
	ContainerCount int
	ArtifactCount  int
}

// ParseCaseIDs splits a comma separated list of case IDs, dropping empty entries
func ParseCaseIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// FetchCase builds the container of one case and the artifacts of its events. A case
// without events yields a nil artifact list.
func (uc *IngestUseCase) FetchCase(ctx context.Context, caseID string) (*model.Container, []*model.Artifact, error) {
	c, err := uc.arcsight.GetCase(ctx, caseID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "could not get case details", goerr.V(CaseIDKey, caseID))
	}
	if !c.HasName {
		return nil, nil, goerr.Wrap(arcsight.ErrMissingField, "case has no name", goerr.V(CaseIDKey, caseID))
	}

	logger := logging.From(ctx)
	logger.Debug("Processing case", slog.String("case_id", caseID))

	container := containerFromCase(caseID, c)

	if len(c.EventIDs) == 0 {
		logger.Info("Case has no events", slog.String("case_id", caseID), slog.String("name", c.Name))
		return container, nil, nil
	}

	events, err := uc.arcsight.GetSecurityEvents(ctx, c.EventIDs)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "could not get case events", goerr.V(CaseIDKey, caseID))
	}

	var artifacts []*model.Artifact
	for i, ev := range events {
		if a := artifactFromEvent(i, ev); a != nil {
			artifacts = append(artifacts, a)
		}
	}

	return container, artifacts, nil
}

type fetchedCase struct {
	container *model.Container
	artifacts []*model.Artifact
}

// Ingest fetches the cases and persists them as containers and artifacts. Cases that
// cannot be fetched and records that cannot be saved are logged and skipped. A case
// without events is still persisted as a container with zero artifacts.
//
// Exactly one artifact of the batch, the last one actually persisted, carries
// RunAutomation. If the final artifact fails to save, the flag moves back to the
// previously saved one.
func (uc *IngestUseCase) Ingest(ctx context.Context, caseIDs []string, opts model.IngestOptions) (*model.IngestReport, error) {
	opts = opts.Normalize()
	logger := logging.From(ctx)
	start := time.Now()
	defer func() {
		metrics.IngestDuration.Observe(time.Since(start).Seconds())
	}()

	report := &model.IngestReport{CasesRequested: len(caseIDs)}

	var results []fetchedCase
	for _, caseID := range caseIDs {
		if len(results) >= opts.MaxContainers {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, goerr.Wrap(err, "ingestion interrupted")
		}

		container, artifacts, err := uc.FetchCase(ctx, caseID)
		if err != nil {
			report.CasesSkipped++
			metrics.CasesSkippedTotal.Inc()
			errutil.Handle(ctx, err, "Ignoring case, could not get details")
			continue
		}

		if len(artifacts) > opts.MaxArtifacts {
			artifacts = artifacts[:opts.MaxArtifacts]
		}
		results = append(results, fetchedCase{container: container, artifacts: artifacts})
	}

	logger.Info("Ingesting cases into containers and artifacts", slog.Int("containers", len(results)))

	// the last artifact of the batch triggers automation on the host
	lastContainer := -1
	for i, r := range results {
		if len(r.artifacts) > 0 {
			lastContainer = i
		}
	}

	var lastSaved *model.Artifact
	for i, r := range results {
		saved, err := uc.repo.Container().Save(ctx, r.container.WithCommon(opts.ContainerDefaults))
		if err != nil {
			report.PersistenceErrors++
			metrics.PersistenceErrorsTotal.Inc()
			errutil.Handle(ctx, err, "Failed to save container")
			continue
		}
		report.ContainersSaved++
		metrics.ContainersSavedTotal.Inc()

		for j, a := range r.artifacts {
			artifact := a.WithCommon(opts.ArtifactDefaults)
			artifact.ContainerID = saved.ID
			artifact.RunAutomation = i == lastContainer && j == len(r.artifacts)-1

			stored, err := uc.repo.Artifact().Save(ctx, artifact)
			if err != nil {
				report.PersistenceErrors++
				metrics.PersistenceErrorsTotal.Inc()
				errutil.Handle(ctx, err, "Failed to save artifact")
				continue
			}
			lastSaved = stored
			report.ArtifactsSaved++
			metrics.ArtifactsSavedTotal.Inc()
		}
	}

	if lastSaved != nil && !lastSaved.RunAutomation {
		uc.flagAutomation(ctx, lastSaved)
	}

	logger.Info("Ingestion done",
		slog.Int("containers_saved", report.ContainersSaved),
		slog.Int("artifacts_saved", report.ArtifactsSaved),
		slog.Int("cases_skipped", report.CasesSkipped),
	)

	return report, nil
}

// flagAutomation re-saves a persisted artifact with RunAutomation set. The repository
// updates it in place through the (container, source data identifier) key.
func (uc *IngestUseCase) flagAutomation(ctx context.Context, a *model.Artifact) {
	if a.SourceDataIdentifier == "" {
		logging.From(ctx).Warn("Cannot move automation trigger to an artifact without source data identifier",
			slog.Any("artifact_id", a.ID))
		return
	}

	flagged := a.Clone()
	flagged.RunAutomation = true
	if _, err := uc.repo.Artifact().Save(ctx, flagged); err != nil {
		errutil.Handle(ctx, err, "Failed to set automation trigger on artifact")
		return
	}
	logging.From(ctx).Info("Automation trigger moved to last persisted artifact",
		slog.Any("artifact_id", a.ID),
		slog.String("source_data_identifier", a.SourceDataIdentifier))
}

// Poll logs in, resolves the case IDs to ingest and runs Ingest. Without explicit IDs
// every case known to ArcSight is considered.
func (uc *IngestUseCase) Poll(ctx context.Context, req PollRequest) (*model.IngestReport, error) {
	if err := uc.arcsight.Login(ctx); err != nil {
		return nil, goerr.Wrap(err, "unable to login")
	}

	caseIDs := req.CaseIDs
	if len(caseIDs) == 0 {
		ids, err := uc.arcsight.FindAllCaseIDs(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list case IDs")
		}
		caseIDs = ids
	}

	logging.From(ctx).Debug("Case IDs to ingest", slog.Any("case_ids", caseIDs))

	opts := uc.defaults
	if req.ContainerCount > 0 {
		opts.MaxContainers = req.ContainerCount
	}
	if req.ArtifactCount > 0 {
		opts.MaxArtifacts = req.ArtifactCount
	}

	return uc.Ingest(ctx, caseIDs, opts)
}

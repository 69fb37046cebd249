package action

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
	"github.com/secmon-lab/arcsight-connector/pkg/metrics"
	"github.com/secmon-lab/arcsight-connector/pkg/usecase"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/errutil"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
)

// Parameter names
const (
	ParamParentGroup    = "parent_group"
	ParamName           = "name"
	ParamID             = "id"
	ParamUpdateFields   = "update_fields"
	ParamQuery          = "query"
	ParamType           = "type"
	ParamRange          = "range"
	ParamContainerID    = "container_id"
	ParamContainerCount = "container_count"
	ParamArtifactCount  = "artifact_count"
)

// Summary keys
const (
	SummaryCaseCreated        = "case_created"
	SummaryCaseID             = "case_id"
	SummaryTotalItems         = "total_items"
	SummaryTotalItemsReturned = "total_items_returned"
)

type handler func(ctx context.Context, params Parameters, result *model.ActionResult) (string, error)

// Dispatcher runs action invocations against the use cases
type Dispatcher struct {
	uc       *usecase.UseCases
	handlers map[types.ActionID]handler
}

func New(uc *usecase.UseCases) *Dispatcher {
	d := &Dispatcher{uc: uc}
	d.handlers = map[types.ActionID]handler{
		types.ActionTestConnectivity: d.testConnectivity,
		types.ActionCreateTicket:     d.createTicket,
		types.ActionUpdateTicket:     d.updateTicket,
		types.ActionGetTicket:        d.getTicket,
		types.ActionRunQuery:         d.runQuery,
		types.ActionOnPoll:           d.onPoll,
	}
	return d
}

// Dispatch executes req and always returns a result. Errors become a failed result
// carrying the error text.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *model.ActionResult {
	result := model.NewActionResult(req.Action)

	logger := logging.From(ctx).With(
		slog.String("run_id", string(result.RunID)),
		slog.String("action", req.Action.String()),
	)
	ctx = logging.With(ctx, logger)

	h, ok := d.handlers[req.Action]
	if !ok {
		err := goerr.New("unsupported action", goerr.V("action", req.Action))
		d.finish(result.Fail(err))
		return result
	}

	logger.Info("Executing action")

	params := req.Parameters
	if params == nil {
		params = Parameters{}
	}

	msg, err := h(ctx, params, result)
	if err != nil {
		errutil.Handle(ctx, err, "Action failed")
		d.finish(result.Fail(err))
		return result
	}

	d.finish(result.Succeed(msg))
	logger.Info("Action done", slog.String("status", result.Status.String()))
	return result
}

func (d *Dispatcher) finish(result *model.ActionResult) {
	metrics.ActionsTotal.WithLabelValues(result.Action.String(), result.Status.String()).Inc()
}

func (d *Dispatcher) testConnectivity(ctx context.Context, _ Parameters, _ *model.ActionResult) (string, error) {
	if err := d.uc.Connectivity.TestConnectivity(ctx); err != nil {
		return "", err
	}
	return "Test Connectivity Passed", nil
}

func (d *Dispatcher) createTicket(ctx context.Context, params Parameters, result *model.ActionResult) (string, error) {
	result.SetSummary(SummaryCaseCreated, false)

	created, err := d.uc.Ticket.CreateTicket(ctx, params.String(ParamParentGroup), params.String(ParamName))
	if err != nil {
		return "", err
	}

	result.SetSummary(SummaryCaseCreated, created.Created)
	if created.Case.ResourceID != "" {
		result.SetSummary(SummaryCaseID, created.Case.ResourceID)
	}
	result.AddData(created.Case)

	if created.Created {
		return "New case created", nil
	}
	return "Case already existed", nil
}

func (d *Dispatcher) updateTicket(ctx context.Context, params Parameters, result *model.ActionResult) (string, error) {
	raw, err := params.JSON(ParamUpdateFields)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", goerr.Wrap(usecase.ErrMissingParameter, "update_fields is required",
			goerr.V(usecase.ParameterKey, ParamUpdateFields))
	}

	fields, err := usecase.ParseUpdateFields(raw)
	if err != nil {
		return "", err
	}

	updated, err := d.uc.Ticket.UpdateTicket(ctx, params.String(ParamID), fields)
	if err != nil {
		return "", err
	}

	result.AddData(updated)
	result.SetSummary(SummaryCaseID, updated.ResourceID)
	return "Case updated", nil
}

func (d *Dispatcher) getTicket(ctx context.Context, params Parameters, result *model.ActionResult) (string, error) {
	c, err := d.uc.Ticket.GetTicket(ctx, params.String(ParamID))
	if err != nil {
		return "", err
	}

	result.AddData(c)
	result.SetSummary(SummaryCaseID, c.ResourceID)
	return "Case retrieved", nil
}

func (d *Dispatcher) runQuery(ctx context.Context, params Parameters, result *model.ActionResult) (string, error) {
	queryType := params.String(ParamType)
	if queryType == "" {
		queryType = usecase.DefaultQueryType
	}

	found, err := d.uc.Query.RunQuery(ctx, params.String(ParamQuery), queryType, params.String(ParamRange))
	if err != nil {
		return "", err
	}

	result.AddData(found)
	result.SetSummary(SummaryTotalItems, int64(found.HitCount))
	result.SetSummary(SummaryTotalItemsReturned, len(found.SearchHits))
	return "Query executed", nil
}

func (d *Dispatcher) onPoll(ctx context.Context, params Parameters, result *model.ActionResult) (string, error) {
	containerCount, err := params.Int(ParamContainerCount)
	if err != nil {
		return "", err
	}
	artifactCount, err := params.Int(ParamArtifactCount)
	if err != nil {
		return "", err
	}

	report, err := d.uc.Ingest.Poll(ctx, usecase.PollRequest{
		CaseIDs:        usecase.ParseCaseIDs(params.String(ParamContainerID)),
		ContainerCount: containerCount,
		ArtifactCount:  artifactCount,
	})
	if err != nil {
		return "", err
	}

	result.AddData(report)
	result.SetSummary("cases_requested", report.CasesRequested)
	result.SetSummary("cases_skipped", report.CasesSkipped)
	result.SetSummary("containers_saved", report.ContainersSaved)
	result.SetSummary("artifacts_saved", report.ArtifactsSaved)
	result.SetSummary("persistence_errors", report.PersistenceErrors)
	return "Ingestion done", nil
}

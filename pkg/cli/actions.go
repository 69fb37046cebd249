package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/cli/config"
	"github.com/secmon-lab/arcsight-connector/pkg/controller/action"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
	"github.com/secmon-lab/arcsight-connector/pkg/usecase"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// actionCommand builds a subcommand that runs one action with parameters taken from flags
func actionCommand(id types.ActionID, usage string, aliases []string, params func() action.Parameters, flags ...cli.Flag) *cli.Command {
	var rt runtimeConfig

	return &cli.Command{
		Name:    string(id),
		Aliases: aliases,
		Usage:   usage,
		Flags:   append(flags, rt.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			req := &action.Request{Action: id, Parameters: params()}
			return execute(ctx, &rt, req, os.Stdout)
		},
	}
}

// execute dispatches req and prints its result. A failed result is returned as error.
func execute(ctx context.Context, rt *runtimeConfig, req *action.Request, w io.Writer) error {
	r, err := rt.build(ctx)
	if err != nil {
		return err
	}
	defer r.Close(ctx)

	result := r.dispatcher.Dispatch(ctx, req)
	if req.Action == types.ActionOnPoll && rt.repository.Backend() == config.BackendMemory {
		logging.From(ctx).Warn("In-memory repository is discarded on exit, ingested records are written to the result data")
		if err := appendIngested(ctx, r.repo, result); err != nil {
			return err
		}
	}
	if err := printResult(w, result); err != nil {
		return err
	}

	if result.Status != types.ActionStatusSuccess {
		return goerr.New("action failed", goerr.V("action", req.Action), goerr.V("message", result.Message))
	}
	return nil
}

// ingestedContainer is a persisted container with its artifacts
type ingestedContainer struct {
	Container *model.Container  `json:"container"`
	Artifacts []*model.Artifact `json:"artifacts"`
}

// appendIngested adds every container in repo, with its artifacts, to the result data
func appendIngested(ctx context.Context, repo interfaces.Repository, result *model.ActionResult) error {
	containers, err := repo.Container().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list ingested containers")
	}

	for _, c := range containers {
		artifacts, err := repo.Artifact().ListByContainer(ctx, c.ID)
		if err != nil {
			return goerr.Wrap(err, "failed to list ingested artifacts", goerr.V("container_id", c.ID))
		}
		result.AddData(ingestedContainer{Container: c, Artifacts: artifacts})
	}
	return nil
}

func cmdTestConnectivity() *cli.Command {
	return actionCommand(types.ActionTestConnectivity,
		"Validate credentials and the ESM version",
		[]string{"test"},
		func() action.Parameters { return action.Parameters{} },
	)
}

func cmdCreateTicket() *cli.Command {
	var parentGroup, name string

	return actionCommand(types.ActionCreateTicket,
		"Create a case in a case group, or return the existing one",
		nil,
		func() action.Parameters {
			return action.Parameters{
				action.ParamParentGroup: parentGroup,
				action.ParamName:        name,
			}
		},
		&cli.StringFlag{
			Name:        "parent-group",
			Usage:       "Case group path",
			Value:       usecase.DefaultParentGroup,
			Destination: &parentGroup,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Case name",
			Required:    true,
			Destination: &name,
		},
	)
}

func cmdUpdateTicket() *cli.Command {
	var id, fields string

	return actionCommand(types.ActionUpdateTicket,
		"Update fields of an existing case",
		nil,
		func() action.Parameters {
			return action.Parameters{
				action.ParamID:           id,
				action.ParamUpdateFields: fields,
			}
		},
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Case resource ID",
			Required:    true,
			Destination: &id,
		},
		&cli.StringFlag{
			Name:        "update-fields",
			Usage:       `JSON object of fields to set (e.g., '{"stage":"CLOSED"}')`,
			Required:    true,
			Destination: &fields,
		},
	)
}

func cmdGetTicket() *cli.Command {
	var id string

	return actionCommand(types.ActionGetTicket,
		"Get a case by resource ID",
		nil,
		func() action.Parameters {
			return action.Parameters{action.ParamID: id}
		},
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Case resource ID",
			Required:    true,
			Destination: &id,
		},
	)
}

func cmdRunQuery() *cli.Command {
	var query, queryType, queryRange string

	return actionCommand(types.ActionRunQuery,
		"Run a manager search query",
		[]string{"query"},
		func() action.Parameters {
			return action.Parameters{
				action.ParamQuery: query,
				action.ParamType:  queryType,
				action.ParamRange: queryRange,
			}
		},
		&cli.StringFlag{
			Name:        "query",
			Usage:       "Search query text",
			Required:    true,
			Destination: &query,
		},
		&cli.StringFlag{
			Name:        "type",
			Usage:       "Resource type to search (all searches every type)",
			Value:       usecase.DefaultQueryType,
			Destination: &queryType,
		},
		&cli.StringFlag{
			Name:        "range",
			Usage:       "Result range as <start>-<end>",
			Value:       usecase.DefaultQueryRange,
			Destination: &queryRange,
		},
	)
}

func cmdOnPoll() *cli.Command {
	var containerID string
	var containerCount, artifactCount int

	return actionCommand(types.ActionOnPoll,
		"Ingest cases and their events as containers and artifacts",
		[]string{"poll"},
		func() action.Parameters {
			params := action.Parameters{action.ParamContainerID: containerID}
			if containerCount > 0 {
				params[action.ParamContainerCount] = containerCount
			}
			if artifactCount > 0 {
				params[action.ParamArtifactCount] = artifactCount
			}
			return params
		},
		&cli.StringFlag{
			Name:        "ids",
			Usage:       "Comma separated case resource IDs (all cases when empty)",
			Destination: &containerID,
		},
		&cli.IntFlag{
			Name:        "max-containers",
			Usage:       "Maximum number of containers for this run",
			Destination: &containerCount,
		},
		&cli.IntFlag{
			Name:        "max-artifacts",
			Usage:       "Maximum number of artifacts per container for this run",
			Destination: &artifactCount,
		},
	)
}

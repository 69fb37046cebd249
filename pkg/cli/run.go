package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/controller/action"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var rt runtimeConfig
	var input string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Action invocation JSON file ('-' reads stdin)",
			Value:       "-",
			Destination: &input,
		},
	}
	flags = append(flags, rt.Flags()...)

	return &cli.Command{
		Name:  "run",
		Usage: `Execute an action invocation document ({"action": "...", "parameters": {...}})`,
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			req, err := readRequest(ctx, input)
			if err != nil {
				return err
			}
			return execute(ctx, &rt, req, os.Stdout)
		},
	}
}

func readRequest(ctx context.Context, input string) (*action.Request, error) {
	var r io.Reader = os.Stdin
	if input != "-" {
		// #nosec G304 - path is provided by CLI argument
		f, err := os.Open(input)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open invocation file", goerr.V("path", input))
		}
		defer safe.Close(ctx, f)
		r = f
	}

	req, err := action.DecodeRequest(r)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid invocation document", goerr.V("input", input))
	}
	return req, nil
}

package cli

import (
	"context"

	"github.com/secmon-lab/arcsight-connector/pkg/cli/config"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "arcsight-connector",
		Usage:   "ArcSight ESM connector for case ingestion and ticket actions",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Debug("Starting arcsight-connector", "logger", loggerCfg, "version", version)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdTestConnectivity(),
			cmdCreateTicket(),
			cmdUpdateTicket(),
			cmdGetTicket(),
			cmdRunQuery(),
			cmdOnPoll(),
			cmdRun(),
			cmdServe(),
			cmdMigrate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

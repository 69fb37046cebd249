package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
	"github.com/urfave/cli/v3"
)

// ArcSight holds CLI flags for the ESM connection
type ArcSight struct {
	baseURL      string
	username     string
	password     string
	versionRegex string
	verifySSL    bool
	timeout      time.Duration
}

// Flags returns CLI flags for the ESM connection
func (a *ArcSight) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "arcsight-base-url",
			Usage:       "ArcSight ESM base URL (e.g., https://esm.example.com:8443)",
			Category:    "ArcSight",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_BASE_URL"),
			Destination: &a.baseURL,
		},
		&cli.StringFlag{
			Name:        "arcsight-username",
			Usage:       "ArcSight ESM user name",
			Category:    "ArcSight",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_USERNAME"),
			Destination: &a.username,
		},
		&cli.StringFlag{
			Name:        "arcsight-password",
			Usage:       "ArcSight ESM password",
			Category:    "ArcSight",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_PASSWORD"),
			Destination: &a.password,
		},
		&cli.StringFlag{
			Name:        "arcsight-version-regex",
			Usage:       "Regular expression the ESM manager version must match at login",
			Category:    "ArcSight",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_VERSION_REGEX"),
			Destination: &a.versionRegex,
		},
		&cli.BoolFlag{
			Name:        "arcsight-verify-ssl",
			Usage:       "Verify the ESM server certificate",
			Category:    "ArcSight",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_VERIFY_SSL"),
			Destination: &a.verifySSL,
		},
		&cli.DurationFlag{
			Name:        "arcsight-timeout",
			Usage:       "Per-request timeout for ESM calls (0 disables)",
			Category:    "ArcSight",
			Value:       arcsight.DefaultTimeout,
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_TIMEOUT"),
			Destination: &a.timeout,
		},
	}
}

// NewArcSightForTest creates an ArcSight config without parsing flags
func NewArcSightForTest(baseURL, username, password string) *ArcSight {
	return &ArcSight{
		baseURL:  baseURL,
		username: username,
		password: password,
		timeout:  arcsight.DefaultTimeout,
	}
}

// LogValue hides the password and only reports its length
func (a ArcSight) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", a.baseURL),
		slog.String("username", a.username),
		slog.Int("password.len", len(a.password)),
		slog.String("version_regex", a.versionRegex),
		slog.Bool("verify_ssl", a.verifySSL),
		slog.Duration("timeout", a.timeout),
	)
}

// Configure creates an ESM client from the configured flags
func (a *ArcSight) Configure() (arcsight.Service, error) {
	if a.baseURL == "" {
		return nil, goerr.New("arcsight-base-url is required")
	}
	if a.username == "" {
		return nil, goerr.New("arcsight-username is required")
	}

	opts := []arcsight.Option{
		arcsight.WithVerifySSL(a.verifySSL),
		arcsight.WithTimeout(a.timeout),
	}
	if a.versionRegex != "" {
		opts = append(opts, arcsight.WithVersionRegex(a.versionRegex))
	}

	svc, err := arcsight.New(a.baseURL, a.username, a.password, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create arcsight client")
	}
	return svc, nil
}

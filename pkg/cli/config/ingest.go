package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// IngestFile is the TOML layout of the ingestion config file
type IngestFile struct {
	ContainerCount int                `toml:"container_count"`
	ArtifactCount  int                `toml:"artifact_count"`
	Container      model.CommonFields `toml:"container"`
	Artifact       model.CommonFields `toml:"artifact"`
}

// Ingest holds CLI flags for on-poll ingestion defaults
type Ingest struct {
	path           string
	containerCount int
	artifactCount  int
}

// Flags returns CLI flags for ingestion configuration
func (x *Ingest) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ingest-config",
			Usage:       "Path to the ingestion TOML file (caps and common fields)",
			Category:    "Ingestion",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_INGEST_CONFIG"),
			Destination: &x.path,
		},
		&cli.IntFlag{
			Name:        "container-count",
			Usage:       "Maximum number of containers per poll (overrides the config file)",
			Category:    "Ingestion",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_CONTAINER_COUNT"),
			Destination: &x.containerCount,
		},
		&cli.IntFlag{
			Name:        "artifact-count",
			Usage:       "Maximum number of artifacts per container (overrides the config file)",
			Category:    "Ingestion",
			Sources:     cli.EnvVars("ARCSIGHT_CONNECTOR_ARTIFACT_COUNT"),
			Destination: &x.artifactCount,
		},
	}
}

func (x Ingest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.Int("container_count", x.containerCount),
		slog.Int("artifact_count", x.artifactCount),
	)
}

// NewIngestForTest creates an Ingest config without parsing flags
func NewIngestForTest(path string, containerCount, artifactCount int) *Ingest {
	return &Ingest{
		path:           path,
		containerCount: containerCount,
		artifactCount:  artifactCount,
	}
}

// Configure returns the ingestion options. Unset caps fall back to the defaults.
func (x *Ingest) Configure() (model.IngestOptions, error) {
	var file IngestFile
	if x.path != "" {
		loaded, err := LoadIngestFile(x.path)
		if err != nil {
			return model.IngestOptions{}, err
		}
		file = *loaded
	}

	opts := model.IngestOptions{
		MaxContainers:     file.ContainerCount,
		MaxArtifacts:      file.ArtifactCount,
		ContainerDefaults: file.Container,
		ArtifactDefaults:  file.Artifact,
	}
	if x.containerCount > 0 {
		opts.MaxContainers = x.containerCount
	}
	if x.artifactCount > 0 {
		opts.MaxArtifacts = x.artifactCount
	}

	return opts.Normalize(), nil
}

// LoadIngestFile reads the ingestion config from a TOML file
func LoadIngestFile(path string) (*IngestFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read ingest config", goerr.V("path", path))
	}

	var file IngestFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if file.ContainerCount < 0 || file.ArtifactCount < 0 {
		return nil, goerr.New("counts must not be negative",
			goerr.V("path", path),
			goerr.V("container_count", file.ContainerCount),
			goerr.V("artifact_count", file.ArtifactCount))
	}

	return &file, nil
}

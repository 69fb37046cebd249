package config_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/arcsight-connector/pkg/cli/config"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestIngestConfigure(t *testing.T) {
	t.Run("defaults without file and flags", func(t *testing.T) {
		opts, err := config.NewIngestForTest("", 0, 0).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, opts.MaxContainers).Equal(model.DefaultContainerCount)
		gt.Value(t, opts.MaxArtifacts).Equal(model.DefaultArtifactCount)
	})

	t.Run("loads caps and common fields from file", func(t *testing.T) {
		path := writeFile(t, "ingest.toml", `
container_count = 5
artifact_count = 20

[container]
label = "events"
severity = "high"
tags = ["esm", "case"]

[artifact]
label = "event"
type = "network"
`)
		opts, err := config.NewIngestForTest(path, 0, 0).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, opts.MaxContainers).Equal(5)
		gt.Value(t, opts.MaxArtifacts).Equal(20)
		gt.Value(t, opts.ContainerDefaults.Label).Equal("events")
		gt.Value(t, opts.ContainerDefaults.Severity).Equal("high")
		gt.Array(t, opts.ContainerDefaults.Tags).Equal([]string{"esm", "case"})
		gt.Value(t, opts.ArtifactDefaults.Type).Equal("network")
	})

	t.Run("flags override file caps", func(t *testing.T) {
		path := writeFile(t, "ingest.toml", "container_count = 5\nartifact_count = 20\n")
		opts, err := config.NewIngestForTest(path, 2, 0).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, opts.MaxContainers).Equal(2)
		gt.Value(t, opts.MaxArtifacts).Equal(20)
	})

	t.Run("negative counts are rejected", func(t *testing.T) {
		path := writeFile(t, "ingest.toml", "container_count = -1\n")
		_, err := config.NewIngestForTest(path, 0, 0).Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("broken TOML is rejected", func(t *testing.T) {
		path := writeFile(t, "ingest.toml", "container_count = [\n")
		_, err := config.NewIngestForTest(path, 0, 0).Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("missing file is rejected", func(t *testing.T) {
		_, err := config.NewIngestForTest(filepath.Join(t.TempDir(), "none.toml"), 0, 0).Configure()
		gt.Value(t, err).NotNil()
	})
}

func TestArcSightConfigure(t *testing.T) {
	t.Run("requires base URL and username", func(t *testing.T) {
		_, err := config.NewArcSightForTest("", "admin", "pw").Configure()
		gt.Value(t, err).NotNil()

		_, err = config.NewArcSightForTest("https://esm.example.com", "", "pw").Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("creates client", func(t *testing.T) {
		svc, err := config.NewArcSightForTest("https://esm.example.com/", "admin", "pw").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})

	t.Run("log value hides password", func(t *testing.T) {
		cfg := config.NewArcSightForTest("https://esm.example.com", "admin", "very-secret")
		v := cfg.LogValue()
		for _, attr := range v.Group() {
			gt.Value(t, attr.Key).NotEqual("password")
			gt.Value(t, attr.Value.String()).NotEqual("very-secret")
			if attr.Key == "timeout" {
				gt.Value(t, attr.Value.Duration()).Equal(60 * time.Second)
			}
		}
	})
}

func TestRepositoryConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory, "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close(ctx))
	})

	t.Run("firestore requires project ID", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendFirestore, "").Configure(ctx)
		gt.Value(t, err).NotNil()
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("mysql", "").Configure(ctx)
		gt.Value(t, err).NotNil()
	})

	t.Run("backend defaults to memory", func(t *testing.T) {
		gt.Value(t, config.NewRepositoryForTest("", "").Backend()).Equal(config.BackendMemory)
		gt.Value(t, config.NewRepositoryForTest(config.BackendFirestore, "p").Backend()).Equal(config.BackendFirestore)
	})
}

func TestLoggerConfigure(t *testing.T) {
	orig := logging.Default()
	defer logging.SetDefault(orig)

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()
		closer()

		_, err = os.Stat(path)
		gt.NoError(t, err)
	})

	t.Run("credentials are redacted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		closer, err := config.NewLoggerForTest("info", "json", path).Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("login", slog.String("password", "hunter2"), slog.String("authToken", "tok-123"))
		closer()

		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains("login")
		gt.Bool(t, strings.Contains(string(data), "hunter2")).False()
		gt.Bool(t, strings.Contains(string(data), "tok-123")).False()
	})

	t.Run("console", func(t *testing.T) {
		closer, err := config.NewLoggerForTest("info", "console", "stderr").Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "json", "stderr").Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stderr").Configure()
		gt.Value(t, err).NotNil()
	})
}

package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/interfaces"
)

var ErrNotFound = goerr.New("not found")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	container *containerRepository
	artifact  *artifactRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		container: newContainerRepository(),
		artifact:  newArtifactRepository(),
	}
}

func (m *Memory) Container() interfaces.ContainerRepository {
	return m.container
}

func (m *Memory) Artifact() interfaces.ArtifactRepository {
	return m.artifact
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}

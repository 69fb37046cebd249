package interfaces

import (
	"context"

	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

// ArtifactRepository persists ingested artifacts
type ArtifactRepository interface {
	// Save stores a and returns the stored artifact with its ID set. An artifact with
	// the same ContainerID and SourceDataIdentifier is updated in place.
	Save(ctx context.Context, a *model.Artifact) (*model.Artifact, error)

	// Get retrieves an artifact by ID
	Get(ctx context.Context, id types.ArtifactID) (*model.Artifact, error)

	// ListByContainer returns artifacts of a container ordered by ID
	ListByContainer(ctx context.Context, containerID types.ContainerID) ([]*model.Artifact, error)
}

package interfaces

import (
	"context"

	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

// ContainerRepository persists ingested containers
type ContainerRepository interface {
	// Save stores c and returns the stored container with its ID set. A container
	// with the same SourceDataIdentifier is updated in place and keeps its ID.
	Save(ctx context.Context, c *model.Container) (*model.Container, error)

	// Get retrieves a container by ID
	Get(ctx context.Context, id types.ContainerID) (*model.Container, error)

	// GetBySourceDataIdentifier returns nil, nil if no container matches
	GetBySourceDataIdentifier(ctx context.Context, sdi string) (*model.Container, error)

	// List returns all containers ordered by ID
	List(ctx context.Context) ([]*model.Container, error)
}

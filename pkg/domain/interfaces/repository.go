package interfaces

import "context"

// Repository is the host ingestion sink. Containers and artifacts saved here get
// host assigned IDs.
type Repository interface {
	Container() ContainerRepository
	Artifact() ArtifactRepository

	Close(ctx context.Context) error
}

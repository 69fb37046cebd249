package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
)

type artifactKey struct {
	containerID types.ContainerID
	sdi         string
}

type artifactRepository struct {
	mu        sync.RWMutex
	artifacts map[types.ArtifactID]*model.Artifact
	byKey     map[artifactKey]types.ArtifactID
	nextID    types.ArtifactID
}

func newArtifactRepository() *artifactRepository {
	return &artifactRepository{
		artifacts: make(map[types.ArtifactID]*model.Artifact),
		byKey:     make(map[artifactKey]types.ArtifactID),
		nextID:    1,
	}
}

func (r *artifactRepository) Save(ctx context.Context, a *model.Artifact) (*model.Artifact, error) {
	if a == nil {
		return nil, goerr.New("artifact is nil")
	}
	if a.ContainerID == 0 {
		return nil, goerr.New("artifact has no container ID", goerr.V("source_data_identifier", a.SourceDataIdentifier))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved := a.Clone()
	key := artifactKey{containerID: a.ContainerID, sdi: a.SourceDataIdentifier}

	if id, exists := r.byKey[key]; exists && a.SourceDataIdentifier != "" {
		saved.ID = id
		saved.CreatedAt = r.artifacts[id].CreatedAt
	} else {
		saved.ID = r.nextID
		saved.CreatedAt = time.Now().UTC()
		r.nextID++
	}

	r.artifacts[saved.ID] = saved
	if saved.SourceDataIdentifier != "" {
		r.byKey[key] = saved.ID
	}

	return saved.Clone(), nil
}

func (r *artifactRepository) Get(ctx context.Context, id types.ArtifactID) (*model.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.artifacts[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "artifact not found", goerr.V("id", id))
	}
	return a.Clone(), nil
}

func (r *artifactRepository) ListByContainer(ctx context.Context, containerID types.ContainerID) ([]*model.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Artifact
	for _, a := range r.artifacts {
		if a.ContainerID == containerID {
			result = append(result, a.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

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

type containerRepository struct {
	mu         sync.RWMutex
	containers map[types.ContainerID]*model.Container
	bySDI      map[string]types.ContainerID
	nextID     types.ContainerID
}

func newContainerRepository() *containerRepository {
	return &containerRepository{
		containers: make(map[types.ContainerID]*model.Container),
		bySDI:      make(map[string]types.ContainerID),
		nextID:     1,
	}
}

func (r *containerRepository) Save(ctx context.Context, c *model.Container) (*model.Container, error) {
	if c == nil {
		return nil, goerr.New("container is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	saved := c.Clone()
	saved.UpdatedAt = now

	if id, exists := r.bySDI[c.SourceDataIdentifier]; exists && c.SourceDataIdentifier != "" {
		saved.ID = id
		saved.CreatedAt = r.containers[id].CreatedAt
	} else {
		saved.ID = r.nextID
		saved.CreatedAt = now
		r.nextID++
	}

	r.containers[saved.ID] = saved
	if saved.SourceDataIdentifier != "" {
		r.bySDI[saved.SourceDataIdentifier] = saved.ID
	}

	return saved.Clone(), nil
}

func (r *containerRepository) Get(ctx context.Context, id types.ContainerID) (*model.Container, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.containers[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "container not found", goerr.V("id", id))
	}
	return c.Clone(), nil
}

func (r *containerRepository) GetBySourceDataIdentifier(ctx context.Context, sdi string) (*model.Container, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.bySDI[sdi]
	if !exists {
		return nil, nil
	}
	return r.containers[id].Clone(), nil
}

func (r *containerRepository) List(ctx context.Context) ([]*model.Container, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Container, 0, len(r.containers))
	for _, c := range r.containers {
		result = append(result, c.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

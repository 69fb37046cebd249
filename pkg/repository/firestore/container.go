package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const (
	containersCollection = "containers"
	countersCollection   = "counters"
	containerCounterDoc  = "container_counter"
)

type containerRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newContainerRepository(client *firestore.Client) *containerRepository {
	return &containerRepository{
		client: client,
	}
}

func (r *containerRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, containersCollection))
}

func (r *containerRepository) counterRef() *firestore.DocumentRef {
	return r.client.Collection(collectionName(r.collectionPrefix, countersCollection)).Doc(containerCounterDoc)
}

func (r *containerRepository) Save(ctx context.Context, c *model.Container) (*model.Container, error) {
	if c == nil {
		return nil, goerr.New("container is nil")
	}

	var saved *model.Container
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := time.Now().UTC()
		saved = c.Clone()
		saved.UpdatedAt = now

		var existing *model.Container
		if c.SourceDataIdentifier != "" {
			q := r.collection().Where("source_data_identifier", "==", c.SourceDataIdentifier).Limit(1)
			docs, err := tx.Documents(q).GetAll()
			if err != nil {
				return goerr.Wrap(err, "failed to look up container",
					goerr.V("source_data_identifier", c.SourceDataIdentifier))
			}
			if len(docs) > 0 {
				var found model.Container
				if err := docs[0].DataTo(&found); err != nil {
					return goerr.Wrap(err, "failed to decode container")
				}
				existing = &found
			}
		}

		if existing != nil {
			saved.ID = existing.ID
			saved.CreatedAt = existing.CreatedAt
		} else {
			id, err := nextID(tx, r.counterRef())
			if err != nil {
				return err
			}
			saved.ID = types.ContainerID(id)
			saved.CreatedAt = now
		}

		return tx.Set(r.collection().Doc(saved.ID.String()), saved)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save container",
			goerr.V("source_data_identifier", c.SourceDataIdentifier))
	}

	return saved, nil
}

func (r *containerRepository) Get(ctx context.Context, id types.ContainerID) (*model.Container, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "container not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get container", goerr.V("id", id))
	}

	var c model.Container
	if err := doc.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode container", goerr.V("id", id))
	}
	return &c, nil
}

func (r *containerRepository) GetBySourceDataIdentifier(ctx context.Context, sdi string) (*model.Container, error) {
	iter := r.collection().Where("source_data_identifier", "==", sdi).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query container", goerr.V("source_data_identifier", sdi))
	}

	var c model.Container
	if err := doc.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode container", goerr.V("source_data_identifier", sdi))
	}
	return &c, nil
}

func (r *containerRepository) List(ctx context.Context) ([]*model.Container, error) {
	iter := r.collection().OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var containers []*model.Container
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate containers")
		}

		var c model.Container
		if err := doc.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to decode container", goerr.V("doc_id", doc.Ref.ID))
		}
		containers = append(containers, &c)
	}

	return containers, nil
}

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
	artifactsCollection = "artifacts"
	artifactCounterDoc  = "artifact_counter"
)

type artifactRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newArtifactRepository(client *firestore.Client) *artifactRepository {
	return &artifactRepository{
		client: client,
	}
}

func (r *artifactRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, artifactsCollection))
}

func (r *artifactRepository) counterRef() *firestore.DocumentRef {
	return r.client.Collection(collectionName(r.collectionPrefix, countersCollection)).Doc(artifactCounterDoc)
}

func (r *artifactRepository) Save(ctx context.Context, a *model.Artifact) (*model.Artifact, error) {
	if a == nil {
		return nil, goerr.New("artifact is nil")
	}
	if a.ContainerID == 0 {
		return nil, goerr.New("artifact has no container ID", goerr.V("source_data_identifier", a.SourceDataIdentifier))
	}

	var saved *model.Artifact
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		saved = a.Clone()

		var existing *model.Artifact
		if a.SourceDataIdentifier != "" {
			q := r.collection().
				Where("container_id", "==", int64(a.ContainerID)).
				Where("source_data_identifier", "==", a.SourceDataIdentifier).
				Limit(1)
			docs, err := tx.Documents(q).GetAll()
			if err != nil {
				return goerr.Wrap(err, "failed to look up artifact")
			}
			if len(docs) > 0 {
				var found model.Artifact
				if err := docs[0].DataTo(&found); err != nil {
					return goerr.Wrap(err, "failed to decode artifact")
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
			saved.ID = types.ArtifactID(id)
			saved.CreatedAt = time.Now().UTC()
		}

		return tx.Set(r.collection().Doc(saved.ID.String()), saved)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save artifact",
			goerr.V("container_id", a.ContainerID),
			goerr.V("source_data_identifier", a.SourceDataIdentifier))
	}

	return saved, nil
}

func (r *artifactRepository) Get(ctx context.Context, id types.ArtifactID) (*model.Artifact, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "artifact not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get artifact", goerr.V("id", id))
	}

	var a model.Artifact
	if err := doc.DataTo(&a); err != nil {
		return nil, goerr.Wrap(err, "failed to decode artifact", goerr.V("id", id))
	}
	return &a, nil
}

func (r *artifactRepository) ListByContainer(ctx context.Context, containerID types.ContainerID) ([]*model.Artifact, error) {
	iter := r.collection().
		Where("container_id", "==", int64(containerID)).
		OrderBy("id", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var artifacts []*model.Artifact
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate artifacts", goerr.V("container_id", containerID))
		}

		var a model.Artifact
		if err := doc.DataTo(&a); err != nil {
			return nil, goerr.Wrap(err, "failed to decode artifact", goerr.V("doc_id", doc.Ref.ID))
		}
		artifacts = append(artifacts, &a)
	}

	return artifacts, nil
}

package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/domain/interfaces"
)

var ErrNotFound = goerr.New("not found")

type Firestore struct {
	client    *firestore.Client
	container *containerRepository
	artifact  *artifactRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, e.g. for test isolation
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.container.collectionPrefix = prefix
		f.artifact.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:    client,
		container: newContainerRepository(client),
		artifact:  newArtifactRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Container() interfaces.ContainerRepository {
	return f.container
}

func (f *Firestore) Artifact() interfaces.ArtifactRepository {
	return f.artifact
}

func (f *Firestore) Close(ctx context.Context) error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}

func collectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// nextID increments the named counter document inside tx and returns the new value
func nextID(tx *firestore.Transaction, counterRef *firestore.DocumentRef) (int64, error) {
	doc, err := tx.Get(counterRef)
	if err != nil {
		if isNotFound(err) {
			return 1, tx.Set(counterRef, map[string]interface{}{
				"value": int64(1),
			})
		}
		return 0, goerr.Wrap(err, "failed to get counter")
	}

	currentValue, err := doc.DataAt("value")
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get counter value")
	}

	val, ok := currentValue.(int64)
	if !ok {
		return 0, goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
	}

	next := val + 1
	if err := tx.Update(counterRef, []firestore.Update{
		{Path: "value", Value: next},
	}); err != nil {
		return 0, goerr.Wrap(err, "failed to update counter")
	}
	return next, nil
}

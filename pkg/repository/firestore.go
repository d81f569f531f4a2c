package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultFirestoreCollection holds one document per key
const DefaultFirestoreCollection = "seefood_kv"

// Firestore is a Repository that stores each key as a document
type Firestore struct {
	client     *firestore.Client
	collection string
}

type kvDocument struct {
	Value     string
	UpdatedAt time.Time
}

type FirestoreOption func(*Firestore)

// WithCollection changes the collection that holds the documents
func WithCollection(name string) FirestoreOption {
	return func(f *Firestore) {
		f.collection = name
	}
}

// NewFirestore creates a Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string, clientOpts []option.ClientOption, opts ...FirestoreOption) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}

	f := &Firestore{
		client:     client,
		collection: DefaultFirestoreCollection,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Document IDs may not contain '/'
func firestoreDocID(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}

func (f *Firestore) doc(key string) *firestore.DocumentRef {
	return f.client.Collection(f.collection).Doc(firestoreDocID(key))
}

func (f *Firestore) Get(ctx context.Context, key string) (string, bool, error) {
	snap, err := f.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, goerr.Wrap(err, "failed to get firestore document", goerr.V("key", key))
	}

	var doc kvDocument
	if err := snap.DataTo(&doc); err != nil {
		return "", false, goerr.Wrap(err, "failed to decode firestore document", goerr.V("key", key))
	}
	return doc.Value, true, nil
}

func (f *Firestore) Set(ctx context.Context, key, value string) error {
	doc := kvDocument{
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.doc(key).Set(ctx, doc); err != nil {
		if isFirestoreQuotaError(err) {
			return goerr.Wrap(model.ErrStorageQuotaExceeded, "firestore rejected document",
				goerr.V("key", key),
				goerr.V("size", len(value)),
				goerr.V("cause", err.Error()))
		}
		return goerr.Wrap(err, "failed to set firestore document", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) Remove(ctx context.Context, key string) error {
	if _, err := f.doc(key).Delete(ctx); err != nil && status.Code(err) != codes.NotFound {
		return goerr.Wrap(err, "failed to delete firestore document", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

// isFirestoreQuotaError matches exhausted quota and documents over the 1 MiB limit
func isFirestoreQuotaError(err error) bool {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return true
	case codes.InvalidArgument:
		return strings.Contains(status.Convert(err).Message(), "exceeds the maximum")
	default:
		return false
	}
}

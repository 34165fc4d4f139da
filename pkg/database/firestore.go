package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements the Store interface on top of a Firestore client.
type FirestoreStore struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreStore creates a new FirestoreStore. The client is owned by the caller.
func NewFirestoreStore(client *firestore.Client, logger *zap.Logger) (*FirestoreStore, error) {
	if client == nil {
		return nil, errors.New("database: firestore client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirestoreStore{client: client, logger: logger}, nil
}

// Get retrieves a document from a Firestore collection.
func (s *FirestoreStore) Get(ctx context.Context, collection, docID string) (*Document, error) {
	if docID == "" {
		return nil, errors.New("database: docID cannot be empty for Get")
	}
	snap, err := s.client.Collection(collection).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, docID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, docID, err)
	}
	return documentFromSnapshot(snap), nil
}

// Create adds a new document, generating an ID when docID is empty.
func (s *FirestoreStore) Create(ctx context.Context, collection, docID string, data map[string]interface{}) (string, error) {
	coll := s.client.Collection(collection)
	var ref *firestore.DocumentRef
	if docID == "" {
		ref = coll.NewDoc()
	} else {
		ref = coll.Doc(docID)
	}
	if _, err := ref.Create(ctx, toFirestoreValues(data)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", fmt.Errorf("%s/%s: %w", collection, ref.ID, ErrAlreadyExists)
		}
		return "", fmt.Errorf("failed to create %s/%s: %w", collection, ref.ID, err)
	}
	return ref.ID, nil
}

// Set overwrites a document.
func (s *FirestoreStore) Set(ctx context.Context, collection, docID string, data map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(docID).Set(ctx, toFirestoreValues(data)); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Merge writes the given fields with MergeAll, creating the document if needed.
func (s *FirestoreStore) Merge(ctx context.Context, collection, docID string, data map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(docID).Set(ctx, toFirestoreValues(data), firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Delete removes a document. Firestore treats deleting a missing document as success.
func (s *FirestoreStore) Delete(ctx context.Context, collection, docID string) error {
	if _, err := s.client.Collection(collection).Doc(docID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, docID, err)
	}
	return nil
}

// DeleteFieldIfEqual reads and deletes the field in one transaction so a concurrent rewrite is kept.
func (s *FirestoreStore) DeleteFieldIfEqual(ctx context.Context, collection, docID, field string, expected interface{}) (bool, error) {
	ref := s.client.Collection(collection).Doc(docID)
	var deleted bool
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = false
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}
		current, ok := snap.Data()[field]
		if !ok || !reflect.DeepEqual(current, expected) {
			return nil
		}
		deleted = true
		return tx.Update(ref, []firestore.Update{{Path: field, Value: firestore.Delete}})
	})
	if err != nil {
		return false, fmt.Errorf("failed to conditionally delete field %q on %s/%s: %w", field, collection, docID, err)
	}
	if !deleted {
		s.logger.Debug("Field absent or changed, left in place",
			zap.String("collection", collection), zap.String("docID", docID), zap.String("field", field))
	}
	return deleted, nil
}

// QueryByField runs a single-field Where query and returns every matching document.
func (s *FirestoreStore) QueryByField(ctx context.Context, collection, field, op string, value interface{}) ([]*Document, error) {
	iter := s.client.Collection(collection).Where(field, op, value).Documents(ctx)
	defer iter.Stop()

	var docs []*Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s where %s %s %v: %w", collection, field, op, value, err)
		}
		docs = append(docs, documentFromSnapshot(snap))
	}
	return docs, nil
}

// RelativePath strips the "projects/<p>/databases/<d>/documents/" prefix from a full document path.
func RelativePath(fullPath string) string {
	const marker = "/documents/"
	if i := strings.Index(fullPath, marker); i >= 0 {
		return fullPath[i+len(marker):]
	}
	return fullPath
}

func documentFromSnapshot(snap *firestore.DocumentSnapshot) *Document {
	doc := &Document{ID: snap.Ref.ID, Path: RelativePath(snap.Ref.Path)}
	if snap.Exists() {
		doc.Data = snap.Data()
	}
	return doc
}

// toFirestoreValues swaps store-level write values for their Firestore transforms.
func toFirestoreValues(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case Increment:
			out[k] = firestore.Increment(int64(val))
		case map[string]interface{}:
			out[k] = toFirestoreValues(val)
		default:
			out[k] = v
		}
	}
	return out
}

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"teeup-backend-go/internal/db"
	"teeup-backend-go/pkg/database"
)

// SourceFirestore labels changes observed through snapshot listeners.
const SourceFirestore = "firestore"

// FirestoreSource turns Firestore snapshot listeners into routed changes.
// The first snapshot of each listener holds existing documents and is skipped.
type FirestoreSource struct {
	client *firestore.Client
	router Dispatcher
	logger *zap.Logger
}

// NewFirestoreSource creates a new FirestoreSource.
func NewFirestoreSource(client *firestore.Client, router Dispatcher, logger *zap.Logger) *FirestoreSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirestoreSource{client: client, router: router, logger: logger}
}

// createdAtFields names the creation timestamp of collections routed only on create.
// Their listeners start at the source's start time so history is not loaded.
var createdAtFields = map[string]string{
	db.FriendRequestsCollection: "sentAt",
	db.MessagesCollection:       "timestamp",
}

// listenerQueries returns the query each listener watches.
// weekendStatuses routes updates of existing documents, so it is watched in full.
func listenerQueries(client *firestore.Client, since time.Time) map[string]firestore.Query {
	queries := map[string]firestore.Query{
		db.FriendRequestsCollection:  client.Collection(db.FriendRequestsCollection).Query,
		db.MessagesCollection:        client.CollectionGroup(db.MessagesCollection).Query,
		db.WeekendStatusesCollection: client.Collection(db.WeekendStatusesCollection).Query,
	}
	for name, field := range createdAtFields {
		queries[name] = queries[name].Where(field, ">", since)
	}
	return queries
}

// Run listens until ctx is cancelled or a listener fails.
func (s *FirestoreSource) Run(ctx context.Context) error {
	listeners := listenerQueries(s.client, time.Now().UTC())

	g, gctx := errgroup.WithContext(ctx)
	for name, q := range listeners {
		g.Go(func() error {
			return s.listen(gctx, name, q)
		})
	}
	return g.Wait()
}

func (s *FirestoreSource) listen(ctx context.Context, name string, q firestore.Query) error {
	log := s.logger.With(zap.String("listener", name))
	it := q.Snapshots(ctx)
	defer it.Stop()

	log.Info("Firestore listener started")
	initial := true
	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				log.Info("Firestore listener stopped")
				return nil
			}
			return fmt.Errorf("firestore listener %s: %w", name, err)
		}
		if initial {
			initial = false
			log.Debug("Skipping initial snapshot", zap.Int("documents", snap.Size))
			continue
		}
		for _, dc := range snap.Changes {
			change := changeFromSnapshot(dc.Kind, dc.Doc.Ref.Path, dc.Doc.Data())
			if err := s.router.Dispatch(ctx, change); err != nil && !errors.Is(err, ErrNoRoute) {
				log.Warn("Failed to dispatch change", zap.String("path", change.Path), zap.Error(err))
			}
		}
	}
}

func changeFromSnapshot(kind firestore.DocumentChangeKind, fullPath string, data map[string]interface{}) Change {
	c := Change{
		Path:   database.RelativePath(fullPath),
		Data:   data,
		Source: SourceFirestore,
	}
	switch kind {
	case firestore.DocumentAdded:
		c.Operation = OpCreate
	case firestore.DocumentModified:
		c.Operation = OpUpdate
	case firestore.DocumentRemoved:
		c.Operation = OpDelete
		c.Data = nil
	}
	return c
}

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

// transcriptField wraps transcript lists; Firestore documents must be maps.
const transcriptField = "slides"

// FirestoreStore keeps one document per entity in the sessions and
// transcripts collections.
type FirestoreStore struct {
	log    *logger.Logger
	client *firestore.Client
}

func NewFirestoreStore(log *logger.Logger, client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{log: log.With("store", "FirestoreStore"), client: client}
}

func (s *FirestoreStore) Name() string { return "firestore" }

// Ping reads at most one session; an empty collection is healthy.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	it := s.client.Collection(CollectionSessions).Limit(1).Documents(ctx)
	defer it.Stop()
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

func (s *FirestoreStore) CreateSession(ctx context.Context, id string, doc highlight.Document) error {
	if !validID(id) {
		return ErrInvalidID
	}
	clean, err := normalize(doc)
	if err != nil {
		return err
	}
	if _, err := s.client.Collection(CollectionSessions).Doc(id).Set(ctx, clean); err != nil {
		return fmt.Errorf("firestore create session: %w", err)
	}
	return nil
}

func (s *FirestoreStore) LoadSession(ctx context.Context, id string) (highlight.Document, error) {
	if !validID(id) {
		return nil, notFound("session", id)
	}
	snap, err := s.client.Collection(CollectionSessions).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, notFound("session", id)
		}
		return nil, fmt.Errorf("firestore load session: %w", err)
	}
	return normalize(snap.Data())
}

func (s *FirestoreStore) UpdateSession(ctx context.Context, id string, patch highlight.Document) error {
	if !validID(id) {
		return notFound("session", id)
	}
	if len(patch) == 0 {
		_, err := s.LoadSession(ctx, id)
		return err
	}
	clean, err := normalize(patch)
	if err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(clean))
	for k, v := range clean {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	if _, err := s.client.Collection(CollectionSessions).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return notFound("session", id)
		}
		return fmt.Errorf("firestore update session: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListSessions(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, CollectionSessions)
}

func (s *FirestoreStore) SaveTranscript(ctx context.Context, id string, items []any) error {
	if !validID(id) {
		return ErrInvalidID
	}
	clean, err := normalizeList(items)
	if err != nil {
		return err
	}
	if _, err := s.client.Collection(CollectionTranscripts).Doc(id).Set(ctx, map[string]any{transcriptField: clean}); err != nil {
		return fmt.Errorf("firestore save transcript: %w", err)
	}
	return nil
}

func (s *FirestoreStore) LoadTranscript(ctx context.Context, id string) ([]any, error) {
	if !validID(id) {
		return nil, notFound("transcript", id)
	}
	snap, err := s.client.Collection(CollectionTranscripts).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, notFound("transcript", id)
		}
		return nil, fmt.Errorf("firestore load transcript: %w", err)
	}
	items, _ := snap.Data()[transcriptField].([]any)
	return normalizeList(items)
}

func (s *FirestoreStore) ListTranscripts(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, CollectionTranscripts)
}

func (s *FirestoreStore) listIDs(ctx context.Context, collection string) ([]string, error) {
	refs, err := s.client.Collection(collection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore list %s: %w", collection, err)
	}
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

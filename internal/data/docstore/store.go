package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
)

var (
	// ErrNotFound is returned by every backend when an id has no document.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID rejects ids that cannot be stored safely.
	ErrInvalidID = errors.New("invalid document id")
)

// Collection names shared by all backends.
const (
	CollectionSessions    = "sessions"
	CollectionTranscripts = "transcripts"
)

// Store persists sessions (free-form documents) and transcripts (opaque
// lists). Identifiers are generated by callers.
type Store interface {
	Name() string
	Ping(ctx context.Context) error

	CreateSession(ctx context.Context, id string, doc highlight.Document) error
	LoadSession(ctx context.Context, id string) (highlight.Document, error)
	// UpdateSession merges patch into the stored document at the top level
	// only; nested maps are replaced, not merged.
	UpdateSession(ctx context.Context, id string, patch highlight.Document) error
	ListSessions(ctx context.Context) ([]string, error)

	// SaveTranscript creates or overwrites the whole list.
	SaveTranscript(ctx context.Context, id string, items []any) error
	LoadTranscript(ctx context.Context, id string) ([]any, error)
	ListTranscripts(ctx context.Context) ([]string, error)
}

func validID(id string) bool {
	if id == "" || id == "." || id == ".." || len(id) > 200 {
		return false
	}
	return !strings.ContainsAny(id, `/\`+"\x00")
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// mergeShallow returns base with every top-level key of patch overwritten.
func mergeShallow(base, patch highlight.Document) highlight.Document {
	out := make(highlight.Document, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// normalize round-trips a document through JSON so every backend hands back
// the same shapes ([]any, map[string]any, float64).
func normalize(doc highlight.Document) (highlight.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := highlight.Document{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeList(items []any) ([]any, error) {
	if items == nil {
		return []any{}, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	out := []any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

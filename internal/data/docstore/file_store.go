package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

// FileStore keeps one pretty-printed <id>.json per entity under
// <root>/sessions and <root>/transcripts.
type FileStore struct {
	log  *logger.Logger
	root string
	// mu serializes read-modify-write in UpdateSession within this process.
	mu sync.Mutex
}

func NewFileStore(log *logger.Logger, root string) (*FileStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("file store: root directory required")
	}
	for _, c := range []string{CollectionSessions, CollectionTranscripts} {
		if err := os.MkdirAll(filepath.Join(root, c), 0o755); err != nil {
			return nil, fmt.Errorf("file store: mkdir %s: %w", c, err)
		}
	}
	return &FileStore{log: log.With("store", "FileStore"), root: root}, nil
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Ping(context.Context) error {
	for _, c := range []string{CollectionSessions, CollectionTranscripts} {
		if _, err := os.Stat(filepath.Join(s.root, c)); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) path(collection, id string) string {
	return filepath.Join(s.root, collection, id+".json")
}

func (s *FileStore) CreateSession(_ context.Context, id string, doc highlight.Document) error {
	if !validID(id) {
		return ErrInvalidID
	}
	return s.write(s.path(CollectionSessions, id), doc)
}

func (s *FileStore) LoadSession(_ context.Context, id string) (highlight.Document, error) {
	if !validID(id) {
		return nil, notFound("session", id)
	}
	doc := highlight.Document{}
	if err := s.read(s.path(CollectionSessions, id), &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound("session", id)
		}
		return nil, err
	}
	return doc, nil
}

func (s *FileStore) UpdateSession(ctx context.Context, id string, patch highlight.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.LoadSession(ctx, id)
	if err != nil {
		return err
	}
	return s.write(s.path(CollectionSessions, id), mergeShallow(current, patch))
}

func (s *FileStore) ListSessions(context.Context) ([]string, error) {
	return s.list(CollectionSessions)
}

func (s *FileStore) SaveTranscript(_ context.Context, id string, items []any) error {
	if !validID(id) {
		return ErrInvalidID
	}
	if items == nil {
		items = []any{}
	}
	return s.write(s.path(CollectionTranscripts, id), items)
}

func (s *FileStore) LoadTranscript(_ context.Context, id string) ([]any, error) {
	if !validID(id) {
		return nil, notFound("transcript", id)
	}
	items := []any{}
	if err := s.read(s.path(CollectionTranscripts, id), &items); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound("transcript", id)
		}
		return nil, err
	}
	return items, nil
}

func (s *FileStore) ListTranscripts(context.Context) ([]string, error) {
	return s.list(CollectionTranscripts)
}

func (s *FileStore) read(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("file store: decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// write goes through a temp file and rename so readers never see a partial
// document.
func (s *FileStore) write(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("file store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

func (s *FileStore) list(collection string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

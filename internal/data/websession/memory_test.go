package websession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/meet-highlight-backend/internal/domain/user"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	id, err := s.Create(ctx, RecordFromUser(user.User{UID: "u1", Email: "a@b.c", Name: "Ada"}))
	if err != nil || id == "" {
		t.Fatalf("Create: id=%q err=%v", id, err)
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.User() != (user.User{UID: "u1", Email: "a@b.c", Name: "Ada"}) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id, _ := s.Create(ctx, Record{UID: "u1"})
	now = now.Add(59 * time.Second)
	if _, err := s.Get(ctx, id); err != nil {
		t.Fatalf("should still be valid: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after ttl, got %v", err)
	}
}

func TestMemoryStoreUnknownID(t *testing.T) {
	if _, err := NewMemoryStore(0).Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

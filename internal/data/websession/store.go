package websession

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/meet-highlight-backend/internal/domain/user"
)

var ErrNotFound = errors.New("auth session not found")

const DefaultTTL = 7 * 24 * time.Hour

// Record is what a login leaves behind on the server.
type Record struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

func RecordFromUser(u user.User) Record {
	return Record{UID: u.UID, Email: u.Email, Name: u.Name}
}

func (r Record) User() user.User {
	return user.User{UID: r.UID, Email: r.Email, Name: r.Name}
}

// Store keeps login records keyed by an opaque id for a bounded time.
type Store interface {
	Create(ctx context.Context, rec Record) (string, error)
	Get(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}

func newID() string {
	return uuid.NewString()
}

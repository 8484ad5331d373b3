package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

const (
	kindSession    = "session"
	kindTranscript = "transcript"
)

// documentRow is the single table behind GormStore; sessions and transcripts
// share it, keyed by (kind, id).
type documentRow struct {
	Kind      string         `gorm:"primaryKey;size:32"`
	ID        string         `gorm:"primaryKey;size:200"`
	Body      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (documentRow) TableName() string { return "documents" }

// GormStore is the relational backend (Postgres in production).
type GormStore struct {
	log *logger.Logger
	db  *gorm.DB
}

// NewGormStore migrates the documents table before returning.
func NewGormStore(db *gorm.DB, baseLog *logger.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate documents: %w", err)
	}
	return &GormStore{log: baseLog.With("store", "GormStore"), db: db}, nil
}

func (s *GormStore) Name() string { return "postgres" }

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) CreateSession(ctx context.Context, id string, doc highlight.Document) error {
	if !validID(id) {
		return ErrInvalidID
	}
	return s.upsert(ctx, kindSession, id, doc)
}

func (s *GormStore) LoadSession(ctx context.Context, id string) (highlight.Document, error) {
	if !validID(id) {
		return nil, notFound(kindSession, id)
	}
	row, err := s.get(ctx, s.db, kindSession, id)
	if err != nil {
		return nil, err
	}
	doc := highlight.Document{}
	if err := json.Unmarshal(row.Body, &doc); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return doc, nil
}

func (s *GormStore) UpdateSession(ctx context.Context, id string, patch highlight.Document) error {
	if !validID(id) {
		return notFound(kindSession, id)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.get(ctx, tx, kindSession, id)
		if err != nil {
			return err
		}
		current := highlight.Document{}
		if err := json.Unmarshal(row.Body, &current); err != nil {
			return fmt.Errorf("decode session %s: %w", id, err)
		}
		body, err := json.Marshal(mergeShallow(current, patch))
		if err != nil {
			return err
		}
		return tx.Model(&documentRow{}).
			Where("kind = ? AND id = ?", kindSession, id).
			Updates(map[string]any{"body": datatypes.JSON(body), "updated_at": time.Now().UTC()}).
			Error
	})
}

func (s *GormStore) ListSessions(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, kindSession)
}

func (s *GormStore) SaveTranscript(ctx context.Context, id string, items []any) error {
	if !validID(id) {
		return ErrInvalidID
	}
	if items == nil {
		items = []any{}
	}
	return s.upsert(ctx, kindTranscript, id, items)
}

func (s *GormStore) LoadTranscript(ctx context.Context, id string) ([]any, error) {
	if !validID(id) {
		return nil, notFound(kindTranscript, id)
	}
	row, err := s.get(ctx, s.db, kindTranscript, id)
	if err != nil {
		return nil, err
	}
	items := []any{}
	if err := json.Unmarshal(row.Body, &items); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", id, err)
	}
	return items, nil
}

func (s *GormStore) ListTranscripts(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, kindTranscript)
}

func (s *GormStore) get(ctx context.Context, tx *gorm.DB, kind, id string) (*documentRow, error) {
	var row documentRow
	err := tx.WithContext(ctx).Where("kind = ? AND id = ?", kind, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(kind, id)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) upsert(ctx context.Context, kind, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	row := documentRow{Kind: kind, ID: id, Body: datatypes.JSON(body), CreatedAt: now, UpdatedAt: now}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormStore) listIDs(ctx context.Context, kind string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).
		Model(&documentRow{}).
		Where("kind = ?", kind).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yungbote/meet-highlight-backend/internal/data/docstore"
	"github.com/yungbote/meet-highlight-backend/internal/platform/apierr"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

type TranscriptService interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) ([]any, error)
	Create(ctx context.Context, items []any) (string, error)
	// Replace overwrites the whole list, creating it when absent.
	Replace(ctx context.Context, id string, items []any) error
}

type transcriptService struct {
	log   *logger.Logger
	store docstore.Store
}

func NewTranscriptService(log *logger.Logger, store docstore.Store) TranscriptService {
	return &transcriptService{log: log.With("service", "TranscriptService"), store: store}
}

func (s *transcriptService) List(ctx context.Context) ([]string, error) {
	ids, err := s.store.ListTranscripts(ctx)
	if err != nil {
		return nil, apierr.Internal("transcript_list_failed", err)
	}
	return ids, nil
}

func (s *transcriptService) Get(ctx context.Context, id string) ([]any, error) {
	items, err := s.store.LoadTranscript(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apierr.NotFound("transcript_not_found", errors.New("Not found"))
	}
	if err != nil {
		return nil, apierr.Internal("transcript_load_failed", err)
	}
	return items, nil
}

func (s *transcriptService) Create(ctx context.Context, items []any) (string, error) {
	id := uuid.NewString()
	if err := s.save(ctx, id, items); err != nil {
		return "", err
	}
	return id, nil
}

func (s *transcriptService) Replace(ctx context.Context, id string, items []any) error {
	return s.save(ctx, id, items)
}

func (s *transcriptService) save(ctx context.Context, id string, items []any) error {
	if items == nil {
		return invalid("expected_list", "Expected a list of slides")
	}
	err := s.store.SaveTranscript(ctx, id, items)
	if errors.Is(err, docstore.ErrInvalidID) {
		return invalid("invalid_id", "Invalid transcript id")
	}
	if err != nil {
		s.log.Error("Failed to save transcript", "transcript_id", id, "error", err)
		return apierr.Internal("transcript_save_failed", err)
	}
	return nil
}

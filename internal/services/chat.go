package services

import (
	"context"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

type ChatService interface {
	Condense(ctx context.Context, msgs []highlight.ChatMessage) string
}

type chatService struct {
	log *logger.Logger
	gen GenerationClient
}

func NewChatService(log *logger.Logger, gen GenerationClient) ChatService {
	return &chatService{log: log.With("service", "ChatService"), gen: gen}
}

func (s *chatService) Condense(ctx context.Context, msgs []highlight.ChatMessage) string {
	return s.gen.CondenseChat(ctx, msgs)
}

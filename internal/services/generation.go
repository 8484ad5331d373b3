package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/modules/highlight/prompts"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

// ErrorOutputPrefix marks a failed completion that is returned as text.
const ErrorOutputPrefix = "[ERROR]"

// PlaceholderScript is served when no model credential is configured.
const PlaceholderScript = "[00:00-05:00] Arrival Reset\n" +
	"- Goal: Decompress after DU; reset norms\n" +
	"- Instructor: Play music; phones in bags; laptops closed\n" +
	"- Value: Respect; shared norms\n" +
	"Missing support: slides_needed=[], props=[]\n"

// TextModel is satisfied by the gemini and openai platform clients.
type TextModel interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
	Model() string
}

// GenerationClient never returns an error: failures become text.
type GenerationClient interface {
	Complete(ctx context.Context, prompt string) string
	CondenseChat(ctx context.Context, msgs []highlight.ChatMessage) string
	// Offline reports that no model is configured and outputs are canned.
	Offline() bool
}

type generationClient struct {
	log   *logger.Logger
	model TextModel
}

// NewGenerationClient accepts a nil model; the client then runs offline.
func NewGenerationClient(log *logger.Logger, model TextModel) GenerationClient {
	return &generationClient{log: log.With("service", "GenerationClient"), model: model}
}

func (g *generationClient) Offline() bool { return g.model == nil }

func (g *generationClient) Complete(ctx context.Context, prompt string) string {
	if g.model == nil {
		return PlaceholderScript
	}
	out, err := g.model.GenerateText(ctx, "", prompt)
	if err != nil {
		g.log.Warn("Model completion failed", "model", g.model.Model(), "error", err)
		return fmt.Sprintf("%s %v", ErrorOutputPrefix, err)
	}
	return strings.TrimSpace(out)
}

func (g *generationClient) CondenseChat(ctx context.Context, msgs []highlight.ChatMessage) string {
	if g.model == nil {
		return prompts.ChatBullets(prompts.RecentMessages(msgs))
	}
	out, err := g.model.GenerateText(ctx, "", prompts.BuildCondense(msgs))
	if err != nil {
		g.log.Warn("Chat condense failed", "model", g.model.Model(), "error", err)
		return ""
	}
	return strings.TrimSpace(out)
}

// IsErrorOutput lets strict callers detect a failed completion.
func IsErrorOutput(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), ErrorOutputPrefix)
}

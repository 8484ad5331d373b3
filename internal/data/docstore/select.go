package docstore

import (
	"context"
	"time"

	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

const pingTimeout = 5 * time.Second

// Select returns primary when it answers a ping, otherwise fallback. The
// choice is made once, at construction; requests never switch backends.
func Select(ctx context.Context, log *logger.Logger, primary, fallback Store) Store {
	if primary == nil {
		log.Info("Document store selected", "backend", fallback.Name(), "reason", "no primary configured")
		return fallback
	}
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := primary.Ping(pctx); err != nil {
		log.Warn("Primary document store unreachable, using fallback",
			"primary", primary.Name(),
			"fallback", fallback.Name(),
			"error", err,
		)
		return fallback
	}
	log.Info("Document store selected", "backend", primary.Name())
	return primary
}

package render

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/meet-highlight-backend/internal/platform/gcp"
)

const publishConcurrency = 4

// Publisher copies rendered pages to a bucket and hands back public URLs.
type Publisher struct {
	bucket gcp.BucketService
	prefix string
}

func NewPublisher(bucket gcp.BucketService, prefix string) *Publisher {
	return &Publisher{bucket: bucket, prefix: prefix}
}

// Publish uploads files concurrently and returns their URLs in input order.
func (p *Publisher) Publish(ctx context.Context, sessionID string, files []string) ([]string, error) {
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(publishConcurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			key := path.Join(p.prefix, sessionID, filepath.Base(f))
			fh, err := os.Open(f)
			if err != nil {
				return err
			}
			defer fh.Close()
			if err := p.bucket.UploadFile(gctx, key, fh); err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			urls[i] = p.bucket.GetPublicURL(key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

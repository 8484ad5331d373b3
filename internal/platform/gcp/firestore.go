package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
)

var ErrMissingProject = errors.New("firestore: project id is required")

// NewFirestoreClient opens a client for the credential's project. An empty
// FIRESTORE_EMULATOR_HOST is the normal case; the SDK reads it on its own.
func NewFirestoreClient(ctx context.Context, creds Credentials) (*firestore.Client, error) {
	project := strings.TrimSpace(creds.ProjectID)
	if project == "" {
		return nil, ErrMissingProject
	}
	client, err := firestore.NewClient(ctx, project, creds.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

package repository

import (
	"context"
	"errors"
)

// ErrArtifactNotFound is returned by ArtifactStore.Read for an unknown key
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore keeps rendered documents outside the relational data
type ArtifactStore interface {
	Write(ctx context.Context, key string, data []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) ([]byte, error)
}

package storage

import "context"

// ImageStorage persists customer photos and returns the public URL of the
// stored object.
type ImageStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

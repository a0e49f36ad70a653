// Package storage stores uploaded recipe images on the local filesystem or
// on S3-compatible object storage (AWS S3, MinIO, R2, Spaces).
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/recipebox/recipebox-api/internal/config"
)

var ErrUnknownDisk = errors.New("unknown storage disk")

// Disk is the driver interface for stored files. Paths are slash separated
// and relative to the disk root.
type Disk interface {
	// Put writes data to path, replacing any existing file.
	Put(ctx context.Context, path string, data []byte, contentType string) error

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a file. A missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

// New builds the disk selected by cfg.Disk ("local" or "s3").
func New(ctx context.Context, cfg config.StorageConfig) (Disk, error) {
	switch cfg.Disk {
	case "", "local":
		return NewLocalDisk(cfg.LocalRoot, cfg.BaseURL)
	case "s3":
		return NewS3Disk(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDisk, cfg.Disk)
	}
}

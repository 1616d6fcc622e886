// Package storage stores uploaded files on a named disk.
//
// Two drivers are available:
//   - "local"  local filesystem under STORAGE_LOCAL_ROOT (default)
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once with storage.Connect, then fetch the configured disk:
//
//	disk, err := storage.Default()
//	err = disk.Put(ctx, "uploads/a.jpg", r, "image/jpeg")
//	url := disk.URL("uploads/a.jpg")
package storage

import (
	"context"
	"io"
)

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes everything read from r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/telascatalogo/telas/pkg/logger"
	"github.com/telascatalogo/telas/pkg/metrics"
)

// DefaultUploadDir is the directory, relative to the disk root, that images land in.
const DefaultUploadDir = "uploads"

// imageTypes maps accepted sniffed content types to the stored extension.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadError is returned for every failed image upload.
type UploadError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *UploadError) Error() string {
	msg := "upload " + e.Filename + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UploadError) Unwrap() error { return e.Err }

// ImageUploader validates images and writes them to a disk under a random name.
type ImageUploader struct {
	Disk     Disk
	MaxBytes int64
	Dir      string
	newName  func() string
}

// NewImageUploader returns an uploader writing into DefaultUploadDir on disk.
func NewImageUploader(disk Disk, maxBytes int64) *ImageUploader {
	return &ImageUploader{Disk: disk, MaxBytes: maxBytes, Dir: DefaultUploadDir, newName: uuid.NewString}
}

// Store checks that r holds an accepted image no larger than MaxBytes, saves
// it and returns its public URL. The client filename is only used in errors.
func (u *ImageUploader) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	url, err := u.store(ctx, filename, r)
	if err != nil {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		logger.WithCtx(ctx).Warn("storage: upload rejected", "filename", filename, "error", err)
		return "", err
	}
	metrics.Uploads.WithLabelValues("stored").Inc()
	return url, nil
}

func (u *ImageUploader) store(ctx context.Context, filename string, r io.Reader) (string, error) {
	if r == nil {
		return "", &UploadError{Filename: filename, Reason: "no file provided"}
	}

	data, err := io.ReadAll(io.LimitReader(r, u.MaxBytes+1))
	if err != nil {
		return "", &UploadError{Filename: filename, Reason: "read failed", Err: err}
	}
	switch {
	case len(data) == 0:
		return "", &UploadError{Filename: filename, Reason: "file is empty"}
	case int64(len(data)) > u.MaxBytes:
		return "", &UploadError{Filename: filename, Reason: fmt.Sprintf("file exceeds %d bytes", u.MaxBytes)}
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", &UploadError{Filename: filename, Reason: "unsupported content type " + contentType}
	}

	name := u.newName
	if name == nil {
		name = uuid.NewString
	}
	dst := path.Join(u.Dir, name()+ext)
	if err := u.Disk.Put(ctx, dst, bytes.NewReader(data), contentType); err != nil {
		return "", &UploadError{Filename: filename, Reason: "write failed", Err: err}
	}
	return u.Disk.URL(dst), nil
}

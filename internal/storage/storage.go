// Package storage uploads media files to object storage and normalises them
// on the way: videos are probed for duration, thumbnails are re-encoded.
package storage

import (
	"context"
	"errors"
	"fmt"

	"vidtube/internal/config"
)

// Kind is the type of media being uploaded.
type Kind string

const (
	KindVideo     Kind = "video"
	KindThumbnail Kind = "thumbnail"
)

var (
	// ErrUnsupportedMedia is returned when a thumbnail cannot be decoded.
	ErrUnsupportedMedia = errors.New("storage: unsupported media")
	// ErrEmptyFile is returned for zero-length uploads.
	ErrEmptyFile = errors.New("storage: empty file")
)

// Backend stores a local file under key and returns its public URL.
type Backend interface {
	Name() string
	Put(ctx context.Context, key, localPath, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// UploadResult describes an uploaded object.
type UploadResult struct {
	URL         string  `json:"url"`
	Key         string  `json:"key"`
	ContentType string  `json:"contentType"`
	Bytes       int64   `json:"bytes"`
	Duration    float64 `json:"duration"`
}

// NewBackend builds the backend selected by MEDIA_DRIVER.
func NewBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.MediaDriver {
	case config.MediaDriverS3:
		return NewS3Backend(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKeyID,
			SecretKey: cfg.S3SecretAccessKey,
			PublicURL: cfg.MediaPublicBaseURL,
		})
	case config.MediaDriverMinio:
		return NewMinioBackend(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MediaPublicBaseURL,
		})
	case config.MediaDriverLocal, "":
		return NewLocalBackend(cfg.MediaLocalDir, cfg.MediaPublicBaseURL)
	default:
		return nil, fmt.Errorf("unsupported media driver %q", cfg.MediaDriver)
	}
}

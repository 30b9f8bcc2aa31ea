package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/imoveis/catalog/internal/platform/metrics"
)

const DefaultMaxBytes = 5 * 1024 * 1024

var (
	ErrNotImage     = errors.New("file is not an image")
	ErrTooLarge     = errors.New("file exceeds the size limit")
	ErrEmpty        = errors.New("file is empty")
	ErrUndecodable  = errors.New("image could not be decoded")
	ErrStoreFailure = errors.New("image could not be stored")
)

type Service struct {
	store       Store
	watermarker *Watermarker
	maxBytes    int64
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewService(store Store, watermarker *Watermarker, maxBytes int64, m *metrics.Metrics, log *zap.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{
		store:       store,
		watermarker: watermarker,
		maxBytes:    maxBytes,
		metrics:     m,
		log:         log.Named("media"),
	}
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Check validates an upload from its declared size and leading bytes. It is
// meant to run before the whole file is read.
func (s *Service) Check(size int64, head []byte) error {
	if size <= 0 || len(head) == 0 {
		s.metrics.ImageRejected("empty")
		return ErrEmpty
	}
	if size > s.maxBytes {
		s.metrics.ImageRejected("too_large")
		return ErrTooLarge
	}
	if !strings.HasPrefix(mimetype.Detect(head).String(), "image/") {
		s.metrics.ImageRejected("not_image")
		return ErrNotImage
	}
	return nil
}

// Upload watermarks an image and stores it under a fresh key. The returned
// URL is unique to this upload.
func (s *Service) Upload(ctx context.Context, data []byte) (string, error) {
	if err := s.Check(int64(len(data)), data); err != nil {
		return "", err
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		s.metrics.ImageRejected("undecodable")
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	out := src
	if s.watermarker != nil {
		out = s.watermarker.Apply(src)
	}

	format, ext, contentType := outputFormat(mimetype.Detect(data).String())
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, format, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	key := fmt.Sprintf("listings/%s%s", uuid.New().String(), ext)
	url, err := s.store.Put(ctx, key, contentType, buf.Bytes())
	if err != nil {
		s.log.Error("failed to store image", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	s.log.Info("image stored", zap.String("key", key), zap.Int("bytes", buf.Len()))
	s.metrics.ImageStored()
	return url, nil
}

// outputFormat keeps PNG and GIF sources in their format and re-encodes
// everything else as JPEG.
func outputFormat(sourceType string) (imaging.Format, string, string) {
	switch {
	case strings.HasPrefix(sourceType, "image/png"):
		return imaging.PNG, ".png", "image/png"
	case strings.HasPrefix(sourceType, "image/gif"):
		return imaging.GIF, ".gif", "image/gif"
	default:
		return imaging.JPEG, ".jpg", "image/jpeg"
	}
}

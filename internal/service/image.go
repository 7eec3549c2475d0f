package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/foodgram-v2/backend/config"
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageService stores recipe images posted as base64 data URIs. With
// S3 configured it uploads to the bucket; otherwise it writes to the
// local media directory.
type ImageService struct {
	s3Config     *config.S3Config
	mediaDir     string
	mediaBaseURL string
}

func NewImageService(s3Config *config.S3Config, mediaDir, mediaBaseURL string) *ImageService {
	return &ImageService{
		s3Config:     s3Config,
		mediaDir:     mediaDir,
		mediaBaseURL: mediaBaseURL,
	}
}

// Store decodes the payload and persists it, returning the public URL.
// Plain http(s) URLs pass through untouched so clients can resend a
// previously stored image on update.
func (s *ImageService) Store(ctx context.Context, data string) (string, error) {
	if strings.HasPrefix(data, "http://") || strings.HasPrefix(data, "https://") {
		return data, nil
	}

	contentType := "image/png"
	payload := data
	if strings.HasPrefix(data, "data:") {
		header, rest, found := strings.Cut(data, ",")
		if !found {
			return "", fmt.Errorf("malformed data URI")
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = rest
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	key := fmt.Sprintf("recipes/%s%s", uuid.New(), ext)
	if s.s3Config != nil {
		_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.s3Config.BucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(raw),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return "", fmt.Errorf("upload image: %w", err)
		}
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
	}

	path := filepath.Join(s.mediaDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return s.mediaBaseURL + "/" + key, nil
}

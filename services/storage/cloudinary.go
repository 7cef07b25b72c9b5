package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"fixhub/utils"
)

const uploadFolder = "fixhub"

// CloudinaryStorage implements StorageService against Cloudinary.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage builds the Cloudinary-backed storage service.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

func (s *CloudinaryStorage) IsConfigured() bool { return true }

// UploadImages pushes each file to the fixhub folder and returns the
// secure URLs in input order. Any single failure fails the batch; the
// caller falls back to base64 previews.
func (s *CloudinaryStorage) UploadImages(ctx context.Context, files []File) ([]string, error) {
	logger := utils.GetLogger()
	urls := make([]string, 0, len(files))

	for _, f := range files {
		publicID := fmt.Sprintf("%d_%s", time.Now().UnixMilli(),
			strings.TrimSuffix(f.Name, filepath.Ext(f.Name)))

		resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(f.Data), uploader.UploadParams{
			Folder:       uploadFolder,
			PublicID:     publicID,
			ResourceType: "image",
		})
		if err != nil {
			return nil, fmt.Errorf("storage: upload %s: %w", f.Name, err)
		}
		logger.Debug("Image uploaded", zap.String("url", resp.SecureURL))
		urls = append(urls, resp.SecureURL)
	}
	return urls, nil
}

// NoopStorage is used when Cloudinary credentials are absent. It never
// uploads; the analyze handler keeps base64 previews instead.
type NoopStorage struct{}

func (NoopStorage) IsConfigured() bool { return false }

func (NoopStorage) UploadImages(ctx context.Context, files []File) ([]string, error) {
	return nil, fmt.Errorf("storage: cloudinary not configured")
}

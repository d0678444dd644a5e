package libs

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinaryStorage prefers the separate credentials and falls back to a
// CLOUDINARY_URL style connection string.
func NewCloudinaryStorage(cloudURL, cloudName, apiKey, apiSecret, folder string, logger *zap.Logger) (*CloudinaryStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cloudName != "" && apiKey != "" && apiSecret != "":
		cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	case cloudURL != "":
		cld, err = cloudinary.NewFromURL(cloudURL)
	default:
		return nil, fmt.Errorf("cloudinary environment variables not set")
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary init failed: %w", err)
	}

	return &CloudinaryStorage{cld: cld, folder: folder, logger: logger}, nil
}

func (s *CloudinaryStorage) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: fmt.Sprintf("avatar_%d", time.Now().UnixNano()),
		Folder:   s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("cloudinary response is nil")
	}

	s.logger.Debug("avatar uploaded", zap.String("public_id", resp.PublicID))

	if resp.SecureURL != "" {
		return resp.SecureURL, nil
	}
	if resp.URL != "" {
		return resp.URL, nil
	}
	return "", fmt.Errorf("cloudinary returned no URL for %s", resp.PublicID)
}

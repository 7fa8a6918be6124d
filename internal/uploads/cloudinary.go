package uploads

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Store uploads and destroys product images on Cloudinary. Assets are
// addressed by public id so a deleted product can take its images with it.
type Store struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewStore(cloudName, apiKey, apiSecret, folder string) (*Store, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Store{cld: cld, folder: folder}, nil
}

// Upload streams a multipart file to Cloudinary and returns the hosted URL
// together with the public id.
func (s *Store) Upload(ctx context.Context, file multipart.File) (url, publicID string, err error) {
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return "", "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, res.PublicID, nil
}

// Destroy removes an asset by public id. Unknown ids are not an error;
// product deletion stays idempotent against half-cleaned images.
func (s *Store) Destroy(ctx context.Context, publicID string) error {
	trimmed := strings.TrimSpace(publicID)
	if trimmed == "" {
		return nil
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: trimmed})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: %s", res.Result)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/lshigami/Axolotls/config"
	"github.com/rs/zerolog/log"
)

// ImageUploadService pushes question images to the external host and returns
// the public URL to store on the Question.
type ImageUploadService interface {
	UploadImage(ctx context.Context, file io.Reader) (string, error)
}

type cloudinaryUploadService struct {
	client *cloudinary.Cloudinary
}

func NewImageUploadService(cfg *config.Config) (ImageUploadService, error) {
	if cfg.Cloudinary.CloudName == "" {
		log.Warn().Msg("Cloudinary credentials are not set. Image uploads will be rejected.")
		return &cloudinaryUploadService{}, nil
	}
	client, err := cloudinary.NewFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.ApiKey, cfg.Cloudinary.ApiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary client: %w", err)
	}
	return &cloudinaryUploadService{client: client}, nil
}

func (s *cloudinaryUploadService) UploadImage(ctx context.Context, file io.Reader) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("image hosting is not configured")
	}

	result, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{Folder: "questions"})
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("image upload failed: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

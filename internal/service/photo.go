package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/models"
	"gorm.io/gorm"
)

const maxPhotoSize = 10 << 20

// PhotoService stores recipe photos in S3 and records the public URL on
// the recipe.
type PhotoService struct {
	db       *gorm.DB
	s3Config *config.S3Config
}

// NewPhotoService creates a new PhotoService instance.
func NewPhotoService(db *gorm.DB, s3Config *config.S3Config) *PhotoService {
	return &PhotoService{db: db, s3Config: s3Config}
}

// UploadRecipePhoto uploads a photo for a recipe and updates the
// recipe's image URL. Returns the public URL.
func (s *PhotoService) UploadRecipePhoto(ctx context.Context, recipeID uuid.UUID, body io.Reader, contentType string) (string, error) {
	if s.s3Config == nil {
		return "", fmt.Errorf("photo storage not configured")
	}
	ext, err := photoExtension(contentType)
	if err != nil {
		return "", err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
		}
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(body, maxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty photo", ErrInvalidInput)
	}
	if len(data) > maxPhotoSize {
		return "", fmt.Errorf("%w: photo exceeds %d bytes", ErrInvalidInput, maxPhotoSize)
	}

	key := fmt.Sprintf("recipe-photos/%s/%d%s", recipeID, time.Now().UnixNano(), ext)
	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	if err := s.db.WithContext(ctx).Model(&recipe).Update("image_url", publicURL).Error; err != nil {
		log.Printf("photo uploaded but recipe %s not updated: %v", recipeID, err)
		return "", err
	}
	return publicURL, nil
}

// PresignedPhotoURL returns a time-limited URL for a stored photo key.
func (s *PhotoService) PresignedPhotoURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	if s.s3Config == nil {
		return "", fmt.Errorf("photo storage not configured")
	}
	return s.s3Config.GeneratePresignedURL(ctx, key, expiration)
}

// PresignedRecipePhotoURL presigns a recipe's stored photo, for serving
// images from buckets without public-read access.
func (s *PhotoService) PresignedRecipePhotoURL(ctx context.Context, recipeID uuid.UUID, expiration time.Duration) (string, error) {
	if s.s3Config == nil {
		return "", fmt.Errorf("photo storage not configured")
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
		}
		return "", err
	}
	if recipe.ImageURL == "" {
		return "", fmt.Errorf("%w: recipe %s has no photo", ErrNotFound, recipeID)
	}

	key := strings.TrimPrefix(recipe.ImageURL, fmt.Sprintf("https://%s.s3.amazonaws.com/", s.s3Config.BucketName))
	return s.PresignedPhotoURL(ctx, key, expiration)
}

func photoExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, contentType)
	}
}

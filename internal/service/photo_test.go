package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoExtension(t *testing.T) {
	ext, err := photoExtension("image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = photoExtension("application/pdf")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPresignedRecipePhotoURLNotFound(t *testing.T) {
	db := testdb.Open(t)
	svc := NewPhotoService(db, &config.S3Config{BucketName: "photos"})
	ctx := context.Background()

	// Unknown recipe.
	_, err := svc.PresignedRecipePhotoURL(ctx, uuid.New(), time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)

	// Recipe exists but has no photo.
	recipe := models.Recipe{ID: uuid.New(), Name: "Plain Rice"}
	require.NoError(t, db.Create(&recipe).Error)
	_, err = svc.PresignedRecipePhotoURL(ctx, recipe.ID, time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}

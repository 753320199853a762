package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"gorm.io/gorm"
)

// PreferencesUpdate carries optional preference field updates.
type PreferencesUpdate struct {
	LikedFoods          *models.JSONBStringArray `json:"liked_foods"`
	DislikedFoods       *models.JSONBStringArray `json:"disliked_foods"`
	Allergies           *models.JSONBStringArray `json:"allergies"`
	DietaryRestrictions *models.JSONBBoolMap     `json:"dietary_restrictions"`
	Language            *string                  `json:"language"`
}

// PreferencesService manages the single user-preferences record.
type PreferencesService struct {
	db *gorm.DB
}

// NewPreferencesService creates a new PreferencesService instance.
func NewPreferencesService(db *gorm.DB) *PreferencesService {
	return &PreferencesService{db: db}
}

// Get returns the preferences record, creating an empty one on first
// access.
func (s *PreferencesService) Get(ctx context.Context) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.WithContext(ctx).Order("updated_at DESC").First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	prefs = models.UserPreferences{
		ID:                  uuid.New(),
		LikedFoods:          models.JSONBStringArray{},
		DislikedFoods:       models.JSONBStringArray{},
		Allergies:           models.JSONBStringArray{},
		DietaryRestrictions: models.JSONBBoolMap{},
		Language:            "en",
	}
	if err := s.db.WithContext(ctx).Create(&prefs).Error; err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Update applies the non-nil fields of update and returns the result.
func (s *PreferencesService) Update(ctx context.Context, update PreferencesUpdate) (*models.UserPreferences, error) {
	prefs, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if update.LikedFoods != nil {
		prefs.LikedFoods = *update.LikedFoods
	}
	if update.DislikedFoods != nil {
		prefs.DislikedFoods = *update.DislikedFoods
	}
	if update.Allergies != nil {
		prefs.Allergies = *update.Allergies
	}
	if update.DietaryRestrictions != nil {
		prefs.DietaryRestrictions = *update.DietaryRestrictions
	}
	if update.Language != nil {
		prefs.Language = *update.Language
	}

	if err := s.db.WithContext(ctx).Save(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"gorm.io/gorm"
)

// GoalUpdate carries optional goal field updates.
type GoalUpdate struct {
	DailyCalories *float64 `json:"daily_calories"`
	DailyProtein  *float64 `json:"daily_protein"`
	DailyCarbs    *float64 `json:"daily_carbs"`
	DailyFat      *float64 `json:"daily_fat"`
	Notes         *string  `json:"notes"`
	IsActive      *bool    `json:"is_active"`
}

// GoalService manages nutrition goals. At most one goal is active at a
// time; activating a goal deactivates the others.
type GoalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalService instance.
func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

// ActiveGoal returns the current active goal, or ErrNotFound when no
// goal is active.
func (s *GoalService) ActiveGoal(ctx context.Context) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no active goal", ErrNotFound)
		}
		return nil, err
	}
	return &goal, nil
}

// History returns all goals, newest first.
func (s *GoalService) History(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateGoal creates a goal. When the new goal is active every other
// goal is deactivated in the same transaction.
func (s *GoalService) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	if err := validateGoal(goal.DailyCalories, goal.DailyProtein, goal.DailyCarbs, goal.DailyFat); err != nil {
		return nil, err
	}

	goal.ID = uuid.New()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if goal.IsActive {
			if err := tx.Model(&models.Goal{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(goal).Error
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateGoal applies the non-nil fields of update. Activating a goal
// deactivates the others.
func (s *GoalService) UpdateGoal(ctx context.Context, id uuid.UUID, update GoalUpdate) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&goal, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: goal %s", ErrNotFound, id)
			}
			return err
		}

		if update.DailyCalories != nil {
			goal.DailyCalories = *update.DailyCalories
		}
		if update.DailyProtein != nil {
			goal.DailyProtein = *update.DailyProtein
		}
		if update.DailyCarbs != nil {
			goal.DailyCarbs = *update.DailyCarbs
		}
		if update.DailyFat != nil {
			goal.DailyFat = *update.DailyFat
		}
		if update.Notes != nil {
			goal.Notes = *update.Notes
		}
		if err := validateGoal(goal.DailyCalories, goal.DailyProtein, goal.DailyCarbs, goal.DailyFat); err != nil {
			return err
		}

		if update.IsActive != nil && *update.IsActive && !goal.IsActive {
			if err := tx.Model(&models.Goal{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		if update.IsActive != nil {
			goal.IsActive = *update.IsActive
		}

		return tx.Model(&goal).Select("daily_calories", "daily_protein", "daily_carbs", "daily_fat", "notes", "is_active").Updates(&goal).Error
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// DeleteGoal removes a goal.
func (s *GoalService) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Goal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: goal %s", ErrNotFound, id)
	}
	return nil
}

func validateGoal(calories, protein, carbs, fat float64) error {
	if calories <= 0 {
		return fmt.Errorf("%w: daily calories must be positive", ErrInvalidInput)
	}
	if protein < 0 || carbs < 0 || fat < 0 {
		return fmt.Errorf("%w: macro targets must be non-negative", ErrInvalidInput)
	}
	return nil
}

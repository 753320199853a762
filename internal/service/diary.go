package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"gorm.io/gorm"
)

// DailySummary is one diary day: its meals with entries and the summed
// day totals.
type DailySummary struct {
	Date          string             `json:"date"`
	Meals         []models.DiaryMeal `json:"meals"`
	TotalCalories float64            `json:"total_calories"`
	TotalProtein  float64            `json:"total_protein"`
	TotalCarbs    float64            `json:"total_carbs"`
	TotalFat      float64            `json:"total_fat"`
}

// DiaryService manages the food diary. Meals are keyed by (date, meal
// type) and carry stored totals maintained alongside their entries.
type DiaryService struct {
	db *gorm.DB
}

// NewDiaryService creates a new DiaryService instance.
func NewDiaryService(db *gorm.DB) *DiaryService {
	return &DiaryService{db: db}
}

// DailyMeals returns all meals of a date with their entries and summed
// day totals.
func (s *DiaryService) DailyMeals(ctx context.Context, date time.Time) (*DailySummary, error) {
	day := dateOnly(date)

	var meals []models.DiaryMeal
	err := s.db.WithContext(ctx).Preload("Entries").
		Where("date = ?", day).
		Order("meal_type ASC").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{Date: day.Format("2006-01-02"), Meals: meals}
	for i := range meals {
		summary.TotalCalories += meals[i].TotalCalories
		summary.TotalProtein += meals[i].TotalProtein
		summary.TotalCarbs += meals[i].TotalCarbs
		summary.TotalFat += meals[i].TotalFat
	}
	return summary, nil
}

// FindOrCreateMeal returns the meal for (date, mealType), creating an
// empty one when none exists.
func (s *DiaryService) FindOrCreateMeal(ctx context.Context, date time.Time, mealType string) (*models.DiaryMeal, error) {
	if !models.ValidMealType(mealType) {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidInput, mealType)
	}
	day := dateOnly(date)

	var meal models.DiaryMeal
	err := s.db.WithContext(ctx).Preload("Entries").
		Where("date = ? AND meal_type = ?", day, mealType).
		First(&meal).Error
	if err == nil {
		return &meal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	meal = models.DiaryMeal{ID: uuid.New(), Date: day, MealType: mealType}
	if err := s.db.WithContext(ctx).Create(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// GetMeal retrieves a meal with its entries.
func (s *DiaryService) GetMeal(ctx context.Context, id uuid.UUID) (*models.DiaryMeal, error) {
	var meal models.DiaryMeal
	if err := s.db.WithContext(ctx).Preload("Entries").First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: diary meal %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &meal, nil
}

// AddEntry adds an entry to a meal and increments the meal totals in
// the same transaction.
func (s *DiaryService) AddEntry(ctx context.Context, mealID uuid.UUID, entry *models.DiaryEntry) (*models.DiaryEntry, error) {
	if entry.FoodName == "" {
		return nil, fmt.Errorf("%w: missing food name", ErrInvalidInput)
	}
	if entry.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if entry.Calories < 0 || entry.Protein < 0 || entry.Carbs < 0 || entry.Fat < 0 {
		return nil, fmt.Errorf("%w: nutrition values must be non-negative", ErrInvalidInput)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal models.DiaryMeal
		if err := tx.First(&meal, "id = ?", mealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: diary meal %s", ErrNotFound, mealID)
			}
			return err
		}

		entry.ID = uuid.New()
		entry.DiaryMealID = mealID
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return addToMealTotals(tx, mealID, entry.Calories, entry.Protein, entry.Carbs, entry.Fat)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveEntry removes an entry and decrements the meal totals by the
// entry's stored values. The entry must belong to the given meal.
func (s *DiaryService) RemoveEntry(ctx context.Context, mealID, entryID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.DiaryEntry
		if err := tx.First(&entry, "id = ? AND diary_meal_id = ?", entryID, mealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: entry %s in meal %s", ErrNotFound, entryID, mealID)
			}
			return err
		}

		if err := addToMealTotals(tx, mealID, -entry.Calories, -entry.Protein, -entry.Carbs, -entry.Fat); err != nil {
			return err
		}
		return tx.Delete(&entry).Error
	})
}

// DeleteMeal removes a meal and all its entries.
func (s *DiaryService) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal models.DiaryMeal
		if err := tx.First(&meal, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: diary meal %s", ErrNotFound, id)
			}
			return err
		}
		if err := tx.Where("diary_meal_id = ?", id).Delete(&models.DiaryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&meal).Error
	})
}

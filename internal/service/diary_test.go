package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func testEntry(name string, calories, protein, carbs, fat float64) *models.DiaryEntry {
	return &models.DiaryEntry{
		FoodName: name,
		Amount:   100,
		Unit:     "g",
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
}

func TestDiaryMealDateTypeUnique(t *testing.T) {
	db := testdb.Open(t)

	meal := models.DiaryMeal{ID: uuid.New(), Date: testDate, MealType: models.MealTypeLunch}
	require.NoError(t, db.Create(&meal).Error)

	// The schema itself rejects a second meal for the same date and
	// type, not just the find-or-create path.
	dup := models.DiaryMeal{ID: uuid.New(), Date: testDate, MealType: models.MealTypeLunch}
	assert.Error(t, db.Create(&dup).Error)
}

func TestFindOrCreateMealReuse(t *testing.T) {
	svc := NewDiaryService(testdb.Open(t))

	first, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeBreakfast)
	require.NoError(t, err)

	// Same date and type resolves to the same meal, even with a time
	// component on the date.
	noon := testDate.Add(12 * time.Hour)
	second, err := svc.FindOrCreateMeal(context.Background(), noon, models.MealTypeBreakfast)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// A different type on the same date is a new meal.
	lunch, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeLunch)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, lunch.ID)

	_, err = svc.FindOrCreateMeal(context.Background(), testDate, "brunch")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddEntryMaintainsMealTotals(t *testing.T) {
	svc := NewDiaryService(testdb.Open(t))

	meal, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeLunch)
	require.NoError(t, err)

	_, err = svc.AddEntry(context.Background(), meal.ID, testEntry("Rice", 350, 7, 75, 1))
	require.NoError(t, err)
	_, err = svc.AddEntry(context.Background(), meal.ID, testEntry("Chicken", 250, 40, 0, 9))
	require.NoError(t, err)

	got, err := svc.GetMeal(context.Background(), meal.ID)
	require.NoError(t, err)
	assert.Len(t, got.Entries, 2)
	assert.InDelta(t, 600, got.TotalCalories, 1e-9)
	assert.InDelta(t, 47, got.TotalProtein, 1e-9)
}

func TestAddEntryValidation(t *testing.T) {
	svc := NewDiaryService(testdb.Open(t))
	meal, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeSnack)
	require.NoError(t, err)

	noName := testEntry("", 100, 0, 0, 0)
	_, err = svc.AddEntry(context.Background(), meal.ID, noName)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badAmount := testEntry("Apple", 100, 0, 0, 0)
	badAmount.Amount = 0
	_, err = svc.AddEntry(context.Background(), meal.ID, badAmount)
	assert.ErrorIs(t, err, ErrInvalidInput)

	negative := testEntry("Apple", -5, 0, 0, 0)
	_, err = svc.AddEntry(context.Background(), meal.ID, negative)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddEntry(context.Background(), uuid.New(), testEntry("Apple", 52, 0.3, 14, 0.2))
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.GetMeal(context.Background(), meal.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
	assert.Zero(t, got.TotalCalories)
}

func TestRemoveEntryMaintainsMealTotals(t *testing.T) {
	svc := NewDiaryService(testdb.Open(t))
	meal, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeDinner)
	require.NoError(t, err)

	entry, err := svc.AddEntry(context.Background(), meal.ID, testEntry("Pasta", 420, 14, 82, 3))
	require.NoError(t, err)
	_, err = svc.AddEntry(context.Background(), meal.ID, testEntry("Sauce", 90, 2, 10, 5))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveEntry(context.Background(), meal.ID, entry.ID))

	got, err := svc.GetMeal(context.Background(), meal.ID)
	require.NoError(t, err)
	assert.Len(t, got.Entries, 1)
	assert.InDelta(t, 90, got.TotalCalories, 1e-9)

	// Removing through the wrong meal fails without mutation.
	other, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeSnack)
	require.NoError(t, err)
	err = svc.RemoveEntry(context.Background(), other.ID, got.Entries[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDailyMeals(t *testing.T) {
	svc := NewDiaryService(testdb.Open(t))

	breakfast, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeBreakfast)
	require.NoError(t, err)
	_, err = svc.AddEntry(context.Background(), breakfast.ID, testEntry("Oats", 380, 13, 67, 7))
	require.NoError(t, err)

	dinner, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeDinner)
	require.NoError(t, err)
	_, err = svc.AddEntry(context.Background(), dinner.ID, testEntry("Salmon", 460, 46, 0, 30))
	require.NoError(t, err)

	// A meal on another date must not leak in.
	otherDay, err := svc.FindOrCreateMeal(context.Background(), testDate.AddDate(0, 0, 1), models.MealTypeLunch)
	require.NoError(t, err)
	_, err = svc.AddEntry(context.Background(), otherDay.ID, testEntry("Burger", 800, 35, 50, 45))
	require.NoError(t, err)

	summary, err := svc.DailyMeals(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", summary.Date)
	assert.Len(t, summary.Meals, 2)
	assert.InDelta(t, 840, summary.TotalCalories, 1e-9)
	assert.InDelta(t, 59, summary.TotalProtein, 1e-9)
}

func TestDeleteMealRemovesEntries(t *testing.T) {
	svc := NewDiaryService(testdb.Open(t))
	db := svc.db

	meal, err := svc.FindOrCreateMeal(context.Background(), testDate, models.MealTypeLunch)
	require.NoError(t, err)
	_, err = svc.AddEntry(context.Background(), meal.ID, testEntry("Soup", 180, 9, 20, 6))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMeal(context.Background(), meal.ID))

	_, err = svc.GetMeal(context.Background(), meal.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.DiaryEntry{}).Where("diary_meal_id = ?", meal.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.DeleteMeal(context.Background(), meal.ID), ErrNotFound)
}

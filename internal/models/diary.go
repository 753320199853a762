package models

import (
	"time"

	"github.com/google/uuid"
)

// DiaryMeal is the real, date-keyed counterpart of a plan slot: one
// meal (breakfast, lunch, dinner, snack) eaten on a calendar date.
// There is at most one DiaryMeal per (date, meal type); appliers and
// the diary service reuse an existing row instead of creating a
// duplicate. Totals follow the same stored-and-maintained discipline as
// WeekPlan.
type DiaryMeal struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Date     time.Time `gorm:"type:date;not null;uniqueIndex:idx_diary_meal_date_type" json:"date"`
	MealType string    `gorm:"size:50;not null;uniqueIndex:idx_diary_meal_date_type" json:"meal_type"`
	Notes    string    `gorm:"type:text" json:"notes"`

	TotalCalories float64 `gorm:"type:float" json:"total_calories"`
	TotalProtein  float64 `gorm:"type:float" json:"total_protein"`
	TotalCarbs    float64 `gorm:"type:float" json:"total_carbs"`
	TotalFat      float64 `gorm:"type:float" json:"total_fat"`

	Entries []DiaryEntry `gorm:"foreignKey:DiaryMealID;constraint:OnDelete:CASCADE" json:"entries"`
}

// DiaryEntry is one food eaten within a diary meal. Its nutrition
// values add into the parent meal's totals on creation and subtract on
// removal.
type DiaryEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	DiaryMealID uuid.UUID `gorm:"type:uuid;not null;index" json:"diary_meal_id"`

	FoodID   *uuid.UUID `gorm:"type:uuid" json:"food_id,omitempty"`
	RecipeID *uuid.UUID `gorm:"type:uuid" json:"recipe_id,omitempty"`
	FoodName string     `gorm:"size:255;not null" json:"food_name"`

	Amount float64 `gorm:"not null" json:"amount"`
	Unit   string  `gorm:"size:50;default:'g'" json:"unit"`

	Calories float64 `gorm:"type:float" json:"calories"`
	Protein  float64 `gorm:"type:float" json:"protein"`
	Carbs    float64 `gorm:"type:float" json:"carbs"`
	Fat      float64 `gorm:"type:float" json:"fat"`
}

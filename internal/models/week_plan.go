package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Week plan lifecycle statuses. Archiving is terminal.
const (
	PlanStatusDraft    = "draft"
	PlanStatusActive   = "active"
	PlanStatusArchived = "archived"
)

// Meal types a plan slot or diary meal can carry.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// WeekPlan is a week-long meal plan anchored at a Monday. The four
// total_* columns are stored and maintained imperatively: every slot
// mutation updates them in the same transaction, so they always equal
// the sum over the plan's slots.
type WeekPlan struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string    `gorm:"size:255;not null" json:"name"`
	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	Status    string    `gorm:"size:20;default:'draft';index" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`

	TotalCalories float64 `gorm:"type:float" json:"total_calories"`
	TotalProtein  float64 `gorm:"type:float" json:"total_protein"`
	TotalCarbs    float64 `gorm:"type:float" json:"total_carbs"`
	TotalFat      float64 `gorm:"type:float" json:"total_fat"`

	Slots []PlanSlot `gorm:"foreignKey:WeekPlanID;constraint:OnDelete:CASCADE" json:"slots"`
}

// PlanSlot is one meal within a week plan. DayIndex is 0 (Monday)
// through 6 (Sunday); a (day, meal type) pair is not unique, two snacks
// on the same day are two slots. Nutrition values are the slot's
// pre-computed contribution, denormalized for display.
type PlanSlot struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	WeekPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"week_plan_id"`

	DayIndex int    `gorm:"not null" json:"day_index"`
	MealType string `gorm:"size:50;not null" json:"meal_type"`

	FoodID   *uuid.UUID `gorm:"type:uuid" json:"food_id,omitempty"`
	RecipeID *uuid.UUID `gorm:"type:uuid" json:"recipe_id,omitempty"`

	FoodName    string `gorm:"size:255;not null" json:"food_name"`
	Description string `gorm:"type:text" json:"description"`

	Amount float64 `gorm:"default:100" json:"amount"`
	Unit   string  `gorm:"size:50;default:'g'" json:"unit"`

	Calories float64 `gorm:"type:float" json:"calories"`
	Protein  float64 `gorm:"type:float" json:"protein"`
	Carbs    float64 `gorm:"type:float" json:"carbs"`
	Fat      float64 `gorm:"type:float" json:"fat"`
}

// ValidMealType reports whether t is one of the four known meal types.
func ValidMealType(t string) bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

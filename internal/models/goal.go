package models

import (
	"time"

	"github.com/google/uuid"
)

// Goal holds the daily nutrition targets. At most one goal is active at
// a time; creating a new goal deactivates the others.
type Goal struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DailyCalories float64 `gorm:"not null" json:"daily_calories"`
	DailyProtein  float64 `gorm:"not null" json:"daily_protein"`
	DailyCarbs    float64 `gorm:"not null" json:"daily_carbs"`
	DailyFat      float64 `gorm:"not null" json:"daily_fat"`

	Notes    string `gorm:"type:text" json:"notes"`
	IsActive bool   `gorm:"default:true;index" json:"is_active"`
}

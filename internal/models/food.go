package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Food is a saved food with per-100g nutrition values. Custom foods are
// created by the user; the rest come from the external food database.
type Food struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name    string `gorm:"size:255;not null;index" json:"name"`
	Brand   string `gorm:"size:255" json:"brand"`
	Barcode string `gorm:"size:64;index" json:"barcode"`

	// Per 100g / 100ml
	Calories float64 `gorm:"type:float" json:"calories"`
	Protein  float64 `gorm:"type:float" json:"protein"`
	Carbs    float64 `gorm:"type:float" json:"carbs"`
	Fat      float64 `gorm:"type:float" json:"fat"`
	Fiber    float64 `gorm:"type:float" json:"fiber"`

	IsCustom bool `gorm:"default:false" json:"is_custom"`
}

// FoodCacheEntry stores an external food-database search result so
// repeated searches skip the round trip. Redis fronts this table with a
// short TTL; the table keeps results across restarts.
type FoodCacheEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Query      string `gorm:"size:255;not null;index" json:"query"`
	ExternalID string `gorm:"size:64;index" json:"external_id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Brand      string `gorm:"size:255" json:"brand"`
	ImageURL   string `gorm:"size:512" json:"image_url"`

	Calories float64 `gorm:"type:float" json:"calories"`
	Protein  float64 `gorm:"type:float" json:"protein"`
	Carbs    float64 `gorm:"type:float" json:"carbs"`
	Fat      float64 `gorm:"type:float" json:"fat"`
	Fiber    float64 `gorm:"type:float" json:"fiber"`
}

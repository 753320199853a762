package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSONBBoolMap stores a string->bool map in JSONB.
type JSONBBoolMap map[string]bool

// Value implements the driver.Valuer interface
func (m JSONBBoolMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONBBoolMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONBBoolMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// UserPreferences is the single-row preference record consulted when
// building suggestion requests. DietaryRestrictions carries flags like
// "vegan", "vegetarian", "gluten_free", "dairy_free".
type UserPreferences struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LikedFoods          JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"liked_foods"`
	DislikedFoods       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"disliked_foods"`
	Allergies           JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	DietaryRestrictions JSONBBoolMap     `gorm:"type:jsonb;not null;default:'{}'" json:"dietary_restrictions"`

	Language string `gorm:"size:8;default:'en'" json:"language"`
}

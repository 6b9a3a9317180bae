package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringArray is a custom type for string slices stored as JSON text.
// Postgres keeps them in jsonb columns, sqlite in plain TEXT; both round-trip
// through the same encoding.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// Contains reports whether the array holds s (exact match).
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// Recipe is the catalog's core entity. IDs are server-assigned and
// monotonic; CreatedAt is set once at creation and never mutated.
// Timestamps are managed by the stores themselves so both backends behave
// identically, hence the disabled GORM auto-timestamps.
type Recipe struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
	Ingredients  StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	ImageURL     string      `gorm:"size:255" json:"imageUrl,omitempty"`
	PrepTime     int         `gorm:"not null;default:0" json:"prepTime"`
	CookTime     int         `gorm:"not null;default:0" json:"cookTime"`
	Servings     int         `gorm:"not null;default:0" json:"servings"`
	Tags         StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	AuthorID     int64       `gorm:"not null;index" json:"authorId"`
	Rating       int         `gorm:"not null;default:0" json:"rating"`
	RatingCount  int         `gorm:"not null;default:0" json:"ratingCount"`
	CreatedAt    time.Time   `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt    *time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// Clone returns a deep copy so the in-memory store can hand out records
// without exposing its internal slices to callers.
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append(StringArray(nil), r.Ingredients...)
	out.Instructions = append(StringArray(nil), r.Instructions...)
	out.Tags = append(StringArray(nil), r.Tags...)
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

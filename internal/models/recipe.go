package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Recipe represents an AI-suggested dish
type Recipe struct {
	ID              string      `gorm:"primary_key" json:"id"`
	Name            string      `json:"name"`
	Description     string      `gorm:"type:text" json:"description"`
	Ingredients     StringSlice `gorm:"type:text" json:"ingredients"`
	Instructions    StringSlice `gorm:"type:text" json:"instructions"`
	PreparationTime string      `json:"preparationTime"`
	Servings        int         `json:"servings"`
	// Inventory items the suggestion was requested for
	BasedOn   StringSlice `gorm:"type:text" json:"basedOn"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TableName sets the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeRequest represents a request for a recipe suggestion
type RecipeRequest struct {
	SelectedIngredients []string `json:"selectedIngredients"`
	UseExpiringItems    bool     `json:"useExpiringItems"`
}

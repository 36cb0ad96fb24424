package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem represents an item in the kitchen inventory
type InventoryItem struct {
	ID             string          `gorm:"primary_key" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Quantity       float64         `json:"quantity"`
	Unit           string          `json:"unit"`
	ExpirationDate string          `gorm:"index" json:"expirationDate"`
	Category       string          `gorm:"index" json:"category"`
	MinQuantity    *float64        `json:"minQuantity,omitempty"`
	Cost           decimal.Decimal `gorm:"type:decimal(12,2)" json:"cost"`
	CreatedAt      time.Time       `json:"-"`
	UpdatedAt      time.Time       `json:"-"`
}

// TableName sets the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether the item has a positive minimum level and is
// at or below it
func (i InventoryItem) IsLowStock() bool {
	return i.MinQuantity != nil && *i.MinQuantity > 0 && i.Quantity <= *i.MinQuantity
}

// InventoryCategory represents the category of an inventory item
type InventoryCategory string

const (
	// Inventory categories
	CategoryVegetables InventoryCategory = "vegetables"
	CategoryFruits     InventoryCategory = "fruits"
	CategoryMeat       InventoryCategory = "meat"
	CategorySeafood    InventoryCategory = "seafood"
	CategoryDairy      InventoryCategory = "dairy"
	CategoryGrains     InventoryCategory = "grains"
	CategoryPulses     InventoryCategory = "pulses"
	CategorySpices     InventoryCategory = "spices"
	CategoryCondiments InventoryCategory = "condiments"
	CategoryOilsFats   InventoryCategory = "oils & fats"
	CategoryBeverages  InventoryCategory = "beverages"
)

// InventoryUnit represents the unit of measurement for an inventory item
type InventoryUnit string

const (
	UnitKilogram InventoryUnit = "kg"
	UnitGram     InventoryUnit = "g"
	UnitLiter    InventoryUnit = "liters"
	UnitMilli    InventoryUnit = "ml"
	UnitPiece    InventoryUnit = "pieces"
	UnitDozen    InventoryUnit = "dozens"
)

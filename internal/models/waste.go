package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WasteCategory represents why food was thrown away
type WasteCategory string

const (
	WastePreparation    WasteCategory = "Preparation Waste"
	WasteExpired        WasteCategory = "Expired Items"
	WasteOverproduction WasteCategory = "Overproduction"
	WasteSpoilage       WasteCategory = "Spoilage"
	WasteOther          WasteCategory = "Other"
)

// Valid reports whether c is one of the known categories
func (c WasteCategory) Valid() bool {
	switch c {
	case WastePreparation, WasteExpired, WasteOverproduction, WasteSpoilage, WasteOther:
		return true
	}
	return false
}

// WasteEntry represents one logged batch of wasted stock
type WasteEntry struct {
	ID        string          `gorm:"primary_key" json:"id"`
	ItemName  string          `gorm:"index" json:"itemName"`
	Quantity  float64         `json:"quantity"`
	Unit      string          `json:"unit"`
	Category  WasteCategory   `gorm:"index" json:"category"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,2)" json:"cost"`
	Date      string          `gorm:"index" json:"date"`
	Reason    string          `json:"reason"`
	ChefName  string          `json:"chefName"`
	CreatedAt time.Time       `json:"-"`
}

// TableName sets the table name for WasteEntry
func (WasteEntry) TableName() string {
	return "waste_entries"
}

// CategoryWaste is the waste total of one category
type CategoryWaste struct {
	Category WasteCategory   `json:"category"`
	Cost     decimal.Decimal `json:"cost"`
	Quantity float64         `json:"quantity"`
}

// ItemWaste is the waste total of one item
type ItemWaste struct {
	ItemName      string          `json:"itemName"`
	TotalQuantity float64         `json:"totalQuantity"`
	TotalCost     decimal.Decimal `json:"totalCost"`
}

// DailyWaste is the waste cost of one date
type DailyWaste struct {
	Date string          `json:"date"`
	Cost decimal.Decimal `json:"cost"`
}

// WasteAnalytics summarizes the waste log
type WasteAnalytics struct {
	TotalWasteCost      decimal.Decimal `json:"totalWasteCost"`
	WasteByCategoryData []CategoryWaste `json:"wasteByCategoryData"`
	TopWastedItems      []ItemWaste     `json:"topWastedItems"`
	WasteOverTime       []DailyWaste    `json:"wasteOverTime"`
}

package waste

import (
	"github.com/shopspring/decimal"

	"restodash/internal/models"
)

func logged(item string, qty float64, unit string, category models.WasteCategory, cost int64, date, reason, chef string) models.WasteEntry {
	return models.WasteEntry{
		ItemName: item,
		Quantity: qty,
		Unit:     unit,
		Category: category,
		Cost:     decimal.NewFromInt(cost),
		Date:     date,
		Reason:   reason,
		ChefName: chef,
	}
}

// DefaultEntries is the waste history a new kitchen starts with
func DefaultEntries() []models.WasteEntry {
	return []models.WasteEntry{
		logged("Tomatoes", 2.5, "kg", models.WasteSpoilage, 250, "2024-03-20", "Found moldy in storage", "Raj Kumar"),
		logged("Rice", 3, "kg", models.WasteOverproduction, 180, "2024-03-19", "Excess preparation for event", "Priya Singh"),
		logged("Chicken", 4.2, "kg", models.WasteExpired, 840, "2024-03-18", "Past expiration date", "Amit Patel"),
		logged("Onions", 1.8, "kg", models.WastePreparation, 90, "2024-03-20", "Trimmings and peels", "Priya Singh"),
		logged("Paneer", 2.0, "kg", models.WasteOverproduction, 600, "2024-03-19", "Low customer turnout", "Raj Kumar"),
		logged("Mixed Vegetables", 3.5, "kg", models.WastePreparation, 280, "2024-03-18", "Vegetable trimmings", "Neha Sharma"),
		logged("Fish", 1.5, "kg", models.WasteSpoilage, 450, "2024-03-17", "Improper storage temperature", "Amit Patel"),
		logged("Milk", 5, "l", models.WasteExpired, 300, "2024-03-17", "Past expiration date", "Neha Sharma"),
		logged("Rice", 4, "kg", models.WasteOverproduction, 240, "2024-03-16", "Overestimated lunch crowd", "Raj Kumar"),
		logged("Tomatoes", 3, "kg", models.WasteOther, 300, "2024-03-16", "Supplier quality issues", "Priya Singh"),
	}
}

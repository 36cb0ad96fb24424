package inventory

import (
	"github.com/shopspring/decimal"

	"restodash/internal/models"
)

func stock(name string, qty float64, unit models.InventoryUnit, expires string, category models.InventoryCategory, minQty, cost float64) models.InventoryItem {
	return models.InventoryItem{
		Name:           name,
		Quantity:       qty,
		Unit:           string(unit),
		ExpirationDate: expires,
		Category:       string(category),
		MinQuantity:    &minQty,
		Cost:           decimal.NewFromFloat(cost),
	}
}

// DefaultCatalogue is the starting stock of a new kitchen
func DefaultCatalogue() []models.InventoryItem {
	return []models.InventoryItem{
		stock("Onion", 100, models.UnitKilogram, "2025-04-15", models.CategoryVegetables, 30, 20),
		stock("Tomato", 80, models.UnitKilogram, "2025-04-12", models.CategoryVegetables, 25, 25),
		stock("Potato", 150, models.UnitKilogram, "2025-04-20", models.CategoryVegetables, 40, 18),
		stock("Ginger", 20, models.UnitKilogram, "2025-05-01", models.CategoryVegetables, 5, 150),
		stock("Garlic", 15, models.UnitKilogram, "2025-05-01", models.CategoryVegetables, 5, 200),
		stock("Green Chillies", 10, models.UnitKilogram, "2025-04-10", models.CategoryVegetables, 3, 100),
		stock("Spinach", 25, models.UnitKilogram, "2025-04-08", models.CategoryVegetables, 8, 40),
		stock("Mango", 40, models.UnitKilogram, "2025-04-18", models.CategoryFruits, 15, 150),
		stock("Banana", 50, models.UnitDozen, "2025-04-04", models.CategoryFruits, 15, 60),
		stock("Lemon", 10, models.UnitKilogram, "2025-04-12", models.CategoryFruits, 3, 80),
		stock("Chicken", 50, models.UnitKilogram, "2025-04-05", models.CategoryMeat, 15, 250),
		stock("Mutton", 30, models.UnitKilogram, "2025-04-06", models.CategoryMeat, 10, 750),
		stock("Prawns", 25, models.UnitKilogram, "2025-04-07", models.CategorySeafood, 8, 500),
		stock("Fish (Rohu)", 30, models.UnitKilogram, "2025-04-06", models.CategorySeafood, 10, 300),
		stock("Milk", 200, models.UnitLiter, "2025-04-02", models.CategoryDairy, 50, 50),
		stock("Paneer", 25, models.UnitKilogram, "2025-04-05", models.CategoryDairy, 8, 400),
		stock("Yogurt", 50, models.UnitKilogram, "2025-04-04", models.CategoryDairy, 15, 150),
		stock("Butter", 20, models.UnitKilogram, "2025-04-15", models.CategoryDairy, 5, 500),
		stock("Rice (Basmati)", 300, models.UnitKilogram, "2025-12-31", models.CategoryGrains, 100, 100),
		stock("Wheat Flour (Atta)", 250, models.UnitKilogram, "2025-12-31", models.CategoryGrains, 80, 45),
		stock("Toor Dal", 50, models.UnitKilogram, "2025-11-30", models.CategoryPulses, 15, 150),
		stock("Chana Dal", 40, models.UnitKilogram, "2025-11-30", models.CategoryPulses, 12, 160),
		stock("Turmeric Powder", 15, models.UnitKilogram, "2026-06-01", models.CategorySpices, 5, 200),
		stock("Cumin Seeds", 10, models.UnitKilogram, "2026-06-01", models.CategorySpices, 3, 220),
		stock("Garam Masala", 5, models.UnitKilogram, "2026-06-01", models.CategorySpices, 1, 350),
		stock("Curry Leaves", 1, models.UnitKilogram, "2025-04-10", models.CategorySpices, 0.2, 100),
		stock("Salt", 100, models.UnitKilogram, "2026-12-31", models.CategoryCondiments, 30, 20),
		stock("Tamarind", 10, models.UnitKilogram, "2025-10-01", models.CategoryCondiments, 3, 300),
		stock("Vegetable Oil", 200, models.UnitLiter, "2025-10-01", models.CategoryOilsFats, 50, 180),
		stock("Ghee", 50, models.UnitKilogram, "2025-10-01", models.CategoryOilsFats, 15, 350),
		stock("Tea Leaves", 30, models.UnitKilogram, "2026-01-01", models.CategoryBeverages, 10, 500),
		stock("Mineral Water", 200, models.UnitLiter, "2026-12-31", models.CategoryBeverages, 50, 50),
	}
}

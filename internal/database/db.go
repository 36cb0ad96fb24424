package database

import (
	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/pkg/errors"

	"restodash/internal/models"
)

// Open connects to the database. driver is a gorm dialect name,
// "sqlite3" or "postgres".
func Open(driver, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}
	if driver == "sqlite3" {
		// a single connection keeps :memory: databases shared across calls
		db.DB().SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the tables used by the dashboard
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.InventoryItem{},
		&models.WasteEntry{},
		&models.Recipe{},
	).Error; err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}

// OpenMemory returns a migrated in-memory SQLite database
func OpenMemory() (*gorm.DB, error) {
	db, err := Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

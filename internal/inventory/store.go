package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"restodash/internal/models"
)

// ErrNotFound is returned for an unknown inventory item ID
var ErrNotFound = errors.New("inventory item not found")

// ErrInvalidItem is returned when an item fails validation
var ErrInvalidItem = errors.New("invalid inventory item")

// Store persists inventory items
type Store struct {
	db *gorm.DB
}

// NewStore creates a new inventory store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// List returns every item ordered by category and name
func (s *Store) List() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.Order("category asc, name asc").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list inventory")
	}
	return items, nil
}

// Get returns the item with the given ID
func (s *Store) Get(id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.Where("id = ?", id).First(&item).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load inventory item %s", id)
	}
	return &item, nil
}

// Add stores a new item under a fresh ID
func (s *Store) Add(item models.InventoryItem) (*models.InventoryItem, error) {
	if err := validate(item); err != nil {
		return nil, err
	}
	item.ID = uuid.New().String()
	if err := s.db.Create(&item).Error; err != nil {
		return nil, errors.Wrap(err, "failed to add inventory item")
	}
	return &item, nil
}

// Update replaces an existing item
func (s *Store) Update(item models.InventoryItem) (*models.InventoryItem, error) {
	if err := validate(item); err != nil {
		return nil, err
	}
	existing, err := s.Get(item.ID)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = existing.CreatedAt
	if err := s.db.Save(&item).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to update inventory item %s", item.ID)
	}
	return &item, nil
}

// Delete removes an item. Deleting an unknown ID is not an error.
func (s *Store) Delete(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&models.InventoryItem{}).Error; err != nil {
		return errors.Wrapf(err, "failed to delete inventory item %s", id)
	}
	return nil
}

// LowStock returns items at or below their minimum quantity
func (s *Store) LowStock() ([]models.InventoryItem, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}

	low := make([]models.InventoryItem, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// ExpiringSoon returns items whose expiration date falls on or before the
// calendar day days after now. Items already past expiry are included.
func (s *Store) ExpiringSoon(days int, now time.Time) ([]models.InventoryItem, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}

	y, m, d := now.Date()
	threshold := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)

	expiring := make([]models.InventoryItem, 0)
	for _, item := range items {
		expires, err := time.Parse("2006-01-02", item.ExpirationDate)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"item":            item.Name,
				"expiration_date": item.ExpirationDate,
			}).Debug("Skipping inventory item with unreadable expiration date")
			continue
		}
		if !expires.After(threshold) {
			expiring = append(expiring, item)
		}
	}
	return expiring, nil
}

// Seed replaces the whole inventory with items, assigning fresh IDs
func (s *Store) Seed(items []models.InventoryItem) error {
	tx := s.db.Begin()
	if err := tx.Error; err != nil {
		return errors.Wrap(err, "failed to start inventory seed")
	}

	if err := tx.Delete(&models.InventoryItem{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to clear inventory")
	}
	for _, item := range items {
		item.ID = uuid.New().String()
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "failed to seed %s", item.Name)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "failed to commit inventory seed")
	}
	logrus.WithField("items", len(items)).Info("Inventory initialized")
	return nil
}

// Count returns the number of stored items
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.Model(&models.InventoryItem{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count inventory")
	}
	return count, nil
}

func validate(item models.InventoryItem) error {
	if item.Name == "" {
		return errors.Wrap(ErrInvalidItem, "name is required")
	}
	if item.Quantity < 0 {
		return errors.Wrap(ErrInvalidItem, "quantity must not be negative")
	}
	if item.Cost.IsNegative() {
		return errors.Wrap(ErrInvalidItem, "cost must not be negative")
	}
	return nil
}

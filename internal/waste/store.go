package waste

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"restodash/internal/models"
)

// ErrInvalidEntry is returned when an entry fails validation
var ErrInvalidEntry = errors.New("invalid waste entry")

// topItemsLimit caps the top wasted items list
const topItemsLimit = 5

// Listener is called after the waste log changes
type Listener func(entry models.WasteEntry)

// Store persists waste entries and notifies subscribers of new ones
type Store struct {
	db *gorm.DB

	mu        sync.RWMutex
	listeners map[uint64]Listener
	nextID    uint64
}

// NewStore creates a new waste store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		listeners: make(map[uint64]Listener),
	}
}

// Subscribe registers l for new entries. The returned function removes the
// subscription and is safe to call more than once.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(entry models.WasteEntry) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(entry)
	}
}

// List returns all entries in insertion order
func (s *Store) List() ([]models.WasteEntry, error) {
	var entries []models.WasteEntry
	if err := s.db.Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list waste entries")
	}
	return entries, nil
}

// Add stores a new entry under a fresh ID and notifies subscribers
func (s *Store) Add(entry models.WasteEntry) (*models.WasteEntry, error) {
	if err := validate(entry); err != nil {
		return nil, err
	}
	entry.ID = uuid.New().String()
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, errors.Wrap(err, "failed to add waste entry")
	}

	logrus.WithFields(logrus.Fields{
		"item":     entry.ItemName,
		"category": entry.Category,
		"cost":     entry.Cost.String(),
	}).Info("Waste entry logged")

	s.notify(entry)
	return &entry, nil
}

// Seed inserts entries when the log is empty
func (s *Store) Seed(entries []models.WasteEntry) error {
	var count int
	if err := s.db.Model(&models.WasteEntry{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count waste entries")
	}
	if count > 0 {
		return nil
	}
	for _, entry := range entries {
		entry.ID = uuid.New().String()
		if err := s.db.Create(&entry).Error; err != nil {
			return errors.Wrapf(err, "failed to seed waste entry %s", entry.ItemName)
		}
	}
	return nil
}

// Analytics summarizes the whole waste log
func (s *Store) Analytics() (*models.WasteAnalytics, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	return Summarize(entries), nil
}

// Summarize computes waste totals by category, by item and by date.
// Categories keep first-seen order, items are ranked by cost (top five)
// and dates ascend.
func Summarize(entries []models.WasteEntry) *models.WasteAnalytics {
	analytics := &models.WasteAnalytics{
		TotalWasteCost:      decimal.Zero,
		WasteByCategoryData: []models.CategoryWaste{},
		TopWastedItems:      []models.ItemWaste{},
		WasteOverTime:       []models.DailyWaste{},
	}

	categoryIndex := map[models.WasteCategory]int{}
	itemIndex := map[string]int{}
	dateIndex := map[string]int{}
	items := []models.ItemWaste{}

	for _, entry := range entries {
		analytics.TotalWasteCost = analytics.TotalWasteCost.Add(entry.Cost)

		i, ok := categoryIndex[entry.Category]
		if !ok {
			i = len(analytics.WasteByCategoryData)
			categoryIndex[entry.Category] = i
			analytics.WasteByCategoryData = append(analytics.WasteByCategoryData, models.CategoryWaste{Category: entry.Category, Cost: decimal.Zero})
		}
		analytics.WasteByCategoryData[i].Cost = analytics.WasteByCategoryData[i].Cost.Add(entry.Cost)
		analytics.WasteByCategoryData[i].Quantity += entry.Quantity

		j, ok := itemIndex[entry.ItemName]
		if !ok {
			j = len(items)
			itemIndex[entry.ItemName] = j
			items = append(items, models.ItemWaste{ItemName: entry.ItemName, TotalCost: decimal.Zero})
		}
		items[j].TotalCost = items[j].TotalCost.Add(entry.Cost)
		items[j].TotalQuantity += entry.Quantity

		k, ok := dateIndex[entry.Date]
		if !ok {
			k = len(analytics.WasteOverTime)
			dateIndex[entry.Date] = k
			analytics.WasteOverTime = append(analytics.WasteOverTime, models.DailyWaste{Date: entry.Date, Cost: decimal.Zero})
		}
		analytics.WasteOverTime[k].Cost = analytics.WasteOverTime[k].Cost.Add(entry.Cost)
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].TotalCost.GreaterThan(items[b].TotalCost)
	})
	if len(items) > topItemsLimit {
		items = items[:topItemsLimit]
	}
	analytics.TopWastedItems = items

	sort.SliceStable(analytics.WasteOverTime, func(a, b int) bool {
		return analytics.WasteOverTime[a].Date < analytics.WasteOverTime[b].Date
	})

	return analytics
}

func validate(entry models.WasteEntry) error {
	if entry.ItemName == "" {
		return errors.Wrap(ErrInvalidEntry, "itemName is required")
	}
	if !entry.Category.Valid() {
		return errors.Wrapf(ErrInvalidEntry, "unknown category %q", entry.Category)
	}
	if entry.Quantity < 0 || entry.Cost.IsNegative() {
		return errors.Wrap(ErrInvalidEntry, "quantity and cost must not be negative")
	}
	if entry.Date == "" {
		return errors.Wrap(ErrInvalidEntry, "date is required")
	}
	return nil
}

// Package recipes suggests dishes for the ingredients in stock using a
// generative model.
package recipes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"restodash/internal/models"
)

// ErrNoIngredients is returned when a request resolves to no ingredients
var ErrNoIngredients = errors.New("no ingredients to build a recipe from")

// ExpiringSource lists inventory items close to expiry
type ExpiringSource interface {
	ExpiringSoon(days int, now time.Time) ([]models.InventoryItem, error)
}

// GenerationRecorder receives the outcome of each generation
type GenerationRecorder interface {
	RecordRecipeGeneration(err error)
}

// Service generates and stores recipe suggestions
type Service struct {
	generator    Generator
	inventory    ExpiringSource
	db           *gorm.DB
	expiringDays int
	recorder     GenerationRecorder
	now          func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithRecorder reports generation outcomes to r
func WithRecorder(r GenerationRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides the clock used for expiry lookups
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new recipe service. expiringDays bounds the items
// picked for expiring-stock requests.
func NewService(generator Generator, inventory ExpiringSource, db *gorm.DB, expiringDays int, opts ...Option) *Service {
	s := &Service{
		generator:    generator,
		inventory:    inventory,
		db:           db,
		expiringDays: expiringDays,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate asks the model for a recipe and stores the result
func (s *Service) Generate(ctx context.Context, req models.RecipeRequest) (recipe *models.Recipe, err error) {
	defer func() {
		if s.recorder != nil {
			s.recorder.RecordRecipeGeneration(err)
		}
	}()

	ingredients, err := s.ingredients(req)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, BuildPrompt(ingredients))
	if err != nil {
		return nil, err
	}
	logrus.WithField("length", len(text)).Debug("Raw recipe response received")

	recipe, err = ParseRecipe(text)
	if err != nil {
		logrus.WithError(err).WithField("response", text).Warn("Failed to parse recipe response")
		return nil, err
	}

	recipe.ID = uuid.New().String()
	recipe.BasedOn = models.StringSlice(ingredients)
	if err := s.db.Create(recipe).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save recipe")
	}

	logrus.WithFields(logrus.Fields{
		"recipe":      recipe.Name,
		"ingredients": len(ingredients),
	}).Info("Recipe generated")
	return recipe, nil
}

// List returns stored recipes, newest first
func (s *Service) List() ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list recipes")
	}
	return recipes, nil
}

func (s *Service) ingredients(req models.RecipeRequest) ([]string, error) {
	var names []string
	if req.UseExpiringItems {
		items, err := s.inventory.ExpiringSoon(s.expiringDays, s.now())
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			names = append(names, item.Name)
		}
	} else {
		for _, name := range req.SelectedIngredients {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	if len(names) == 0 {
		return nil, ErrNoIngredients
	}
	return names, nil
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"restodash/internal/models"
	"restodash/internal/recipes"
)

var errRecipesDisabled = errors.New("recipe generation is not configured")

func recipeStatus(err error) int {
	switch {
	case errors.Is(err, recipes.ErrNoIngredients):
		return http.StatusBadRequest
	case errors.Is(err, recipes.ErrGeneration),
		errors.Is(err, recipes.ErrUnparseableRecipe):
		return http.StatusBadGateway
	case errors.Is(err, errRecipesDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GenerateRecipe suggests a recipe for the requested or expiring ingredients
func (s *Server) GenerateRecipe(c *gin.Context) {
	if s.recipes == nil {
		respondError(c, recipeStatus(errRecipesDisabled), errRecipesDisabled)
		return
	}

	var req models.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	recipe, err := s.recipes.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, recipeStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// ListRecipes returns previously generated recipes
func (s *Server) ListRecipes(c *gin.Context) {
	if s.recipes == nil {
		c.JSON(http.StatusOK, []models.Recipe{})
		return
	}
	list, err := s.recipes.List()
	if err != nil {
		respondError(c, recipeStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, list)
}

package recipes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"restodash/internal/models"
)

// ErrUnparseableRecipe is returned when model output holds no usable recipe
var ErrUnparseableRecipe = errors.New("failed to parse recipe from AI response")

const (
	defaultName            = "Untitled Recipe"
	defaultDescription     = "No description available"
	defaultPreparationTime = "0 minutes"
	defaultServings        = 4
)

const promptTemplate = `Create a detailed Indian recipe using these ingredients: %s.
The recipe should be creative and authentic Indian cuisine.
Return ONLY a JSON object with this EXACT structure (no additional text or markdown):
{
  "name": "Recipe Name",
  "description": "A brief description of the dish",
  "ingredients": ["ingredient 1 with quantity", "ingredient 2 with quantity"],
  "instructions": ["step 1", "step 2", "step 3"],
  "preparationTime": "time in minutes",
  "servings": number
}`

// BuildPrompt returns the recipe prompt for the given ingredients
func BuildPrompt(ingredients []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(ingredients, ", "))
}

var fenceReplacer = strings.NewReplacer("```json\n", "", "```json", "", "\n```", "", "```", "")

// ParseRecipe extracts the JSON object from model output and fills missing
// fields with defaults. Fields of the wrong type count as missing.
func ParseRecipe(text string) (*models.Recipe, error) {
	cleaned := fenceReplacer.Replace(strings.TrimSpace(text))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end < start {
		return nil, errors.Wrap(ErrUnparseableRecipe, "no JSON object in response")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, errors.Wrap(ErrUnparseableRecipe, err.Error())
	}

	return &models.Recipe{
		Name:            stringOr(raw["name"], defaultName),
		Description:     stringOr(raw["description"], defaultDescription),
		Ingredients:     stringsOf(raw["ingredients"]),
		Instructions:    stringsOf(raw["instructions"]),
		PreparationTime: stringOr(raw["preparationTime"], defaultPreparationTime),
		Servings:        servingsOf(raw["servings"]),
	}, nil
}

func stringOr(v interface{}, fallback string) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

func stringsOf(v interface{}) models.StringSlice {
	list, ok := v.([]interface{})
	if !ok {
		return models.StringSlice{}
	}
	out := make(models.StringSlice, 0, len(list))
	for _, item := range list {
		switch value := item.(type) {
		case string:
			out = append(out, value)
		case nil:
		default:
			out = append(out, fmt.Sprint(value))
		}
	}
	return out
}

func servingsOf(v interface{}) int {
	n, ok := v.(float64)
	if !ok {
		return defaultServings
	}
	return int(n)
}

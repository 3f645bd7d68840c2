package api

import "github.com/foogie-app/foogie/internal/model"

// RecipeRequest is the body of POST /api/generate-recipes.
type RecipeRequest struct {
	NumRecipes            int    `json:"num_recipes"`
	DietaryRestrictions   string `json:"dietary_restrictions"`
	CuisinePreference     string `json:"cuisine_preference"`
	TargetCaloriesPerMeal int    `json:"target_calories_per_meal"`
}

type recipesResponse struct {
	Recipes []model.Recipe `json:"recipes"`
	Error   string         `json:"error"`
}

type consumeRequest struct {
	Consumed map[string]float64 `json:"consumed"`
}

// ConsumeResult is the response of POST /api/consume/<bin>.
type ConsumeResult struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Inventory *Inventory `json:"inventory,omitempty"`
}

// Inventory is the fridge record stored in a bin.
type Inventory struct {
	Items []model.InventoryItem `json:"inventory"`
}

type syncRequest struct {
	Calories   float64 `json:"calories"`
	RecipeName string  `json:"recipe_name"`
}

type analyzeResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// AnalyzeInput selects the image to analyze. Exactly one source is used, in
// priority order: Image (with Filename), then URL.
type AnalyzeInput struct {
	Image    []byte
	Filename string
	URL      string
}

type errorBody struct {
	Error string `json:"error"`
}

package model

// Urgency levels attached to generated recipes.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Nutrition is a calories + macros block as returned by the recipe service.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Recipe is one generated suggestion.
type Recipe struct {
	Name                  string     `json:"name"`
	InventoryOnly         bool       `json:"inventory_only"`
	InventoryItemsUsed    []string   `json:"inventory_items_used"`
	AdditionalIngredients []string   `json:"additional_ingredients"`
	Instructions          []string   `json:"instructions"`
	CookingTime           string     `json:"cooking_time"`
	Servings              float64    `json:"servings"`
	NutritionPerServing   *Nutrition `json:"nutrition_per_serving,omitempty"`
	TotalNutrition        *Nutrition `json:"total_nutrition,omitempty"`
	FoodTypesUsed         []string   `json:"food_types_used"`
	Urgency               string     `json:"urgency"`
	UrgencyReason         string     `json:"urgency_reason"`
}

// ServingCount returns Servings, or 1 when unset.
func (r Recipe) ServingCount() float64 {
	if r.Servings <= 0 {
		return 1
	}
	return r.Servings
}

// UrgencyLevel returns Urgency, or "low" when unset.
func (r Recipe) UrgencyLevel() string {
	if r.Urgency == "" {
		return UrgencyLow
	}
	return r.Urgency
}

// PerServing returns the per-serving nutrition, zero when absent.
func (r Recipe) PerServing() Nutrition {
	if r.NutritionPerServing == nil {
		return Nutrition{}
	}
	return *r.NutritionPerServing
}

// TotalCalories is per-serving calories multiplied by the serving count.
func (r Recipe) TotalCalories() float64 {
	return r.PerServing().Calories * r.ServingCount()
}

// MealNutrients scales the per-serving macros to the whole recipe.
func (r Recipe) MealNutrients() Nutrients {
	n := r.PerServing()
	s := r.ServingCount()
	return Nutrients{
		Protein:  n.Protein * s,
		Carbs:    n.Carbs * s,
		Fats:     n.Fats * s,
		Servings: s,
	}
}

// FitsBudget reports whether the whole recipe fits in remaining calories.
func (r Recipe) FitsBudget(remaining float64) bool {
	return r.TotalCalories() <= remaining
}

// InventoryItem is one entry of the remote fridge inventory.
type InventoryItem struct {
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	Quantity           float64 `json:"quantity"`
	Unit               string  `json:"unit"`
	ExpectedExpiryDate string  `json:"expected_expiry_date"`
	Calories           float64 `json:"calories"`
	Protein            float64 `json:"protein"`
	Carbs              float64 `json:"carbs"`
	Fats               float64 `json:"fats"`
}

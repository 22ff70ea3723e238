package models

// ShoppingCartEntry is a recipe placed in a user's shopping cart
type ShoppingCartEntry struct {
	ID       int64 `json:"id"`
	UserID   int64 `json:"userId"`
	RecipeID int64 `json:"recipeId"`
}

// ErrorResponse is the JSON body returned for client errors
// Example: {"errors": "Этот рецепт уже есть в списке покупок"}
type ErrorResponse struct {
	Errors string `json:"errors"`
}

// LineItem is one ingredient's required amount for one recipe in a user's cart.
// Rows are read-only once loaded.
type LineItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// AggregatedEntry is the summed amount of one ingredient across the cart
type AggregatedEntry struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// Report is the ordered shopping list, in first-occurrence order of its entries
type Report struct {
	Entries []AggregatedEntry `json:"entries"`
}

// Len returns the number of entries
func (r Report) Len() int {
	return len(r.Entries)
}

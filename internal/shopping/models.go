package shopping

import "time"

// Category is a store aisle grouping for shopping list items.
type Category string

const (
	CategoryProduce Category = "PRODUCE"
	CategoryDairy   Category = "DAIRY"
	CategoryMeat    Category = "MEAT"
	CategorySpices  Category = "SPICES"
	CategoryBaking  Category = "BAKING"
	CategoryPantry  Category = "PANTRY"
	CategoryOther   Category = "OTHER"
)

// Item is one aggregated shopping list line, keyed by normalized name and
// unit.
type Item struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit,omitempty"`
	Category Category `json:"category"`
}

// ShoppingList holds the aggregated ingredients for one generated week.
type ShoppingList struct {
	ID        int64     `json:"id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	BatchID   string    `json:"batch_id,omitempty"`
	WeekStart time.Time `json:"week_start"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

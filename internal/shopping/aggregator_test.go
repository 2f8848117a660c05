package shopping

import (
	"testing"
	"time"

	"meal-rotation-planner/internal/planner"
	"meal-rotation-planner/internal/recipe"
)

func weekReferencing(ids ...string) *planner.WeekPlan {
	week := &planner.WeekPlan{
		WeekStart: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
	}
	for _, id := range ids {
		week.Assignments = append(week.Assignments, planner.MealAssignment{RecipeID: id})
	}
	return week
}

func TestAggregateSumsMatchingIngredients(t *testing.T) {
	lookup := map[string]recipe.Recipe{
		"soup": {
			ID: "soup",
			Ingredients: []recipe.Ingredient{
				{Name: "Onions", Quantity: 2, Unit: ""},
				{Name: "Vegetable stock", Quantity: 1, Unit: "l"},
			},
		},
		"curry": {
			ID: "curry",
			Ingredients: []recipe.Ingredient{
				{Name: "onion", Quantity: 1, Unit: ""},
				{Name: "Coconut Milk", Quantity: 400, Unit: "ml"},
			},
		},
	}

	list := Aggregate(weekReferencing("soup", "curry"), lookup)

	var onion *Item
	for i := range list.Items {
		if list.Items[i].Name == "onion" {
			onion = &list.Items[i]
		}
	}
	if onion == nil {
		t.Fatal("Expected an onion line")
	}
	if onion.Quantity != 3 {
		t.Errorf("Expected 2 onions + 1 onion = 3, got %g", onion.Quantity)
	}
	if len(list.Items) != 3 {
		t.Errorf("Expected 3 lines (onion, stock, coconut milk), got %d", len(list.Items))
	}
}

func TestAggregateKeepsDifferentUnitsSeparate(t *testing.T) {
	lookup := map[string]recipe.Recipe{
		"a": {ID: "a", Ingredients: []recipe.Ingredient{{Name: "milk", Quantity: 1, Unit: "cup"}}},
		"b": {ID: "b", Ingredients: []recipe.Ingredient{{Name: "milk", Quantity: 0.5, Unit: "l"}}},
	}

	list := Aggregate(weekReferencing("a", "b"), lookup)
	if len(list.Items) != 2 {
		t.Fatalf("Expected cup and liter lines to stay separate, got %d lines", len(list.Items))
	}
}

func TestAggregateFoldsUnitSynonyms(t *testing.T) {
	lookup := map[string]recipe.Recipe{
		"a": {ID: "a", Ingredients: []recipe.Ingredient{{Name: "flour", Quantity: 2, Unit: "cups"}}},
		"b": {ID: "b", Ingredients: []recipe.Ingredient{{Name: "flour", Quantity: 1, Unit: "Cup"}}},
	}

	list := Aggregate(weekReferencing("a", "b"), lookup)
	if len(list.Items) != 1 {
		t.Fatalf("Expected 'cups' and 'Cup' to merge, got %d lines", len(list.Items))
	}
	if list.Items[0].Quantity != 3 {
		t.Errorf("Expected 3 cups of flour, got %g", list.Items[0].Quantity)
	}
	if list.Items[0].Unit != "cup" {
		t.Errorf("Expected the canonical unit 'cup', got %q", list.Items[0].Unit)
	}
}

func TestAggregateIncludesAccompaniments(t *testing.T) {
	week := &planner.WeekPlan{
		WeekStart: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		Assignments: []planner.MealAssignment{
			{RecipeID: "roast", AccompanimentID: "salad"},
		},
	}
	lookup := map[string]recipe.Recipe{
		"roast": {ID: "roast", Ingredients: []recipe.Ingredient{{Name: "chicken", Quantity: 1, Unit: ""}}},
		"salad": {ID: "salad", Ingredients: []recipe.Ingredient{{Name: "lettuce", Quantity: 1, Unit: ""}}},
	}

	list := Aggregate(week, lookup)
	if len(list.Items) != 2 {
		t.Fatalf("Expected the accompaniment's ingredients too, got %d lines", len(list.Items))
	}
}

func TestAggregateSkipsMissingRecipes(t *testing.T) {
	lookup := map[string]recipe.Recipe{
		"known": {ID: "known", Ingredients: []recipe.Ingredient{{Name: "rice", Quantity: 200, Unit: "g"}}},
	}

	list := Aggregate(weekReferencing("known", "deleted"), lookup)
	if len(list.Items) != 1 {
		t.Fatalf("Expected missing recipes to be skipped, got %d lines", len(list.Items))
	}
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	lookup := map[string]recipe.Recipe{
		"r": {ID: "r", Ingredients: []recipe.Ingredient{
			{Name: "Zucchini", Quantity: 1},
			{Name: "Apples", Quantity: 2},
			{Name: "Milk", Quantity: 1, Unit: "l"},
		}},
	}

	list := Aggregate(weekReferencing("r"), lookup)
	want := []string{"zucchini", "apple", "milk"}
	for i, name := range want {
		if list.Items[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, list.Items[i].Name)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Tomatoes", "tomato"},
		{"  Potatoes ", "potato"},
		{"Cherries", "cherry"},
		{"Watercress", "watercress"},
		{"Asparagus", "asparagus"},
		{"Eggs", "egg"},
		{"Flour", "flour"},
	}
	for _, tt := range tests {
		if got := normalizeName(tt.in); got != tt.want {
			t.Errorf("normalizeName(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"red onion", CategoryProduce},
		{"whole milk", CategoryDairy},
		{"chicken thigh", CategoryMeat},
		{"smoked paprika", CategorySpices},
		{"dark chocolate", CategoryBaking},
		{"basmati rice", CategoryPantry},
		{"mystery powder", CategoryOther},
	}
	for _, tt := range tests {
		if got := categorize(tt.name); got != tt.want {
			t.Errorf("categorize(%q): expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

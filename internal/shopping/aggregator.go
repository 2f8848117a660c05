package shopping

import (
	"strings"

	"meal-rotation-planner/internal/planner"
	"meal-rotation-planner/internal/recipe"
)

// unitSynonyms folds common unit spellings onto one canonical form. There is
// deliberately no conversion between measurement systems: "cup" and "l" of
// the same ingredient stay separate lines.
var unitSynonyms = map[string]string{
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"g": "g", "gram": "g", "grams": "g",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg",
	"ml": "ml", "milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"tbsp": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"cup": "cup", "cups": "cup",
	"clove": "clove", "cloves": "clove",
	"pinch": "pinch", "pinches": "pinch",
	"slice": "slice", "slices": "slice",
	"can": "can", "cans": "can",
	"bunch": "bunch", "bunches": "bunch",
}

// categoryKeywords assigns store aisles by substring lookup. The lists are a
// fixed heuristic and will misclassify the odd ingredient; unmatched names
// fall back to CategoryOther.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryProduce, []string{
		"onion", "garlic", "tomato", "potato", "carrot", "pepper", "lettuce",
		"spinach", "broccoli", "cucumber", "zucchini", "mushroom", "celery",
		"apple", "lemon", "lime", "orange", "banana", "avocado", "cilantro",
		"parsley", "basil", "ginger", "scallion", "cabbage", "kale", "herb",
	}},
	{CategoryDairy, []string{
		"milk", "butter", "cheese", "cream", "yogurt", "mozzarella",
		"parmesan", "cheddar", "feta", "ricotta", "egg",
	}},
	{CategoryMeat, []string{
		"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage",
		"ham", "fish", "salmon", "tuna", "shrimp", "prawn", "cod", "steak",
	}},
	{CategorySpices, []string{
		"salt", "peppercorn", "cumin", "paprika", "oregano", "thyme",
		"rosemary", "cinnamon", "nutmeg", "turmeric", "chili powder",
		"curry powder", "coriander", "cayenne", "spice",
	}},
	{CategoryBaking, []string{
		"flour", "sugar", "baking powder", "baking soda", "yeast", "vanilla",
		"cocoa", "chocolate", "honey", "cornstarch",
	}},
	{CategoryPantry, []string{
		"rice", "pasta", "noodle", "bread", "oil", "vinegar", "soy sauce",
		"stock", "broth", "bean", "lentil", "chickpea", "tortilla", "quinoa",
		"couscous", "oat", "nut", "almond", "peanut", "sauce",
	}},
}

// Aggregate flattens every recipe referenced by a week's assignments (mains
// and their accompaniments included) into one shopping list. Lines are
// grouped by normalized (name, unit) with quantities summed; duplicate lines
// inside a single recipe are intentionally not collapsed first, they just sum
// like any others. Recipes missing from the lookup are skipped.
func Aggregate(week *planner.WeekPlan, lookup map[string]recipe.Recipe) *ShoppingList {
	type key struct {
		name string
		unit string
	}

	totals := make(map[key]*Item)
	var order []key

	for _, id := range week.RecipeIDs() {
		rec, ok := lookup[id]
		if !ok {
			continue
		}
		for _, ing := range rec.Ingredients {
			k := key{name: normalizeName(ing.Name), unit: normalizeUnit(ing.Unit)}
			if item, seen := totals[k]; seen {
				item.Quantity += ing.Quantity
				continue
			}
			totals[k] = &Item{
				Name:     k.name,
				Quantity: ing.Quantity,
				Unit:     k.unit,
				Category: categorize(k.name),
			}
			order = append(order, k)
		}
	}

	items := make([]Item, 0, len(order))
	for _, k := range order {
		items = append(items, *totals[k])
	}

	return &ShoppingList{
		WeekStart: week.WeekStart,
		Items:     items,
	}
}

// normalizeName lowercases, trims and crudely singularizes an ingredient
// name. The singularization is heuristic string surgery, not grammar.
func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasSuffix(n, "oes"):
		// tomatoes, potatoes
		return strings.TrimSuffix(n, "es")
	case strings.HasSuffix(n, "ies"):
		// berries, cherries
		return strings.TrimSuffix(n, "ies") + "y"
	case strings.HasSuffix(n, "ss"), strings.HasSuffix(n, "us"):
		// watercress, asparagus
		return n
	case strings.HasSuffix(n, "s"):
		return strings.TrimSuffix(n, "s")
	}
	return n
}

func normalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitSynonyms[u]; ok {
		return canonical
	}
	return u
}

func categorize(name string) Category {
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(name, kw) {
				return group.category
			}
		}
	}
	return CategoryOther
}

package planner

import (
	"strings"

	"meal-rotation-planner/internal/recipe"
)

// tagForRestriction maps fixed restriction kinds to the recipe tag that
// satisfies them.
var tagForRestriction = map[RestrictionKind]recipe.DietTag{
	RestrictionVegetarian: recipe.TagVegetarian,
	RestrictionVegan:      recipe.TagVegan,
	RestrictionGlutenFree: recipe.TagGlutenFree,
	RestrictionDairyFree:  recipe.TagDairyFree,
	RestrictionNutFree:    recipe.TagNutFree,
	RestrictionLowCarb:    recipe.TagLowCarb,
}

// FilterByRestrictions narrows a recipe pool to those compatible with every
// restriction in the set (AND semantics). An empty restriction set returns
// the input unchanged. Pool order is preserved.
func FilterByRestrictions(pool []recipe.Recipe, restrictions []DietaryRestriction) []recipe.Recipe {
	if len(restrictions) == 0 {
		return pool
	}

	filtered := make([]recipe.Recipe, 0, len(pool))
	for _, rec := range pool {
		if satisfiesAll(rec, restrictions) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func satisfiesAll(rec recipe.Recipe, restrictions []DietaryRestriction) bool {
	for _, r := range restrictions {
		if !satisfies(rec, r) {
			return false
		}
	}
	return true
}

func satisfies(rec recipe.Recipe, r DietaryRestriction) bool {
	if r.Kind == RestrictionCustom {
		// Coarse heuristic: a case-insensitive substring scan over ingredient
		// names, not semantic allergen detection.
		term := strings.ToLower(strings.TrimSpace(r.Term))
		if term == "" {
			return true
		}
		for _, ing := range rec.Ingredients {
			if strings.Contains(strings.ToLower(ing.Name), term) {
				return false
			}
		}
		return true
	}

	tag, ok := tagForRestriction[r.Kind]
	if !ok {
		// Unknown kinds exclude nothing rather than silently emptying pools.
		return true
	}
	return rec.HasTag(tag)
}

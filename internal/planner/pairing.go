package planner

import (
	"math/rand/v2"

	"meal-rotation-planner/internal/recipe"
)

// PairAccompaniment selects a side dish for a main course, or nil when the
// main does not accept one or no compatible side exists. An empty
// preferred-category list admits every accompaniment. The pick is uniformly
// random; accompaniments are deliberately not tracked in the rotation ledger,
// so repeats are expected.
func PairAccompaniment(main recipe.Recipe, pool []recipe.Recipe, rng *rand.Rand) *recipe.Recipe {
	if !main.AcceptsAccompaniment {
		return nil
	}

	var eligible []recipe.Recipe
	for _, cand := range pool {
		if cand.Course != recipe.CourseAccompaniment {
			continue
		}
		if len(main.PreferredCategories) == 0 || categoryPreferred(main.PreferredCategories, cand.Category) {
			eligible = append(eligible, cand)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	pick := eligible[rng.IntN(len(eligible))]
	return &pick
}

func categoryPreferred(preferred []recipe.AccompanimentCategory, c recipe.AccompanimentCategory) bool {
	for _, p := range preferred {
		if p == c {
			return true
		}
	}
	return false
}

package planner

import (
	"math/rand/v2"
	"testing"

	"meal-rotation-planner/internal/recipe"
)

func side(id string, category recipe.AccompanimentCategory) recipe.Recipe {
	return recipe.Recipe{
		ID:       id,
		Title:    id,
		Course:   recipe.CourseAccompaniment,
		Category: category,
	}
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestPairAccompaniment(t *testing.T) {
	pool := []recipe.Recipe{
		side("green-salad", recipe.CategorySalad),
		side("garlic-bread", recipe.CategoryBread),
		side("roast-potatoes", recipe.CategoryPotato),
	}

	t.Run("NilWhenMainRefusesAccompaniment", func(t *testing.T) {
		main := mainCourse("stew", func(r *recipe.Recipe) { r.AcceptsAccompaniment = false })
		if got := PairAccompaniment(main, pool, testRNG()); got != nil {
			t.Errorf("Expected nil for a main that refuses sides, got %s", got.ID)
		}
	})

	t.Run("RespectsPreferredCategories", func(t *testing.T) {
		main := mainCourse("roast", func(r *recipe.Recipe) {
			r.AcceptsAccompaniment = true
			r.PreferredCategories = []recipe.AccompanimentCategory{recipe.CategoryPotato}
		})
		got := PairAccompaniment(main, pool, testRNG())
		if got == nil {
			t.Fatal("Expected a pairing, got nil")
		}
		if got.ID != "roast-potatoes" {
			t.Errorf("Expected the preferred category to constrain the pick, got %s", got.ID)
		}
	})

	t.Run("EmptyPreferredListAdmitsAll", func(t *testing.T) {
		main := mainCourse("pasta", func(r *recipe.Recipe) { r.AcceptsAccompaniment = true })
		seen := make(map[string]bool)
		rng := testRNG()
		for i := 0; i < 50; i++ {
			got := PairAccompaniment(main, pool, rng)
			if got == nil {
				t.Fatal("Expected a pairing, got nil")
			}
			seen[got.ID] = true
		}
		if len(seen) != len(pool) {
			t.Errorf("Expected all %d sides reachable over 50 picks, saw %d", len(pool), len(seen))
		}
	})

	t.Run("NilWhenNoCategoryMatches", func(t *testing.T) {
		main := mainCourse("curry", func(r *recipe.Recipe) {
			r.AcceptsAccompaniment = true
			r.PreferredCategories = []recipe.AccompanimentCategory{recipe.CategorySauce}
		})
		if got := PairAccompaniment(main, pool, testRNG()); got != nil {
			t.Errorf("Expected nil when no side matches the preferred categories, got %s", got.ID)
		}
	})

	t.Run("IgnoresNonAccompanimentCourses", func(t *testing.T) {
		main := mainCourse("grill", func(r *recipe.Recipe) { r.AcceptsAccompaniment = true })
		mixed := []recipe.Recipe{mainCourse("another-main")}
		if got := PairAccompaniment(main, mixed, testRNG()); got != nil {
			t.Errorf("Expected nil when the pool holds no accompaniments, got %s", got.ID)
		}
	})
}

package planner

import (
	"math/rand/v2"
	"time"

	"meal-rotation-planner/internal/recipe"
)

// coursePools is a dietary-filtered recipe pool split by course, each slice
// in stable input order.
type coursePools struct {
	appetizers     []recipe.Recipe
	mains          []recipe.Recipe
	desserts       []recipe.Recipe
	accompaniments []recipe.Recipe
}

func splitByCourse(pool []recipe.Recipe) coursePools {
	var p coursePools
	for _, rec := range pool {
		switch rec.Course {
		case recipe.CourseAppetizer:
			p.appetizers = append(p.appetizers, rec)
		case recipe.CourseMainCourse:
			p.mains = append(p.mains, rec)
		case recipe.CourseDessert:
			p.desserts = append(p.desserts, rec)
		case recipe.CourseAccompaniment:
			p.accompaniments = append(p.accompaniments, rec)
		}
	}
	return p
}

// generateWeek fills one Monday-to-Sunday week, mutating the rotation state
// once per slot. A week either comes back fully populated or not at all.
func generateWeek(pools coursePools, prefs UserPreferences, state *RotationState, weekStart time.Time, rng *rand.Rand) (*WeekPlan, error) {
	week := &WeekPlan{
		WeekStart:   weekStart,
		Status:      StatusFuture,
		Assignments: make([]MealAssignment, 0, DaysPerWeek*CoursesPerDay),
	}

	for day := 0; day < DaysPerWeek; day++ {
		date := weekStart.AddDate(0, 0, day)

		appetizer := selectCyclic(pools.appetizers, state.UsedAppetizers)
		if appetizer == nil {
			return nil, &NoCompatibleRecipesError{
				Course: recipe.CourseAppetizer,
				Reason: "the eligible pool is empty",
			}
		}

		main, reason := SelectMainCourse(pools.mains, prefs, state, date)
		if main == nil {
			return nil, &NoCompatibleRecipesError{
				Course: recipe.CourseMainCourse,
				Reason: reason,
			}
		}

		accompaniment := PairAccompaniment(*main, pools.accompaniments, rng)

		dessert := selectCyclic(pools.desserts, state.UsedDesserts)
		if dessert == nil {
			return nil, &NoCompatibleRecipesError{
				Course: recipe.CourseDessert,
				Reason: "the eligible pool is empty",
			}
		}

		week.Assignments = append(week.Assignments, MealAssignment{
			Date:                date,
			Course:              recipe.CourseAppetizer,
			RecipeID:            appetizer.ID,
			RequiresAdvancePrep: appetizer.RequiresAdvancePrep,
		})

		mainAssignment := MealAssignment{
			Date:                date,
			Course:              recipe.CourseMainCourse,
			RecipeID:            main.ID,
			RequiresAdvancePrep: main.RequiresAdvancePrep,
		}
		if accompaniment != nil {
			mainAssignment.AccompanimentID = accompaniment.ID
		}
		week.Assignments = append(week.Assignments, mainAssignment)

		week.Assignments = append(week.Assignments, MealAssignment{
			Date:                date,
			Course:              recipe.CourseDessert,
			RecipeID:            dessert.ID,
			RequiresAdvancePrep: dessert.RequiresAdvancePrep,
		})

		state.UseAppetizer(appetizer.ID, len(pools.appetizers))
		state.UseMain(main.ID)
		state.TouchCuisine(main.Cuisine)
		if main.Complexity == recipe.ComplexityComplex {
			state.NoteComplex(date)
		}
		state.UseDessert(dessert.ID, len(pools.desserts))
	}

	return week, nil
}

// selectCyclic picks the first pool entry not in the used set, walking the
// pool in stable input order. The reset that re-opens a fully consumed pool
// happens on insertion (RotationState.UseAppetizer/UseDessert), so by the
// time this runs there is always an unused entry in a non-empty pool.
func selectCyclic(pool []recipe.Recipe, used map[string]bool) *recipe.Recipe {
	for i := range pool {
		if !used[pool[i].ID] {
			return &pool[i]
		}
	}
	return nil
}

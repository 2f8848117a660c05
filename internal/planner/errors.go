package planner

import (
	"errors"
	"fmt"

	"meal-rotation-planner/internal/recipe"
)

// InsufficientRecipesError is returned before any generation attempt when the
// filtered pool cannot support even one week. The counts let the caller tell
// the user exactly what to add.
type InsufficientRecipesError struct {
	Appetizers  int
	MainCourses int
	Desserts    int
}

func (e *InsufficientRecipesError) Error() string {
	return fmt.Sprintf("not enough recipes to plan a week: %d appetizers, %d main courses, %d desserts (need at least 1 of each)",
		e.Appetizers, e.MainCourses, e.Desserts)
}

// NoCompatibleRecipesError is returned mid-week when no recipe of the given
// course survives filtering for a specific day. The week is abandoned, never
// returned partially filled.
type NoCompatibleRecipesError struct {
	Course recipe.Course
	Reason string
}

func (e *NoCompatibleRecipesError) Error() string {
	return fmt.Sprintf("no compatible %s recipe: %s", e.Course, e.Reason)
}

// InvalidPreferencesError is returned by preference validation before any
// algorithm work begins.
type InvalidPreferencesError struct {
	Message string
}

func (e *InvalidPreferencesError) Error() string {
	return "invalid preferences: " + e.Message
}

// ErrAlgorithmTimeout is reserved for a future bound-enforcement wrapper; the
// core generation path never returns it.
var ErrAlgorithmTimeout = errors.New("meal plan generation exceeded its time budget")

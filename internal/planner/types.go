package planner

import (
	"time"

	"meal-rotation-planner/internal/recipe"
)

// SkillLevel gates which complexity tiers a user sees.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
)

// Allows reports whether a cook at this level may be scheduled a recipe of
// the given complexity. Beginners get Simple only, Intermediate adds
// Moderate, Advanced admits everything.
func (s SkillLevel) Allows(c recipe.Complexity) bool {
	switch s {
	case SkillBeginner:
		return c == recipe.ComplexitySimple
	case SkillIntermediate:
		return c == recipe.ComplexitySimple || c == recipe.ComplexityModerate
	case SkillAdvanced:
		return true
	}
	return false
}

// RestrictionKind names the fixed dietary restriction vocabulary.
// RestrictionCustom carries a free-form allergen term in
// DietaryRestriction.Term.
type RestrictionKind string

const (
	RestrictionVegetarian RestrictionKind = "VEGETARIAN"
	RestrictionVegan      RestrictionKind = "VEGAN"
	RestrictionGlutenFree RestrictionKind = "GLUTEN_FREE"
	RestrictionDairyFree  RestrictionKind = "DAIRY_FREE"
	RestrictionNutFree    RestrictionKind = "NUT_FREE"
	RestrictionLowCarb    RestrictionKind = "LOW_CARB"
	RestrictionCustom     RestrictionKind = "CUSTOM"
)

// DietaryRestriction is a fixed restriction kind or a custom allergen term
// matched case-insensitively against ingredient names.
type DietaryRestriction struct {
	Kind RestrictionKind `json:"kind"`
	Term string          `json:"term,omitempty"`
}

// NewCustomRestriction builds a custom restriction for the given term.
func NewCustomRestriction(term string) DietaryRestriction {
	return DietaryRestriction{Kind: RestrictionCustom, Term: term}
}

// UserPreferences is the immutable per-run configuration for a generation.
type UserPreferences struct {
	Restrictions            []DietaryRestriction `json:"restrictions,omitempty"`
	MaxWeeknightMinutes     int                  `json:"max_weeknight_minutes"`
	MaxWeekendMinutes       int                  `json:"max_weekend_minutes"`
	Skill                   SkillLevel           `json:"skill"`
	AvoidConsecutiveComplex bool                 `json:"avoid_consecutive_complex"`

	// VarietyWeight is the cuisine-diversity pressure in [0, 1]; 0 tolerates
	// repetition, 1 pushes hardest for unseen cuisines.
	VarietyWeight float64 `json:"variety_weight"`
}

// Validate checks the preference bounds before any generation work begins.
func (p UserPreferences) Validate() error {
	if p.MaxWeeknightMinutes <= 0 {
		return &InvalidPreferencesError{Message: "max weeknight minutes must be positive"}
	}
	if p.MaxWeekendMinutes <= 0 {
		return &InvalidPreferencesError{Message: "max weekend minutes must be positive"}
	}
	if p.VarietyWeight < 0 || p.VarietyWeight > 1 {
		return &InvalidPreferencesError{Message: "variety weight must be between 0 and 1"}
	}
	switch p.Skill {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
	default:
		return &InvalidPreferencesError{Message: "unknown skill level: " + string(p.Skill)}
	}
	return nil
}

// maxMinutesFor returns the time ceiling applying on the given date.
func (p UserPreferences) maxMinutesFor(date time.Time) int {
	if isWeekend(date) {
		return p.MaxWeekendMinutes
	}
	return p.MaxWeeknightMinutes
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// PlanStatus is the lifecycle state of a week plan. The engine only ever
// emits StatusFuture; the surrounding application promotes plans through the
// remaining states.
type PlanStatus string

const (
	StatusFuture  PlanStatus = "FUTURE"
	StatusCurrent PlanStatus = "CURRENT"
	StatusPast    PlanStatus = "PAST"
	StatusLocked  PlanStatus = "LOCKED"
)

// MealAssignment fills one calendar slot.
type MealAssignment struct {
	Date     time.Time     `json:"date"`
	Course   recipe.Course `json:"course"`
	RecipeID string        `json:"recipe_id"`

	// AccompanimentID is set only on main-course slots whose recipe accepted
	// a side dish.
	AccompanimentID string `json:"accompaniment_id,omitempty"`

	// RequiresAdvancePrep is copied from the chosen recipe so the calendar
	// view can flag the previous day.
	RequiresAdvancePrep bool `json:"requires_advance_prep,omitempty"`
}

// DaysPerWeek and CoursesPerDay fix the shape of a generated week:
// seven days of appetizer, main course and dessert.
const (
	DaysPerWeek   = 7
	CoursesPerDay = 3
)

// WeekPlan is one generated calendar week of 21 assignments starting on a
// Monday boundary.
type WeekPlan struct {
	WeekStart   time.Time        `json:"week_start"`
	Status      PlanStatus       `json:"status"`
	Assignments []MealAssignment `json:"assignments"`
}

// RecipeIDs returns every recipe referenced by the week, accompaniments
// included, in assignment order.
func (w *WeekPlan) RecipeIDs() []string {
	ids := make([]string, 0, len(w.Assignments))
	for _, a := range w.Assignments {
		ids = append(ids, a.RecipeID)
		if a.AccompanimentID != "" {
			ids = append(ids, a.AccompanimentID)
		}
	}
	return ids
}

// MultiWeekResult is the atomic outcome of one generation batch: every week
// plan plus the final rotation ledger, so a later single-week regeneration
// can resume from the exact same state.
type MultiWeekResult struct {
	BatchID   string         `json:"batch_id"`
	UserID    string         `json:"user_id"`
	WeekPlans []WeekPlan     `json:"week_plans"`
	Rotation  *RotationState `json:"rotation"`
	CreatedAt time.Time      `json:"created_at"`
}

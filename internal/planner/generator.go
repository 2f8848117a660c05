package planner

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"meal-rotation-planner/internal/recipe"
)

// MaxWeeksPerBatch caps how many weeks a single generation batch may span.
const MaxWeeksPerBatch = 5

// Generator produces meal plans. It is safe for concurrent use only in the
// sense that separate Generators share nothing; one Generator serves one
// request at a time.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator seeded from the current time.
func NewGenerator() *Generator {
	seed := uint64(time.Now().UnixNano())
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed>>1)),
		now: time.Now,
	}
}

// NewSeededGenerator creates a Generator with a fixed random seed and clock,
// for reproducible accompaniment selection.
func NewSeededGenerator(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed+1)),
		now: now,
	}
}

// GenerateMultiWeek plans as many weeks as the filtered pool supports, up to
// MaxWeeksPerBatch, starting on the next Monday boundary. The result is
// atomic: any week failing aborts the whole batch and nothing partial is
// returned. Re-invoking with identical inputs may differ in accompaniment
// picks, which are random.
func (g *Generator) GenerateMultiWeek(userID string, favorites []recipe.Recipe, prefs UserPreferences) (*MultiWeekResult, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	filtered := FilterByRestrictions(favorites, prefs.Restrictions)
	pools := splitByCourse(filtered)

	maxWeeks := feasibleWeeks(pools)
	if maxWeeks < 1 {
		return nil, &InsufficientRecipesError{
			Appetizers:  len(pools.appetizers),
			MainCourses: len(pools.mains),
			Desserts:    len(pools.desserts),
		}
	}

	state := NewRotationState()
	firstMonday := NextMonday(g.now())

	weeks := make([]WeekPlan, 0, maxWeeks)
	for weekIndex := 0; weekIndex < maxWeeks; weekIndex++ {
		weekStart := firstMonday.AddDate(0, 0, 7*weekIndex)
		week, err := generateWeek(pools, prefs, state, weekStart, g.rng)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, *week)
	}

	return &MultiWeekResult{
		BatchID:   uuid.NewString(),
		UserID:    userID,
		WeekPlans: weeks,
		Rotation:  state,
		CreatedAt: g.now().UTC(),
	}, nil
}

// GenerateSingleWeek plans one week against an existing rotation ledger,
// typically the snapshot persisted with an earlier batch. The caller's state
// is mutated in place and reflects the new week on success.
func (g *Generator) GenerateSingleWeek(recipes []recipe.Recipe, prefs UserPreferences, state *RotationState, weekStart time.Time) (*WeekPlan, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	state.normalize()

	filtered := FilterByRestrictions(recipes, prefs.Restrictions)
	pools := splitByCourse(filtered)
	if len(pools.appetizers) == 0 || len(pools.mains) == 0 || len(pools.desserts) == 0 {
		return nil, &InsufficientRecipesError{
			Appetizers:  len(pools.appetizers),
			MainCourses: len(pools.mains),
			Desserts:    len(pools.desserts),
		}
	}

	return generateWeek(pools, prefs, state, weekStart, g.rng)
}

// feasibleWeeks bounds the batch at the smallest eligible pool among the
// three required course types, capped at MaxWeeksPerBatch. The bound is a
// floor check, not a guarantee: main courses never repeat, so a pool can
// still run dry mid-batch, surfacing as NoCompatibleRecipesError.
func feasibleWeeks(pools coursePools) int {
	weeks := len(pools.appetizers)
	if len(pools.mains) < weeks {
		weeks = len(pools.mains)
	}
	if len(pools.desserts) < weeks {
		weeks = len(pools.desserts)
	}
	if weeks > MaxWeeksPerBatch {
		weeks = MaxWeeksPerBatch
	}
	return weeks
}

// NextMonday returns the Monday beginning the next plannable week: today if
// today is a Monday, otherwise the first Monday after it. The result is
// truncated to midnight in the input's location.
func NextMonday(from time.Time) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

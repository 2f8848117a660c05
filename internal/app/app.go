package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"meal-rotation-planner/internal/clipper"
	"meal-rotation-planner/internal/config"
	"meal-rotation-planner/internal/database"
	"meal-rotation-planner/internal/metrics"
	"meal-rotation-planner/internal/planner"
	"meal-rotation-planner/internal/recipe"
	"meal-rotation-planner/internal/shopping"
	"meal-rotation-planner/internal/storage"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	recipeRepo   *recipe.Repository
	planRepo     *planner.PlanRepository
	shoppingRepo *shopping.Repository
	metricsStore *metrics.Store
	poolStore    *storage.PoolStore
	recipeClip   *clipper.Clipper
	generator    *planner.Generator
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	recipeRepo *recipe.Repository,
	planRepo *planner.PlanRepository,
	shoppingRepo *shopping.Repository,
	metricsStore *metrics.Store,
	poolStore *storage.PoolStore,
	recipeClip *clipper.Clipper,
	generator *planner.Generator,
) *App {
	return &App{
		cfg:          cfg,
		db:           db,
		recipeRepo:   recipeRepo,
		planRepo:     planRepo,
		shoppingRepo: shoppingRepo,
		metricsStore: metricsStore,
		poolStore:    poolStore,
		recipeClip:   recipeClip,
		generator:    generator,
	}
}

// Batch bundles a generation result with its per-week shopping lists and the
// preferences that produced it. This is also the JSON shape persisted by the
// plan repository.
type Batch struct {
	Result        *planner.MultiWeekResult `json:"result"`
	ShoppingLists []shopping.ShoppingList  `json:"shopping_lists"`
	Preferences   planner.UserPreferences  `json:"preferences"`
}

// ImportFromFile loads a JSON recipe-pool file into the database and the
// file store.
func (a *App) ImportFromFile(ctx context.Context, path string) (int, error) {
	recipes, err := storage.LoadPoolFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load pool file: %w", err)
	}

	imported := 0
	for _, rec := range recipes {
		if rec.ID == "" {
			log.Printf("Skipping recipe %q: missing ID", rec.Title)
			continue
		}
		if err := a.recipeRepo.Save(ctx, rec); err != nil {
			log.Printf("Failed to save recipe '%s' to DB: %v", rec.Title, err)
			continue
		}
		if err := a.poolStore.Save(rec); err != nil {
			log.Printf("Failed to save recipe '%s' to file storage: %v", rec.Title, err)
		}
		imported++
	}

	fmt.Printf("Imported %d of %d recipes.\n", imported, len(recipes))
	return imported, nil
}

// ClipRecipe imports a single recipe from a URL with structured data.
func (a *App) ClipRecipe(ctx context.Context, url string) (*recipe.Recipe, error) {
	rec, err := a.recipeClip.ClipURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to clip recipe: %w", err)
	}
	if err := a.recipeRepo.Save(ctx, *rec); err != nil {
		return nil, fmt.Errorf("failed to save clipped recipe: %w", err)
	}
	if err := a.poolStore.Save(*rec); err != nil {
		log.Printf("Warning: failed to save clipped recipe to file storage: %v", err)
	}
	return rec, nil
}

// GeneratePlan runs a full multi-week generation for a user, aggregates one
// shopping list per week, persists the batch and records a metric.
func (a *App) GeneratePlan(ctx context.Context, userID string, prefs planner.UserPreferences) (*Batch, error) {
	favorites, err := a.recipeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe pool: %w", err)
	}

	started := time.Now()
	result, err := a.generator.GenerateMultiWeek(userID, favorites, prefs)
	a.recordGeneration(userID, favorites, prefs, result, err, time.Since(started))
	if err != nil {
		return nil, err
	}

	lookup := buildLookup(favorites)
	batch := &Batch{Result: result, Preferences: prefs}
	for i := range result.WeekPlans {
		list := shopping.Aggregate(&result.WeekPlans[i], lookup)
		list.UserID = userID
		list.BatchID = result.BatchID
		batch.ShoppingLists = append(batch.ShoppingLists, *list)
	}

	if err := a.saveBatch(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// RegenerateWeek rebuilds one week of the user's latest batch, resuming from
// the batch's persisted rotation ledger so already-used main courses stay
// excluded. The replaced week's shopping list is re-aggregated and stored.
func (a *App) RegenerateWeek(ctx context.Context, userID string, weekIndex int) (*Batch, error) {
	batch, err := a.loadLatestBatch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("no meal plan batch found for user %s", userID)
	}
	if weekIndex < 0 || weekIndex >= len(batch.Result.WeekPlans) {
		return nil, fmt.Errorf("week index %d out of range: batch has %d weeks", weekIndex, len(batch.Result.WeekPlans))
	}

	favorites, err := a.recipeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe pool: %w", err)
	}

	weekStart := batch.Result.WeekPlans[weekIndex].WeekStart
	week, err := a.generator.GenerateSingleWeek(favorites, batch.Preferences, batch.Result.Rotation, weekStart)
	if err != nil {
		return nil, err
	}

	batch.Result.WeekPlans[weekIndex] = *week

	list := shopping.Aggregate(week, buildLookup(favorites))
	list.UserID = userID
	list.BatchID = batch.Result.BatchID
	batch.ShoppingLists[weekIndex] = *list

	if err := a.saveBatch(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// LatestBatch returns the user's most recent batch, or nil when none exists.
func (a *App) LatestBatch(ctx context.Context, userID string) (*Batch, error) {
	return a.loadLatestBatch(ctx, userID)
}

// ShoppingListForWeek returns the stored shopping list for a week start.
func (a *App) ShoppingListForWeek(ctx context.Context, userID string, weekStart time.Time) (*shopping.ShoppingList, error) {
	list, err := a.shoppingRepo.GetByUserAndWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	return list, nil
}

// RecipeCount reports the size of the stored pool.
func (a *App) RecipeCount(ctx context.Context) (int, error) {
	return a.recipeRepo.Count(ctx)
}

// RecipeLookup loads the full pool as an ID-keyed map for rendering.
func (a *App) RecipeLookup(ctx context.Context) (map[string]recipe.Recipe, error) {
	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return buildLookup(recipes), nil
}

func (a *App) saveBatch(ctx context.Context, batch *Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}
	if err := a.planRepo.Save(ctx, batch.Result.BatchID, batch.Result.UserID, data); err != nil {
		return err
	}
	for i := range batch.ShoppingLists {
		if _, err := a.shoppingRepo.Save(ctx, &batch.ShoppingLists[i]); err != nil {
			log.Printf("Warning: failed to persist shopping list for week %s: %v",
				batch.ShoppingLists[i].WeekStart.Format("2006-01-02"), err)
		}
	}
	return nil
}

func (a *App) loadLatestBatch(ctx context.Context, userID string) (*Batch, error) {
	stored, err := a.planRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}
	var batch Batch
	if err := json.Unmarshal(stored.Data, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored batch %s: %w", stored.BatchID, err)
	}
	return &batch, nil
}

func (a *App) recordGeneration(userID string, pool []recipe.Recipe, prefs planner.UserPreferences, result *planner.MultiWeekResult, genErr error, elapsed time.Duration) {
	filtered := planner.FilterByRestrictions(pool, prefs.Restrictions)
	var appetizers, mains, desserts int
	for _, rec := range filtered {
		switch rec.Course {
		case recipe.CourseAppetizer:
			appetizers++
		case recipe.CourseMainCourse:
			mains++
		case recipe.CourseDessert:
			desserts++
		}
	}

	m := metrics.GenerationMetric{
		UserID:          userID,
		WeeksRequested:  planner.MaxWeeksPerBatch,
		AppetizerCount:  appetizers,
		MainCourseCount: mains,
		DessertCount:    desserts,
		DurationMS:      elapsed.Milliseconds(),
		Outcome:         outcomeFor(genErr),
	}
	if result != nil {
		m.WeeksGenerated = len(result.WeekPlans)
	}
	if err := a.metricsStore.Record(m); err != nil {
		log.Printf("Warning: failed to record generation metric: %v", err)
	}
}

func outcomeFor(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	var insufficient *planner.InsufficientRecipesError
	var noCompatible *planner.NoCompatibleRecipesError
	var invalid *planner.InvalidPreferencesError
	switch {
	case errors.As(err, &insufficient):
		return metrics.OutcomeInsufficientRecipes
	case errors.As(err, &noCompatible):
		return metrics.OutcomeNoCompatibleRecipes
	case errors.As(err, &invalid):
		return metrics.OutcomeInvalidPreferences
	default:
		return metrics.OutcomeInternalError
	}
}

func buildLookup(recipes []recipe.Recipe) map[string]recipe.Recipe {
	lookup := make(map[string]recipe.Recipe, len(recipes))
	for _, rec := range recipes {
		lookup[rec.ID] = rec
	}
	return lookup
}

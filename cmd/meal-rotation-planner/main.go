package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"meal-rotation-planner/internal/app"
	"meal-rotation-planner/internal/clipper"
	"meal-rotation-planner/internal/config"
	"meal-rotation-planner/internal/database"
	"meal-rotation-planner/internal/metrics"
	"meal-rotation-planner/internal/planner"
	"meal-rotation-planner/internal/recipe"
	"meal-rotation-planner/internal/shopping"
	"meal-rotation-planner/internal/storage"
)

func main() {
	ctx := context.Background()

	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	poolStore, err := storage.NewPoolStore(cfg.RecipePoolPath)
	if err != nil {
		log.Fatalf("Failed to initialize recipe pool store: %v", err)
	}

	application := app.NewApp(
		cfg,
		db,
		recipeRepo,
		planRepo,
		shoppingRepo,
		metricsStore,
		poolStore,
		clipper.NewClipper(),
		planner.NewGenerator(),
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "import":
		importCmd := flag.NewFlagSet("import", flag.ExitOnError)
		file := importCmd.String("file", "", "Path to a JSON file containing an array of recipes")
		importCmd.Parse(os.Args[2:])
		if *file == "" {
			log.Fatal("import requires -file")
		}
		if _, err := application.ImportFromFile(ctx, *file); err != nil {
			log.Fatalf("Import failed: %v", err)
		}

	case "clip":
		clipCmd := flag.NewFlagSet("clip", flag.ExitOnError)
		url := clipCmd.String("url", "", "Recipe page URL with schema.org structured data")
		clipCmd.Parse(os.Args[2:])
		if *url == "" {
			log.Fatal("clip requires -url")
		}
		rec, err := application.ClipRecipe(ctx, *url)
		if err != nil {
			log.Fatalf("Clip failed: %v", err)
		}
		fmt.Printf("Imported %q (%s, %s)\n", rec.Title, rec.Course, rec.Cuisine.String())

	case "generate":
		genCmd := flag.NewFlagSet("generate", flag.ExitOnError)
		user := genCmd.String("user", cfg.DefaultUserID, "User to generate for")
		skill := genCmd.String("skill", cfg.DefaultSkill, "Skill level: BEGINNER, INTERMEDIATE or ADVANCED")
		weeknight := genCmd.Int("weeknight", cfg.DefaultWeeknightMinutes, "Max prep+cook minutes on weeknights")
		weekend := genCmd.Int("weekend", cfg.DefaultWeekendMinutes, "Max prep+cook minutes on weekends")
		variety := genCmd.Float64("variety", cfg.DefaultVarietyWeight, "Cuisine variety weight in [0,1]")
		avoidComplex := genCmd.Bool("avoid-consecutive-complex", cfg.AvoidConsecutiveComplex, "Avoid Complex meals on adjacent days")
		restrict := genCmd.String("restrict", "", "Comma-separated restrictions, e.g. VEGAN,GLUTEN_FREE,custom:peanut")
		genCmd.Parse(os.Args[2:])

		prefs := planner.UserPreferences{
			Restrictions:            parseRestrictions(*restrict),
			MaxWeeknightMinutes:     *weeknight,
			MaxWeekendMinutes:       *weekend,
			Skill:                   planner.SkillLevel(strings.ToUpper(*skill)),
			AvoidConsecutiveComplex: *avoidComplex,
			VarietyWeight:           *variety,
		}

		batch, err := application.GeneratePlan(ctx, *user, prefs)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		printBatch(ctx, application, batch)

	case "regenerate":
		regenCmd := flag.NewFlagSet("regenerate", flag.ExitOnError)
		user := regenCmd.String("user", cfg.DefaultUserID, "User whose plan to modify")
		week := regenCmd.Int("week", 0, "1-based week number to regenerate")
		regenCmd.Parse(os.Args[2:])
		if *week < 1 {
			log.Fatal("regenerate requires -week (1-based)")
		}
		batch, err := application.RegenerateWeek(ctx, *user, *week-1)
		if err != nil {
			log.Fatalf("Regeneration failed: %v", err)
		}
		printBatch(ctx, application, batch)

	case "shopping-list":
		listCmd := flag.NewFlagSet("shopping-list", flag.ExitOnError)
		user := listCmd.String("user", cfg.DefaultUserID, "User whose list to show")
		week := listCmd.Int("week", 1, "1-based week number")
		listCmd.Parse(os.Args[2:])

		batch, err := application.LatestBatch(ctx, *user)
		if err != nil {
			log.Fatalf("Failed to load latest batch: %v", err)
		}
		if batch == nil {
			log.Fatal("No meal plan batch found; run generate first")
		}
		if *week < 1 || *week > len(batch.ShoppingLists) {
			log.Fatalf("Week %d out of range: batch has %d weeks", *week, len(batch.ShoppingLists))
		}
		printShoppingList(&batch.ShoppingLists[*week-1])

	case "status":
		health := metrics.GetSysHealth(filepath.Dir(cfg.DatabasePath))
		daily, err := metricsStore.GetDailyGenerations(7)
		if err != nil {
			log.Fatalf("Failed to load metrics: %v", err)
		}
		count, err := recipeRepo.Count(ctx)
		if err != nil {
			log.Fatalf("Failed to count recipes: %v", err)
		}
		fmt.Printf("Recipes in pool: %d\n", count)
		fmt.Printf("RAM: %dMB alloc / %dMB sys, goroutines: %d, data on disk: %s\n",
			health.AllocMB, health.SysMB, health.Goroutines, health.DataDiskSize)
		fmt.Println("Generations (last 7 days):")
		for _, d := range daily {
			fmt.Printf("  %s: %d runs (%d succeeded)\n", d.Date, d.Runs, d.Succeeded)
		}

	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: meal-rotation-planner <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  import -file <path>       Import a JSON recipe pool file")
	fmt.Println("  clip -url <url>           Import one recipe from a web page")
	fmt.Println("  generate [flags]          Generate a multi-week meal plan")
	fmt.Println("  regenerate -week N        Regenerate one week of the latest plan")
	fmt.Println("  shopping-list -week N     Show a week's shopping list")
	fmt.Println("  status                    Show pool size, health and recent runs")
	fmt.Println("  metrics-cleanup [-days N] Remove old generation metrics")
}

// parseRestrictions turns "VEGAN,custom:peanut" into restriction values.
func parseRestrictions(s string) []planner.DietaryRestriction {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var restrictions []planner.DietaryRestriction
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if term, ok := strings.CutPrefix(strings.ToLower(part), "custom:"); ok {
			restrictions = append(restrictions, planner.NewCustomRestriction(term))
			continue
		}
		restrictions = append(restrictions, planner.DietaryRestriction{
			Kind: planner.RestrictionKind(strings.ToUpper(part)),
		})
	}
	return restrictions
}

func printBatch(ctx context.Context, application *app.App, batch *app.Batch) {
	lookup, err := application.RecipeLookup(ctx)
	if err != nil {
		log.Fatalf("Failed to load recipes: %v", err)
	}

	fmt.Printf("\n=== MEAL PLAN (%d weeks, batch %s) ===\n", len(batch.Result.WeekPlans), batch.Result.BatchID)
	for i, week := range batch.Result.WeekPlans {
		fmt.Printf("\nWeek %d — starting %s\n", i+1, week.WeekStart.Format("2006-01-02"))
		for _, a := range week.Assignments {
			title := a.RecipeID
			if rec, ok := lookup[a.RecipeID]; ok {
				title = rec.Title
			}
			line := fmt.Sprintf("  %-4s %-12s %s", a.Date.Format("Mon"), a.Course, title)
			if a.AccompanimentID != "" {
				if side, ok := lookup[a.AccompanimentID]; ok {
					line += fmt.Sprintf(" (with %s)", side.Title)
				}
			}
			if a.RequiresAdvancePrep {
				line += " [prep ahead]"
			}
			fmt.Println(line)
		}
	}

	for i := range batch.ShoppingLists {
		fmt.Printf("\n=== SHOPPING LIST — WEEK %d ===\n", i+1)
		printShoppingList(&batch.ShoppingLists[i])
	}
}

func printShoppingList(list *shopping.ShoppingList) {
	fmt.Printf("Week starting %s\n", list.WeekStart.Format("2006-01-02"))
	for _, item := range list.Items {
		if item.Unit != "" {
			fmt.Printf("- %g %s %s (%s)\n", item.Quantity, item.Unit, item.Name, item.Category)
		} else {
			fmt.Printf("- %g %s (%s)\n", item.Quantity, item.Name, item.Category)
		}
	}
}

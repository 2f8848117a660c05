package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"meal-rotation-planner/internal/telegram"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Missing Telegram configuration: %v", err)
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
	sessionRepo := telegram.NewSessionRepository(db.SQL)

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

	bot, err := telegram.NewBot(cfg, application, metricsStore, sessionRepo)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Reap expired confirmation sessions in the background.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if err := sessionRepo.CleanupExpired(context.Background()); err != nil {
				log.Printf("Session cleanup failed: %v", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

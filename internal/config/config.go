package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath   string
	RecipePoolPath string
	DefaultUserID  string

	// Default generation preferences, overridable per request.
	DefaultWeeknightMinutes int
	DefaultWeekendMinutes   int
	DefaultSkill            string
	DefaultVarietyWeight    float64
	AvoidConsecutiveComplex bool

	// Telegram Config
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
	ListenAddr          string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:            envOrDefault("MEAL_PLANNER_DB_PATH", "data/meal-planner.db"),
		RecipePoolPath:          envOrDefault("MEAL_PLANNER_POOL_PATH", "data/recipes"),
		DefaultUserID:           envOrDefault("MEAL_PLANNER_USER_ID", "default_user"),
		DefaultSkill:            envOrDefault("MEAL_PLANNER_SKILL", "INTERMEDIATE"),
		ListenAddr:              envOrDefault("LISTEN_ADDR", ":8080"),
		DefaultWeeknightMinutes: 45,
		DefaultWeekendMinutes:   120,
		DefaultVarietyWeight:    0.7,
	}

	if v := os.Getenv("MEAL_PLANNER_WEEKNIGHT_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MEAL_PLANNER_WEEKNIGHT_MINUTES must be an integer: %w", err)
		}
		cfg.DefaultWeeknightMinutes = minutes
	}

	if v := os.Getenv("MEAL_PLANNER_WEEKEND_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MEAL_PLANNER_WEEKEND_MINUTES must be an integer: %w", err)
		}
		cfg.DefaultWeekendMinutes = minutes
	}

	if v := os.Getenv("MEAL_PLANNER_VARIETY_WEIGHT"); v != "" {
		weight, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("MEAL_PLANNER_VARIETY_WEIGHT must be a number: %w", err)
		}
		cfg.DefaultVarietyWeight = weight
	}

	if v := os.Getenv("MEAL_PLANNER_AVOID_CONSECUTIVE_COMPLEX"); v != "" {
		avoid, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MEAL_PLANNER_AVOID_CONSECUTIVE_COMPLEX must be a boolean: %w", err)
		}
		cfg.AvoidConsecutiveComplex = avoid
	}

	// Telegram Config (Optional for CLI, required for Bot)
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramWebhookURL = os.Getenv("TELEGRAM_WEBHOOK_URL")
	if v := os.Getenv("TELEGRAM_ALLOW_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOW_USER_ID must be an integer: %w", err)
		}
		cfg.TelegramAllowUserID = id
	}

	return cfg, nil
}

// RequireTelegram validates the keys the bot cannot run without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"meal-rotation-planner/internal/recipe"
)

// PoolStore provides file-based storage for a recipe pool, one JSON file per
// recipe. It doubles as the seed/import/export format for the CLI.
type PoolStore struct {
	basePath string
}

// NewPoolStore creates a new PoolStore and ensures the base directory exists.
func NewPoolStore(basePath string) (*PoolStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &PoolStore{basePath: basePath}, nil
}

func (s *PoolStore) recipePath(id string) string {
	return filepath.Join(s.basePath, id+".json")
}

// Save stores a recipe to its file, overwriting any previous version.
func (s *PoolStore) Save(rec recipe.Recipe) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := os.WriteFile(s.recipePath(rec.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// Load retrieves a recipe by ID.
func (s *PoolStore) Load(id string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(s.recipePath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}

	var rec recipe.Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &rec, nil
}

// Exists checks whether a recipe file is present.
func (s *PoolStore) Exists(id string) bool {
	_, err := os.Stat(s.recipePath(id))
	return !os.IsNotExist(err)
}

// Remove deletes a recipe file.
func (s *PoolStore) Remove(id string) error {
	if err := os.Remove(s.recipePath(id)); err != nil {
		return fmt.Errorf("failed to remove recipe file: %w", err)
	}
	return nil
}

// ListAll loads every recipe in the store, sorted by filename for stable
// pool ordering.
func (s *PoolStore) ListAll() ([]recipe.Recipe, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob recipe files: %w", err)
	}
	sort.Strings(matches)

	var recipes []recipe.Recipe
	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			return nil, fmt.Errorf("failed to read recipe file %s: %w", match, err)
		}
		var rec recipe.Recipe
		if err := json.Unmarshal(data, &rec); err != nil {
			fmt.Printf("Warning: skipping unreadable recipe file %s: %v\n", match, err)
			continue
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

// LoadPoolFile reads a single JSON file containing an array of recipes, the
// bulk-import format.
func LoadPoolFile(path string) ([]recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool file: %w", err)
	}

	var recipes []recipe.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pool file: %w", err)
	}
	return recipes, nil
}

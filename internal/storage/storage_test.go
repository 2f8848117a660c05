package storage

import (
	"os"
	"path/filepath"
	"testing"

	"meal-rotation-planner/internal/recipe"
)

func newTestStore(t *testing.T) *PoolStore {
	t.Helper()
	store, err := NewPoolStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestPoolStoreSaveLoad(t *testing.T) {
	store := newTestStore(t)

	rec := recipe.Recipe{
		ID:     "carbonara",
		Title:  "Spaghetti Carbonara",
		Course: recipe.CourseMainCourse,
		Ingredients: []recipe.Ingredient{
			{Name: "spaghetti", Quantity: 400, Unit: "g"},
		},
	}

	if err := store.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.Exists("carbonara") {
		t.Fatal("Expected the recipe to exist after Save")
	}

	loaded, err := store.Load("carbonara")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Title != rec.Title {
		t.Errorf("Expected title %q, got %q", rec.Title, loaded.Title)
	}
	if len(loaded.Ingredients) != 1 {
		t.Errorf("Expected 1 ingredient, got %d", len(loaded.Ingredients))
	}
}

func TestPoolStoreRemove(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(recipe.Recipe{ID: "gone"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Remove("gone"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if store.Exists("gone") {
		t.Error("Expected the recipe to be gone after Remove")
	}
}

func TestPoolStoreListAllSorted(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"zuppa", "arancini", "minestrone"} {
		if err := store.Save(recipe.Recipe{ID: id, Title: id}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	recipes, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("Expected 3 recipes, got %d", len(recipes))
	}

	want := []string{"arancini", "minestrone", "zuppa"}
	for i, id := range want {
		if recipes[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, recipes[i].ID)
		}
	}
}

func TestLoadPoolFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.json")
	payload := `[
		{"id": "r1", "title": "First", "course": "MAIN_COURSE"},
		{"id": "r2", "title": "Second", "course": "DESSERT"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	recipes, err := LoadPoolFile(path)
	if err != nil {
		t.Fatalf("LoadPoolFile failed: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("Expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].ID != "r1" || recipes[1].Course != recipe.CourseDessert {
		t.Errorf("Unexpected contents: %+v", recipes)
	}
}

func TestLoadPoolFileMissing(t *testing.T) {
	if _, err := LoadPoolFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

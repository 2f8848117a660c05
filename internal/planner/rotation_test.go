package planner

import (
	"encoding/json"
	"testing"
	"time"

	"meal-rotation-planner/internal/recipe"
)

func TestRotationStateMainCourses(t *testing.T) {
	state := NewRotationState()

	if state.MainUsed("m1") {
		t.Error("Expected m1 to be unused in a fresh state")
	}

	state.UseMain("m1")
	if !state.MainUsed("m1") {
		t.Error("Expected m1 to be used after UseMain")
	}
	if state.MainUsed("m2") {
		t.Error("Expected m2 to stay unused")
	}
}

func TestRotationStateCyclicReset(t *testing.T) {
	t.Run("AppetizersResetAfterFullRotation", func(t *testing.T) {
		state := NewRotationState()
		poolSize := 3

		state.UseAppetizer("a1", poolSize)
		state.UseAppetizer("a2", poolSize)
		if len(state.UsedAppetizers) != 2 {
			t.Fatalf("Expected 2 used appetizers, got %d", len(state.UsedAppetizers))
		}
		if state.AppetizerCycles != 0 {
			t.Errorf("Expected 0 cycles before the pool is exhausted, got %d", state.AppetizerCycles)
		}

		// Third use covers the pool and triggers the reset.
		state.UseAppetizer("a3", poolSize)
		if len(state.UsedAppetizers) != 0 {
			t.Errorf("Expected the used set to clear after a full rotation, got %d entries", len(state.UsedAppetizers))
		}
		if state.AppetizerCycles != 1 {
			t.Errorf("Expected 1 completed cycle, got %d", state.AppetizerCycles)
		}
	})

	t.Run("DessertsResetIndependently", func(t *testing.T) {
		state := NewRotationState()

		state.UseAppetizer("a1", 5)
		state.UseDessert("d1", 1)
		if state.DessertCycles != 1 {
			t.Errorf("Expected dessert cycle after exhausting a pool of 1, got %d", state.DessertCycles)
		}
		if state.AppetizerCycles != 0 {
			t.Errorf("Dessert reset must not touch appetizer cycles, got %d", state.AppetizerCycles)
		}
		if len(state.UsedAppetizers) != 1 {
			t.Errorf("Dessert reset must not clear the appetizer set, got %d entries", len(state.UsedAppetizers))
		}
	})
}

func TestRotationStateComplexTracking(t *testing.T) {
	state := NewRotationState()
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	if state.ComplexOnDayBefore(monday) {
		t.Error("Expected no complex history in a fresh state")
	}

	state.NoteComplex(monday)
	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)

	if !state.ComplexOnDayBefore(tuesday) {
		t.Error("Expected Tuesday to see Monday's complex meal")
	}
	if state.ComplexOnDayBefore(wednesday) {
		t.Error("Expected Wednesday not to be blocked by Monday's complex meal")
	}
	if state.ComplexOnDayBefore(monday) {
		t.Error("Expected the complex day itself not to count as day-before")
	}
}

func TestRotationStateCuisineCounters(t *testing.T) {
	state := NewRotationState()
	italian := recipe.NewCuisine(recipe.CuisineItalian)

	state.TouchCuisine(italian)
	state.TouchCuisine(italian)
	state.TouchCuisine(recipe.NewCustomCuisine("peruvian"))

	if state.CuisineUses["ITALIAN"] != 2 {
		t.Errorf("Expected 2 Italian uses, got %d", state.CuisineUses["ITALIAN"])
	}
	if state.CuisineUses["peruvian"] != 1 {
		t.Errorf("Expected 1 custom-cuisine use, got %d", state.CuisineUses["peruvian"])
	}
}

func TestRotationStateJSONRoundTrip(t *testing.T) {
	state := NewRotationState()
	state.UseMain("m1")
	state.UseAppetizer("a1", 10)
	state.TouchCuisine(recipe.NewCuisine(recipe.CuisineThai))
	state.NoteComplex(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var restored RotationState
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !restored.MainUsed("m1") {
		t.Error("Expected m1 to survive the round trip")
	}
	if !restored.UsedAppetizers["a1"] {
		t.Error("Expected a1 to survive the round trip")
	}
	if restored.CuisineUses["THAI"] != 1 {
		t.Errorf("Expected Thai counter to survive, got %d", restored.CuisineUses["THAI"])
	}
	if restored.LastComplexDate == nil {
		t.Fatal("Expected LastComplexDate to survive the round trip")
	}
}

func TestRotationStateNormalizeRepairsNilMaps(t *testing.T) {
	// Older snapshots can deserialize with nil maps; normalize must make the
	// state writable again.
	var state RotationState
	if err := json.Unmarshal([]byte(`{}`), &state); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	state.normalize()
	state.UseMain("m1")
	state.UseAppetizer("a1", 5)
	state.UseDessert("d1", 5)
	state.TouchCuisine(recipe.NewCuisine(recipe.CuisineIndian))

	if !state.MainUsed("m1") {
		t.Error("Expected UseMain to work after normalize")
	}
}

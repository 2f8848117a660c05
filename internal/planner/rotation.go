package planner

import (
	"time"

	"meal-rotation-planner/internal/recipe"
)

// RotationState is the mutable ledger threaded through one generation run.
// Main courses are excluded permanently once used; appetizers and desserts
// rotate cyclically, resetting only after the full eligible pool has been
// exhausted. The state is JSON-serializable so a batch's final snapshot can
// be persisted and resumed for single-week regeneration.
type RotationState struct {
	UsedMainCourses map[string]bool `json:"used_main_courses"`
	UsedAppetizers  map[string]bool `json:"used_appetizers"`
	UsedDesserts    map[string]bool `json:"used_desserts"`

	// Full-rotation counters: bumped each time the corresponding used set
	// fills up and is cleared.
	AppetizerCycles int `json:"appetizer_cycles"`
	DessertCycles   int `json:"dessert_cycles"`

	// CuisineUses counts scheduled main courses per cuisine; it only ever
	// grows and feeds variety scoring.
	CuisineUses map[string]int `json:"cuisine_uses"`

	// LastComplexDate is the most recent day a Complex main course was
	// scheduled, if any.
	LastComplexDate *time.Time `json:"last_complex_date,omitempty"`
}

// NewRotationState creates an empty ledger for a fresh generation run.
func NewRotationState() *RotationState {
	return &RotationState{
		UsedMainCourses: make(map[string]bool),
		UsedAppetizers:  make(map[string]bool),
		UsedDesserts:    make(map[string]bool),
		CuisineUses:     make(map[string]int),
	}
}

// normalize repairs nil maps after JSON round-trips of older snapshots.
func (s *RotationState) normalize() {
	if s.UsedMainCourses == nil {
		s.UsedMainCourses = make(map[string]bool)
	}
	if s.UsedAppetizers == nil {
		s.UsedAppetizers = make(map[string]bool)
	}
	if s.UsedDesserts == nil {
		s.UsedDesserts = make(map[string]bool)
	}
	if s.CuisineUses == nil {
		s.CuisineUses = make(map[string]int)
	}
}

// UseMain marks a main course as used. Irreversible within a run.
func (s *RotationState) UseMain(id string) {
	s.UsedMainCourses[id] = true
}

// MainUsed reports whether a main course has already been scheduled.
func (s *RotationState) MainUsed(id string) bool {
	return s.UsedMainCourses[id]
}

// UseAppetizer marks an appetizer as used. When the used set covers the whole
// eligible pool it is cleared and the cycle counter bumped, allowing repeats
// only after a full rotation.
func (s *RotationState) UseAppetizer(id string, poolSize int) {
	s.UsedAppetizers[id] = true
	if poolSize > 0 && len(s.UsedAppetizers) >= poolSize {
		s.UsedAppetizers = make(map[string]bool)
		s.AppetizerCycles++
	}
}

// UseDessert marks a dessert as used, with the same reset discipline as
// UseAppetizer.
func (s *RotationState) UseDessert(id string, poolSize int) {
	s.UsedDesserts[id] = true
	if poolSize > 0 && len(s.UsedDesserts) >= poolSize {
		s.UsedDesserts = make(map[string]bool)
		s.DessertCycles++
	}
}

// TouchCuisine increments the usage counter for a cuisine. Counters never
// exhaust anything, they only shape scoring.
func (s *RotationState) TouchCuisine(c recipe.Cuisine) {
	s.CuisineUses[c.String()]++
}

// NoteComplex records the date of the most recently scheduled Complex main
// course, overwriting unconditionally.
func (s *RotationState) NoteComplex(date time.Time) {
	d := date
	s.LastComplexDate = &d
}

// ComplexOnDayBefore reports whether a Complex main course was scheduled on
// the calendar day immediately before the given date.
func (s *RotationState) ComplexOnDayBefore(date time.Time) bool {
	if s.LastComplexDate == nil {
		return false
	}
	prev := date.AddDate(0, 0, -1)
	y1, m1, d1 := s.LastComplexDate.Date()
	y2, m2, d2 := prev.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

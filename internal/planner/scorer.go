package planner

import (
	"fmt"
	"time"

	"meal-rotation-planner/internal/recipe"
)

// SelectMainCourse runs the main-course selection pipeline for one day:
// hard exclusions (already used, over the day's time ceiling, above the skill
// ceiling, consecutive-Complex) followed by variety scoring. It never mutates
// the rotation state; the caller records the pick.
//
// Returns (nil, reason) when nothing survives, where reason explains which
// exclusion emptied the pool.
func SelectMainCourse(candidates []recipe.Recipe, prefs UserPreferences, state *RotationState, date time.Time) (*recipe.Recipe, string) {
	maxMinutes := prefs.maxMinutesFor(date)

	var (
		excludedUsed    int
		excludedTime    int
		excludedSkill   int
		excludedComplex int
	)

	var best *recipe.Recipe
	var bestScore float64
	for i := range candidates {
		cand := &candidates[i]

		if state.MainUsed(cand.ID) {
			excludedUsed++
			continue
		}
		if cand.TotalTimeMinutes() > maxMinutes {
			excludedTime++
			continue
		}
		if !prefs.Skill.Allows(cand.Complexity) {
			excludedSkill++
			continue
		}
		if prefs.AvoidConsecutiveComplex &&
			cand.Complexity == recipe.ComplexityComplex &&
			state.ComplexOnDayBefore(date) {
			excludedComplex++
			continue
		}

		score := prefs.VarietyWeight * (1.0 / float64(state.CuisineUses[cand.Cuisine.String()]+1))
		// Strict greater-than keeps ties on the earliest candidate in input
		// order, so selection is deterministic for a fixed pool and state.
		if best == nil || score > bestScore {
			best = cand
			bestScore = score
		}
	}

	if best == nil {
		return nil, exhaustionReason(len(candidates), excludedUsed, excludedTime, excludedSkill, excludedComplex, maxMinutes)
	}
	return best, ""
}

func exhaustionReason(total, used, overTime, overSkill, consecComplex, maxMinutes int) string {
	if total == 0 {
		return "the eligible pool is empty"
	}
	reason := fmt.Sprintf("all %d candidates excluded:", total)
	if used > 0 {
		reason += fmt.Sprintf(" %d already used this run;", used)
	}
	if overTime > 0 {
		reason += fmt.Sprintf(" %d over the %d minute limit for this day;", overTime, maxMinutes)
	}
	if overSkill > 0 {
		reason += fmt.Sprintf(" %d above the skill ceiling;", overSkill)
	}
	if consecComplex > 0 {
		reason += fmt.Sprintf(" %d complex meals blocked by the consecutive-complex rule;", consecComplex)
	}
	return reason
}

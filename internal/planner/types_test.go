package planner

import (
	"testing"

	"meal-rotation-planner/internal/recipe"
)

func TestUserPreferencesValidate(t *testing.T) {
	valid := UserPreferences{
		MaxWeeknightMinutes: 45,
		MaxWeekendMinutes:   120,
		Skill:               SkillIntermediate,
		VarietyWeight:       0.5,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid preferences to pass, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*UserPreferences)
	}{
		{"ZeroWeeknightMinutes", func(p *UserPreferences) { p.MaxWeeknightMinutes = 0 }},
		{"NegativeWeekendMinutes", func(p *UserPreferences) { p.MaxWeekendMinutes = -10 }},
		{"VarietyWeightAboveOne", func(p *UserPreferences) { p.VarietyWeight = 1.01 }},
		{"NegativeVarietyWeight", func(p *UserPreferences) { p.VarietyWeight = -0.1 }},
		{"UnknownSkill", func(p *UserPreferences) { p.Skill = "WIZARD" }},
		{"EmptySkill", func(p *UserPreferences) { p.Skill = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := valid
			tt.mutate(&prefs)
			if err := prefs.Validate(); err == nil {
				t.Error("Expected a validation error, got nil")
			}
		})
	}
}

func TestSkillLevelAllows(t *testing.T) {
	tests := []struct {
		skill      SkillLevel
		complexity recipe.Complexity
		want       bool
	}{
		{SkillBeginner, recipe.ComplexitySimple, true},
		{SkillBeginner, recipe.ComplexityModerate, false},
		{SkillBeginner, recipe.ComplexityComplex, false},
		{SkillIntermediate, recipe.ComplexityModerate, true},
		{SkillIntermediate, recipe.ComplexityComplex, false},
		{SkillAdvanced, recipe.ComplexityComplex, true},
	}

	for _, tt := range tests {
		if got := tt.skill.Allows(tt.complexity); got != tt.want {
			t.Errorf("%s.Allows(%s): expected %v, got %v", tt.skill, tt.complexity, tt.want, got)
		}
	}
}

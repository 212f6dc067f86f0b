package session

import (
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/models"
)

// Profile mirrors the editable part of a user's row.
type Profile struct {
	Name         string
	Age          int
	Gender       string
	Height       float64 // centimeters
	TargetWeight float64
}

// Session is the in-memory identity of the signed-in user. It is created at
// login or sign-up, discarded at logout and never persisted; Profile and
// Goals mirror the stored rows.
type Session struct {
	Username string
	Token    string
	Profile  Profile
	Goals    models.HealthGoals
}

// DefaultGoalRule is the built-in goal-progress rule: at or under the target
// weight while meeting the step target.
const DefaultGoalRule = "weight <= target_weight && steps >= target_steps"

// CompareWithGoals evaluates the goal-progress rule against a day's weight
// and steps. Goals may carry a custom rule expression; an empty rule means
// DefaultGoalRule.
func (s *Session) CompareWithGoals(weightKg float64, steps int) (bool, error) {
	rule := s.Goals.Rule
	if rule == "" {
		rule = DefaultGoalRule
	}
	expr, err := govaluate.NewEvaluableExpression(rule)
	if err != nil {
		return false, fmt.Errorf("parse goal rule: %w", err)
	}
	result, err := expr.Evaluate(map[string]interface{}{
		"weight":              weightKg,
		"steps":               float64(steps),
		"target_weight":       s.Goals.TargetWeight,
		"target_steps":        float64(s.Goals.TargetSteps),
		"target_water_intake": float64(s.Goals.TargetWaterIntake),
		"target_sleep_hours":  float64(s.Goals.TargetSleepHours),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate goal rule: %w", err)
	}
	met, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("goal rule %q is not a boolean expression", rule)
	}
	return met, nil
}

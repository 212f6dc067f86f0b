package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/models"
)

func sessionWithGoals(targetWeight float64, targetSteps int) *Session {
	return &Session{
		Username: "amy",
		Goals: models.HealthGoals{
			Username:     "amy",
			TargetWeight: targetWeight,
			TargetSteps:  targetSteps,
		},
	}
}

func TestCompareWithGoalsDefaultRule(t *testing.T) {
	sess := sessionWithGoals(60, 8000)

	tests := []struct {
		weight float64
		steps  int
		want   bool
	}{
		{59, 9000, true},
		{60, 8000, true}, // both boundaries inclusive
		{61, 9000, false},
		{59, 7999, false},
	}
	for _, tt := range tests {
		met, err := sess.CompareWithGoals(tt.weight, tt.steps)
		require.NoError(t, err)
		assert.Equal(t, tt.want, met, "weight=%v steps=%d", tt.weight, tt.steps)
	}
}

func TestCompareWithGoalsCustomRule(t *testing.T) {
	sess := sessionWithGoals(60, 8000)
	sess.Goals.Rule = "weight <= target_weight"

	met, err := sess.CompareWithGoals(59, 0)
	require.NoError(t, err)
	assert.True(t, met, "custom rule ignores steps")
}

func TestCompareWithGoalsBadRule(t *testing.T) {
	sess := sessionWithGoals(60, 8000)

	sess.Goals.Rule = "weight <="
	_, err := sess.CompareWithGoals(59, 9000)
	assert.Error(t, err)

	sess.Goals.Rule = "weight + 1"
	_, err = sess.CompareWithGoals(59, 9000)
	assert.Error(t, err, "non-boolean rules are rejected")
}

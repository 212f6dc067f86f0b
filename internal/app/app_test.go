package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/auth"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/errs"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/session"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/storage"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/store"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/validation"
)

type recordingListener struct {
	dates   []time.Time
	results []SaveResult
}

func (l *recordingListener) DateSelected(date time.Time) { l.dates = append(l.dates, date) }
func (l *recordingListener) RecordSaved(res SaveResult)  { l.results = append(l.results, res) }

func setupApp(t *testing.T) (*App, *session.Session, *recordingListener) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	authService := auth.New(db, nil)
	a := New(store.New(sqlDB), authService)

	sess, err := a.SignUp("amy_liao", "Sunny!Day9", "Amy")
	require.NoError(t, err)
	require.NoError(t, authService.SaveProfile("amy_liao", session.Profile{
		Name: "Amy", Height: 170, TargetWeight: 60,
	}))

	listener := &recordingListener{}
	a.SetListener(listener)
	return a, sess, listener
}

func today() string {
	return time.Now().Format(validation.DateLayout)
}

func TestSignUpValidation(t *testing.T) {
	a, _, _ := setupApp(t)

	_, err := a.SignUp("ab", "Sunny!Day9", "Amy")
	assert.True(t, errs.IsValidation(err), "short username must fail validation, got %v", err)

	_, err = a.SignUp("someone", "123", "Amy")
	assert.True(t, errs.IsValidation(err), "short password must fail validation, got %v", err)

	_, err = a.SignUp("amy_liao", "Sunny!Day9", "Amy")
	assert.ErrorIs(t, err, errs.ErrUserExists)
}

func TestLogIn(t *testing.T) {
	a, _, _ := setupApp(t)

	sess, err := a.LogIn("amy_liao", "Sunny!Day9")
	require.NoError(t, err)
	assert.Equal(t, "amy_liao", sess.Username)

	_, err = a.LogIn("amy_liao", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestSaveHealthRecord(t *testing.T) {
	a, sess, listener := setupApp(t)

	result, err := a.SaveHealthRecord(sess, HealthInput{
		Date:          today(),
		Weight:        "70",
		Steps:         "8500",
		BloodPressure: "120/80",
		HeartRate:     "65",
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.True(t, result.BMIKnown)
	assert.InDelta(t, 24.22, result.BMI, 0.01)

	require.Len(t, listener.results, 1)
	assert.True(t, listener.results[0].OK)

	rec, err := a.Store().GetHealthRecord(sess.Username, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 70.0, rec.Weight)
	assert.Equal(t, 8500, rec.Steps)
}

func TestSaveHealthRecordValidationFailure(t *testing.T) {
	a, sess, listener := setupApp(t)

	result, err := a.SaveHealthRecord(sess, HealthInput{
		Date:          today(),
		Weight:        "abc",
		Steps:         "8500",
		BloodPressure: "120/80",
		HeartRate:     "65",
	})
	require.NoError(t, err, "a validation rejection is a result, not an error")
	assert.False(t, result.OK)
	assert.Equal(t, "weight", result.Field)
	assert.Contains(t, result.Message, "not a valid number")

	require.Len(t, listener.results, 1)
	assert.False(t, listener.results[0].OK)

	// Nothing was written.
	_, err = a.Store().GetHealthRecord(sess.Username, time.Now())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSaveDailyHabit(t *testing.T) {
	a, sess, _ := setupApp(t)

	result, err := a.SaveDailyHabit(sess, HabitInput{
		Date:        today(),
		WaterIntake: "8",
		Diet:        "low carb",
		SleepHours:  "7",
	})
	require.NoError(t, err)
	assert.True(t, result.OK)

	habit, err := a.Store().GetDailyHabit(sess.Username, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 8, habit.WaterIntake)

	result, err = a.SaveDailyHabit(sess, HabitInput{
		Date:        today(),
		WaterIntake: "99",
		Diet:        "low carb",
		SleepHours:  "7",
	})
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "water intake", result.Field)
}

func TestSelectDate(t *testing.T) {
	a, sess, listener := setupApp(t)

	_, _, err := a.SelectDate(sess, "not a date")
	assert.True(t, errs.IsValidation(err), "bad date must fail validation, got %v", err)

	// Empty day: no record, no habit, no error.
	record, habit, err := a.SelectDate(sess, today())
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Nil(t, habit)
	require.Len(t, listener.dates, 1)

	_, err = a.SaveHealthRecord(sess, HealthInput{
		Date:          today(),
		Weight:        "70",
		Steps:         "8500",
		BloodPressure: "120/80",
		HeartRate:     "65",
	})
	require.NoError(t, err)

	record, _, err = a.SelectDate(sess, today())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 70.0, record.Weight)
}

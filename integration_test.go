package main_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/app"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/auth"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/errs"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/session"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/storage"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/store"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/validation"
)

func setupCore(t *testing.T) (*app.App, *auth.Service, *store.Store) {
	t.Helper()

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get db handle: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	authService := auth.New(db, nil)
	recordStore := store.New(sqlDB)
	return app.New(recordStore, authService), authService, recordStore
}

func TestFullUserFlow(t *testing.T) {
	core, authService, recordStore := setupCore(t)

	// Sign up and fill in the profile.
	sess, err := core.SignUp("amy_liao", "Sunny!Day9", "Amy")
	if err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	profile := session.Profile{Name: "Amy Liao", Age: 30, Gender: "female", Height: 170, TargetWeight: 60}
	if err := authService.SaveProfile(sess.Username, profile); err != nil {
		t.Fatalf("save profile failed: %v", err)
	}

	// Log back in and save today's record and habit through the boundary.
	sess, err = core.LogIn("amy_liao", "Sunny!Day9")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	today := time.Now().Format(validation.DateLayout)

	result, err := core.SaveHealthRecord(sess, app.HealthInput{
		Date:          today,
		Weight:        "59.5",
		Steps:         "9000",
		BloodPressure: "118/76",
		HeartRate:     "64",
	})
	if err != nil {
		t.Fatalf("save health record failed: %v", err)
	}
	if !result.OK || !result.BMIKnown {
		t.Fatalf("expected successful save with derived BMI, got %+v", result)
	}

	if _, err := core.SaveDailyHabit(sess, app.HabitInput{
		Date:        today,
		WaterIntake: "8",
		Diet:        "balanced",
		SleepHours:  "7",
	}); err != nil {
		t.Fatalf("save daily habit failed: %v", err)
	}

	// The week series returns exactly what was written.
	points, err := recordStore.GetSeries(sess.Username, store.MetricWeight, store.LastWeek)
	if err != nil {
		t.Fatalf("get series failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected one point in the week window, got %d", len(points))
	}
	if points[0].Value != 59.5 {
		t.Fatalf("expected stored weight back, got %v", points[0].Value)
	}

	// Target line comes from the mirrored goals row.
	target, err := recordStore.GetTargetValue(sess.Username, store.MetricWeight)
	if err != nil {
		t.Fatalf("get target value failed: %v", err)
	}
	if target != 60 {
		t.Fatalf("expected target weight 60, got %v", target)
	}

	// Under target weight with enough steps: goals met.
	sess, err = core.LogIn("amy_liao", "Sunny!Day9")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	met, err := sess.CompareWithGoals(59.5, 9000)
	if err != nil {
		t.Fatalf("goal comparison failed: %v", err)
	}
	if !met {
		t.Fatalf("expected goals to be met")
	}

	// The issued token resumes the session.
	resumed, err := authService.Resume(sess.Token)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if resumed.Username != "amy_liao" {
		t.Fatalf("expected amy_liao, got %q", resumed.Username)
	}
}

func TestDuplicateSignupAndBadLogin(t *testing.T) {
	core, _, _ := setupCore(t)

	if _, err := core.SignUp("amy_liao", "Sunny!Day9", "Amy"); err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	if _, err := core.SignUp("amy_liao", "Other!Pass1", "Amy"); !errors.Is(err, errs.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := core.LogIn("amy_liao", "wrong"); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/auth"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/errs"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/models"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/session"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/store"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/validation"
)

// Listener is the capability a UI collaborator implements to hear about
// boundary events. The core never depends on a concrete widget type.
type Listener interface {
	DateSelected(date time.Time)
	RecordSaved(result SaveResult)
}

// SaveResult reports the outcome of a save. A validation rejection sets OK
// false with the failing field and message; storage failures surface as
// errors instead, never as a SaveResult.
type SaveResult struct {
	OK       bool
	Field    string
	Message  string
	BMI      float64
	BMIKnown bool
}

// HealthInput is the raw text of the health entry form.
type HealthInput struct {
	Date          string
	Weight        string
	Steps         string
	BloodPressure string
	HeartRate     string
}

// HabitInput is the raw text of the daily habit form.
type HabitInput struct {
	Date        string
	WaterIntake string
	Diet        string
	SleepHours  string
}

// App orchestrates the boundary between a UI collaborator and the core:
// validate raw text, convert boundary dates, persist, notify. The session is
// an explicit argument everywhere; there is no process-wide current user.
type App struct {
	store    *store.Store
	auth     *auth.Service
	listener Listener
}

func New(st *store.Store, au *auth.Service) *App {
	return &App{store: st, auth: au}
}

// SetListener registers the UI collaborator. A nil listener is fine; events
// are then dropped.
func (a *App) SetListener(l Listener) {
	a.listener = l
}

// Auth exposes the credential service for login and sign-up flows.
func (a *App) Auth() *auth.Service { return a.auth }

// Store exposes the record store for chart and export queries.
func (a *App) Store() *store.Store { return a.store }

// SignUp validates the raw sign-up fields, then registers the account and
// opens its session. Rejected fields come back as a ValidationError before
// storage is touched.
func (a *App) SignUp(username, password, name string) (*session.Session, error) {
	if r := validation.Username(username); !r.Valid {
		return nil, errs.Validation("username", r.Message)
	}
	if r := validation.Password(password); !r.Valid {
		return nil, errs.Validation("password", r.Message)
	}
	if r := validation.Name(name); !r.Valid {
		return nil, errs.Validation("name", r.Message)
	}
	return a.auth.Register(strings.TrimSpace(username), password, strings.TrimSpace(name))
}

// LogIn opens a session for an existing account.
func (a *App) LogIn(username, password string) (*session.Session, error) {
	return a.auth.Login(strings.TrimSpace(username), password)
}

// SaveHealthRecord validates the form fields and upserts the day's record.
// The returned SaveResult carries the derived BMI, or BMIKnown false when the
// profile has no height.
func (a *App) SaveHealthRecord(sess *session.Session, in HealthInput) (SaveResult, error) {
	checks := []fieldCheck{
		{"date", validation.Date(in.Date, validation.DateLayout, time.Now())},
		{"weight", validation.Weight(in.Weight)},
		{"steps", validation.Steps(in.Steps)},
		{"blood pressure", validation.BloodPressure(in.BloodPressure)},
		{"heart rate", validation.HeartRate(in.HeartRate)},
	}
	if result, rejected := firstRejection(checks); rejected {
		a.notifySaved(result)
		return result, nil
	}

	date, _ := time.Parse(validation.DateLayout, strings.TrimSpace(in.Date))
	weight, _ := strconv.ParseFloat(strings.TrimSpace(in.Weight), 64)
	steps, _ := strconv.Atoi(strings.TrimSpace(in.Steps))
	heartRate, _ := strconv.Atoi(strings.TrimSpace(in.HeartRate))

	bmi, bmiKnown, err := a.store.UpsertHealthRecord(sess.Username, date, weight, steps, strings.TrimSpace(in.BloodPressure), heartRate)
	if err != nil {
		return SaveResult{}, err
	}

	result := SaveResult{OK: true, Message: "health data saved", BMI: bmi, BMIKnown: bmiKnown}
	a.notifySaved(result)
	return result, nil
}

// SaveDailyHabit validates the habit form and upserts the day's entry.
func (a *App) SaveDailyHabit(sess *session.Session, in HabitInput) (SaveResult, error) {
	checks := []fieldCheck{
		{"date", validation.Date(in.Date, validation.DateLayout, time.Now())},
		{"water intake", validation.WaterIntake(in.WaterIntake)},
		{"sleep hours", validation.SleepHours(in.SleepHours)},
	}
	if result, rejected := firstRejection(checks); rejected {
		a.notifySaved(result)
		return result, nil
	}

	date, _ := time.Parse(validation.DateLayout, strings.TrimSpace(in.Date))
	water, _ := strconv.Atoi(strings.TrimSpace(in.WaterIntake))
	sleep, _ := strconv.Atoi(strings.TrimSpace(in.SleepHours))

	if err := a.store.UpsertDailyHabit(sess.Username, date, water, in.Diet, sleep); err != nil {
		return SaveResult{}, err
	}

	result := SaveResult{OK: true, Message: "daily habit saved"}
	a.notifySaved(result)
	return result, nil
}

// SelectDate parses a boundary date, notifies the listener and preloads the
// day's record and habit so the UI can fill its form. Either may be nil when
// the day has no entry.
func (a *App) SelectDate(sess *session.Session, rawDate string) (*models.HealthRecord, *models.DailyHabit, error) {
	if result := validation.Date(rawDate, validation.DateLayout, time.Now()); !result.Valid {
		return nil, nil, errs.Validation("date", result.Message)
	}
	date, _ := time.Parse(validation.DateLayout, strings.TrimSpace(rawDate))

	if a.listener != nil {
		a.listener.DateSelected(date)
	}

	record, err := a.store.GetHealthRecord(sess.Username, date)
	if err != nil && err != errs.ErrNotFound {
		return nil, nil, err
	}
	habit, err := a.store.GetDailyHabit(sess.Username, date)
	if err != nil && err != errs.ErrNotFound {
		return nil, nil, err
	}
	return record, habit, nil
}

type fieldCheck struct {
	field  string
	result validation.Result
}

func firstRejection(checks []fieldCheck) (SaveResult, bool) {
	for _, c := range checks {
		if !c.result.Valid {
			return SaveResult{Field: c.field, Message: c.result.Message}, true
		}
	}
	return SaveResult{}, false
}

func (a *App) notifySaved(result SaveResult) {
	if a.listener != nil {
		a.listener.RecordSaved(result)
	}
}

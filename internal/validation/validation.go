package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/security"
)

// Field limits, all ranges inclusive.
const (
	MinWeight    = 20.0
	MaxWeight    = 300.0
	MinHeight    = 100.0
	MaxHeight    = 250.0
	MinAge       = 1
	MaxAge       = 150
	MinSteps     = 0
	MaxSteps     = 100000
	MinHeartRate = 30
	MaxHeartRate = 250
	MinWater     = 0
	MaxWater     = 50
	MinSleep     = 0
	MaxSleep     = 24
	MinSystolic  = 50
	MaxSystolic  = 250
	MinDiastolic = 30
	MaxDiastolic = 180

	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 6
	MaxPasswordLen = 50
	MaxNameLen     = 50
)

// DateLayout is the boundary (display) date format. Stored dates use the
// sortable ISO form instead.
const DateLayout = "01/02/2006"

var (
	bloodPressurePattern = regexp.MustCompile(`^\d{1,3}/\d{1,3}$`)
	usernamePattern      = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Result is the outcome of a single field check. Message carries either the
// reason the value was rejected or an advisory note for accepted values.
type Result struct {
	Valid   bool
	Message string
}

func valid(message string) Result   { return Result{Valid: true, Message: message} }
func invalid(message string) Result { return Result{Valid: false, Message: message} }

// Username requires 3-20 characters from [A-Za-z0-9_].
func Username(username string) Result {
	username = strings.TrimSpace(username)
	if username == "" {
		return invalid("username cannot be empty")
	}
	if len(username) < MinUsernameLen {
		return invalid(fmt.Sprintf("username needs at least %d characters", MinUsernameLen))
	}
	if len(username) > MaxUsernameLen {
		return invalid(fmt.Sprintf("username cannot exceed %d characters", MaxUsernameLen))
	}
	if !usernamePattern.MatchString(username) {
		return invalid("username may only contain letters, digits and underscores")
	}
	return valid("username is valid")
}

// Password requires 6-50 characters. A weak password is accepted but the
// result carries an advisory message.
func Password(password string) Result {
	if password == "" {
		return invalid("password cannot be empty")
	}
	if len(password) < MinPasswordLen {
		return invalid(fmt.Sprintf("password needs at least %d characters", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		return invalid(fmt.Sprintf("password cannot exceed %d characters", MaxPasswordLen))
	}
	if security.CheckStrength(password) == security.Weak {
		return valid("password is weak; consider mixing upper and lower case letters, digits and special characters")
	}
	return valid("password is valid")
}

// Name requires a non-empty display name of at most 50 characters.
func Name(name string) Result {
	if strings.TrimSpace(name) == "" {
		return invalid("name cannot be empty")
	}
	if len(name) > MaxNameLen {
		return invalid(fmt.Sprintf("name cannot exceed %d characters", MaxNameLen))
	}
	return valid("name is valid")
}

func Age(raw string) Result {
	return intField("age", raw, MinAge, MaxAge,
		fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge))
}

func Height(raw string) Result {
	return floatField("height", raw, MinHeight, MaxHeight,
		fmt.Sprintf("height must be between %.1f and %.1f cm", MinHeight, MaxHeight))
}

func Weight(raw string) Result {
	return floatField("weight", raw, MinWeight, MaxWeight,
		fmt.Sprintf("weight must be between %.1f and %.1f kg", MinWeight, MaxWeight))
}

func Steps(raw string) Result {
	return intField("steps", raw, MinSteps, MaxSteps,
		fmt.Sprintf("steps must be between %d and %d", MinSteps, MaxSteps))
}

func HeartRate(raw string) Result {
	return intField("heart rate", raw, MinHeartRate, MaxHeartRate,
		fmt.Sprintf("heart rate must be between %d and %d", MinHeartRate, MaxHeartRate))
}

func WaterIntake(raw string) Result {
	return intField("water intake", raw, MinWater, MaxWater,
		fmt.Sprintf("water intake must be between %d and %d cups", MinWater, MaxWater))
}

func SleepHours(raw string) Result {
	return intField("sleep hours", raw, MinSleep, MaxSleep,
		fmt.Sprintf("sleep hours must be between %d and %d", MinSleep, MaxSleep))
}

// BloodPressure checks the "systolic/diastolic" form. Systolic must be in
// 50-250, diastolic in 30-180 and systolic strictly greater than diastolic.
func BloodPressure(raw string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return invalid("blood pressure cannot be empty")
	}
	if !bloodPressurePattern.MatchString(raw) {
		return invalid("blood pressure must look like 120/80")
	}
	parts := strings.Split(raw, "/")
	systolic, err := strconv.Atoi(parts[0])
	if err != nil {
		return invalid("blood pressure is not a valid number")
	}
	diastolic, err := strconv.Atoi(parts[1])
	if err != nil {
		return invalid("blood pressure is not a valid number")
	}
	if systolic < MinSystolic || systolic > MaxSystolic {
		return invalid(fmt.Sprintf("systolic pressure must be between %d and %d", MinSystolic, MaxSystolic))
	}
	if diastolic < MinDiastolic || diastolic > MaxDiastolic {
		return invalid(fmt.Sprintf("diastolic pressure must be between %d and %d", MinDiastolic, MaxDiastolic))
	}
	if systolic <= diastolic {
		return invalid("systolic pressure must be greater than diastolic pressure")
	}
	return valid("blood pressure is valid")
}

// Date checks that raw parses under layout and does not lie after now's
// calendar day.
func Date(raw, layout string, now time.Time) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return invalid("date cannot be empty")
	}
	date, err := time.Parse(layout, raw)
	if err != nil {
		return invalid(fmt.Sprintf("date must match the %s format", layout))
	}
	// time.Parse yields UTC midnight; compare calendar days, not instants.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return invalid("date cannot be in the future")
	}
	return valid("date is valid")
}

func intField(field, raw string, min, max int, rangeMessage string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return invalid(field + " cannot be empty")
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return invalid(field + " is not a valid number")
	}
	if value < min || value > max {
		return invalid(rangeMessage)
	}
	return valid(field + " is valid")
}

func floatField(field, raw string, min, max float64, rangeMessage string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return invalid(field + " cannot be empty")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return invalid(field + " is not a valid number")
	}
	if value < min || value > max {
		return invalid(rangeMessage)
	}
	return valid(field + " is valid")
}

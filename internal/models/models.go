package models

import "database/sql"

// User is one registered account. Username is the natural key; the password
// is stored only as a salted hash.
type User struct {
	Username     string `gorm:"primaryKey;size:20"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Salt         string `gorm:"not null"`
	Name         string
	Age          int
	Gender       string
	Height       float64 // centimeters
	TargetWeight float64
}

func (User) TableName() string { return "users" }

// HealthRecord is one user's metrics for one calendar day. Date is the ISO
// YYYY-MM-DD form so lexical order matches chronological order; at most one
// row exists per (username, date).
type HealthRecord struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Username      string          `gorm:"not null;uniqueIndex:uidx_health_user_date"`
	Date          string          `gorm:"size:10;not null;uniqueIndex:uidx_health_user_date"`
	Weight        float64         // kilograms
	BMI           sql.NullFloat64 `gorm:"column:bmi"` // derived; invalid when profile height is unset
	Steps         int
	BloodPressure string // "systolic/diastolic"
	HeartRate     int
}

func (HealthRecord) TableName() string { return "health_data" }

// DailyHabit mirrors HealthRecord's per-day uniqueness for habit entries.
type DailyHabit struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Username    string `gorm:"not null;uniqueIndex:uidx_habits_user_date"`
	Date        string `gorm:"size:10;not null;uniqueIndex:uidx_habits_user_date"`
	WaterIntake int    // cups
	Diet        string
	SleepHours  int
}

func (DailyHabit) TableName() string { return "daily_habits" }

// HealthGoals holds one user's targets. Rule optionally overrides the default
// goal-progress expression and is never persisted.
type HealthGoals struct {
	Username          string `gorm:"primaryKey;size:20"`
	TargetWeight      float64
	TargetSteps       int
	TargetWaterIntake int
	TargetSleepHours  int
	Rule              string `gorm:"-"`
}

func (HealthGoals) TableName() string { return "health_goals" }

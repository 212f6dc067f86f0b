package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/errs"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/models"
)

// ISODate is the internal, sortable date form. All uniqueness checks and
// range comparisons run on it.
const ISODate = "2006-01-02"

// Metric names a chartable column of health_data.
type Metric string

const (
	MetricWeight        Metric = "weight"
	MetricBMI           Metric = "bmi"
	MetricSteps         Metric = "steps"
	MetricBloodPressure Metric = "blood_pressure"
	MetricHeartRate     Metric = "heart_rate"
)

func (m Metric) column() (string, bool) {
	switch m {
	case MetricWeight, MetricBMI, MetricSteps, MetricBloodPressure, MetricHeartRate:
		return string(m), true
	}
	return "", false
}

// TimeRange is a sliding lookback window ending at now.
type TimeRange string

const (
	LastWeek    TimeRange = "Last Week"
	LastMonth   TimeRange = "Last Month"
	Last3Months TimeRange = "Last 3 Months"
	LastYear    TimeRange = "Last Year"
)

func (r TimeRange) start(now time.Time) (time.Time, bool) {
	switch r {
	case LastWeek:
		return now.AddDate(0, 0, -7), true
	case LastMonth:
		return now.AddDate(0, -1, 0), true
	case Last3Months:
		return now.AddDate(0, -3, 0), true
	case LastYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// SeriesPoint is one charted sample. Display keeps the stored textual form;
// for blood pressure Value carries the systolic component only.
type SeriesPoint struct {
	Date    time.Time
	Value   float64
	Display string
}

// Store persists and queries per-user, per-day health records and habits.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ComputeBMI derives body mass index from weight in kilograms and height in
// centimeters. ok is false when height is unset, so callers never see a
// division-by-zero artifact.
func ComputeBMI(weightKg, heightCm float64) (bmi float64, ok bool) {
	if heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return weightKg / (m * m), true
}

// UpsertHealthRecord writes the metrics for (username, date), updating the
// existing row when one exists. BMI is derived from the user's stored height;
// bmiKnown is false when the profile has no height and the row keeps a NULL
// bmi. The whole sequence runs in one transaction.
func (s *Store) UpsertHealthRecord(username string, date time.Time, weightKg float64, steps int, bloodPressure string, heartRate int) (bmi float64, bmiKnown bool, err error) {
	day := date.Format(ISODate)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, false, errs.Storage("upsert health record: begin", err)
	}
	defer tx.Rollback()

	var height sql.NullFloat64
	err = tx.QueryRow("SELECT height FROM users WHERE username = ?", username).Scan(&height)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, errs.ErrUserNotFound
	}
	if err != nil {
		return 0, false, errs.Storage("upsert health record: load height", err)
	}

	stored := sql.NullFloat64{}
	if v, ok := ComputeBMI(weightKg, height.Float64); ok {
		bmi, bmiKnown = v, true
		stored = sql.NullFloat64{Float64: v, Valid: true}
	}

	var id int64
	err = tx.QueryRow("SELECT id FROM health_data WHERE username = ? AND date = ?", username, day).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.Exec(
			"UPDATE health_data SET weight = ?, bmi = ?, steps = ?, blood_pressure = ?, heart_rate = ? WHERE id = ?",
			weightKg, stored, steps, bloodPressure, heartRate, id,
		)
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(
			"INSERT INTO health_data (username, date, weight, bmi, steps, blood_pressure, heart_rate) VALUES (?, ?, ?, ?, ?, ?, ?)",
			username, day, weightKg, stored, steps, bloodPressure, heartRate,
		)
	default:
		return 0, false, errs.Storage("upsert health record: exists check", err)
	}
	if err != nil {
		return 0, false, errs.Storage("upsert health record: write", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, errs.Storage("upsert health record: commit", err)
	}
	return bmi, bmiKnown, nil
}

// UpsertDailyHabit writes the habit entry for (username, date) with the same
// exists-check-then-branch discipline as health records.
func (s *Store) UpsertDailyHabit(username string, date time.Time, waterIntake int, diet string, sleepHours int) error {
	day := date.Format(ISODate)

	tx, err := s.db.Begin()
	if err != nil {
		return errs.Storage("upsert daily habit: begin", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow("SELECT id FROM daily_habits WHERE username = ? AND date = ?", username, day).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.Exec(
			"UPDATE daily_habits SET water_intake = ?, diet = ?, sleep_hours = ? WHERE id = ?",
			waterIntake, diet, sleepHours, id,
		)
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(
			"INSERT INTO daily_habits (username, date, water_intake, diet, sleep_hours) VALUES (?, ?, ?, ?, ?)",
			username, day, waterIntake, diet, sleepHours,
		)
	default:
		return errs.Storage("upsert daily habit: exists check", err)
	}
	if err != nil {
		return errs.Storage("upsert daily habit: write", err)
	}

	if err := tx.Commit(); err != nil {
		return errs.Storage("upsert daily habit: commit", err)
	}
	return nil
}

// GetHealthRecord loads the record for (username, date). Returns
// errs.ErrNotFound when the day has no entry.
func (s *Store) GetHealthRecord(username string, date time.Time) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	err := s.db.QueryRow(
		"SELECT id, username, date, weight, bmi, steps, blood_pressure, heart_rate FROM health_data WHERE username = ? AND date = ?",
		username, date.Format(ISODate),
	).Scan(&rec.ID, &rec.Username, &rec.Date, &rec.Weight, &rec.BMI, &rec.Steps, &rec.BloodPressure, &rec.HeartRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Storage("get health record", err)
	}
	return &rec, nil
}

// GetDailyHabit loads the habit entry for (username, date). Returns
// errs.ErrNotFound when the day has no entry.
func (s *Store) GetDailyHabit(username string, date time.Time) (*models.DailyHabit, error) {
	var habit models.DailyHabit
	err := s.db.QueryRow(
		"SELECT id, username, date, water_intake, diet, sleep_hours FROM daily_habits WHERE username = ? AND date = ?",
		username, date.Format(ISODate),
	).Scan(&habit.ID, &habit.Username, &habit.Date, &habit.WaterIntake, &habit.Diet, &habit.SleepHours)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, errs.Storage("get daily habit", err)
	}
	return &habit, nil
}

// GetSeries returns the metric's samples in [now-window, now], ascending by
// date. Rows whose BMI was never derivable are skipped for the bmi metric.
func (s *Store) GetSeries(username string, metric Metric, timeRange TimeRange) ([]SeriesPoint, error) {
	start, ok := timeRange.start(time.Now())
	if !ok {
		return nil, fmt.Errorf("unknown time range %q", timeRange)
	}
	return s.querySeries(username, metric, start, time.Now(), true)
}

// GetComparisonSeries returns the window strictly preceding the current one:
// [now-2*daysOffset, now-daysOffset).
func (s *Store) GetComparisonSeries(username string, metric Metric, daysOffset int) ([]SeriesPoint, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -2*daysOffset)
	end := now.AddDate(0, 0, -daysOffset)
	return s.querySeries(username, metric, start, end, false)
}

func (s *Store) querySeries(username string, metric Metric, start, end time.Time, endInclusive bool) ([]SeriesPoint, error) {
	column, ok := metric.column()
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	endOp := "<"
	if endInclusive {
		endOp = "<="
	}
	query := fmt.Sprintf(
		"SELECT date, %s FROM health_data WHERE username = ? AND date >= ? AND date %s ? ORDER BY date ASC",
		column, endOp,
	)

	rows, err := s.db.Query(query, username, start.Format(ISODate), end.Format(ISODate))
	if err != nil {
		return nil, errs.Storage("query series", err)
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var day string
		var point SeriesPoint
		if metric == MetricBloodPressure {
			var text string
			if err := rows.Scan(&day, &text); err != nil {
				return nil, errs.Storage("scan series row", err)
			}
			point.Display = text
			point.Value = systolicOf(text)
		} else {
			var value sql.NullFloat64
			if err := rows.Scan(&day, &value); err != nil {
				return nil, errs.Storage("scan series row", err)
			}
			if !value.Valid {
				continue
			}
			point.Value = value.Float64
			point.Display = strconv.FormatFloat(value.Float64, 'f', -1, 64)
		}
		date, err := time.Parse(ISODate, day)
		if err != nil {
			return nil, errs.Storage("parse stored date", err)
		}
		point.Date = date
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("iterate series rows", err)
	}
	return points, nil
}

// GetTargetValue resolves the user's target for metric. Only weight has a
// stored target today; everything else reports 0, as does an unset target.
func (s *Store) GetTargetValue(username string, metric Metric) (float64, error) {
	if metric != MetricWeight {
		return 0, nil
	}
	var target sql.NullFloat64
	err := s.db.QueryRow("SELECT target_weight FROM health_goals WHERE username = ?", username).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Storage("get target value", err)
	}
	return target.Float64, nil
}

// systolicOf extracts the systolic component for numeric comparisons against
// a stored blood pressure string. Malformed values chart as 0.
func systolicOf(bloodPressure string) float64 {
	idx := strings.IndexByte(bloodPressure, '/')
	if idx <= 0 {
		return 0
	}
	systolic, err := strconv.Atoi(bloodPressure[:idx])
	if err != nil {
		return 0
	}
	return float64(systolic)
}

package storage

import (
	"database/sql"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens (creating if needed) the sqlite database at filepath and ensures
// the schema exists. The returned handle serves the ORM side; the underlying
// *sql.DB serves the record store.
func Open(filepath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(filepath), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One interactive user, one connection. This also keeps the
	// exists-check-then-write sequence serialized and makes ":memory:"
	// databases behave (each pooled connection would otherwise get its
	// own empty database).
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the four tables and the per-day uniqueness indexes.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            username TEXT PRIMARY KEY,
            password_hash TEXT NOT NULL,
            salt TEXT NOT NULL,
            name TEXT,
            age INTEGER,
            gender TEXT,
            height REAL,
            target_weight REAL
        );
        CREATE TABLE IF NOT EXISTS health_data (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL,
            date TEXT NOT NULL,
            weight REAL,
            bmi REAL,
            steps INTEGER,
            blood_pressure TEXT,
            heart_rate INTEGER,
            FOREIGN KEY(username) REFERENCES users(username)
        );
        CREATE TABLE IF NOT EXISTS daily_habits (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL,
            date TEXT NOT NULL,
            water_intake INTEGER,
            diet TEXT,
            sleep_hours INTEGER,
            FOREIGN KEY(username) REFERENCES users(username)
        );
        CREATE TABLE IF NOT EXISTS health_goals (
            username TEXT PRIMARY KEY,
            target_weight REAL,
            target_steps INTEGER,
            target_water_intake INTEGER,
            target_sleep_hours INTEGER,
            FOREIGN KEY(username) REFERENCES users(username)
        );
        CREATE UNIQUE INDEX IF NOT EXISTS uidx_health_user_date ON health_data(username, date);
        CREATE UNIQUE INDEX IF NOT EXISTS uidx_habits_user_date ON daily_habits(username, date);
    `)
	return err
}

package main

import (
	"errors"
	"log"
	"time"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/app"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/auth"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/errs"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/storage"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/store"
	"github.com/cih-lian-liao/my-healthcare-buddy/internal/validation"
)

const dbPath = "health_buddy.db"

func main() {
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("database handle: %v", err)
	}
	defer sqlDB.Close()

	authService := auth.New(db, nil)
	core := app.New(store.New(sqlDB), authService)

	// First run gets a known account, like the shipped database did.
	if _, err := authService.Register("test", "test123", "Test User"); err != nil && !errors.Is(err, errs.ErrUserExists) {
		log.Fatalf("create default user: %v", err)
	}

	// Smoke-check the wiring end to end before handing the core to the UI.
	sess, err := core.LogIn("test", "test123")
	if err != nil {
		log.Fatalf("default login: %v", err)
	}
	if _, _, err := core.SelectDate(sess, time.Now().Format(validation.DateLayout)); err != nil {
		log.Fatalf("load today's records: %v", err)
	}

	log.Printf("healthcare buddy core ready for %s (db=%s)", sess.Username, dbPath)
}

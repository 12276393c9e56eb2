package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/kvenegas/tasks-api/config"
)

// Seeds an admin account and a demo user for local development.
// Idempotent: existing emails are left untouched.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	seeds := []struct {
		name, email, password, role string
	}{
		{"Admin", "admin@example.com", "admin123", "admin"},
		{"Demo User", "demo@example.com", "demo123", "user"},
	}

	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password for %s: %v", s.email, err)
		}
		res, err := db.ExecContext(ctx, `
			INSERT INTO users (name, email, password_hash, role)
			VALUES ($1, lower($2), $3, $4)
			ON CONFLICT (email) DO NOTHING`,
			s.name, s.email, string(hash), s.role)
		if err != nil {
			log.Fatalf("seed %s: %v", s.email, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.Printf("created %s (%s)", s.email, s.role)
		} else {
			log.Printf("%s already exists, skipped", s.email)
		}
	}
}

package main

import (
	"database/sql"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ugram-app/backend/config"
	"github.com/ugram-app/backend/internal/domain/clock"
)

type seedUser struct {
	username  string
	email     string
	firstName string
	lastName  string
	phone     string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	clk := clock.System{}
	users := []seedUser{
		{"johndoe", "john.doe@example.com", "John", "Doe", "+15551234567"},
		{"janedoe", "jane.doe@example.com", "Jane", "Doe", ""},
		{"alice_w", "alice.wong@example.com", "Alice", "Wong", "+14165550123"},
		{"bob99", "bob.martin@example.com", "Bob", "Martin", ""},
	}

	for _, u := range users {
		var phone *string
		if u.phone != "" {
			phone = &u.phone
		}
		_, err := db.Exec(`
			INSERT INTO users (id, username, email, first_name, last_name, phone_number, registration_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (username) DO NOTHING
		`, uuid.New(), u.username, u.email, u.firstName, u.lastName, phone, clk.Now())
		if err != nil {
			log.Fatalf("failed to seed user %q: %v", u.username, err)
		}
		log.Printf("seeded user %q", u.username)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/contacthub/backend/internal/config"
	"github.com/contacthub/backend/internal/logging"
	"github.com/contacthub/backend/internal/repository"
)

type seedContact struct {
	firstName, lastName, phoneNumber, email string
}

var seedContacts = []seedContact{
	{"Alice", "Smith", "123-456-7890", "alice.smith@example.com"},
	{"Bob", "Johnson", "234-567-8901", "bob.johnson@example.com"},
	{"Carol", "Williams", "345-678-9012", "carol.williams@example.com"},
	{"David", "Brown", "456-789-0123", "david.brown@example.com"},
	{"Eve", "Jones", "567-890-1234", "eve.jones@example.com"},
	{"Frank", "Garcia", "678-901-2345", "frank.garcia@example.com"},
	{"Grace", "Miller", "789-012-3456", "grace.miller@example.com"},
	{"Henry", "Davis", "890-123-4567", "henry.davis@example.com"},
	{"Ivy", "Rodriguez", "901-234-5678", "ivy.rodriguez@example.com"},
	{"Jack", "Martinez", "012-345-6789", "jack.martinez@example.com"},
	{"Kate", "Hernandez", "111-222-3333", "kate.hernandez@example.com"},
	{"Leo", "Lopez", "222-333-4444", "leo.lopez@example.com"},
	{"Mia", "Gonzalez", "333-444-5555", "mia.gonzalez@example.com"},
	{"Noah", "Wilson", "444-555-6666", "noah.wilson@example.com"},
	{"Olivia", "Anderson", "555-666-7777", "olivia.anderson@example.com"},
	{"Paul", "Thomas", "666-777-8888", "paul.thomas@example.com"},
	{"Quinn", "Taylor", "777-888-9999", "quinn.taylor@example.com"},
	{"Ruby", "Moore", "888-999-0000", "ruby.moore@example.com"},
	{"Sam", "Jackson", "999-000-1111", "sam.jackson@example.com"},
	{"Tina", "Martin", "000-111-2222", "tina.martin@example.com"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	inserted := 0
	for _, c := range seedContacts {
		tag, err := pool.Exec(ctx,
			`INSERT INTO contacts (first_name, last_name, phone_number, email)
			 SELECT $1, $2, $3, $4
			 WHERE NOT EXISTS (SELECT 1 FROM contacts WHERE email = $4)`,
			c.firstName, c.lastName, c.phoneNumber, c.email,
		)
		if err != nil {
			logging.Fatal("seed insert failed", "email", c.email, "error", err)
		}
		inserted += int(tag.RowsAffected())
	}
	slog.Info("seed complete", "inserted", inserted, "total", len(seedContacts))
}

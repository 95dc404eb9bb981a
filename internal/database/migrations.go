package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createBusesTable,
		createTicketsTable,
		createTicketHistoryTable,
		createActiveSeatIndex,
		createTicketsUserIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(150) UNIQUE NOT NULL,
    password_hash VARCHAR(256) NOT NULL,
    salt VARCHAR(64) NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    wallet BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (wallet >= 0)
);`

const createBusesTable = `
CREATE TABLE IF NOT EXISTS buses (
    id SERIAL PRIMARY KEY,
    route VARCHAR(255) NOT NULL,
    route_description TEXT,
    total_seats INTEGER NOT NULL,
    seats_available INTEGER NOT NULL,
    price BIGINT NOT NULL DEFAULT 100,
    departure_time TIME,
    arrival_time TIME,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (total_seats >= 1),
    CHECK (seats_available >= 0 AND seats_available <= total_seats),
    CHECK (price >= 0)
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id SERIAL PRIMARY KEY,
    ticket_no VARCHAR(64) UNIQUE NOT NULL,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    bus_id INTEGER NOT NULL REFERENCES buses(id) ON DELETE CASCADE,
    seat_no INTEGER NOT NULL,
    price_paid BIGINT NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
    booked_at TIMESTAMP NOT NULL DEFAULT NOW(),
    travel_date DATE,

    CHECK (status IN ('ACTIVE', 'CANCELLED')),
    CHECK (seat_no >= 1)
);`

const createTicketHistoryTable = `
CREATE TABLE IF NOT EXISTS ticket_history (
    id SERIAL PRIMARY KEY,
    ticket_id INTEGER NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
    action VARCHAR(50) NOT NULL,
    note TEXT,
    performed_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

// Store-level backstop for seat uniqueness: two ACTIVE tickets can never
// share a seat on a bus even if application locking is bypassed.
const createActiveSeatIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS tickets_active_seat_idx
ON tickets (bus_id, seat_no)
WHERE status = 'ACTIVE';`

const createTicketsUserIndex = `
CREATE INDEX IF NOT EXISTS tickets_user_idx
ON tickets (user_id, booked_at DESC);`

// SeedSampleData inserts the default admin and sample buses when the
// corresponding tables are empty. The admin password hash corresponds
// to "admin123" under PBKDF2-SHA256 with the stored salt.
func (db *DB) SeedSampleData(adminHash, adminSalt string) error {
	var adminCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE is_admin = TRUE`).Scan(&adminCount); err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if adminCount == 0 {
		_, err := db.Exec(
			`INSERT INTO users (username, password_hash, salt, is_admin, wallet) VALUES ($1, $2, $3, TRUE, 0)`,
			"admin", adminHash, adminSalt)
		if err != nil {
			return fmt.Errorf("failed to create default admin: %w", err)
		}
		slog.Info("Default admin created", "username", "admin")
	}

	var busCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM buses`).Scan(&busCount); err != nil {
		return fmt.Errorf("failed to check buses: %w", err)
	}
	if busCount > 0 {
		return nil
	}

	samples := []struct {
		route, desc    string
		seats          int
		price          int64
		depart, arrive string
	}{
		{"Bhopal → Indore", "Express via NH46", 40, 250, "06:00:00", "09:00:00"},
		{"Bhopal → Mumbai", "Overnight Volvo", 50, 1200, "22:00:00", "08:00:00"},
		{"Delhi → Jaipur", "AC Deluxe", 35, 350, "07:00:00", "11:00:00"},
		{"Mumbai → Pune", "Frequent", 45, 300, "09:00:00", "11:30:00"},
		{"Hyderabad → Bangalore", "Comfort Coach", 40, 700, "06:30:00", "11:00:00"},
	}

	for _, s := range samples {
		_, err := db.Exec(`
			INSERT INTO buses (route, route_description, total_seats, seats_available, price, departure_time, arrival_time)
			VALUES ($1, $2, $3, $3, $4, $5, $6)`,
			s.route, s.desc, s.seats, s.price, s.depart, s.arrive)
		if err != nil {
			return fmt.Errorf("failed to insert sample bus: %w", err)
		}
	}

	slog.Info("Sample buses inserted", "count", len(samples))
	return nil
}

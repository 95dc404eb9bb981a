package repository

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"

	"sawari/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectTestDB connects to the database named by TEST_DB_* variables,
// or skips the test when TEST_DB_HOST is unset.
func connectTestDB(t *testing.T) *database.DB {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping integration test")
	}

	port := 5432
	if raw := os.Getenv("TEST_DB_PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		require.NoError(t, err)
		port = p
	}

	db, err := database.Connect(database.Config{
		Host:         host,
		Port:         port,
		User:         envOr("TEST_DB_USER", "sawari"),
		Password:     envOr("TEST_DB_PASSWORD", "sawari123"),
		DBName:       envOr("TEST_DB_NAME", "sawari_test"),
		SSLMode:      "disable",
		MaxOpenConns: 20,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TestConcurrentBookingNeverOversells hammers a small bus from many
// goroutines and verifies exactly capacity bookings succeed, each on a
// distinct seat.
func TestConcurrentBookingNeverOversells(t *testing.T) {
	db := connectTestDB(t)
	ctx := context.Background()

	const seats = 5
	const attempts = 30

	var busID int64
	require.NoError(t, db.QueryRow(`
		INSERT INTO buses (route, total_seats, seats_available, price)
		VALUES ('Race → Track', $1, $1, 100)
		RETURNING id`, seats).Scan(&busID))
	t.Cleanup(func() {
		db.Exec(`DELETE FROM buses WHERE id = $1`, busID)
	})

	userIDs := make([]int64, attempts)
	for i := range userIDs {
		require.NoError(t, db.QueryRow(`
			INSERT INTO users (username, password_hash, salt, wallet)
			VALUES ($1, 'x', 'x', 1000)
			RETURNING id`, fmt.Sprintf("racer-%d-%d", busID, i)).Scan(&userIDs[i]))
	}
	t.Cleanup(func() {
		for _, id := range userIDs {
			db.Exec(`DELETE FROM users WHERE id = $1`, id)
		}
	})

	repo := NewTicketRepository(db)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := repo.Book(ctx, BookParams{
				UserID:        userID,
				BusID:         busID,
				SeatNo:        seatAuto,
				PayFromWallet: true,
			})
			results <- err
		}(userIDs[i])
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, seats, succeeded)

	var available, distinctSeats, active int
	require.NoError(t, db.QueryRow(
		`SELECT seats_available FROM buses WHERE id = $1`, busID).Scan(&available))
	require.NoError(t, db.QueryRow(`
		SELECT COUNT(DISTINCT seat_no), COUNT(*)
		FROM tickets WHERE bus_id = $1 AND status = 'ACTIVE'`,
		busID).Scan(&distinctSeats, &active))

	assert.Equal(t, 0, available)
	assert.Equal(t, seats, active)
	assert.Equal(t, seats, distinctSeats)
}

package service

import (
	"context"
	"testing"
	"time"

	"sawari/internal/database"
	"sawari/internal/messaging"
	"sawari/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBusService(t *testing.T) (*BusService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := &database.DB{DB: db}
	return NewBusService(
		repository.NewBusRepository(wrapped),
		repository.NewTicketRepository(wrapped),
		&messaging.NATSClient{}, nil, nil), mock
}

func TestSeatMapMarksOccupiedSeats(t *testing.T) {
	svc, mock := newMockBusService(t)

	mock.ExpectQuery("SELECT id, route").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route", "route_description", "total_seats", "seats_available",
			"price", "departure_time", "arrival_time", "created_at"}).
			AddRow(int64(3), "Delhi → Jaipur", nil, 8, 6, int64(350), nil, nil, time.Now()))
	mock.ExpectQuery("SELECT seat_no FROM tickets").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(2).AddRow(5))

	seatMap, err := svc.SeatMap(context.Background(), 3)
	require.NoError(t, err)

	assert.Contains(t, seatMap, "Bus 3 seat map (6/8 available)")
	assert.Contains(t, seatMap, "[ X]")
	assert.Contains(t, seatMap, "[ 1]")
	assert.NotContains(t, seatMap, "[ 2]")
	assert.Contains(t, seatMap, "[ 8]")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityReportsOccupancy(t *testing.T) {
	svc, mock := newMockBusService(t)

	mock.ExpectQuery("SELECT id, route").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route", "route_description", "total_seats", "seats_available",
			"price", "departure_time", "arrival_time", "created_at"}).
			AddRow(int64(3), "Delhi → Jaipur", nil, 35, 33, int64(350), nil, nil, time.Now()))
	mock.ExpectQuery("SELECT seat_no FROM tickets").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(1).AddRow(4))

	resp, err := svc.Availability(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 35, resp.TotalSeats)
	assert.Equal(t, 33, resp.SeatsAvailable)
	assert.Equal(t, []int{1, 4}, resp.OccupiedSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

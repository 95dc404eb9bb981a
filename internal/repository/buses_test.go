package repository

import (
	"context"
	"testing"
	"time"

	"sawari/internal/database"
	apperrors "sawari/internal/errors"
	"sawari/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBusRepo(t *testing.T) (*BusRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBusRepository(&database.DB{DB: db}), mock
}

func busRows(id int64, route string, total, available int, price int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "route", "route_description", "total_seats", "seats_available",
		"price", "departure_time", "arrival_time", "created_at"}).
		AddRow(id, route, nil, total, available, price, nil, nil, time.Now())
}

func TestUpdateResizeRecomputesAvailability(t *testing.T) {
	repo, mock := newMockBusRepo(t)

	newTotal := 45
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_seats, seats_available FROM buses").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats", "seats_available"}).
			AddRow(40, 10))
	mock.ExpectExec("UPDATE buses SET total_seats").
		WithArgs(45, 15, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, route").
		WithArgs(int64(3)).
		WillReturnRows(busRows(3, "Delhi → Jaipur", 45, 15, 350))
	mock.ExpectCommit()

	bus, err := repo.Update(context.Background(), 3, &models.UpdateBusRequest{
		TotalSeats: &newTotal,
	})
	require.NoError(t, err)

	assert.Equal(t, 45, bus.TotalSeats)
	assert.Equal(t, 15, bus.SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectsShrinkBelowBooked(t *testing.T) {
	repo, mock := newMockBusRepo(t)

	// 38 of 40 seats booked; shrinking to 30 would strand 8 tickets.
	newTotal := 30
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_seats, seats_available FROM buses").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats", "seats_available"}).
			AddRow(40, 2))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 3, &models.UpdateBusRequest{
		TotalSeats: &newTotal,
	})
	assert.ErrorIs(t, err, apperrors.ErrCapacityBelowBooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePriceLeavesAvailabilityAlone(t *testing.T) {
	repo, mock := newMockBusRepo(t)

	newPrice := int64(500)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_seats, seats_available FROM buses").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats", "seats_available"}).
			AddRow(40, 10))
	mock.ExpectExec("UPDATE buses SET price").
		WithArgs(int64(500), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, route").
		WithArgs(int64(3)).
		WillReturnRows(busRows(3, "Delhi → Jaipur", 40, 10, 500))
	mock.ExpectCommit()

	bus, err := repo.Update(context.Background(), 3, &models.UpdateBusRequest{
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(500), bus.Price)
	assert.Equal(t, 10, bus.SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBusNotFound(t *testing.T) {
	repo, mock := newMockBusRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_seats, seats_available FROM buses").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"total_seats", "seats_available"}))
	mock.ExpectRollback()

	route := "nowhere"
	_, err := repo.Update(context.Background(), 99, &models.UpdateBusRequest{Route: &route})
	assert.ErrorIs(t, err, apperrors.ErrBusNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBusNotFound(t *testing.T) {
	repo, mock := newMockBusRepo(t)

	mock.ExpectExec("DELETE FROM buses").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrBusNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchBuildsFilters(t *testing.T) {
	repo, mock := newMockBusRepo(t)

	minAvail := 2
	priceMax := int64(400)
	mock.ExpectQuery("SELECT id, route").
		WithArgs("%jaipur%", 2, int64(400)).
		WillReturnRows(busRows(3, "Delhi → Jaipur", 35, 12, 350))

	buses, err := repo.Search(context.Background(), models.SearchBusesQuery{
		RouteTerm:    "jaipur",
		MinAvailable: &minAvail,
		PriceMax:     &priceMax,
	})
	require.NoError(t, err)
	require.Len(t, buses, 1)
	assert.Equal(t, "Delhi → Jaipur", buses[0].Route)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStartsFull(t *testing.T) {
	repo, mock := newMockBusRepo(t)

	mock.ExpectQuery("INSERT INTO buses").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seats_available", "created_at"}).
			AddRow(int64(6), 44, time.Now()))

	bus := &models.Bus{Route: "Pune → Goa", TotalSeats: 44, Price: 900}
	err := repo.Create(context.Background(), bus)
	require.NoError(t, err)

	assert.Equal(t, int64(6), bus.ID)
	assert.Equal(t, 44, bus.SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

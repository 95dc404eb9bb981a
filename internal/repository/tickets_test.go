package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"sawari/internal/database"
	apperrors "sawari/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*TicketRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTicketRepository(&database.DB{DB: db}), mock
}

func expectBusLock(mock sqlmock.Sqlmock, total, available int, price int64, route string) {
	mock.ExpectQuery("SELECT total_seats, seats_available, price, route").
		WillReturnRows(sqlmock.NewRows(
			[]string{"total_seats", "seats_available", "price", "route"}).
			AddRow(total, available, price, route))
}

func expectOccupiedSeats(mock sqlmock.Sqlmock, seats ...int) {
	rows := sqlmock.NewRows([]string{"seat_no"})
	for _, s := range seats {
		rows.AddRow(s)
	}
	mock.ExpectQuery("SELECT seat_no FROM tickets").WillReturnRows(rows)
}

func TestBookAutoSeatWithWallet(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectBusLock(mock, 40, 38, 250, "Bhopal → Indore")
	expectOccupiedSeats(mock, 1, 2)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET wallet = wallet - $1 WHERE id = $2 AND wallet >= $1`)).
		WithArgs(int64(250), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO tickets").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booked_at"}).
			AddRow(int64(11), time.Now()))
	mock.ExpectExec("UPDATE buses SET seats_available = seats_available - 1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Book(context.Background(), BookParams{
		UserID:        7,
		BusID:         3,
		SeatNo:        seatAuto,
		PayFromWallet: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Ticket.SeatNo)
	assert.Equal(t, int64(250), result.Ticket.PricePaid)
	assert.Equal(t, "Bhopal → Indore", result.Route)
	assert.Equal(t, int64(11), result.Ticket.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookBusNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_seats, seats_available, price, route").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), BookParams{UserID: 1, BusID: 99})
	assert.ErrorIs(t, err, apperrors.ErrBusNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookNoSeatsAvailable(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectBusLock(mock, 40, 0, 250, "Bhopal → Indore")
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), BookParams{UserID: 1, BusID: 3})
	assert.ErrorIs(t, err, apperrors.ErrNoSeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSpecificSeatTaken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectBusLock(mock, 40, 39, 250, "Bhopal → Indore")
	expectOccupiedSeats(mock, 5)
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), BookParams{UserID: 1, BusID: 3, SeatNo: 5})
	assert.ErrorIs(t, err, apperrors.ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInsufficientFunds(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectBusLock(mock, 40, 40, 1200, "Bhopal → Mumbai")
	expectOccupiedSeats(mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET wallet = wallet - $1 WHERE id = $2 AND wallet >= $1`)).
		WithArgs(int64(1200), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), BookParams{
		UserID:        7,
		BusID:         2,
		PayFromWallet: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookUnknownUserWallet(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	expectBusLock(mock, 40, 40, 300, "Mumbai → Pune")
	expectOccupiedSeats(mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET wallet = wallet - $1 WHERE id = $2 AND wallet >= $1`)).
		WithArgs(int64(300), int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), BookParams{
		UserID:        404,
		BusID:         4,
		PayFromWallet: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRefundsFrozenPrice(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ticket_no, bus_id, price_paid, status").
		WithArgs(int64(11), int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"ticket_no", "bus_id", "price_paid", "status"}).
			AddRow("TABCDEF1234", int64(3), int64(250), "ACTIVE"))
	mock.ExpectQuery("SELECT id FROM buses").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec("UPDATE tickets SET status = 'CANCELLED'").
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET wallet = wallet + $1 WHERE id = $2 RETURNING wallet`)).
		WithArgs(int64(250), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet"}).AddRow(int64(750)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE buses SET seats_available = seats_available + 1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO ticket_history").
		WithArgs(int64(11), "CANCELLED", "User cancelled, refunded to wallet").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result, err := repo.Cancel(context.Background(), 7, 11)
	require.NoError(t, err)

	assert.Equal(t, int64(250), result.Refunded)
	assert.Equal(t, int64(750), result.Wallet)
	assert.Equal(t, "TABCDEF1234", result.TicketNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAlreadyCancelled(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ticket_no, bus_id, price_paid, status").
		WithArgs(int64(11), int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"ticket_no", "bus_id", "price_paid", "status"}).
			AddRow("TABCDEF1234", int64(3), int64(250), "CANCELLED"))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 7, 11)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelForeignTicketNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ticket_no, bus_id, price_paid, status").
		WithArgs(int64(11), int64(8)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 8, 11)
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

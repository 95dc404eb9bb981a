package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sawari/internal/database"
	apperrors "sawari/internal/errors"
	"sawari/internal/models"

	"github.com/google/uuid"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// generateTicketNo returns an opaque external-facing ticket number. The
// UNIQUE constraint on tickets.ticket_no backstops collisions.
func generateTicketNo() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "T" + strings.ToUpper(hex[:10])
}

// BookParams are the inputs of a booking transaction.
type BookParams struct {
	UserID        int64
	BusID         int64
	SeatNo        int // 0 auto-assigns the lowest free seat
	TravelDate    *time.Time
	PayFromWallet bool
}

// BookResult is the committed outcome of a booking.
type BookResult struct {
	Ticket models.Ticket
	Route  string
}

// Book issues a seat on a bus as one atomic unit: the bus row is locked
// for the duration of availability check, seat resolution, wallet debit,
// ticket insert and availability decrement. On any error nothing is
// persisted.
func (r *TicketRepository) Book(ctx context.Context, p BookParams) (*BookResult, error) {
	var result BookResult

	err := r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		var totalSeats, seatsAvailable int
		var price int64
		var route string
		err := tx.QueryRowContext(ctx, `
			SELECT total_seats, seats_available, price, route
			FROM buses
			WHERE id = $1
			FOR UPDATE`, p.BusID).Scan(&totalSeats, &seatsAvailable, &price, &route)
		if err == sql.ErrNoRows {
			return apperrors.ErrBusNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock bus row: %w", err)
		}

		// Fast-path rejection before the seat search.
		if seatsAvailable <= 0 {
			return apperrors.ErrNoSeatsAvailable
		}

		occupied, err := occupiedSeatsTx(ctx, tx, p.BusID)
		if err != nil {
			return fmt.Errorf("failed to read occupied seats: %w", err)
		}

		seatNo, err := allocateSeat(totalSeats, occupied, p.SeatNo)
		if err != nil {
			return err
		}

		if p.PayFromWallet {
			if err := debitWalletTx(ctx, tx, p.UserID, price); err != nil {
				return err
			}
		}

		ticket := models.Ticket{
			TicketNo:   generateTicketNo(),
			UserID:     p.UserID,
			BusID:      p.BusID,
			SeatNo:     seatNo,
			PricePaid:  price,
			Status:     models.TicketStatusActive,
			TravelDate: p.TravelDate,
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO tickets (ticket_no, user_id, bus_id, seat_no, price_paid, status, travel_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, booked_at`,
			ticket.TicketNo, ticket.UserID, ticket.BusID, ticket.SeatNo,
			ticket.PricePaid, ticket.Status, ticket.TravelDate,
		).Scan(&ticket.ID, &ticket.BookedAt)
		if err != nil {
			// The partial unique index rejects a duplicate ACTIVE seat
			// even if the row lock discipline was somehow bypassed.
			if apperrors.IsUniqueViolation(err, "tickets_active_seat_idx") {
				return apperrors.ErrSeatUnavailable
			}
			return fmt.Errorf("failed to insert ticket: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE buses SET seats_available = seats_available - 1 WHERE id = $1`, p.BusID)
		if err != nil {
			return fmt.Errorf("failed to decrement availability: %w", err)
		}

		result = BookResult{Ticket: ticket, Route: route}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// debitWalletTx debits a wallet by amount inside the caller's
// transaction. The conditional update makes the balance check and the
// debit a single atomic statement, so concurrent debits can never drive
// the wallet negative.
func debitWalletTx(ctx context.Context, tx *sql.Tx, userID int64, amount int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET wallet = wallet - $1 WHERE id = $2 AND wallet >= $1`,
		amount, userID)
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrInsufficientFunds
	}
	return nil
}

// CancelResult is the committed outcome of a cancellation.
type CancelResult struct {
	TicketID int64
	TicketNo string
	BusID    int64
	Refunded int64
	Wallet   int64
}

// Cancel transitions a ticket to CANCELLED, refunds the frozen
// price_paid, restores the seat and appends the audit row, all in one
// transaction. The refund is the price paid at booking time, never the
// bus's current price.
func (r *TicketRepository) Cancel(ctx context.Context, userID, ticketID int64) (*CancelResult, error) {
	var result CancelResult

	err := r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		var ticketNo, status string
		var busID int64
		var pricePaid int64
		err := tx.QueryRowContext(ctx, `
			SELECT ticket_no, bus_id, price_paid, status
			FROM tickets
			WHERE id = $1 AND user_id = $2
			FOR UPDATE`, ticketID, userID).Scan(&ticketNo, &busID, &pricePaid, &status)
		if err == sql.ErrNoRows {
			return apperrors.ErrTicketNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock ticket row: %w", err)
		}

		if status == models.TicketStatusCancelled {
			return apperrors.ErrAlreadyCancelled
		}

		// Same bus-then-wallet lock order as booking.
		var busExists int64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM buses WHERE id = $1 FOR UPDATE`, busID).Scan(&busExists)
		if err != nil {
			return fmt.Errorf("failed to lock bus row: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE tickets SET status = 'CANCELLED' WHERE id = $1`, ticketID)
		if err != nil {
			return fmt.Errorf("failed to cancel ticket: %w", err)
		}

		var wallet int64
		err = tx.QueryRowContext(ctx,
			`UPDATE users SET wallet = wallet + $1 WHERE id = $2 RETURNING wallet`,
			pricePaid, userID).Scan(&wallet)
		if err != nil {
			return fmt.Errorf("failed to refund wallet: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE buses SET seats_available = seats_available + 1 WHERE id = $1`, busID)
		if err != nil {
			return fmt.Errorf("failed to restore availability: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO ticket_history (ticket_id, action, note) VALUES ($1, $2, $3)`,
			ticketID, "CANCELLED", "User cancelled, refunded to wallet")
		if err != nil {
			return fmt.Errorf("failed to append ticket history: %w", err)
		}

		result = CancelResult{
			TicketID: ticketID,
			TicketNo: ticketNo,
			BusID:    busID,
			Refunded: pricePaid,
			Wallet:   wallet,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByUser returns a user's tickets joined with their routes, newest
// first.
func (r *TicketRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserTicketItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.ticket_no, b.route, t.seat_no, t.price_paid, t.status, t.booked_at, t.travel_date
		FROM tickets t
		JOIN buses b ON t.bus_id = b.id
		WHERE t.user_id = $1
		ORDER BY t.booked_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.UserTicketItem
	for rows.Next() {
		var item models.UserTicketItem
		var bookedAt time.Time
		var travelDate *time.Time
		err := rows.Scan(
			&item.ID,
			&item.TicketNo,
			&item.Route,
			&item.SeatNo,
			&item.PricePaid,
			&item.Status,
			&bookedAt,
			&travelDate,
		)
		if err != nil {
			return nil, err
		}
		item.BookedAt = bookedAt.Format(time.RFC3339)
		if travelDate != nil {
			item.TravelDate = travelDate.Format("2006-01-02")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListAll returns every ticket with its owner and route, newest first.
func (r *TicketRepository) ListAll(ctx context.Context) ([]models.AdminTicketItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.ticket_no, u.username, b.route, t.seat_no, t.price_paid, t.status, t.booked_at
		FROM tickets t
		JOIN users u ON t.user_id = u.id
		JOIN buses b ON t.bus_id = b.id
		ORDER BY t.booked_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.AdminTicketItem
	for rows.Next() {
		var item models.AdminTicketItem
		var bookedAt time.Time
		err := rows.Scan(
			&item.ID,
			&item.TicketNo,
			&item.Username,
			&item.Route,
			&item.SeatNo,
			&item.PricePaid,
			&item.Status,
			&bookedAt,
		)
		if err != nil {
			return nil, err
		}
		item.BookedAt = bookedAt.Format(time.RFC3339)
		items = append(items, item)
	}
	return items, rows.Err()
}

package repository

import (
	"context"
	"database/sql"

	apperrors "sawari/internal/errors"
)

// seatAuto requests the lowest-numbered free seat instead of a specific one.
const seatAuto = 0

// allocateSeat resolves a seat request against the current occupancy of a
// bus. Callers must hold the bus row lock so that the occupied set cannot
// change before the ticket insert.
func allocateSeat(totalSeats int, occupied map[int]bool, requested int) (int, error) {
	if requested == seatAuto {
		for s := 1; s <= totalSeats; s++ {
			if !occupied[s] {
				return s, nil
			}
		}
		return 0, apperrors.ErrNoCapacity
	}
	if requested < 1 || requested > totalSeats {
		return 0, apperrors.ErrSeatUnavailable
	}
	if occupied[requested] {
		return 0, apperrors.ErrSeatUnavailable
	}
	return requested, nil
}

// occupiedSeatsTx reads the ACTIVE seat numbers for a bus within the
// caller's transaction.
func occupiedSeatsTx(ctx context.Context, tx *sql.Tx, busID int64) (map[int]bool, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_no FROM tickets WHERE bus_id = $1 AND status = 'ACTIVE'`, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occupied := make(map[int]bool)
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		occupied[seat] = true
	}
	return occupied, rows.Err()
}

// OccupiedSeats returns the sorted ACTIVE seat numbers for a bus. This is
// a point-in-time read for presentation; booking re-reads under the lock.
func (r *TicketRepository) OccupiedSeats(ctx context.Context, busID int64) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seat_no FROM tickets WHERE bus_id = $1 AND status = 'ACTIVE' ORDER BY seat_no`, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []int
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

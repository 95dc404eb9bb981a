package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sawari/internal/database"
	apperrors "sawari/internal/errors"
	"sawari/internal/models"
)

type BusRepository struct {
	db *database.DB
}

func NewBusRepository(db *database.DB) *BusRepository {
	return &BusRepository{db: db}
}

const busColumns = `id, route, route_description, total_seats, seats_available, price, departure_time, arrival_time, created_at`

func scanBus(row interface{ Scan(...any) error }, bus *models.Bus) error {
	return row.Scan(
		&bus.ID,
		&bus.Route,
		&bus.Description,
		&bus.TotalSeats,
		&bus.SeatsAvailable,
		&bus.Price,
		&bus.DepartureTime,
		&bus.ArrivalTime,
		&bus.CreatedAt,
	)
}

// Create inserts a bus; availability starts equal to capacity.
func (r *BusRepository) Create(ctx context.Context, bus *models.Bus) error {
	query := `
		INSERT INTO buses (route, route_description, total_seats, seats_available, price, departure_time, arrival_time)
		VALUES ($1, $2, $3, $3, $4, $5, $6)
		RETURNING id, seats_available, created_at`

	return r.db.QueryRowContext(ctx, query,
		bus.Route,
		bus.Description,
		bus.TotalSeats,
		bus.Price,
		bus.DepartureTime,
		bus.ArrivalTime,
	).Scan(&bus.ID, &bus.SeatsAvailable, &bus.CreatedAt)
}

func (r *BusRepository) GetByID(ctx context.Context, id int64) (*models.Bus, error) {
	bus := &models.Bus{}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+busColumns+` FROM buses WHERE id = $1`, id)

	err := scanBus(row, bus)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return bus, err
}

func (r *BusRepository) List(ctx context.Context) ([]models.Bus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+busColumns+` FROM buses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []models.Bus
	for rows.Next() {
		var bus models.Bus
		if err := scanBus(rows, &bus); err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}
	return buses, rows.Err()
}

// Search filters buses by route term, minimum availability and price
// range. This is the SQL fallback used when Elasticsearch is disabled.
func (r *BusRepository) Search(ctx context.Context, q models.SearchBusesQuery) ([]models.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses WHERE 1=1`
	var args []interface{}
	argIndex := 1

	if q.RouteTerm != "" {
		query += fmt.Sprintf(" AND route ILIKE $%d", argIndex)
		args = append(args, "%"+q.RouteTerm+"%")
		argIndex++
	}
	if q.MinAvailable != nil {
		query += fmt.Sprintf(" AND seats_available >= $%d", argIndex)
		args = append(args, *q.MinAvailable)
		argIndex++
	}
	if q.PriceMin != nil {
		query += fmt.Sprintf(" AND price >= $%d", argIndex)
		args = append(args, *q.PriceMin)
		argIndex++
	}
	if q.PriceMax != nil {
		query += fmt.Sprintf(" AND price <= $%d", argIndex)
		args = append(args, *q.PriceMax)
		argIndex++
	}

	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []models.Bus
	for rows.Next() {
		var bus models.Bus
		if err := scanBus(rows, &bus); err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}
	return buses, rows.Err()
}

// Update applies the non-capacity field changes of req and, when
// TotalSeats is set, resizes capacity under the bus row lock. The resize
// recomputes availability as old_available + (new_total - old_total) and
// rejects a shrink below the number of active bookings.
func (r *BusRepository) Update(ctx context.Context, id int64, req *models.UpdateBusRequest) (*models.Bus, error) {
	var updated models.Bus

	err := r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		var oldTotal, oldAvailable int
		err := tx.QueryRowContext(ctx,
			`SELECT total_seats, seats_available FROM buses WHERE id = $1 FOR UPDATE`,
			id).Scan(&oldTotal, &oldAvailable)
		if err == sql.ErrNoRows {
			return apperrors.ErrBusNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock bus row: %w", err)
		}

		if req.Route != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE buses SET route = $1 WHERE id = $2`, *req.Route, id); err != nil {
				return err
			}
		}
		if req.Description != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE buses SET route_description = $1 WHERE id = $2`, *req.Description, id); err != nil {
				return err
			}
		}
		if req.Price != nil {
			// Issued tickets keep their frozen price_paid; only future
			// bookings see the new price.
			if _, err := tx.ExecContext(ctx, `UPDATE buses SET price = $1 WHERE id = $2`, *req.Price, id); err != nil {
				return err
			}
		}
		if req.DepartureTime != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE buses SET departure_time = $1 WHERE id = $2`, *req.DepartureTime, id); err != nil {
				return err
			}
		}
		if req.ArrivalTime != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE buses SET arrival_time = $1 WHERE id = $2`, *req.ArrivalTime, id); err != nil {
				return err
			}
		}
		if req.TotalSeats != nil {
			newAvailable := oldAvailable + (*req.TotalSeats - oldTotal)
			if newAvailable < 0 {
				return apperrors.ErrCapacityBelowBooked
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE buses SET total_seats = $1, seats_available = $2 WHERE id = $3`,
				*req.TotalSeats, newAvailable, id); err != nil {
				return err
			}
		}

		row := tx.QueryRowContext(ctx, `SELECT `+busColumns+` FROM buses WHERE id = $1`, id)
		return scanBus(row, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a bus. Foreign keys cascade the ticket removal; no
// refunds are issued.
func (r *BusRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrBusNotFound
	}
	return nil
}

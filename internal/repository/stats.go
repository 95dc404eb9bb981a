package repository

import (
	"context"
	"database/sql"

	"sawari/internal/models"
)

// Stats aggregates system-wide counters. Revenue and ticket counts only
// consider ACTIVE tickets, matching the capacity invariant.
func (r *TicketRepository) Stats(ctx context.Context) (*models.StatsResponse, error) {
	stats := &models.StatsResponse{}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM buses),
			(SELECT COUNT(*) FROM tickets WHERE status = 'ACTIVE'),
			(SELECT COALESCE(SUM(price_paid), 0) FROM tickets WHERE status = 'ACTIVE')`,
	).Scan(&stats.TotalUsers, &stats.TotalBuses, &stats.TotalTickets, &stats.Revenue)
	if err != nil {
		return nil, err
	}

	var topRoute string
	err = r.db.QueryRowContext(ctx, `
		SELECT b.route
		FROM tickets t
		JOIN buses b ON t.bus_id = b.id
		WHERE t.status = 'ACTIVE'
		GROUP BY b.route
		ORDER BY COUNT(*) DESC
		LIMIT 1`).Scan(&topRoute)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if err == nil {
		stats.TopRoute = &topRoute
	}

	return stats, nil
}

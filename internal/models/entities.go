package models

import (
	"time"
)

// Ticket lifecycle states. The transition is one-way: ACTIVE -> CANCELLED.
const (
	TicketStatusActive    = "ACTIVE"
	TicketStatusCancelled = "CANCELLED"
)

// User represents a user in the system. Wallet is an integer balance in
// currency units, never negative.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Salt         string    `json:"-" db:"salt"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	Wallet       int64     `json:"wallet" db:"wallet"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Bus represents a bus with fixed seat capacity. SeatsAvailable always
// equals TotalSeats minus the count of ACTIVE tickets for the bus.
type Bus struct {
	ID             int64     `json:"id" db:"id"`
	Route          string    `json:"route" db:"route"`
	Description    *string   `json:"description" db:"route_description"`
	TotalSeats     int       `json:"total_seats" db:"total_seats"`
	SeatsAvailable int       `json:"seats_available" db:"seats_available"`
	Price          int64     `json:"price" db:"price"`
	DepartureTime  *string   `json:"departure_time" db:"departure_time"`
	ArrivalTime    *string   `json:"arrival_time" db:"arrival_time"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Ticket represents an issued seat. PricePaid is frozen at booking time;
// later price edits to the bus never change it.
type Ticket struct {
	ID         int64      `json:"id" db:"id"`
	TicketNo   string     `json:"ticket_no" db:"ticket_no"`
	UserID     int64      `json:"user_id" db:"user_id"`
	BusID      int64      `json:"bus_id" db:"bus_id"`
	SeatNo     int        `json:"seat_no" db:"seat_no"`
	PricePaid  int64      `json:"price_paid" db:"price_paid"`
	Status     string     `json:"status" db:"status"`
	BookedAt   time.Time  `json:"booked_at" db:"booked_at"`
	TravelDate *time.Time `json:"travel_date,omitempty" db:"travel_date"`
}

// TicketHistory is an append-only audit record for ticket lifecycle
// actions.
type TicketHistory struct {
	ID          int64     `json:"id" db:"id"`
	TicketID    int64     `json:"ticket_id" db:"ticket_id"`
	Action      string    `json:"action" db:"action"`
	Note        string    `json:"note" db:"note"`
	PerformedAt time.Time `json:"performed_at" db:"performed_at"`
}

package models

import "time"

// NATS subjects for ticket lifecycle events. Published after the owning
// transaction commits; consumers must tolerate duplicates.
const (
	EventTicketBooked    = "ticket.booked"
	EventTicketCancelled = "ticket.cancelled"
	EventWalletCredited  = "wallet.credited"
	EventBusCreated      = "bus.created"
	EventBusUpdated      = "bus.updated"
	EventBusDeleted      = "bus.deleted"
)

// TicketBookedEvent carries everything the receipt writer needs, so
// consumers do not have to read the store.
type TicketBookedEvent struct {
	TicketID   int64     `json:"ticket_id"`
	TicketNo   string    `json:"ticket_no"`
	UserID     int64     `json:"user_id"`
	BusID      int64     `json:"bus_id"`
	Route      string    `json:"route"`
	SeatNo     int       `json:"seat_no"`
	PricePaid  int64     `json:"price_paid"`
	TravelDate string    `json:"travel_date,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// TicketCancelledEvent records a cancellation and its refund.
type TicketCancelledEvent struct {
	TicketID  int64     `json:"ticket_id"`
	TicketNo  string    `json:"ticket_no"`
	UserID    int64     `json:"user_id"`
	BusID     int64     `json:"bus_id"`
	Refunded  int64     `json:"refunded"`
	Timestamp time.Time `json:"timestamp"`
}

// WalletCreditedEvent records an external funds addition.
type WalletCreditedEvent struct {
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// BusChangedEvent records inventory mutations.
type BusChangedEvent struct {
	BusID     int64     `json:"bus_id"`
	Route     string    `json:"route"`
	Timestamp time.Time `json:"timestamp"`
}

package models

// CreateTicketRequest books a seat on a bus. SeatNo 0 means auto-assign
// the lowest free seat. TravelDate uses YYYY-MM-DD.
type CreateTicketRequest struct {
	BusID         int64  `json:"bus_id" binding:"required"`
	SeatNo        int    `json:"seat_no"`
	TravelDate    string `json:"travel_date,omitempty"`
	PayFromWallet bool   `json:"pay_from_wallet"`
}

// CreateTicketResponse is returned on a successful booking.
type CreateTicketResponse struct {
	TicketID   int64  `json:"ticket_id"`
	TicketNo   string `json:"ticket_no"`
	BusID      int64  `json:"bus_id"`
	SeatNo     int    `json:"seat_no"`
	PricePaid  int64  `json:"price_paid"`
	TravelDate string `json:"travel_date,omitempty"`
}

// CancelTicketRequest cancels an ACTIVE ticket owned by the caller.
type CancelTicketRequest struct {
	TicketID int64 `json:"ticket_id" binding:"required"`
}

// CancelTicketResponse confirms the cancellation and refund.
type CancelTicketResponse struct {
	TicketID int64  `json:"ticket_id"`
	Refunded int64  `json:"refunded"`
	Wallet   int64  `json:"wallet"`
	Message  string `json:"message"`
}

// UserTicketItem is a ticket joined with its bus route for listing.
type UserTicketItem struct {
	ID         int64  `json:"id"`
	TicketNo   string `json:"ticket_no"`
	Route      string `json:"route"`
	SeatNo     int    `json:"seat_no"`
	PricePaid  int64  `json:"price_paid"`
	Status     string `json:"status"`
	BookedAt   string `json:"booked_at"`
	TravelDate string `json:"travel_date,omitempty"`
}

// AvailabilityResponse reports the seat inventory for a bus at one
// observed instant.
type AvailabilityResponse struct {
	BusID          int64 `json:"bus_id"`
	TotalSeats     int   `json:"total_seats"`
	SeatsAvailable int   `json:"seats_available"`
	OccupiedSeats  []int `json:"occupied_seat_numbers"`
}

// AddBusRequest creates a bus; availability starts equal to capacity.
type AddBusRequest struct {
	Route         string  `json:"route" binding:"required"`
	Description   *string `json:"description,omitempty"`
	TotalSeats    int     `json:"total_seats" binding:"required,min=1"`
	Price         int64   `json:"price" binding:"min=0"`
	DepartureTime *string `json:"departure_time,omitempty"`
	ArrivalTime   *string `json:"arrival_time,omitempty"`
}

// UpdateBusRequest mutates bus fields; nil fields are left unchanged.
// TotalSeats triggers a capacity resize that recomputes availability.
type UpdateBusRequest struct {
	Route         *string `json:"route,omitempty"`
	Description   *string `json:"description,omitempty"`
	Price         *int64  `json:"price,omitempty"`
	TotalSeats    *int    `json:"total_seats,omitempty"`
	DepartureTime *string `json:"departure_time,omitempty"`
	ArrivalTime   *string `json:"arrival_time,omitempty"`
}

// SearchBusesQuery carries the optional filters of the bus search.
type SearchBusesQuery struct {
	RouteTerm    string
	MinAvailable *int
	PriceMin     *int64
	PriceMax     *int64
}

// WalletResponse reports a user's balance.
type WalletResponse struct {
	UserID int64 `json:"user_id"`
	Wallet int64 `json:"wallet"`
}

// AddFundsRequest tops up the caller's wallet.
type AddFundsRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// AdminTicketItem is the admin view of a ticket with owner and route.
type AdminTicketItem struct {
	ID        int64  `json:"id"`
	TicketNo  string `json:"ticket_no"`
	Username  string `json:"username"`
	Route     string `json:"route"`
	SeatNo    int    `json:"seat_no"`
	PricePaid int64  `json:"price_paid"`
	Status    string `json:"status"`
	BookedAt  string `json:"booked_at"`
}

// StatsResponse aggregates system-wide counters over ACTIVE tickets.
type StatsResponse struct {
	TotalUsers   int64   `json:"total_users"`
	TotalBuses   int64   `json:"total_buses"`
	TotalTickets int64   `json:"total_tickets"`
	Revenue      int64   `json:"revenue"`
	TopRoute     *string `json:"top_route"`
}

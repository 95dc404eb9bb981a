package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sawari/internal/cache"
	apperrors "sawari/internal/errors"
	"sawari/internal/logger"
	"sawari/internal/messaging"
	"sawari/internal/metrics"
	"sawari/internal/models"
	"sawari/internal/repository"
)

// BookingService is the booking and cancellation engine. All state
// mutations happen inside the repository transaction; this layer
// validates input, publishes lifecycle events after commit and keeps
// the availability cache honest.
type BookingService struct {
	ticketRepo   *repository.TicketRepository
	natsClient   *messaging.NATSClient
	valkeyClient *cache.ValkeyClient
}

func NewBookingService(ticketRepo *repository.TicketRepository, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient) *BookingService {
	return &BookingService{
		ticketRepo:   ticketRepo,
		natsClient:   natsClient,
		valkeyClient: valkeyClient,
	}
}

// ErrInvalidTravelDate rejects malformed travel dates before the store
// is touched.
var ErrInvalidTravelDate = errors.New("travel date must be YYYY-MM-DD")

// Create books a seat for the authenticated user. The ticket's price is
// the bus's price at this moment, frozen on the ticket.
func (s *BookingService) Create(ctx context.Context, userID int64, req *models.CreateTicketRequest) (*models.CreateTicketResponse, error) {
	var travelDate *time.Time
	if req.TravelDate != "" {
		parsed, err := time.Parse("2006-01-02", req.TravelDate)
		if err != nil {
			return nil, ErrInvalidTravelDate
		}
		travelDate = &parsed
	}

	result, err := s.ticketRepo.Book(ctx, repository.BookParams{
		UserID:        userID,
		BusID:         req.BusID,
		SeatNo:        req.SeatNo,
		TravelDate:    travelDate,
		PayFromWallet: req.PayFromWallet,
	})
	if err != nil {
		metrics.RecordBooking(bookingOutcome(err))
		return nil, err
	}
	metrics.RecordBooking("success")

	s.invalidateAvailability(ctx, req.BusID)

	event := models.TicketBookedEvent{
		TicketID:   result.Ticket.ID,
		TicketNo:   result.Ticket.TicketNo,
		UserID:     result.Ticket.UserID,
		BusID:      result.Ticket.BusID,
		Route:      result.Route,
		SeatNo:     result.Ticket.SeatNo,
		PricePaid:  result.Ticket.PricePaid,
		TravelDate: req.TravelDate,
		Timestamp:  time.Now(),
	}
	if err := s.natsClient.Publish(models.EventTicketBooked, event); err != nil {
		// The booking is committed; the receipt pipeline just misses
		// this event.
		logger.WithContext(ctx).Error("Failed to publish ticket booked event",
			"error", err,
			"ticket_no", result.Ticket.TicketNo)
	}

	return &models.CreateTicketResponse{
		TicketID:   result.Ticket.ID,
		TicketNo:   result.Ticket.TicketNo,
		BusID:      result.Ticket.BusID,
		SeatNo:     result.Ticket.SeatNo,
		PricePaid:  result.Ticket.PricePaid,
		TravelDate: req.TravelDate,
	}, nil
}

// Cancel transitions the user's ticket to CANCELLED and refunds the
// frozen price_paid in full.
func (s *BookingService) Cancel(ctx context.Context, userID, ticketID int64) (*models.CancelTicketResponse, error) {
	result, err := s.ticketRepo.Cancel(ctx, userID, ticketID)
	if err != nil {
		metrics.RecordCancellation(cancellationOutcome(err))
		return nil, err
	}
	metrics.RecordCancellation("success")

	s.invalidateAvailability(ctx, result.BusID)

	event := models.TicketCancelledEvent{
		TicketID:  result.TicketID,
		TicketNo:  result.TicketNo,
		UserID:    userID,
		BusID:     result.BusID,
		Refunded:  result.Refunded,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventTicketCancelled, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish ticket cancelled event",
			"error", err,
			"ticket_no", result.TicketNo)
	}

	return &models.CancelTicketResponse{
		TicketID: result.TicketID,
		Refunded: result.Refunded,
		Wallet:   result.Wallet,
		Message:  fmt.Sprintf("Ticket cancelled, %d refunded to wallet", result.Refunded),
	}, nil
}

// ListUserTickets returns the caller's tickets, newest first.
func (s *BookingService) ListUserTickets(ctx context.Context, userID int64) ([]models.UserTicketItem, error) {
	tickets, err := s.ticketRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (s *BookingService) invalidateAvailability(ctx context.Context, busID int64) {
	if s.valkeyClient == nil {
		return
	}
	if err := s.valkeyClient.InvalidateAvailability(ctx, busID); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate availability cache",
			"error", err, "bus_id", busID)
	}
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrBusNotFound):
		return "bus_not_found"
	case errors.Is(err, apperrors.ErrNoSeatsAvailable):
		return "no_seats_available"
	case errors.Is(err, apperrors.ErrNoCapacity):
		return "no_capacity"
	case errors.Is(err, apperrors.ErrSeatUnavailable):
		return "seat_unavailable"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, apperrors.ErrTransientConflict):
		return "conflict"
	default:
		return "error"
	}
}

func cancellationOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		return "ticket_not_found"
	case errors.Is(err, apperrors.ErrAlreadyCancelled):
		return "already_cancelled"
	case errors.Is(err, apperrors.ErrTransientConflict):
		return "conflict"
	default:
		return "error"
	}
}

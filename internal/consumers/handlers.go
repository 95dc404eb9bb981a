package consumers

import (
	"encoding/json"
	"log/slog"

	"sawari/internal/models"

	"github.com/nats-io/stan.go"
)

// handleTicketBooked writes the text and PDF receipts for a booking.
// The message is acked even when rendering fails; a malformed or
// unrenderable event would fail identically on redelivery.
func (s *Service) handleTicketBooked(msg *stan.Msg) {
	defer ackMsg(msg)

	var event models.TicketBookedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket booked event", "error", err)
		return
	}

	textPath, err := s.receiptWriter.WriteText(&event)
	if err != nil {
		slog.Error("Failed to write text receipt",
			"error", err, "ticket_no", event.TicketNo)
	} else {
		slog.Info("Wrote text receipt", "ticket_no", event.TicketNo, "path", textPath)
	}

	pdfPath, err := s.receiptWriter.WritePDF(&event)
	if err != nil {
		slog.Error("Failed to write PDF receipt",
			"error", err, "ticket_no", event.TicketNo)
	} else {
		slog.Info("Wrote PDF receipt", "ticket_no", event.TicketNo, "path", pdfPath)
	}
}

// handleTicketCancelled records the cancellation in the audit log.
func (s *Service) handleTicketCancelled(msg *stan.Msg) {
	defer ackMsg(msg)

	var event models.TicketCancelledEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket cancelled event", "error", err)
		return
	}

	slog.Info("Ticket cancelled",
		"ticket_no", event.TicketNo,
		"user_id", event.UserID,
		"refunded", event.Refunded)
}

func ackMsg(msg *stan.Msg) {
	if err := msg.Ack(); err != nil {
		slog.Error("Failed to ack message", "error", err, "subject", msg.Subject)
	}
}

package consumers

import (
	"fmt"
	"log/slog"

	"sawari/internal/config"
	"sawari/internal/messaging"
	"sawari/internal/models"
	"sawari/internal/receipt"

	"github.com/nats-io/stan.go"
)

const queueGroup = "receipt-workers"

// Service runs the event consumers: the receipt writer on booked
// tickets and the audit logger on cancellations. Subscriptions are
// durable queue groups so restarts resume where they left off.
type Service struct {
	natsClient    *messaging.NATSClient
	receiptWriter *receipt.Writer
	subscriptions []stan.Subscription
}

func NewService(cfg *config.Config) (*Service, error) {
	natsClient, err := messaging.NewNATSClient(messaging.Config{
		URL:       cfg.NATS.URL,
		ClusterID: cfg.NATS.ClusterID,
		ClientID:  cfg.NATS.ClientID + "-consumer",
		Enabled:   cfg.NATS.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	receiptWriter, err := receipt.NewWriter(cfg.ReceiptDir)
	if err != nil {
		natsClient.Close()
		return nil, err
	}

	return &Service{
		natsClient:    natsClient,
		receiptWriter: receiptWriter,
	}, nil
}

// Start subscribes all consumers.
func (s *Service) Start() error {
	subjects := map[string]stan.MsgHandler{
		models.EventTicketBooked:    s.handleTicketBooked,
		models.EventTicketCancelled: s.handleTicketCancelled,
	}

	for subject, handler := range subjects {
		sub, err := s.natsClient.SubscribeQueue(subject, queueGroup, handler)
		if err != nil {
			s.Stop()
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		s.subscriptions = append(s.subscriptions, sub)
	}

	slog.Info("Consumers started", "subscriptions", len(s.subscriptions))
	return nil
}

// Stop closes subscriptions and the broker connection.
func (s *Service) Stop() {
	for _, sub := range s.subscriptions {
		if err := sub.Close(); err != nil {
			slog.Error("Failed to close subscription", "error", err)
		}
	}
	s.subscriptions = nil

	if err := s.natsClient.Close(); err != nil {
		slog.Error("Failed to close NATS connection", "error", err)
	}
}

package service

import (
	"context"
	"testing"

	"sawari/internal/messaging"
	"sawari/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateRejectsMalformedTravelDate(t *testing.T) {
	svc := NewBookingService(nil, &messaging.NATSClient{}, nil)

	_, err := svc.Create(context.Background(), 1, &models.CreateTicketRequest{
		BusID:      3,
		TravelDate: "12-31-2026",
	})
	assert.ErrorIs(t, err, ErrInvalidTravelDate)

	_, err = svc.Create(context.Background(), 1, &models.CreateTicketRequest{
		BusID:      3,
		TravelDate: "someday",
	})
	assert.ErrorIs(t, err, ErrInvalidTravelDate)
}

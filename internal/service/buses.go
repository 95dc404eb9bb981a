package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sawari/internal/cache"
	apperrors "sawari/internal/errors"
	"sawari/internal/logger"
	"sawari/internal/messaging"
	"sawari/internal/models"
	"sawari/internal/repository"
	"sawari/internal/search"
)

// BusService manages the bus inventory. Writes go to Postgres first and
// are then mirrored into Elasticsearch; search prefers Elasticsearch
// and falls back to SQL filtering when it is unavailable.
type BusService struct {
	busRepo      *repository.BusRepository
	ticketRepo   *repository.TicketRepository
	natsClient   *messaging.NATSClient
	esClient     *search.ElasticsearchClient
	valkeyClient *cache.ValkeyClient
}

func NewBusService(busRepo *repository.BusRepository, ticketRepo *repository.TicketRepository, natsClient *messaging.NATSClient, esClient *search.ElasticsearchClient, valkeyClient *cache.ValkeyClient) *BusService {
	return &BusService{
		busRepo:      busRepo,
		ticketRepo:   ticketRepo,
		natsClient:   natsClient,
		esClient:     esClient,
		valkeyClient: valkeyClient,
	}
}

// Add creates a bus with availability equal to capacity.
func (s *BusService) Add(ctx context.Context, req *models.AddBusRequest) (*models.Bus, error) {
	bus := &models.Bus{
		Route:         req.Route,
		Description:   req.Description,
		TotalSeats:    req.TotalSeats,
		Price:         req.Price,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
	}
	if err := s.busRepo.Create(ctx, bus); err != nil {
		return nil, fmt.Errorf("failed to create bus: %w", err)
	}

	s.indexBus(ctx, bus)
	s.publishBusEvent(ctx, models.EventBusCreated, bus.ID, bus.Route)

	return bus, nil
}

// Update applies partial field changes. A capacity change recomputes
// availability inside the repository transaction.
func (s *BusService) Update(ctx context.Context, id int64, req *models.UpdateBusRequest) (*models.Bus, error) {
	bus, err := s.busRepo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.indexBus(ctx, bus)
	s.invalidateAvailability(ctx, id)
	s.publishBusEvent(ctx, models.EventBusUpdated, bus.ID, bus.Route)

	return bus, nil
}

// Delete removes a bus and its tickets.
func (s *BusService) Delete(ctx context.Context, id int64) error {
	if err := s.busRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.esClient != nil {
		if err := s.esClient.DeleteBus(ctx, id); err != nil {
			logger.WithContext(ctx).Error("Failed to delete bus from search index",
				"error", err, "bus_id", id)
		}
	}
	s.invalidateAvailability(ctx, id)
	s.publishBusEvent(ctx, models.EventBusDeleted, id, "")

	return nil
}

func (s *BusService) Get(ctx context.Context, id int64) (*models.Bus, error) {
	bus, err := s.busRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}
	if bus == nil {
		return nil, apperrors.ErrBusNotFound
	}
	return bus, nil
}

func (s *BusService) List(ctx context.Context) ([]models.Bus, error) {
	buses, err := s.busRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	return buses, nil
}

// Search filters buses. Elasticsearch results may lag a recent write;
// the SQL fallback is always consistent.
func (s *BusService) Search(ctx context.Context, q models.SearchBusesQuery) ([]models.Bus, error) {
	if s.esClient != nil {
		buses, err := s.esClient.Search(ctx, q)
		if err == nil {
			return buses, nil
		}
		logger.WithContext(ctx).Warn("Elasticsearch search failed, falling back to SQL",
			"error", err)
	}
	return s.busRepo.Search(ctx, q)
}

// Availability reports the seat inventory for a bus, serving from the
// cache when a fresh snapshot exists.
func (s *BusService) Availability(ctx context.Context, busID int64) (*models.AvailabilityResponse, error) {
	if s.valkeyClient != nil {
		if cached, err := s.valkeyClient.GetAvailability(ctx, busID); err == nil {
			return cached, nil
		}
	}

	bus, err := s.Get(ctx, busID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.ticketRepo.OccupiedSeats(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("failed to load occupied seats: %w", err)
	}

	resp := &models.AvailabilityResponse{
		BusID:          bus.ID,
		TotalSeats:     bus.TotalSeats,
		SeatsAvailable: bus.SeatsAvailable,
		OccupiedSeats:  occupied,
	}

	if s.valkeyClient != nil {
		if err := s.valkeyClient.SetAvailability(ctx, resp); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache availability",
				"error", err, "bus_id", busID)
		}
	}
	return resp, nil
}

const seatMapRowWidth = 4

// SeatMap renders a text grid of the bus, occupied seats marked with X.
func (s *BusService) SeatMap(ctx context.Context, busID int64) (string, error) {
	avail, err := s.Availability(ctx, busID)
	if err != nil {
		return "", err
	}

	occupied := make(map[int]bool, len(avail.OccupiedSeats))
	for _, seat := range avail.OccupiedSeats {
		occupied[seat] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Bus %d seat map (%d/%d available)\n",
		avail.BusID, avail.SeatsAvailable, avail.TotalSeats)
	for seat := 1; seat <= avail.TotalSeats; seat++ {
		if occupied[seat] {
			b.WriteString("[ X]")
		} else {
			fmt.Fprintf(&b, "[%2d]", seat)
		}
		if seat%seatMapRowWidth == 0 || seat == avail.TotalSeats {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String(), nil
}

func (s *BusService) indexBus(ctx context.Context, bus *models.Bus) {
	if s.esClient == nil {
		return
	}
	if err := s.esClient.IndexBus(ctx, bus); err != nil {
		logger.WithContext(ctx).Error("Failed to index bus",
			"error", err, "bus_id", bus.ID)
	}
}

func (s *BusService) invalidateAvailability(ctx context.Context, busID int64) {
	if s.valkeyClient == nil {
		return
	}
	if err := s.valkeyClient.InvalidateAvailability(ctx, busID); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate availability cache",
			"error", err, "bus_id", busID)
	}
}

func (s *BusService) publishBusEvent(ctx context.Context, subject string, busID int64, route string) {
	event := models.BusChangedEvent{
		BusID:     busID,
		Route:     route,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish bus event",
			"error", err, "subject", subject, "bus_id", busID)
	}
}

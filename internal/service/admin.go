package service

import (
	"context"
	"fmt"

	"sawari/internal/models"
	"sawari/internal/repository"
)

// AdminService backs the admin read views.
type AdminService struct {
	ticketRepo *repository.TicketRepository
	userRepo   *repository.UserRepository
}

func NewAdminService(ticketRepo *repository.TicketRepository, userRepo *repository.UserRepository) *AdminService {
	return &AdminService{ticketRepo: ticketRepo, userRepo: userRepo}
}

// ListTickets returns every ticket with its owner and route.
func (s *AdminService) ListTickets(ctx context.Context) ([]models.AdminTicketItem, error) {
	tickets, err := s.ticketRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// ListUsers returns all users without credential material.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Stats aggregates system-wide counters.
func (s *AdminService) Stats(ctx context.Context) (*models.StatsResponse, error) {
	return s.ticketRepo.Stats(ctx)
}

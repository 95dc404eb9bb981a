package service

import (
	"context"
	"time"

	"sawari/internal/logger"
	"sawari/internal/messaging"
	"sawari/internal/models"
	"sawari/internal/repository"
)

// WalletService exposes balance reads and external funds additions.
// Debits only happen inside booking transactions; there is no debit
// path here.
type WalletService struct {
	userRepo   *repository.UserRepository
	natsClient *messaging.NATSClient
}

func NewWalletService(userRepo *repository.UserRepository, natsClient *messaging.NATSClient) *WalletService {
	return &WalletService{userRepo: userRepo, natsClient: natsClient}
}

func (s *WalletService) GetWallet(ctx context.Context, userID int64) (*models.WalletResponse, error) {
	wallet, err := s.userRepo.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.WalletResponse{UserID: userID, Wallet: wallet}, nil
}

// AddFunds credits the caller's wallet. Amount positivity is enforced
// by request binding.
func (s *WalletService) AddFunds(ctx context.Context, userID int64, amount int64) (*models.WalletResponse, error) {
	wallet, err := s.userRepo.AddFunds(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	event := models.WalletCreditedEvent{
		UserID:    userID,
		Amount:    amount,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventWalletCredited, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish wallet credited event",
			"error", err, "user_id", userID)
	}

	return &models.WalletResponse{UserID: userID, Wallet: wallet}, nil
}

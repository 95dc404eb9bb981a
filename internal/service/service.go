package service

import (
	"sawari/internal/cache"
	"sawari/internal/messaging"
	"sawari/internal/repository"
	"sawari/internal/search"
)

type Services struct {
	Buses    *BusService
	Bookings *BookingService
	Wallets  *WalletService
	Admin    *AdminService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, esClient *search.ElasticsearchClient, valkeyClient *cache.ValkeyClient) *Services {
	busService := NewBusService(repos.Buses, repos.Tickets, natsClient, esClient, valkeyClient)
	bookingService := NewBookingService(repos.Tickets, natsClient, valkeyClient)
	walletService := NewWalletService(repos.Users, natsClient)
	adminService := NewAdminService(repos.Tickets, repos.Users)

	return &Services{
		Buses:    busService,
		Bookings: bookingService,
		Wallets:  walletService,
		Admin:    adminService,
	}
}

package repository

import (
	"sawari/internal/database"
)

type Repositories struct {
	Buses   *BusRepository
	Tickets *TicketRepository
	Users   *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Buses:   NewBusRepository(db),
		Tickets: NewTicketRepository(db),
		Users:   NewUserRepository(db),
	}
}

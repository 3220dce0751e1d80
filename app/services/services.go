package services

import "github.com/shashiranjanraj/bloodbank/app/repositories"

// Services is every application service built over one store.
type Services struct {
	Store       *repositories.Store
	Auth        *AuthService
	Users       *UserService
	BloodGroups *BloodGroupService
	Ledger      *InventoryLedger
	Donations   *DonationRecorder
	Requests    *RequestBroker
	Dashboard   *DashboardService
}

func New(store *repositories.Store) *Services {
	ledger := NewInventoryLedger(store)
	return &Services{
		Store:       store,
		Auth:        NewAuthService(store),
		Users:       NewUserService(store),
		BloodGroups: NewBloodGroupService(store),
		Ledger:      ledger,
		Donations:   NewDonationRecorder(store, ledger),
		Requests:    NewRequestBroker(store, ledger),
		Dashboard:   NewDashboardService(store),
	}
}

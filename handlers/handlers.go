package handlers

import (
	"train-fare-sim/database"
	"train-fare-sim/services"
)

// Shared service instances, wired once at startup.
var (
	store           *database.Store
	kmap            *services.KMap
	ticketService   *services.TicketService
	transferService *services.TransferService
	syncService     *services.SyncService
	holidays        services.HolidayCalendar
)

// Init wires the handler package to its dependencies
func Init(s *database.Store, km *services.KMap, sync *services.SyncService, cal services.HolidayCalendar) {
	store = s
	kmap = km
	ticketService = services.NewTicketService(km)
	transferService = services.NewTransferService(s)
	syncService = sync
	holidays = cal
}

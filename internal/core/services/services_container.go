package services

import (
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/forecasting"
	"github.com/SscSPs/inventory_management_app/internal/notifications"
	"github.com/SscSPs/inventory_management_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Stock = NewStockService(repos.StockRepo, repos.MovementRepo)
	container.Ledger = NewLedgerService(repos.MovementRepo, repos.StockRepo)
	container.Transfer = NewTransferService(repos.TransferRepo, repos.StockRepo, repos.MovementRepo)

	container.Alert = NewAlertService(
		repos.AlertRepo,
		repos.StockRepo,
		WithNotificationSink(notifications.NewLogSink()),
	)

	container.Forecast = NewForecastService(
		repos.StockRepo,
		repos.MovementRepo,
		repos.ReportingRepo,
		forecasting.NewMovingAverageProvider(cfg.ForecastWindowDays),
	)

	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User, repos.UserRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.StockSvcFacade     = (*stockService)(nil)
	_ portssvc.LedgerSvcFacade    = (*ledgerService)(nil)
	_ portssvc.TransferSvcFacade  = (*transferService)(nil)
	_ portssvc.AlertSvcFacade     = (*alertService)(nil)
	_ portssvc.ForecastSvcFacade  = (*forecastService)(nil)
	_ portssvc.ReportingSvcFacade = (*reportingService)(nil)
	_ portssvc.UserSvcFacade      = (*userService)(nil)
	_ portssvc.TokenSvcFacade     = (*tokenService)(nil)
	_ portssvc.ForecastProvider   = (*forecasting.MovingAverageProvider)(nil)
	_ portssvc.NotificationSink   = (*notifications.LogSink)(nil)
)

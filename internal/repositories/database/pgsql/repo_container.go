package pgsql

import (
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	stockRepo := newPgxStockRepository(dbPool)
	movementRepo := newPgxMovementRepository(dbPool)
	transferRepo := newPgxTransferRepository(dbPool)
	alertRepo := newPgxAlertRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		StockRepo:     stockRepo,
		MovementRepo:  movementRepo,
		TransferRepo:  transferRepo,
		AlertRepo:     alertRepo,
		UserRepo:      userRepo,
		ReportingRepo: reportingRepo,
	}
}

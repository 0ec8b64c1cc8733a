package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	StockRepo     StockRepositoryWithTx
	MovementRepo  MovementRepositoryWithTx
	TransferRepo  TransferRepositoryWithTx
	AlertRepo     AlertRepositoryFacade
	UserRepo      UserRepositoryFacade
	ReportingRepo ReportingRepository
}

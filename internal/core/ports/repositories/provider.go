package repositories

// RepositoryProvider bundles the concrete repositories for service wiring.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	EntryRepo   EntryRepositoryWithTx
	BalanceRepo BalanceRepositoryFacade
}

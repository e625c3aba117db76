package services

// ServiceContainer bundles the service facades for handler wiring.
type ServiceContainer struct {
	Ledger  LedgerSvcFacade
	Account AccountSvcFacade
}

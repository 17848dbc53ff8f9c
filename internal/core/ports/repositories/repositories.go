package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Inside a unit of work every repository shares the same store transaction.
type RepositoryProvider struct {
	LedgerRepo  LedgerRepositoryFacade
	AccountRepo AccountReader
	UnloadRepo  UnloadRepositoryFacade
	DepositRepo DepositRepositoryFacade
	TankRepo    TankRepositoryFacade
	ReadingRepo TankReadingRepositoryFacade
	ShiftRepo   ShiftRepositoryFacade
	MemberRepo  StationMemberReader
}

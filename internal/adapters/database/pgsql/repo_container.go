package pgsql

import (
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository over db, a pool or an open transaction.
func NewRepositoryProvider(db DBTX) portsrepo.RepositoryProvider {
	base := BaseRepository{DB: db}
	shiftRepo := &PgxShiftRepository{BaseRepository: base}

	return portsrepo.RepositoryProvider{
		LedgerRepo:  &PgxLedgerRepository{BaseRepository: base},
		AccountRepo: &PgxAccountRepository{BaseRepository: base},
		UnloadRepo:  &PgxUnloadRepository{BaseRepository: base},
		DepositRepo: &PgxDepositRepository{BaseRepository: base},
		TankRepo:    &PgxTankRepository{BaseRepository: base},
		ReadingRepo: &PgxReadingRepository{BaseRepository: base},
		ShiftRepo:   shiftRepo,
		MemberRepo:  &PgxMemberRepository{BaseRepository: base},
	}
}

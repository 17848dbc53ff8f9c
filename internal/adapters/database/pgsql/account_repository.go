package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
)

// PgxAccountRepository reads the chart of accounts.
type PgxAccountRepository struct {
	BaseRepository
}

var _ portsrepo.AccountReader = (*PgxAccountRepository)(nil)

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, code, name, category
		FROM accounts
		WHERE account_id = $1;
	`
	var acc domain.Account
	err := r.DB.QueryRow(ctx, query, accountID).Scan(&acc.AccountID, &acc.Code, &acc.Name, &acc.Category)
	if err != nil {
		return nil, translate(fmt.Sprintf("account %s", accountID), err)
	}
	return &acc, nil
}

// FindAccountsByIDs returns the subset of accountIDs that exist.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}

	rows, err := r.DB.Query(ctx, `
		SELECT account_id, code, name, category
		FROM accounts
		WHERE account_id = ANY($1);
	`, accountIDs)
	if err != nil {
		return nil, translate("failed to query accounts", err)
	}
	defer rows.Close()

	for rows.Next() {
		var acc domain.Account
		if err := rows.Scan(&acc.AccountID, &acc.Code, &acc.Name, &acc.Category); err != nil {
			return nil, translate("failed to scan account", err)
		}
		out[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating accounts", err)
	}
	return out, nil
}

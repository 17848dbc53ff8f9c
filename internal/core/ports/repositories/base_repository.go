package repositories

import (
	"context"
)

// UnitOfWork runs a function against repositories bound to one all-or-nothing store transaction.
type UnitOfWork interface {
	// WithinTransaction commits when fn returns nil and rolls everything back otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos RepositoryProvider) error) error

	// Repositories returns repositories outside any transaction, for reads.
	Repositories() RepositoryProvider
}

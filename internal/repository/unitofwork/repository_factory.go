package unitofwork

import "context"

// RepositoryFactory hides which backing (postgres or in-process) is active.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

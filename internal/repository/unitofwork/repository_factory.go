package unitofwork

import "context"

// RepositoryFactory hands out fresh units of work. Services take the factory,
// not a UnitOfWork: pipeline runs outlive the request that scheduled them, so
// each run builds its own unit against the base connection.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

package repository

import "context"

// TxManager runs a function inside a single storage transaction. The
// transaction handle is carried in the context so repository implementations
// can pick it up transparently; if fn returns an error the whole unit of work
// is rolled back.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

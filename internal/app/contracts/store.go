package contracts

import "context"

// TransactionManager delimits one durable transaction boundary. Every write
// performed through a repository inside fn joins the same database
// transaction; fn returning an error rolls the whole unit back. Nested calls
// join the outer transaction instead of opening a new one.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator supplies identifiers for new rows so storage never relies on
// database-generated defaults.
type IDGenerator interface {
	NewID() string
}

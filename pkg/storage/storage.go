package storage

import "context"

// Provider encapsulates the operations the generator issues against an artifact
// store. Queries and statements are operation names (e.g. "generator.write")
// rather than SQL so file, object and database backends can share the contract.
type Provider interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Transaction(ctx context.Context, fn func(tx Transaction) error) error
}

// Rows iterates query results.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// Result reports the effect of an Exec call.
type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

// Transaction groups writes that commit together.
type Transaction interface {
	Provider
	Commit() error
	Rollback() error
}

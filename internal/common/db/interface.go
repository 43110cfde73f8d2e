package db

import "context"

// Database is a pooled connection the repositories query through.
type Database interface {
	Querier

	// Transaction runs fn inside a transaction, committing when fn returns nil.
	Transaction(ctx context.Context, fn func(tx Transaction) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Transaction is an open transaction handed to repository calls.
type Transaction interface {
	Querier
	Commit() error
	Rollback() error
}

// Scanner is implemented by both Row and Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows iterates a query result.
type Rows interface {
	Scanner
	Next() bool
	Close() error
	Err() error
}

// Row is the result of QueryRow.
type Row interface {
	Scanner
}

// Result summarizes an Exec.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

package store

import "errors"

// Sentinel errors returned by the record store and the migrator to signal
// well-known failure conditions. Callers should use [errors.Is] to match
// against these values.
var (
	// ErrUnknownCollection is returned when an operation names a collection
	// that is not part of the store schema.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrRecordNotFound is returned when a read or delete targets a key that
	// does not exist in the collection.
	ErrRecordNotFound = errors.New("record not found")

	// ErrKeyConflict is returned when an insert targets a key that already
	// exists in the collection.
	ErrKeyConflict = errors.New("key already exists")
)

// Low-level database operation errors. These are returned (or wrapped) by
// record-store methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)

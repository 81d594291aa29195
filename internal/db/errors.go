package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrIndexExists = errors.New("db: index already exists")
	// ErrSyntax signals that the store rejected a rendered match expression.
	ErrSyntax = errors.New("db: match syntax rejected")
)

// Op constants name the failing operation for error context.
// Redis ops are command names; SQLite ops are statement kinds.
const (
	OpPing        = "PING"
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpHGetAll     = "HGETALL"
	OpSMembers    = "SMEMBERS"
	OpExec        = "EXEC"

	OpMigrate = "MIGRATE"
	OpBegin   = "BEGIN"
	OpCommit  = "COMMIT"
	OpInsert  = "INSERT"
	OpDelete  = "DELETE"
	OpSelect  = "SELECT"
	OpMatch   = "MATCH"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

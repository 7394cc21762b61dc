package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// ErrHandleTaken is returned when a save claims a handle owned by
// another portfolio. The colliding write is rejected atomically by the
// partial unique index; nothing is persisted.
var ErrHandleTaken = errors.New("handle already taken")

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique-violation
// raised by the named constraint or index.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolationCode && pqErr.Constraint == constraint
}

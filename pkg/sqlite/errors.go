package sqlite

import (
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for the conditions callers are expected to branch on.
// Engine failures are reported as *Error values that match these
// sentinels through errors.Is.
var (
	// ErrNotFound reports that a database could not be located or
	// created for the requested open mode.
	ErrNotFound = errors.New("database not found")

	// ErrBusy reports transient lock contention from another connection
	// or process. The failed call may be retried.
	ErrBusy = errors.New("database busy")

	// ErrOutOfBounds reports that a checked bind rejected a value
	// outside the representable signed range.
	ErrOutOfBounds = errors.New("value out of bounds")

	// ErrMisuse reports a statement used against its state machine, such
	// as stepping a statement the engine considers not runnable. This is
	// a programming error, not a runtime condition.
	ErrMisuse = errors.New("statement misuse")
)

// Error is a low-level engine failure carrying the SQLite result code.
type Error struct {
	code int
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the SQLite result code of the failure.
func (e *Error) Code() int { return e.code }

// Is maps result codes onto the package sentinels so callers can use
// errors.Is without inspecting codes.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrBusy:
		return e.code == sqlite3.SQLITE_BUSY || e.code == sqlite3.SQLITE_LOCKED
	case ErrMisuse:
		return e.code == sqlite3.SQLITE_MISUSE
	case ErrNotFound:
		return e.code == sqlite3.SQLITE_CANTOPEN || e.code == sqlite3.SQLITE_NOTFOUND
	}
	return false
}

func newError(code int32, str, msg string) error {
	if msg != "" && msg != str {
		return &Error{code: int(code), msg: fmt.Sprintf("%s: %s (%d)", str, msg, code)}
	}
	return &Error{code: int(code), msg: fmt.Sprintf("%s (%d)", str, code)}
}

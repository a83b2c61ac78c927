package sqlite

import (
	"fmt"
	"time"
	"unsafe"

	"modernc.org/libc"
	libctypes "modernc.org/libc/sys/types"
	sqlite3 "modernc.org/sqlite/lib"
)

// OpenMode selects how Open locates the database file.
type OpenMode int

const (
	// OpenCreate creates the database if it does not exist and opens it
	// read-write.
	OpenCreate OpenMode = iota
	// OpenReadWrite opens an existing database read-write.
	OpenReadWrite
	// OpenReadOnly opens an existing database for reading only.
	OpenReadOnly
)

func (m OpenMode) String() string {
	switch m {
	case OpenCreate:
		return "create"
	case OpenReadOnly:
		return "open"
	case OpenReadWrite:
		return "open R/W"
	}
	return fmt.Sprintf("OpenMode(%d)", int(m))
}

func (m OpenMode) flags() int32 {
	switch m {
	case OpenCreate:
		return sqlite3.SQLITE_OPEN_READWRITE | sqlite3.SQLITE_OPEN_CREATE
	case OpenReadOnly:
		return sqlite3.SQLITE_OPEN_READONLY
	default:
		return sqlite3.SQLITE_OPEN_READWRITE
	}
}

const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// Database owns one live handle to a SQLite database file or in-memory
// instance. Exactly one Database owns a given handle; passing the pointer
// around transfers use, never duplicates the handle. Close releases it.
//
// A Database is not safe for concurrent use without external locking, and
// every Stmt prepared on it must be finalized before the Database is
// closed.
type Database struct {
	tls *libc.TLS
	db  uintptr
}

// Open opens a database at path with the given mode.
//
// With OpenCreate the database is created if missing. With the other
// modes path must refer to an existing database; a failure to locate or
// create it matches ErrNotFound through errors.Is.
func Open(path string, mode OpenMode) (*Database, error) {
	d := &Database{tls: libc.NewTLS()}
	db, err := d.openV2(path, mode.flags())
	if err != nil {
		d.tls.Close()
		return nil, fmt.Errorf("cannot %s database %q: %w", mode, path, err)
	}
	d.db = db
	return d, nil
}

// OpenMemory creates a new private in-memory database. Two calls return
// connections to two different databases.
func OpenMemory() (*Database, error) {
	return Open(":memory:", OpenCreate)
}

func (d *Database) openV2(path string, flags int32) (uintptr, error) {
	p, err := d.malloc(ptrSize)
	if err != nil {
		return 0, err
	}
	defer d.free(p)

	s, err := libc.CString(path)
	if err != nil {
		return 0, err
	}
	defer d.free(s)

	if rc := sqlite3.Xsqlite3_open_v2(d.tls, s, p, flags, 0); rc != sqlite3.SQLITE_OK {
		return 0, newError(rc, libc.GoString(sqlite3.Xsqlite3_errstr(d.tls, rc)), "")
	}
	return *(*uintptr)(unsafe.Pointer(p)), nil
}

// Exec runs one or more SQL commands, discarding any result rows.
func (d *Database) Exec(command string) error {
	zsql, err := libc.CString(command)
	if err != nil {
		return err
	}
	defer d.free(zsql)

	if rc := sqlite3.Xsqlite3_exec(d.tls, d.db, zsql, 0, 0, 0); rc != sqlite3.SQLITE_OK {
		return d.errstr(rc)
	}
	return nil
}

// LastInsertRowID returns the rowid of the most recent successful insert
// on this connection.
func (d *Database) LastInsertRowID() int64 {
	return sqlite3.Xsqlite3_last_insert_rowid(d.tls, d.db)
}

// SetBusyTimeout configures the engine's own busy handler: steps that
// would fail with ErrBusy instead block up to the given duration before
// reporting the contention.
func (d *Database) SetBusyTimeout(timeout time.Duration) error {
	if rc := sqlite3.Xsqlite3_busy_timeout(d.tls, d.db, int32(timeout/time.Millisecond)); rc != sqlite3.SQLITE_OK {
		return d.errstr(rc)
	}
	return nil
}

// TableHasColumn reports whether the named table has a column with the
// given name, by querying the engine's catalog.
func (d *Database) TableHasColumn(table, column string) (bool, error) {
	stmt, err := Prepare(d, fmt.Sprintf("pragma table_info(%q);", table))
	if err != nil {
		return false, err
	}
	defer stmt.Finalize()

	for {
		res, err := stmt.Step()
		if err != nil {
			return false, err
		}
		if res == Done {
			return false, nil
		}
		if stmt.ColumnText(1) == column {
			return true, nil
		}
	}
}

// Close releases the underlying handle. The Database must not be used
// afterwards. Close is idempotent.
func (d *Database) Close() error {
	if d.db != 0 {
		if rc := sqlite3.Xsqlite3_close_v2(d.tls, d.db); rc != sqlite3.SQLITE_OK {
			return d.errstr(rc)
		}
		d.db = 0
	}
	if d.tls != nil {
		d.tls.Close()
		d.tls = nil
	}
	return nil
}

func (d *Database) malloc(n int) (uintptr, error) {
	if p := libc.Xmalloc(d.tls, libctypes.Size_t(n)); p != 0 || n == 0 {
		return p, nil
	}
	return 0, fmt.Errorf("cannot allocate %d bytes of memory", n)
}

func (d *Database) free(p uintptr) {
	if p != 0 {
		libc.Xfree(d.tls, p)
	}
}

// errstr builds an *Error from a result code, combining the generic
// result string with the connection's last error message.
func (d *Database) errstr(rc int32) error {
	str := libc.GoString(sqlite3.Xsqlite3_errstr(d.tls, rc))
	msg := libc.GoString(sqlite3.Xsqlite3_errmsg(d.tls, d.db))
	return newError(rc, str, msg)
}

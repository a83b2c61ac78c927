package sqlite

import (
	"fmt"
	"math"
	"unsafe"

	"modernc.org/libc"
	sqlite3 "modernc.org/sqlite/lib"
)

// StepResult is the outcome of a call to Stmt.Step.
type StepResult int

const (
	// Done means the statement has no further rows. Reset it before
	// reusing it.
	Done StepResult = iota
	// Row means a row is available through the Column accessors; call
	// Step again to advance.
	Row
)

// Type is the SQL storage class of a column value.
type Type int

const (
	TypeInteger Type = iota
	TypeFloat
	TypeText
	TypeBlob
	TypeNull
)

// Stmt is one compiled query tied to a Database. Parameters are bound by
// 1-based index, columns are read by 0-based index. A Stmt must not
// outlive the Database that prepared it, and must be finalized when no
// longer needed.
//
// Column accessors are only well-defined while the statement is
// positioned on a row, that is after Step returned Row. Reading outside
// that window is a documented precondition violation the engine does not
// detect.
type Stmt struct {
	db     *Database
	stmt   uintptr
	allocs []uintptr
}

// Prepare compiles a statement against db.
func Prepare(db *Database, query string) (*Stmt, error) {
	zsql, err := libc.CString(query)
	if err != nil {
		return nil, err
	}
	defer db.free(zsql)

	ppstmt, err := db.malloc(ptrSize)
	if err != nil {
		return nil, err
	}
	defer db.free(ppstmt)

	if rc := sqlite3.Xsqlite3_prepare_v2(db.tls, db.db, zsql, -1, ppstmt, 0); rc != sqlite3.SQLITE_OK {
		return nil, fmt.Errorf("cannot prepare query statement: %w", db.errstr(rc))
	}
	return &Stmt{db: db, stmt: *(*uintptr)(unsafe.Pointer(ppstmt))}, nil
}

// Step executes the statement or advances it to the next row.
//
// Lock contention surfaces as an error matching ErrBusy; the call may be
// retried. Stepping a statement the engine considers misused matches
// ErrMisuse. All other failures are non-retryable engine errors.
func (s *Stmt) Step() (StepResult, error) {
	switch rc := sqlite3.Xsqlite3_step(s.db.tls, s.stmt); rc {
	case sqlite3.SQLITE_ROW:
		return Row, nil
	case sqlite3.SQLITE_DONE:
		return Done, nil
	default:
		return Done, s.db.errstr(rc)
	}
}

// Reset returns the statement to its pre-execution position so it can be
// stepped again. Existing bindings are kept.
func (s *Stmt) Reset() {
	sqlite3.Xsqlite3_reset(s.db.tls, s.stmt)
}

// ClearBindings removes all bound parameter values. The execution
// position is untouched; Reset and ClearBindings are independent axes.
func (s *Stmt) ClearBindings() {
	sqlite3.Xsqlite3_clear_bindings(s.db.tls, s.stmt)
	s.freeAllocs()
}

// Finalize destroys the compiled statement. Finalize is idempotent.
func (s *Stmt) Finalize() {
	if s.stmt != 0 {
		sqlite3.Xsqlite3_finalize(s.db.tls, s.stmt)
		s.stmt = 0
	}
	s.freeAllocs()
}

func (s *Stmt) freeAllocs() {
	for _, p := range s.allocs {
		s.db.free(p)
	}
	s.allocs = nil
}

func (s *Stmt) bindFailed(rc int32, name string) error {
	return fmt.Errorf("cannot bind %s: %w", name, s.db.errstr(rc))
}

// BindInt64 binds a signed 64-bit value. name tags the binding in error
// messages.
func (s *Stmt) BindInt64(index int, value int64, name string) error {
	if rc := sqlite3.Xsqlite3_bind_int64(s.db.tls, s.stmt, int32(index), value); rc != sqlite3.SQLITE_OK {
		return s.bindFailed(rc, name)
	}
	return nil
}

// BindInt32 binds a signed 32-bit value.
func (s *Stmt) BindInt32(index int, value int32, name string) error {
	if rc := sqlite3.Xsqlite3_bind_int(s.db.tls, s.stmt, int32(index), value); rc != sqlite3.SQLITE_OK {
		return s.bindFailed(rc, name)
	}
	return nil
}

// BindUint64Cast binds an unsigned 64-bit value by reinterpreting its bit
// pattern as signed. Values above math.MaxInt64 become negative in
// storage but round-trip through ColumnUint64. Do not use the stored
// value in inequality comparisons.
func (s *Stmt) BindUint64Cast(index int, value uint64, name string) error {
	return s.BindInt64(index, int64(value), name)
}

// BindUint64 binds an unsigned 64-bit value, failing with ErrOutOfBounds
// if it does not fit the signed positive range. Use it when the value
// takes part in inequality comparisons inside a query.
func (s *Stmt) BindUint64(index int, value uint64, name string) error {
	if value > math.MaxInt64 {
		return fmt.Errorf("cannot bind %s: value (%d) in binding is %w", name, value, ErrOutOfBounds)
	}
	return s.BindInt64(index, int64(value), name)
}

// BindUint64Slide binds an unsigned 64-bit value through the
// order-preserving slide transform. The stored value must be read back
// with ColumnUint64Slide; mixing it with any other read silently
// produces a wrong value.
func (s *Stmt) BindUint64Slide(index int, value uint64, name string) error {
	return s.BindInt64(index, encodeUint64(value), name)
}

// BindUint32Cast binds an unsigned 32-bit value by reinterpreting its bit
// pattern as a signed 32-bit value.
func (s *Stmt) BindUint32Cast(index int, value uint32, name string) error {
	return s.BindInt32(index, int32(value), name)
}

// BindUint32 binds an unsigned 32-bit value, failing with ErrOutOfBounds
// if it exceeds math.MaxInt32.
func (s *Stmt) BindUint32(index int, value uint32, name string) error {
	if value > math.MaxInt32 {
		return fmt.Errorf("cannot bind %s: value (%d) in binding is %w", name, value, ErrOutOfBounds)
	}
	return s.BindInt64(index, int64(value), name)
}

// BindUint32Extend widens an unsigned 32-bit value to the signed 64-bit
// storage type. Never fails on range.
func (s *Stmt) BindUint32Extend(index int, value uint32, name string) error {
	return s.BindInt64(index, int64(value), name)
}

// BindUint16 widens an unsigned 16-bit value. Never fails on range.
func (s *Stmt) BindUint16(index int, value uint16, name string) error {
	return s.BindInt32(index, int32(value), name)
}

// BindUint8 widens an unsigned 8-bit value. Never fails on range.
func (s *Stmt) BindUint8(index int, value uint8, name string) error {
	return s.BindInt32(index, int32(value), name)
}

// BindInt16 widens a signed 16-bit value. Never fails on range.
func (s *Stmt) BindInt16(index int, value int16, name string) error {
	return s.BindInt32(index, int32(value), name)
}

// BindInt8 widens a signed 8-bit value. Never fails on range.
func (s *Stmt) BindInt8(index int, value int8, name string) error {
	return s.BindInt32(index, int32(value), name)
}

// BindText binds a string value. The copy in engine memory is owned by
// the statement and released on ClearBindings or Finalize.
func (s *Stmt) BindText(index int, value string, name string) error {
	p, err := libc.CString(value)
	if err != nil {
		return err
	}
	if rc := sqlite3.Xsqlite3_bind_text(s.db.tls, s.stmt, int32(index), p, int32(len(value)), 0); rc != sqlite3.SQLITE_OK {
		s.db.free(p)
		return s.bindFailed(rc, name)
	}
	s.allocs = append(s.allocs, p)
	return nil
}

// BindBytes binds a blob value. A nil slice binds NULL. The copy in
// engine memory is owned by the statement and released on ClearBindings
// or Finalize.
func (s *Stmt) BindBytes(index int, value []byte, name string) error {
	if value == nil {
		return s.BindNull(index, name)
	}
	p, err := s.db.malloc(len(value))
	if err != nil {
		return err
	}
	if len(value) != 0 {
		copy((*libc.RawMem)(unsafe.Pointer(p))[:len(value):len(value)], value)
	}
	if rc := sqlite3.Xsqlite3_bind_blob(s.db.tls, s.stmt, int32(index), p, int32(len(value)), 0); rc != sqlite3.SQLITE_OK {
		s.db.free(p)
		return s.bindFailed(rc, name)
	}
	s.allocs = append(s.allocs, p)
	return nil
}

// BindNull binds NULL.
func (s *Stmt) BindNull(index int, name string) error {
	if rc := sqlite3.Xsqlite3_bind_null(s.db.tls, s.stmt, int32(index)); rc != sqlite3.SQLITE_OK {
		return fmt.Errorf("cannot bind null to %s: %w", name, s.db.errstr(rc))
	}
	return nil
}

// ColumnType returns the storage class of a column in the current row.
func (s *Stmt) ColumnType(col int) Type {
	switch sqlite3.Xsqlite3_column_type(s.db.tls, s.stmt, int32(col)) {
	case sqlite3.SQLITE_INTEGER:
		return TypeInteger
	case sqlite3.SQLITE_FLOAT:
		return TypeFloat
	case sqlite3.SQLITE_TEXT:
		return TypeText
	case sqlite3.SQLITE_BLOB:
		return TypeBlob
	default:
		return TypeNull
	}
}

// ColumnInt64 reads a column of the current row as a signed 64-bit
// integer.
func (s *Stmt) ColumnInt64(col int) int64 {
	return sqlite3.Xsqlite3_column_int64(s.db.tls, s.stmt, int32(col))
}

// ColumnUint64 reads a column as an unsigned 64-bit integer by
// reinterpreting the stored bit pattern. Matches BindUint64Cast.
func (s *Stmt) ColumnUint64(col int) uint64 {
	return uint64(s.ColumnInt64(col))
}

// ColumnUint64Slide reads a column written with BindUint64Slide, sliding
// the stored signed value back to the original unsigned value.
func (s *Stmt) ColumnUint64Slide(col int) uint64 {
	return decodeUint64(s.ColumnInt64(col))
}

// ColumnInt32 reads a column as a signed 32-bit integer.
func (s *Stmt) ColumnInt32(col int) int32 {
	return sqlite3.Xsqlite3_column_int(s.db.tls, s.stmt, int32(col))
}

// ColumnUint32 reads a column as an unsigned 32-bit integer by
// reinterpreting the stored bit pattern.
func (s *Stmt) ColumnUint32(col int) uint32 {
	return uint32(s.ColumnInt32(col))
}

// ColumnText reads a column as a string.
func (s *Stmt) ColumnText(col int) string {
	p := sqlite3.Xsqlite3_column_text(s.db.tls, s.stmt, int32(col))
	n := int(sqlite3.Xsqlite3_column_bytes(s.db.tls, s.stmt, int32(col)))
	if p == 0 || n == 0 {
		return ""
	}
	b := make([]byte, n)
	copy(b, (*libc.RawMem)(unsafe.Pointer(p))[:n:n])
	return string(b)
}

// ColumnBytes reads a column as a blob. The returned slice is a copy.
func (s *Stmt) ColumnBytes(col int) []byte {
	p := sqlite3.Xsqlite3_column_blob(s.db.tls, s.stmt, int32(col))
	n := int(sqlite3.Xsqlite3_column_bytes(s.db.tls, s.stmt, int32(col)))
	if p == 0 || n == 0 {
		return nil
	}
	b := make([]byte, n)
	copy(b, (*libc.RawMem)(unsafe.Pointer(p))[:n:n])
	return b
}

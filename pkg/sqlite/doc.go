// Package sqlite is a thin, typed wrapper over the SQLite C API as
// transpiled by modernc.org/sqlite. It exposes the engine primitives the
// resource layer is built on: connection open/close, raw command
// execution, prepared statements with per-call integer binding policies,
// typed column reads, and a generic lazy query iterator.
//
// The package is deliberately low level. It does not pool connections,
// parse connection strings, or schedule anything: every call is a direct
// blocking call into the engine, and a Database or Stmt must only be used
// from one goroutine at a time.
//
// # Unsigned integers
//
// SQLite stores integers as signed 64-bit values. Four binding policies
// bridge the unsigned domains of application code:
//
//   - cast (BindUint64Cast, BindUint32Cast): reinterpret the bit pattern.
//     Values above the signed maximum become negative in storage but
//     round-trip through the matching cast read. Do not compare them in
//     queries.
//   - checked (BindUint64, BindUint32): verify the value fits the signed
//     positive range first, failing with ErrOutOfBounds. Safe for
//     inequality comparisons.
//   - extend (BindUint32Extend, BindUint16, BindUint8, ...): pure
//     widening for narrow types that always fit. Never fails.
//   - slide (BindUint64Slide): an order-preserving bijection between the
//     full unsigned and signed 64-bit ranges. The only policy that allows
//     ordering comparisons over the whole uint64 range inside a query.
//     Values bound with it must be read back with ColumnUint64Slide.
package sqlite

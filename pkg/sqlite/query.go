package sqlite

// RowFunc decodes the current row of a statement into a value of type T.
// It is called only while the statement is positioned on a row.
type RowFunc[T any] func(*Stmt) (T, error)

// Query presents a prepared statement as a lazy, single-pass sequence of
// decoded values. The first row is fetched and decoded eagerly at
// construction; subsequent rows are decoded one Advance at a time, so at
// most one materialized value is held.
//
// A *Query is the single owner of its statement's cursor: it finalizes
// the statement when the rows are exhausted, and the finished state is
// permanent. Restarting requires preparing a new statement and building a
// new Query.
type Query[T any] struct {
	stmt    *Stmt
	decode  RowFunc[T]
	current T
}

// NewQuery executes the first step of stmt and decodes the first row if
// there is one. The Query takes ownership of stmt and finalizes it when
// the sequence ends, including on error.
func NewQuery[T any](stmt *Stmt, decode RowFunc[T]) (*Query[T], error) {
	q := &Query[T]{stmt: stmt, decode: decode}
	if err := q.Advance(); err != nil {
		return nil, err
	}
	return q, nil
}

// Finished reports whether the sequence is exhausted. Every finished
// Query is equivalent: termination is a state, not a position.
func (q *Query[T]) Finished() bool {
	return q.stmt == nil
}

// Value returns the decoded value for the current row. It is only
// meaningful while Finished reports false.
func (q *Query[T]) Value() T {
	return q.current
}

// Advance discards the current value and decodes the next row. When no
// row remains the underlying statement is released and the Query enters
// the finished state. Advancing a finished Query is a no-op.
func (q *Query[T]) Advance() error {
	if q.stmt == nil {
		return nil
	}
	res, err := q.stmt.Step()
	if err != nil {
		q.finish()
		return err
	}
	if res == Done {
		q.finish()
		var zero T
		q.current = zero
		return nil
	}
	v, err := q.decode(q.stmt)
	if err != nil {
		q.finish()
		return err
	}
	q.current = v
	return nil
}

func (q *Query[T]) finish() {
	if q.stmt != nil {
		q.stmt.Finalize()
		q.stmt = nil
	}
}

// Collect drains a statement into a slice using decode, finalizing the
// statement. It returns the rows decoded so far alongside any error.
func Collect[T any](stmt *Stmt, decode RowFunc[T]) ([]T, error) {
	q, err := NewQuery(stmt, decode)
	if err != nil {
		return nil, err
	}
	var out []T
	for !q.Finished() {
		out = append(out, q.Value())
		if err := q.Advance(); err != nil {
			return out, err
		}
	}
	return out, nil
}

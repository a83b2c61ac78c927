// Package resource persists and retrieves tagged resource databases:
// single-file SQLite databases carrying a self-describing metadata header
// alongside arbitrary tool-defined tables.
//
// The header lives in a table named "_metadata" holding exactly one row.
// The row layout is versioned; readers refuse versions newer than
// Version and substitute fixed defaults for fields introduced after the
// stored version.
package resource

import (
	"errors"
	"fmt"

	"github.com/tetrane/rvnsqlite/pkg/sqlite"
)

// Store is a resource database: one owned connection plus the decoded
// metadata header, cached with the schema version it was read at. The
// cache serves Metadata reads; SetMetadata writes through to storage
// before updating it, and reopening always re-reads storage.
type Store struct {
	db        *sqlite.Database
	md        Metadata
	mdVersion uint32
}

// Create creates a new resource database at path and writes md into it.
// The containing directory must exist, and path must not already be a
// database holding metadata.
func Create(path string, md Metadata) (*Store, error) {
	db, err := sqlite.Open(path, sqlite.OpenCreate)
	if err != nil {
		return nil, err
	}
	return convert(db, md)
}

// InMemory creates a new private in-memory resource database with md.
func InMemory(md Metadata) (*Store, error) {
	db, err := sqlite.OpenMemory()
	if err != nil {
		return nil, err
	}
	return convert(db, md)
}

// Open opens the resource database at path and reads its metadata. The
// file must exist; any metadata read failure propagates and no Store is
// returned.
func Open(path string, readOnly bool) (*Store, error) {
	mode := sqlite.OpenReadWrite
	if readOnly {
		mode = sqlite.OpenReadOnly
	}
	db, err := sqlite.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return fromDB(db)
}

// FromDB takes ownership of an existing connection that must already
// hold metadata and re-reads it. On failure the connection is closed
// along with the error being returned.
func FromDB(db *sqlite.Database) (*Store, error) {
	return fromDB(db)
}

// Convert takes ownership of a plain connection that does not yet hold
// metadata and adds md to it. Converting a database that already holds
// metadata fails with ErrWriteMetadata; on failure the connection is
// closed.
func Convert(db *sqlite.Database, md Metadata) (*Store, error) {
	return convert(db, md)
}

func fromDB(db *sqlite.Database) (*Store, error) {
	s := &Store{db: db}
	vm, err := s.readMetadata()
	if err != nil {
		db.Close()
		return nil, err
	}
	s.md = vm.md
	s.mdVersion = vm.version
	return s, nil
}

func convert(db *sqlite.Database, md Metadata) (*Store, error) {
	s := &Store{db: db}
	if err := s.createMetadata(md); err != nil {
		db.Close()
		return nil, err
	}
	s.md = md
	s.mdVersion = Version
	return s, nil
}

// Metadata returns the cached metadata header.
func (s *Store) Metadata() Metadata {
	return s.md
}

// SetMetadata overwrites the metadata header. It fails with
// ErrWriteMetadata, without touching storage, if the store's cached
// schema version differs from Version: migrating an old row layout is an
// explicit step outside this package.
func (s *Store) SetMetadata(md Metadata) error {
	if s.mdVersion != Version {
		return fmt.Errorf("%w: cannot set the metadata with different metadata version than the current", ErrWriteMetadata)
	}
	if err := s.updateMetadata(md); err != nil {
		return err
	}
	s.md = md
	return nil
}

// Database returns the underlying connection for tool-defined tables.
// The connection remains owned by the Store.
func (s *Store) Database() *sqlite.Database {
	return s.db
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createMetadata creates the _metadata table and inserts the single
// header row. The table-creation failure is what guarantees the
// exactly-one invariant at creation time: a second conversion fails here.
func (s *Store) createMetadata(md Metadata) error {
	err := s.db.Exec(`create table _metadata (
		metadata_version int,
		type int,
		format_version text,
		tool_name text,
		tool_version text,
		tool_info text,
		generation_date int8
	);`)
	if err != nil {
		return fmt.Errorf("%w: could not create metadata: either this is not a database or the metadata already exists", ErrWriteMetadata)
	}

	stmt, err := sqlite.Prepare(s.db, "insert into _metadata values(?,?,?,?,?,?,?);")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteMetadata, err)
	}
	defer stmt.Finalize()

	if err := writeRow(stmt, md); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteMetadata, err)
	}
	return nil
}

// updateMetadata overwrites the single header row in place.
func (s *Store) updateMetadata(md Metadata) error {
	stmt, err := sqlite.Prepare(s.db, `update _metadata set
		metadata_version = ?,
		type = ?,
		format_version = ?,
		tool_name = ?,
		tool_version = ?,
		tool_info = ?,
		generation_date = ?;`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteMetadata, err)
	}
	defer stmt.Finalize()

	if err := writeRow(stmt, md); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteMetadata, err)
	}
	return nil
}

func writeRow(stmt *sqlite.Stmt, md Metadata) error {
	if err := stmt.BindUint32Cast(1, Version, "metadata version"); err != nil {
		return err
	}
	if err := stmt.BindUint32Cast(2, md.Type(), "type"); err != nil {
		return err
	}
	if err := stmt.BindText(3, md.FormatVersion(), "format version"); err != nil {
		return err
	}
	if err := stmt.BindText(4, md.ToolName(), "tool name"); err != nil {
		return err
	}
	if err := stmt.BindText(5, md.ToolVersion(), "tool version"); err != nil {
		return err
	}
	if err := stmt.BindText(6, md.ToolInfo(), "tool info"); err != nil {
		return err
	}
	if err := stmt.BindUint64Cast(7, md.GenerationDate(), "generation date"); err != nil {
		return err
	}
	_, err := stmt.Step()
	return err
}

type versionedMetadata struct {
	version uint32
	md      Metadata
}

// readMetadata reads the header row, translating any lower-level engine
// failure into ErrReadMetadata.
func (s *Store) readMetadata() (versionedMetadata, error) {
	vm, err := s.readMetadataRow()
	if err != nil && !errors.Is(err, ErrReadMetadata) {
		return vm, fmt.Errorf("%w: missing metadata, is this a resource database? (%v)", ErrReadMetadata, err)
	}
	return vm, err
}

func (s *Store) readMetadataRow() (versionedMetadata, error) {
	var vm versionedMetadata

	stmt, err := sqlite.Prepare(s.db, "select * from _metadata;")
	if err != nil {
		return vm, err
	}
	defer stmt.Finalize()

	res, err := stmt.Step()
	if err != nil {
		return vm, err
	}
	if res != sqlite.Row {
		return vm, fmt.Errorf("%w: ill-formed metadata: no metadata entry", ErrReadMetadata)
	}

	// Rows written before the schema was versioned have no
	// metadata_version column; they are read as version 0.
	hasVersion, err := s.db.TableHasColumn("_metadata", "metadata_version")
	if err != nil {
		return vm, err
	}

	col := 0
	if hasVersion {
		vm.version = stmt.ColumnUint32(col)
		col++
		if vm.version > Version {
			return vm, fmt.Errorf("%w: metadata version in the future", ErrReadMetadata)
		}
	}

	var md Metadata
	md.resourceType = stmt.ColumnUint32(col)
	col++
	md.formatVersion = stmt.ColumnText(col)
	col++
	md.toolName = stmt.ColumnText(col)
	col++
	if vm.version >= 1 {
		md.toolVersion = stmt.ColumnText(col)
		col++
	} else {
		md.toolVersion = defaultToolVersion
	}
	md.toolInfo = stmt.ColumnText(col)
	col++
	md.generationDate = stmt.ColumnUint64(col)

	res, err = stmt.Step()
	if err != nil {
		return vm, err
	}
	if res != sqlite.Done {
		return vm, fmt.Errorf("%w: ill-formed metadata: multiple metadata entries", ErrReadMetadata)
	}

	vm.md = md
	return vm, nil
}

package resource

import "errors"

// Version is the metadata schema version this package writes and the
// highest version it knows how to read.
const Version uint32 = 1

// defaultToolVersion is synthesized for the tool_version field when
// reading a row written before the field existed (schema version 0).
const defaultToolVersion = "1.0.0-prerelease"

// Metadata protocol errors. Lower-level engine failures on the metadata
// paths are re-wrapped into these, so callers only branch on the
// metadata taxonomy.
var (
	// ErrReadMetadata reports a violation of the metadata read protocol:
	// missing entry, multiple entries, a version from the future, or a
	// database that is not a resource database at all.
	ErrReadMetadata = errors.New("cannot read metadata")

	// ErrWriteMetadata reports a violation of the metadata write
	// protocol, such as converting a database that already has metadata
	// or writing with a mismatched schema version.
	ErrWriteMetadata = errors.New("cannot write metadata")
)

// Metadata is the self-describing header of a resource database. Its
// fields are fixed at construction; producers build one through Writer,
// and the Store builds one when reading a database back.
type Metadata struct {
	resourceType   uint32
	formatVersion  string
	toolName       string
	toolVersion    string
	toolInfo       string
	generationDate uint64
}

// Type returns the magic identifying the resource type.
func (m Metadata) Type() uint32 { return m.resourceType }

// FormatVersion returns the version of the resource file format, of the
// form "x.y.z-suffix" with an optional suffix.
func (m Metadata) FormatVersion() string { return m.formatVersion }

// ToolName returns the name of the tool that generated the resource.
func (m Metadata) ToolName() string { return m.toolName }

// ToolVersion returns the version of the generating tool, of the form
// "x.y.z-suffix" with an optional suffix.
func (m Metadata) ToolVersion() string { return m.toolVersion }

// ToolInfo returns free-form information about the generating tool,
// typically its version plus the version of the writer library used.
func (m Metadata) ToolInfo() string { return m.toolInfo }

// GenerationDate returns the date of generation as an unsigned 64-bit
// timestamp chosen by the producer.
func (m Metadata) GenerationDate() uint64 { return m.generationDate }

// Equal reports field-wise equality.
func (m Metadata) Equal(other Metadata) bool {
	return m == other
}

// Writer is the capability producer code uses to build Metadata.
// A producer declares a Writer carrying its identity constants and calls
// Metadata on it:
//
//	var tracesWriter = resource.Writer{
//	    Type:          0x74726163,
//	    FormatVersion: "1.2.0",
//	    ToolName:      "trace_writer",
//	    ToolVersion:   "2.8.0",
//	    ToolInfo:      "trace_writer 2.8.0 (rvnsqlite)",
//	}
//
//	md := tracesWriter.Metadata()
type Writer struct {
	Type           uint32
	FormatVersion  string
	ToolName       string
	ToolVersion    string
	ToolInfo       string
	GenerationDate uint64
}

// Metadata builds the sealed record from the writer's fields.
func (w Writer) Metadata() Metadata {
	return Metadata{
		resourceType:   w.Type,
		formatVersion:  w.FormatVersion,
		toolName:       w.ToolName,
		toolVersion:    w.ToolVersion,
		toolInfo:       w.ToolInfo,
		generationDate: w.GenerationDate,
	}
}

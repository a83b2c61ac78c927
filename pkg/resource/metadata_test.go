package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterBuildsMetadata(t *testing.T) {
	w := Writer{
		Type:           42,
		FormatVersion:  "1.0.0-dummy",
		ToolName:       "TestMetaDataWriter",
		ToolVersion:    "1.0.0",
		ToolInfo:       "Tests version 1.0.0",
		GenerationDate: 42424242,
	}

	md := w.Metadata()
	assert.Equal(t, uint32(42), md.Type())
	assert.Equal(t, "1.0.0-dummy", md.FormatVersion())
	assert.Equal(t, "TestMetaDataWriter", md.ToolName())
	assert.Equal(t, "1.0.0", md.ToolVersion())
	assert.Equal(t, "Tests version 1.0.0", md.ToolInfo())
	assert.Equal(t, uint64(42424242), md.GenerationDate())
}

func TestMetadataEqual(t *testing.T) {
	w := Writer{Type: 1, FormatVersion: "1.0.0", ToolName: "a"}

	md1 := w.Metadata()
	md2 := w.Metadata()
	assert.True(t, md1.Equal(md2))

	w.GenerationDate = 1
	md3 := w.Metadata()
	assert.False(t, md1.Equal(md3))
}

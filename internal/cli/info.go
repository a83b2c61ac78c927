package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetrane/rvnsqlite/pkg/resource"
)

// metadataView is the JSON shape of a metadata header.
type metadataView struct {
	Type           uint32 `json:"type"`
	FormatVersion  string `json:"format_version"`
	ToolName       string `json:"tool_name"`
	ToolVersion    string `json:"tool_version"`
	ToolInfo       string `json:"tool_info"`
	GenerationDate uint64 `json:"generation_date"`
}

func viewOf(md resource.Metadata) metadataView {
	return metadataView{
		Type:           md.Type(),
		FormatVersion:  md.FormatVersion(),
		ToolName:       md.ToolName(),
		ToolVersion:    md.ToolVersion(),
		ToolInfo:       md.ToolInfo(),
		GenerationDate: md.GenerationDate(),
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the metadata header of a resource database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resource.Open(args[0], true)
			if err != nil {
				return err
			}
			defer store.Close()

			return printMetadata(cmd, store.Metadata())
		},
	}
}

func printMetadata(cmd *cobra.Command, md resource.Metadata) error {
	out := cmd.OutOrStdout()
	if flags.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(viewOf(md))
	}

	fmt.Fprintf(out, "type:            %#08x\n", md.Type())
	fmt.Fprintf(out, "format version:  %s\n", md.FormatVersion())
	fmt.Fprintf(out, "tool name:       %s\n", md.ToolName())
	fmt.Fprintf(out, "tool version:    %s\n", md.ToolVersion())
	fmt.Fprintf(out, "tool info:       %s\n", md.ToolInfo())
	fmt.Fprintf(out, "generation date: %d\n", md.GenerationDate())
	return nil
}

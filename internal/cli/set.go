package cli

import (
	"github.com/spf13/cobra"

	"github.com/tetrane/rvnsqlite/pkg/resource"
)

func newSetCmd() *cobra.Command {
	var mdFlags metadataFlags

	cmd := &cobra.Command{
		Use:   "set <file>",
		Short: "Overwrite metadata fields of a resource database",
		Long: "Set overwrites the metadata header of a resource database.\n" +
			"Fields whose flags are not given keep their stored values.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resource.Open(args[0], false)
			if err != nil {
				return err
			}
			defer store.Close()

			cur := store.Metadata()
			w := resource.Writer{
				Type:           cur.Type(),
				FormatVersion:  cur.FormatVersion(),
				ToolName:       cur.ToolName(),
				ToolVersion:    cur.ToolVersion(),
				ToolInfo:       cur.ToolInfo(),
				GenerationDate: cur.GenerationDate(),
			}

			fl := cmd.Flags()
			if fl.Changed("type") {
				w.Type = mdFlags.resourceType
			}
			if fl.Changed("format-version") {
				w.FormatVersion = mdFlags.formatVersion
			}
			if fl.Changed("tool-name") {
				w.ToolName = mdFlags.toolName
			}
			if fl.Changed("tool-version") {
				w.ToolVersion = mdFlags.toolVersion
			}
			if fl.Changed("tool-info") {
				w.ToolInfo = mdFlags.toolInfo
			}
			if fl.Changed("generation-date") {
				w.GenerationDate = mdFlags.generationDate
			}

			if err := store.SetMetadata(w.Metadata()); err != nil {
				return err
			}
			return printMetadata(cmd, store.Metadata())
		},
	}

	mdFlags.register(cmd)

	return cmd
}

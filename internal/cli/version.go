package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// toolVersion is the version of the rvndb tool itself.
const toolVersion = "1.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rvndb version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "rvndb "+toolVersion)
		},
	}
}

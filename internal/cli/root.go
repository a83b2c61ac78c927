// Package cli implements the rvndb command-line interface, a small
// front-end over the resource store for inspecting and stamping
// resource databases.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess = 0
	exitUserErr = 1
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "rvndb" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rvndb",
		Short: "Inspect and stamp resource databases",
		Long: "Rvndb manages the self-describing metadata header of resource\n" +
			"databases: single-file SQLite databases tagged with a type, a format\n" +
			"version and the identity of the tool that produced them.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newCreateCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newSetCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserErr)
	}
	os.Exit(exitSuccess)
}

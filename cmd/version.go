package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/skillgraph"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("physiq", version)
		fmt.Println("built-in graph", skillgraph.DefaultVersion)
		fmt.Println("save format", persistence.FormatVersion)
	},
}

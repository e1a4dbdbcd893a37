package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/physiq/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the skill tree as MCP tools on stdin/stdout",
	Long: `Serve the skill tree as MCP tools on stdin/stdout.

Logs go to stderr so they never corrupt the protocol stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		return mcptools.New(s.engine, version).ServeStdio()
	},
}

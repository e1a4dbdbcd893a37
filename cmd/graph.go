package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/physiq/internal/graphfile"
	"github.com/abhisek/physiq/internal/skillgraph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Work with skill graph files",
}

var graphValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a graph file against the schema and the graph rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := graphfile.Load(args[0])
		if err != nil {
			var se *graphfile.SchemaError
			if errors.As(err, &se) {
				return fmt.Errorf("%s does not match the graph schema: %w", args[0], se.Err)
			}
			return err
		}
		if err := skillgraph.Validate(data); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Printf("%s: ok (%d nodes, %d connections, %d specializations)\n",
			args[0], len(data.Nodes), len(data.Connections), len(data.Specializations))
		return nil
	},
}

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the configured graph (or the built-in one) as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		data, err := graphfile.SourceFor(cfg.GraphPath).FetchGraph(cmd.Context())
		if err != nil {
			return err
		}
		switch graphfile.Format(format) {
		case graphfile.FormatJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		case graphfile.FormatYAML:
			return printJSONAsYAML(data)
		}
		return fmt.Errorf("%w: %q", graphfile.ErrUnsupportedFormat, format)
	},
}

func init() {
	graphExportCmd.Flags().String("format", "json", "Output format: json or yaml")
	graphCmd.AddCommand(graphValidateCmd)
	graphCmd.AddCommand(graphExportCmd)
}

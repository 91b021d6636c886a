package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/spf13/cobra"
)

func newNodesCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Query the node catalog",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	search := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find node types matching a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(e.configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return printNodes(cmd, a.Registry.Search(cmd.Context(), args[0]), asJSON)
		},
	}

	recommend := &cobra.Command{
		Use:   "recommend <request>",
		Short: "Suggest up to five node types for a request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(e.configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return printNodes(cmd, a.Registry.Recommend(cmd.Context(), strings.Join(args, " ")), asJSON)
		},
	}

	cmd.AddCommand(search, recommend)
	return cmd
}

func printNodes(cmd *cobra.Command, nodes []model.Capability, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, nodes)
	}
	if len(nodes) == 0 {
		fmt.Fprintln(out, "No matching nodes.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tCATEGORY")
	for _, n := range nodes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.Name, n.DisplayName, n.Category)
	}
	return w.Flush()
}

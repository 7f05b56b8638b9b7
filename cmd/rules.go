package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/retlint/internal"
	"github.com/gnoswap-labs/retlint/internal/returns"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRules(stdout)
	},
}

func listRules(out io.Writer) error {
	defaults := internal.DefaultRules()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tRULE\tSEVERITY\tMESSAGE")
	for _, kind := range returns.Kinds {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind.Code(), kind.Rule(), defaults[kind.Rule()].Severity, kind.Message())
	}
	return w.Flush()
}

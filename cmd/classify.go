package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/retlint/internal/branch"
	"github.com/gnoswap-labs/retlint/internal/lints"
	"github.com/gnoswap-labs/retlint/internal/syntax"
)

// variable for flags
var funcName string

var classifyCmd = &cobra.Command{
	Use:   "classify [files...]",
	Short: "Show how each function body terminates",
	Long: `Prints, for every function of the given files, whether its body always
raises, always returns, or may fall through to its end, and where.
Example) retlint classify --func my_rule defs.bzl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file paths")
		}
		return runClassify(logger, stdout, args, funcName)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&funcName, "func", "", "Only show the function with this name")
}

func runClassify(logger *zap.Logger, out io.Writer, paths []string, funcName string) error {
	functionFound := false
	for _, path := range paths {
		mod, err := lints.ParseFile(path, nil)
		if err != nil {
			logger.Error("Failed to parse file", zap.String("path", path), zap.Error(err))
			continue
		}
		for _, fn := range syntax.Funcs(mod.Body) {
			if funcName != "" && fn.Name != funcName {
				continue
			}
			functionFound = true
			fmt.Fprintf(out, "%s:%s: %s: %s\n", path, fn.Def, fn.Name, branch.Classify(fn.Body))
		}
	}

	if funcName != "" && !functionFound {
		return fmt.Errorf("function not found: %s", funcName)
	}
	return nil
}

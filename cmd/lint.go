package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/retlint/formatter"
	"github.com/gnoswap-labs/retlint/internal"
	tt "github.com/gnoswap-labs/retlint/internal/types"
	"github.com/gnoswap-labs/retlint/lint"
)

const (
	formatText    = "text"
	formatCompact = "compact"
	formatJSON    = "json"
)

var (
	ignoreRules    string
	ignorePaths    string
	lintJsonOutput bool
	outputFormat   string
	outPath        string
	cacheDir       string
	watchMode      bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run the normal lint process",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		format := outputFormat
		if lintJsonOutput {
			format = formatJSON
		}

		found, err := runNormalLintProcess(ctx, logger, engine, args, format, outPath)
		if err != nil {
			return err
		}

		if watchMode {
			return watch(engine, args, format)
		}
		if found {
			return ErrIssuesFound
		}
		return nil
	},
}

func init() {
	addLintFlags(lintCmd.Flags())
}

func addLintFlags(flags *pflag.FlagSet) {
	flags.StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore, by name or code")
	flags.StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of path patterns to ignore")
	flags.BoolVar(&lintJsonOutput, "json", false, "Output issues in JSON format")
	flags.StringVar(&outputFormat, "format", formatText, "Output format: text, compact or json")
	flags.StringVarP(&outPath, "output", "o", "", "Output path (default stdout)")
	flags.StringVar(&cacheDir, "cache-dir", "", "Directory of the result cache; empty disables caching")
	flags.BoolVarP(&watchMode, "watch", "w", false, "Lint again whenever a source file changes")
}

func newEngine() (*internal.Engine, error) {
	engine, err := lint.New(".", cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lint engine: %w", err)
	}
	engine.SetLogger(logger)

	if ignoreRules != "" {
		for _, rule := range strings.Split(ignoreRules, ",") {
			engine.IgnoreRule(strings.TrimSpace(rule))
		}
	}

	if ignorePaths != "" {
		for _, path := range strings.Split(ignorePaths, ",") {
			if err := engine.IgnorePath(strings.TrimSpace(path)); err != nil {
				return nil, err
			}
		}
	}

	if cacheDir != "" {
		cache, err := internal.NewCache(cacheDir)
		if err != nil {
			return nil, err
		}
		configPath := cfgFile
		if configPath == "" {
			configPath = lint.DefaultConfigFile
		}
		if _, err := os.Stat(configPath); err == nil {
			if err := cache.AddDependency(configPath); err != nil {
				return nil, err
			}
		}
		engine.SetCache(cache)
	}

	return engine, nil
}

// runNormalLintProcess lints paths and writes the report. It reports whether
// any issue was found.
func runNormalLintProcess(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, format, outPath string) (bool, error) {
	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
	if err != nil {
		return false, fmt.Errorf("error processing files: %w", err)
	}

	out := stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return false, fmt.Errorf("error creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := printIssues(logger, out, issues, format); err != nil {
		return false, err
	}
	return len(issues) > 0, nil
}

func printIssues(logger *zap.Logger, out io.Writer, issues []tt.Issue, format string) error {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	switch format {
	case formatText:
		for _, filename := range sortedFiles {
			fileIssues := issuesByFile[filename]
			sourceCode, err := internal.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			}
			fmt.Fprintln(out, formatter.GenerateFormattedIssue(fileIssues, sourceCode))
		}
	case formatCompact:
		for _, filename := range sortedFiles {
			fmt.Fprint(out, formatter.GenerateCompactIssues(issuesByFile[filename]))
		}
	case formatJSON:
		d, err := json.Marshal(issuesByFile)
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(d)); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// watch lints changed files under the directories of paths until interrupted.
func watch(engine *internal.Engine, paths []string, format string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dirs := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			path = filepath.Dir(path)
		}
		dirs = append(dirs, path)
	}

	err := engine.StartWatching(func(filename string, issues []tt.Issue) {
		if len(issues) == 0 {
			fmt.Fprintf(stdout, "%s: no issues\n", filename)
			return
		}
		if err := printIssues(logger, stdout, issues, format); err != nil {
			logger.Error("Error printing issues", zap.Error(err))
		}
	}, dirs...)
	if err != nil {
		return err
	}
	logger.Info("watching for changes", zap.Strings("dirs", dirs))

	<-ctx.Done()
	return engine.StopWatching()
}

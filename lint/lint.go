package lint

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/retlint/internal"
	tt "github.com/gnoswap-labs/retlint/internal/types"
	"github.com/gnoswap-labs/retlint/scanner"
)

const maxShowRecentFiles = 25

// DefaultConfigFile is the configuration read when no path is given and the
// file exists in the working directory.
const DefaultConfigFile = ".retlint.yaml"

// progressOutput receives the progress bar and the list of recently linted
// files while a directory is processed.
var progressOutput io.Writer = os.Stderr

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(pattern string) error
}

// New creates an engine configured from the file at configurationPath.
// An empty path falls back to DefaultConfigFile when present, and to the
// default rule set otherwise.
func New(rootDir string, configurationPath string) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}

	engine, err := internal.NewEngine(rootDir, config.Rules)
	if err != nil {
		return nil, err
	}
	for _, pattern := range config.IgnorePaths {
		if err := engine.IgnorePath(pattern); err != nil {
			return nil, fmt.Errorf("invalid ignore path %q: %w", pattern, err)
		}
	}
	for _, rule := range config.IgnoreRules {
		engine.IgnoreRule(rule)
	}
	return engine, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
	processor func(LintEngine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allIssues, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath lints the file at path, or every Starlark file under it when it
// is a directory. Files of a directory are linted concurrently; a file that
// fails does not stop the others, and its error is returned with the issues
// of the rest.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !scanner.IsSourceFile(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	files, err := scanner.New(path, scanner.SourcePatterns...).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}

	progress := newProgress(path, len(files))

	var (
		mu     sync.Mutex
		issues = []tt.Issue{}
		errs   error
	)

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		fp := file.Path
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			progress.start(filepath.Base(fp))
			defer progress.done()

			fileIssues, err := processor(engine, fp)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				errs = multierr.Append(errs, err)
				return nil
			}
			issues = append(issues, fileIssues...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = multierr.Append(errs, err)
	}
	progress.finish()

	internal.SortIssues(issues)
	if err := ctx.Err(); err != nil {
		return issues, err
	}
	return issues, errs
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine LintEngine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

// progress shows a bar and the most recently started files of a directory run.
type progress struct {
	mu          sync.Mutex
	bar         *progressbar.ProgressBar
	recentFiles []string
}

func newProgress(description string, total int) *progress {
	p := &progress{recentFiles: make([]string, maxShowRecentFiles)}

	// make space for recent files
	for i := 0; i < maxShowRecentFiles+1; i++ {
		fmt.Fprintln(progressOutput)
	}
	fmt.Fprintf(progressOutput, "\033[%dA", maxShowRecentFiles+1)

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(progressOutput),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return p
}

func (p *progress) start(filename string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// update the list
	copy(p.recentFiles[1:], p.recentFiles[:maxShowRecentFiles-1])
	p.recentFiles[0] = filename

	// move the cursor up
	fmt.Fprintf(progressOutput, "\033[%dA", maxShowRecentFiles)

	for _, name := range p.recentFiles {
		// \033[2K: clear the line
		// \r: move the cursor to the beginning of the line
		fmt.Fprintf(progressOutput, "\033[2K\r%s\n", name)
	}
}

func (p *progress) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Add(1)
}

func (p *progress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
	fmt.Fprintln(progressOutput)
}

// Config represents the overall configuration with a name and the per-rule settings.
type Config struct {
	Name        string                   `yaml:"name"`
	Rules       map[string]tt.ConfigRule `yaml:"rules"`
	IgnoreRules []string                 `yaml:"ignore_rules,omitempty"`
	IgnorePaths []string                 `yaml:"ignore_paths,omitempty"`
}

// LoadConfig reads the configuration at path. See New for the handling of an
// empty path.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return Config{}, nil
		}
		path = DefaultConfigFile
	}
	return parseConfigurationFile(path)
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	// Read the configuration file
	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	// Parse the configuration file
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
	}

	return config, nil
}

package internal

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/retlint/internal/lints"
	"github.com/gnoswap-labs/retlint/internal/nolint"
	"github.com/gnoswap-labs/retlint/internal/syntax"
	tt "github.com/gnoswap-labs/retlint/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	rootDir      string
	rules        map[string]LintRule
	ignoredRules map[string]bool
	ignoredPaths []string
	cache        *Cache
	logger       *zap.Logger

	// watch mode
	watcher  *fsnotify.Watcher
	watching chan struct{}
	onIssues func(filename string, issues []tt.Issue)
	watchMu  sync.Mutex
}

// NewEngine creates a new lint engine. Relative ignore patterns are matched
// against paths relative to rootDir. rules overrides the default severity of
// rules, by name or code; a rule set to OFF does not run.
func NewEngine(rootDir string, rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{
		rootDir:      rootDir,
		ignoredRules: make(map[string]bool),
		logger:       zap.NewNop(),
	}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	return engine, nil
}

// Define the ruleConstructor type
type ruleConstructor func() LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	"unnecessary-return-none": NewUnnecessaryReturnNoneRule,
	"implicit-return-value":   NewImplicitReturnValueRule,
	"implicit-return":         NewImplicitReturnRule,
	"unnecessary-assign":      NewUnnecessaryAssignRule,
}

// RuleNames lists the names of every known rule, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(allRuleConstructors))
	for name := range allRuleConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRules returns every rule with its default severity, keyed by name.
func DefaultRules() map[string]tt.ConfigRule {
	rules := make(map[string]tt.ConfigRule, len(allRuleConstructors))
	for name, newRule := range allRuleConstructors {
		rules[name] = tt.ConfigRule{Severity: newRule().Severity()}
	}
	return rules
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]LintRule, len(allRuleConstructors))
	for key, newRuleCstr := range allRuleConstructors {
		e.rules[key] = newRuleCstr()
	}

	// Iterate over the rules and apply severity
	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			return fmt.Errorf("unknown rule %q in configuration", key)
		}
		r.SetSeverity(rule.Severity)
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(r.Name())
		}
	}
	return nil
}

// findRule finds a rule by name or code.
func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	for _, rule := range e.rules {
		if rule.Code() == name {
			return rule
		}
	}
	return nil
}

// SetCache makes the engine reuse the issues of unchanged files.
func (e *Engine) SetCache(cache *Cache) { e.cache = cache }

func (e *Engine) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.logger = logger
}

// IgnoreRule disables a rule, given by name or code.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	if r := e.findRule(rule); r != nil {
		rule = r.Name()
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips files matching the doublestar glob pattern, such as
// "third_party/**" or "**/*_test.star".
func (e *Engine) IgnorePath(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid ignore pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	e.ignoredPaths = append(e.ignoredPaths, filepath.ToSlash(pattern))
	return nil
}

func (e *Engine) isIgnoredPath(filename string) bool {
	candidates := []string{filepath.ToSlash(filename)}
	if e.rootDir != "" {
		if rel, err := filepath.Rel(e.rootDir, filename); err == nil {
			candidates = append(candidates, filepath.ToSlash(rel))
		}
	}
	for _, pattern := range e.ignoredPaths {
		for _, name := range candidates {
			if matched, _ := doublestar.Match(pattern, name); matched {
				return true
			}
		}
	}
	return false
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}

	if e.cache != nil {
		if issues, ok := e.cache.Get(filename); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return e.withoutIgnored(issues), nil
		}
	}

	mod, err := lints.ParseFile(filename, nil)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	issues := e.runRules(filename, mod)

	if e.cache != nil {
		if err := e.cache.Set(filename, issues); err != nil {
			e.logger.Warn("cannot cache issues", zap.String("file", filename), zap.Error(err))
		}
	}

	return e.withoutIgnored(issues), nil
}

// RunSource applies all lint rules to the given source and returns a slice of Issues.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	mod, err := lints.ParseFile("", source)
	if err != nil {
		return nil, fmt.Errorf("error parsing content: %w", err)
	}
	return e.withoutIgnored(e.runRules("", mod)), nil
}

// runRules runs every rule, ignored ones included so that cached results do
// not depend on the rules ignored by one invocation.
func (e *Engine) runRules(filename string, mod *syntax.Module) []tt.Issue {
	nolintMgr := nolint.ParseComments(mod)

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allIssues []tt.Issue
	for _, rule := range e.rules {
		if rule.Severity() == tt.SeverityOff {
			continue
		}
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			issues, err := r.Check(filename, mod)
			if err != nil {
				e.logger.Error("rule failed", zap.String("rule", r.Name()), zap.String("file", filename), zap.Error(err))
				return
			}

			nolinted := filterNolintIssues(nolintMgr, issues)

			mu.Lock()
			allIssues = append(allIssues, nolinted...)
			mu.Unlock()
		}(rule)
	}
	wg.Wait()

	SortIssues(allIssues)
	return allIssues
}

func (e *Engine) withoutIgnored(issues []tt.Issue) []tt.Issue {
	if len(e.ignoredRules) == 0 {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !e.ignoredRules[issue.Rule] {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// filterNolintIssues filters issues based on nolint comments.
func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !mgr.IsNolint(issue.Start.Line, issue.Rule, issue.Code) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// SortIssues orders issues by file, position and code.
func SortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start != b.Start {
			return a.Start.Before(b.Start)
		}
		return a.Code < b.Code
	})
}

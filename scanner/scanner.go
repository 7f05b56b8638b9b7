// Package scanner finds the Starlark files of a project tree.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// SourcePatterns are the base-name patterns of files written in Starlark.
var SourcePatterns = []string{
	"*.star",
	"*.bzl",
	"*.sky",
	"BUILD",
	"BUILD.bazel",
	"WORKSPACE",
	"WORKSPACE.bazel",
}

// IsSourceFile reports whether the base name of path matches SourcePatterns.
func IsSourceFile(path string) bool {
	return matchAny(SourcePatterns, filepath.Base(path))
}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir  string
	patterns []string
	excludes []string
}

// New returns a scanner for files under rootDir whose base name matches one
// of patterns. Without patterns every file matches.
func New(rootDir string, patterns ...string) *Scanner {
	return &Scanner{
		rootDir:  rootDir,
		patterns: patterns,
	}
}

// Exclude skips files and directories whose slash-separated path relative to
// the root matches one of patterns. Patterns use doublestar syntax.
func (s *Scanner) Exclude(patterns ...string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return doublestar.ErrBadPattern
		}
	}
	s.excludes = append(s.excludes, patterns...)
	return nil
}

// Scan walks the tree and returns the matching files sorted by path.
// Hidden directories are not entered.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if s.isExcluded(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != s.rootDir && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.isTargetFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.patterns) == 0 {
		return true
	}
	return matchAny(s.patterns, filepath.Base(path))
}

func (s *Scanner) isExcluded(path string) bool {
	if len(s.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(s.rootDir, path)
	if err != nil || rel == "." {
		return false
	}
	return matchAny(s.excludes, filepath.ToSlash(rel))
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const implicitReturnSource = `def f%d(y):
    if y:
        return 1
`

// TestProcessPathContextCancellation tests that a cancelled context stops the run
func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for i := 0; i < 10; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("test%d.star", i))
		require.NoError(t, os.WriteFile(filename, []byte(fmt.Sprintf(implicitReturnSource, i)), 0o644))
	}

	engine, err := New(tempDir, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	issues, err := ProcessPath(ctx, nil, engine, tempDir, ProcessFile)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, issues)
}

// TestFileResultCollection tests that the issues of every file are collected
func TestFileResultCollection(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for i := 0; i < 5; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("test%d.bzl", i))
		require.NoError(t, os.WriteFile(filename, []byte(fmt.Sprintf(implicitReturnSource, i)), 0o644))
	}

	engine, err := New(tempDir, "")
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, tempDir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, issues, 5)

	for i, issue := range issues {
		assert.Equal(t, filepath.Join(tempDir, fmt.Sprintf("test%d.bzl", i)), issue.Filename)
		assert.Equal(t, "R503", issue.Code)
		assert.Equal(t, 2, issue.Start.Line)
	}
}

// TestConcurrentProcessingWithErrors tests that a broken file does not hide the others
func TestConcurrentProcessingWithErrors(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for i := 0; i < 3; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("valid%d.star", i))
		require.NoError(t, os.WriteFile(filename, []byte(fmt.Sprintf(implicitReturnSource, i)), 0o644))
	}

	invalidFile := filepath.Join(tempDir, "invalid.star")
	require.NoError(t, os.WriteFile(invalidFile, []byte("def broken(:\n"), 0o644))

	engine, err := New(tempDir, "")
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, tempDir, ProcessFile)

	assert.Error(t, err, "Should return error from failed file")
	assert.ErrorContains(t, err, "invalid.star")
	assert.Len(t, issues, 3, "Should keep the issues of valid files")
}

func TestErrorPropagationSingleFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	invalidFile := filepath.Join(tempDir, "BUILD")
	require.NoError(t, os.WriteFile(invalidFile, []byte("if True\n"), 0o644))

	engine, err := New(tempDir, "")
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, invalidFile, ProcessFile)
	assert.Error(t, err)
	assert.Nil(t, issues)
}

func TestProcessPathHonoursConfig(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "gen"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.star"), []byte(fmt.Sprintf(implicitReturnSource, 0)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "gen", "b.star"), []byte(fmt.Sprintf(implicitReturnSource, 1)), 0o644))

	config := filepath.Join(tempDir, "retlint.yaml")
	require.NoError(t, os.WriteFile(config, []byte("rules:\n  R503:\n    severity: warning\nignore_paths:\n  - \"gen/**\"\n"), 0o644))

	engine, err := New(tempDir, config)
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, tempDir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, filepath.Join(tempDir, "a.star"), issues[0].Filename)
	assert.Equal(t, "WARNING", issues[0].Severity.String())
}

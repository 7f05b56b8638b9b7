package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/retlint/internal"
	tt "github.com/gnoswap-labs/retlint/internal/types"
	"github.com/gnoswap-labs/retlint/lint"
)

const sampleSource = `def a(y):
    if y:
        return 1

def b():
    fail("no")

def c(y):
    if y:
        return 1
    return 2
`

func createTempFileWithContent(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".retlint.yaml")

	written, err := initConfigurationFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	config, err := lint.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "retlint", config.Name)
	assert.Equal(t, internal.DefaultRules(), config.Rules)

	_, err = initConfigurationFile(path, false)
	assert.Error(t, err, "existing file must not be overwritten")

	_, err = initConfigurationFile(path, true)
	assert.NoError(t, err)
}

func TestRunNormalLintProcess(t *testing.T) {
	t.Parallel()

	file := createTempFileWithContent(t, "defs.bzl", sampleSource)
	out := filepath.Join(t.TempDir(), "report.txt")

	engine, err := lint.New(filepath.Dir(file), "")
	require.NoError(t, err)

	found, err := runNormalLintProcess(context.Background(), zap.NewNop(), engine, []string{file}, formatCompact, out)
	require.NoError(t, err)
	assert.True(t, found)

	report, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, file+":2:5: R503 missing explicit return at the end of function able to return non-None value\n", string(report))
}

func TestRunNormalLintProcessClean(t *testing.T) {
	t.Parallel()

	file := createTempFileWithContent(t, "clean.star", "def f(y):\n    return y\n")
	out := filepath.Join(t.TempDir(), "report.json")

	engine, err := lint.New(filepath.Dir(file), "")
	require.NoError(t, err)

	found, err := runNormalLintProcess(context.Background(), zap.NewNop(), engine, []string{file}, formatJSON, out)
	require.NoError(t, err)
	assert.False(t, found)

	report, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(report))
}

func TestPrintIssues(t *testing.T) {
	t.Parallel()

	file := createTempFileWithContent(t, "x.star", "def x():\n    a = 1\n    return a\n")
	issues := []tt.Issue{
		{
			Rule:     "unnecessary-assign",
			Code:     "R504",
			Filename: file,
			Message:  "unnecessary variable assignment before return statement",
			Severity: tt.SeverityWarning,
		},
	}
	issues[0].Start.Line, issues[0].Start.Column = 3, 5
	issues[0].End.Line, issues[0].End.Column = 3, 13

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, printIssues(zap.NewNop(), &buf, issues, formatJSON))

		var decoded map[string][]tt.Issue
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, map[string][]tt.Issue{file: issues}, decoded)
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, printIssues(zap.NewNop(), &buf, issues, formatText))
		assert.Contains(t, buf.String(), "R504")
		assert.Contains(t, buf.String(), "return a")
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, printIssues(zap.NewNop(), &bytes.Buffer{}, issues, "xml"))
	})
}

func TestRunClassify(t *testing.T) {
	t.Parallel()

	file := createTempFileWithContent(t, "defs.bzl", sampleSource)

	var buf bytes.Buffer
	require.NoError(t, runClassify(zap.NewNop(), &buf, []string{file}, ""))
	assert.Equal(t, strings.Join([]string{
		file + ":1:1: a: MayFallThrough at 2:5",
		file + ":5:1: b: AlwaysRaises",
		file + ":8:1: c: AlwaysReturnsValue",
		"",
	}, "\n"), buf.String())

	buf.Reset()
	require.NoError(t, runClassify(zap.NewNop(), &buf, []string{file}, "b"))
	assert.Equal(t, file+":5:1: b: AlwaysRaises\n", buf.String())

	assert.Error(t, runClassify(zap.NewNop(), &buf, []string{file}, "missing"))
}

func TestListRules(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, listRules(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	for i, code := range []string{"R501", "R502", "R503", "R504"} {
		assert.True(t, strings.HasPrefix(lines[i+1], code), lines[i+1])
	}
	assert.Contains(t, lines[4], "WARNING")
}

func TestExecuteLint(t *testing.T) {
	file := createTempFileWithContent(t, "BUILD", sampleSource)

	var buf bytes.Buffer
	stdout = &buf
	defer func() { stdout = os.Stdout }()

	rootCmd.SetArgs([]string{"lint", "--format", formatCompact, file})
	err := Execute()
	assert.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, buf.String(), "R503")
}

package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnoswap-labs/retlint/internal/types"
)

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func writeFile(t testing.TB, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const mixedSource = `def mixed(y):
    if not y:
        return
    if y > 1:
        return None
    a = y + 1
    return a

def partial(y):
    if y:
        return 1
`

func codes(issues []tt.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Code)
	}
	return out
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(createTempDir(t, "engine_test"), nil)
	assert.NoError(t, err)
	assert.NotNil(t, engine)
	assert.Len(t, engine.rules, 4)
	assert.Equal(t, []string{
		"implicit-return",
		"implicit-return-value",
		"unnecessary-assign",
		"unnecessary-return-none",
	}, RuleNames())
}

func TestDefaultRules(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]tt.ConfigRule{
		"unnecessary-return-none": {Severity: tt.SeverityError},
		"implicit-return-value":   {Severity: tt.SeverityError},
		"implicit-return":         {Severity: tt.SeverityError},
		"unnecessary-assign":      {Severity: tt.SeverityWarning},
	}, DefaultRules())
}

func TestNewEngineConfig(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", map[string]tt.ConfigRule{
		"implicit-return": {Severity: tt.SeverityInfo},
		"R504":            {Severity: tt.SeverityOff},
	})
	require.NoError(t, err)
	assert.Equal(t, tt.SeverityInfo, engine.rules["implicit-return"].Severity())
	assert.True(t, engine.ignoredRules["unnecessary-assign"])

	issues, err := engine.RunSource([]byte(mixedSource))
	require.NoError(t, err)
	assert.Equal(t, []string{"R502", "R501", "R503"}, codes(issues))
	assert.Equal(t, tt.SeverityInfo, issues[2].Severity)

	_, err = NewEngine("", map[string]tt.ConfigRule{"no-such-rule": {}})
	assert.Error(t, err)
}

func TestEngine_IgnoreRule(t *testing.T) {
	t.Parallel()
	engine := &Engine{}
	engine.IgnoreRule("test_rule")

	assert.True(t, engine.ignoredRules["test_rule"])
}

func TestEngine_RunSource(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(mixedSource))
	require.NoError(t, err)
	require.Equal(t, []string{"R502", "R501", "R504", "R503"}, codes(issues))

	assert.Equal(t, 3, issues[0].Start.Line)
	assert.Equal(t, 5, issues[1].Start.Line)
	assert.Equal(t, 7, issues[2].Start.Line)
	assert.Equal(t, tt.SeverityWarning, issues[2].Severity)
	assert.Equal(t, 10, issues[3].Start.Line)

	engine.IgnoreRule("R501")
	engine.IgnoreRule("implicit-return")
	issues, err = engine.RunSource([]byte(mixedSource))
	require.NoError(t, err)
	assert.Equal(t, []string{"R502", "R504"}, codes(issues))

	_, err = engine.RunSource([]byte("def broken(:\n"))
	assert.Error(t, err)
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()

	dir := createTempDir(t, "engine_run")
	file := writeFile(t, dir, "defs.bzl", mixedSource)

	engine, err := NewEngine(dir, nil)
	require.NoError(t, err)

	issues, err := engine.Run(file)
	require.NoError(t, err)
	require.Len(t, issues, 4)
	for _, issue := range issues {
		assert.Equal(t, file, issue.Filename)
	}

	_, err = engine.Run(filepath.Join(dir, "missing.bzl"))
	assert.Error(t, err)
}

func TestEngine_Nolint(t *testing.T) {
	t.Parallel()

	src := `def x(y):
    if not y:
        return  # nolint:implicit-return-value
    return 1

# nolint:R503
def z(y):
    if y:
        return 1

def w():
    a = 1
    return a  # nolint
`
	engine, err := NewEngine("", nil)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngine_RunLoopsWithComments(t *testing.T) {
	t.Parallel()

	src := `def spin(y):
    while True:  # loop forever
        if y:
            return 1
        y += 1

def first(ys):
    a = 0
    for y in ys:
        if y:
            return a
        a = y
    return a

def kept():
    a = 1
    return a  # nolint:R504

def flagged():
    b = 2
    return b
`
	dir := createTempDir(t, "engine_loops")
	file := writeFile(t, dir, "loops.star", src)

	engine, err := NewEngine(dir, nil)
	require.NoError(t, err)

	issues, err := engine.Run(file)
	require.NoError(t, err)
	require.Equal(t, []string{"R504"}, codes(issues))
	assert.Equal(t, 21, issues[0].Start.Line)
	assert.Equal(t, file, issues[0].Filename)
}

func TestEngine_IgnorePath(t *testing.T) {
	t.Parallel()

	dir := createTempDir(t, "engine_ignore")
	vendored := writeFile(t, dir, "third_party/lib/defs.bzl", mixedSource)
	own := writeFile(t, dir, "pkg/defs.bzl", mixedSource)

	engine, err := NewEngine(dir, nil)
	require.NoError(t, err)
	require.NoError(t, engine.IgnorePath("third_party/**"))

	issues, err := engine.Run(vendored)
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = engine.Run(own)
	require.NoError(t, err)
	assert.NotEmpty(t, issues)

	assert.Error(t, engine.IgnorePath("[unclosed"))
}

func TestSortIssues(t *testing.T) {
	t.Parallel()

	issues := []tt.Issue{
		{Filename: "b.star", Code: "R501"},
		{Filename: "a.star", Code: "R504", Start: posAt(3, 5)},
		{Filename: "a.star", Code: "R502", Start: posAt(3, 5)},
		{Filename: "a.star", Code: "R503", Start: posAt(1, 1)},
	}
	SortIssues(issues)

	var got []string
	for _, issue := range issues {
		got = append(got, issue.Filename+":"+issue.Code)
	}
	assert.Equal(t, "a.star:R503 a.star:R502 a.star:R504 b.star:R501", strings.Join(got, " "))
}

func TestReadSourceCode(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "source_code_test")

	testFile := writeFile(t, tempDir, "test.star", "def main():\n    print(\"Hello, World!\")\n")

	sourceCode, err := ReadSourceCode(testFile)
	assert.NoError(t, err)
	assert.NotNil(t, sourceCode)
	assert.Len(t, sourceCode.Lines, 3)
	assert.Equal(t, "def main():", sourceCode.Lines[0])
}

func BenchmarkRunSource(b *testing.B) {
	engine, err := NewEngine("", nil)
	if err != nil {
		b.Fatalf("failed to create engine: %v", err)
	}
	src := []byte(strings.Repeat(mixedSource+"\n", 100))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := engine.RunSource(src); err != nil {
			b.Fatalf("failed to run engine: %v", err)
		}
	}
}

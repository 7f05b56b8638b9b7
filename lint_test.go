package retlint

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		rules []string
		want  []string
	}{
		{
			name: "bare return mixed with value",
			src:  "def x(y):\n    if not y:\n        return\n    return 1\n",
			want: []string{"t.star:3:9: R502 do not implicitly return None in function able to return non-None value"},
		},
		{
			name: "return None next to bare return",
			src:  "def x(y):\n    if not y:\n        return\n    return None\n",
			want: []string{"t.star:4:5: R501 do not explicitly return None in function if it is the only possible return value"},
		},
		{
			name: "missing final return",
			src:  "def x(y):\n    if not y:\n        return 1\n",
			want: []string{"t.star:2:5: R503 missing explicit return at the end of function able to return non-None value"},
		},
		{
			name: "assigned only to be returned",
			src:  "def x():\n    a = 1\n    return a\n",
			want: []string{"t.star:3:5: R504 unnecessary variable assignment before return statement"},
		},
		{
			name:  "restricted to other rules",
			src:   "def x():\n    a = 1\n    return a\n",
			rules: []string{"R501", "implicit-return"},
		},
		{
			name: "silenced",
			src:  "def x():\n    a = 1\n    return a  # nolint:R504\n",
		},
		{
			name: "clean",
			src:  "def x(y):\n    if y:\n        return 1\n    fail(\"no\")\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags, err := CheckSource("t.star", []byte(tt.src), tt.rules...)
			require.NoError(t, err)

			var got []string
			for _, d := range diags {
				got = append(got, d.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckSourceErrors(t *testing.T) {
	t.Parallel()

	_, err := CheckSource("t.star", []byte("def x(:\n"))
	assert.Error(t, err)

	_, err = CheckSource("t.star", []byte("x = 1\n"), "R999")
	assert.Error(t, err)
}

func TestCheckFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "defs.bzl")
	require.NoError(t, os.WriteFile(path, []byte("def x():\n    a = 1\n    return a\n"), 0o644))

	diags, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, "UnnecessaryAssign", d.Kind)
	assert.Equal(t, "unnecessary-assign", d.Rule)
	assert.Equal(t, "x", d.Func)
	assert.Equal(t, 3, d.Line)

	_, err = CheckFile(filepath.Join(t.TempDir(), "missing.bzl"))
	assert.Error(t, err)
}

func TestFormatDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FormatDiagnostics(&buf, []Diagnostic{
		{Filename: "a.star", Line: 1, Column: 2, Code: "R501", Message: "m1"},
		{Filename: "b.star", Line: 3, Column: 4, Code: "R504", Message: "m2"},
	}))
	assert.Equal(t, "a.star:1:2: R501 m1\nb.star:3:4: R504 m2\n", buf.String())
}

func TestRules(t *testing.T) {
	t.Parallel()

	rules := Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, Rule{
		Kind:    "ImplicitReturn",
		Name:    "implicit-return",
		Code:    "R503",
		Message: "missing explicit return at the end of function able to return non-None value",
	}, rules[2])
}

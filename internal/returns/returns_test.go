package returns

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/retlint/internal/syntax"
	"github.com/gnoswap-labs/retlint/internal/syntax/starlark"
	st "github.com/gnoswap-labs/retlint/internal/syntax/syntaxtest"
)

func findings(diags []Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, fmt.Sprintf("%s@%d", d.Kind.Code(), d.Start.Line))
	}
	return out
}

func analyzeSource(t *testing.T, src string, kinds ...Kind) []string {
	t.Helper()
	mod, err := starlark.Parse("test.star", src)
	require.NoError(t, err)
	return findings(AnalyzeModule(mod, kinds...))
}

func TestAnalyzeModule(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "bare returns only",
			src: `def x(y):
    if not y:
        return
    return
`,
		},
		{
			name: "bare return then statement",
			src: `def x(y):
    if y:
        return
    print()
`,
		},
		{
			name: "value returns",
			src: `def x(y):
    if not y:
        return 1
    return 2
`,
		},
		{
			name: "if elif else",
			src: `def x(y):
    if not y:
        return 1
    elif y - 10:
        return 2
    else:
        return 3
`,
		},
		{
			name: "inner function is its own scope",
			src: `def x(y):
    if not y:
        return 1
    def inner():
        return
    return 2
`,
		},
		{
			name: "inner function after bare return",
			src: `def x(y):
    if not y:
        return
    def inner():
        return 1
`,
		},
		{
			name: "raise as last statement",
			src: `def x(y):
    if not y:
        return 1
    fail("no")
`,
		},
		{
			name: "infinite loop",
			src: `def x(y):
    while True:
        if y > 0:
            return 1
        y += 1
`,
		},
		{
			name: "only return None",
			src: `def x(y):
    return None
`,
		},
		{
			name: "assignment read before return",
			src: `def x(y):
    a = 1
    print(a)
    return a
`,
		},
		{
			name: "implicit return value",
			src: `def x(y):
    if not y:
        return
    return 1
`,
			want: []string{"R502@3"},
		},
		{
			name: "unnecessary return None",
			src: `def x(y):
    if not y:
        return
    return None
`,
			want: []string{"R501@4"},
		},
		{
			name: "implicit return after if",
			src: `def x(y):
    if not y:
        return 1
`,
			want: []string{"R503@2"},
		},
		{
			name: "implicit return in if arm",
			src: `def x(y):
    if not y:
        print()
    else:
        return 2
`,
			want: []string{"R503@3"},
		},
		{
			name: "implicit return in elif arm",
			src: `def x(y):
    if not y:
        return 1
    elif y - 100:
        print()
    else:
        return 2
`,
			want: []string{"R503@5"},
		},
		{
			name: "implicit return in else arm",
			src: `def x(y):
    if not y:
        return 1
    else:
        print()
`,
			want: []string{"R503@5"},
		},
		{
			name: "implicit return after loop",
			src: `def x(y):
    for i in range(10):
        if i > 10:
            return i
`,
			want: []string{"R503@2"},
		},
		{
			name: "unnecessary assign",
			src: `def x():
    a = 1
    return a
`,
			want: []string{"R504@3"},
		},
		{
			name: "unnecessary assign after reassign",
			src: `def x():
    a = 1
    print(a)
    a = 2
    return a
`,
			want: []string{"R504@5"},
		},
		{
			name: "read between reassigns",
			src: `def x():
    a = 1
    print(a)
    a = 2
    print(a)
    return a
`,
		},
		{
			name: "several kinds at once",
			src: `def x(y):
    if y:
        return
    if y > 1:
        return None
    a = 1
    return a
`,
			want: []string{"R502@3", "R501@5", "R504@7"},
		},
		{
			name: "nested scopes sorted by position",
			src: `def outer(y):
    def inner(z):
        if z:
            return 1
    if y:
        return
    return None
`,
			want: []string{"R503@3", "R501@7"},
		},
		{
			name: "no functions",
			src:  "x = 1\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := analyzeSource(t, tt.src)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeCompound(t *testing.T) {
	t.Parallel()

	tryExcept := st.Try(2, st.Return(3, st.Int("1")))
	tryExcept.Handlers = []*syntax.ExceptHandler{st.Except(4, nil, "", st.Return(5, st.Int("2")))}

	tryFinally := st.Try(2, st.Return(3, st.Int("1")))
	tryFinally.Finally = st.Block(st.Return(5, st.Int("2")))

	tests := []struct {
		name string
		fn   *syntax.FuncDef
		want []string
	}{
		{
			name: "try except",
			fn:   st.Def(1, "x", tryExcept),
		},
		{
			name: "try finally",
			fn:   st.Def(1, "x", tryFinally),
		},
		{
			name: "with",
			fn:   st.Def(1, "x", st.With(2, st.Name("y"), nil, st.Return(3, st.Int("1")))),
		},
		{
			name: "generator",
			fn: st.Def(1, "x",
				st.Expr(2, st.Yield(st.Int("1"))),
				st.If(3, st.Name("y"), st.Block(st.BareReturn(4))),
				st.Return(5, st.Int("1")),
			),
		},
		{
			name: "yield in lambda is not a generator",
			fn: st.Def(1, "x",
				st.Assign(2, st.Name("f"), st.Lambda(nil, st.Yield(nil))),
				st.If(3, st.Name("y"), st.Block(st.BareReturn(4))),
				st.Return(5, st.Call(st.Name("f"))),
			),
			want: []string{"R502@4"},
		},
		{
			name: "nested class is another scope",
			fn: st.Def(1, "x",
				st.Class(2, "C",
					st.Def(3, "m",
						st.If(4, st.Name("y"), st.Block(st.Return(5, st.Int("1")))),
					),
				),
				st.Return(6, st.Name("C")),
			),
		},
		{
			name: "empty body",
			fn:   st.Def(1, "x"),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := findings(Analyze(tt.fn))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeSelectedKinds(t *testing.T) {
	t.Parallel()
	src := `def x(y):
    if y:
        return
    a = 1
    return a
`
	assert.Equal(t, []string{"R502@3", "R504@5"}, analyzeSource(t, src))
	assert.Equal(t, []string{"R504@5"}, analyzeSource(t, src, UnnecessaryAssign))
	assert.Empty(t, analyzeSource(t, src, ImplicitReturn))
}

func TestAnalyzeNestedMethod(t *testing.T) {
	t.Parallel()
	mod := st.Module(
		st.Class(1, "C",
			st.Def(2, "m",
				st.If(3, st.Name("y"), st.Block(st.Return(4, st.Int("1")))),
			),
		),
	)
	diags := AnalyzeModule(mod)
	require.Len(t, diags, 1)
	assert.Equal(t, ImplicitReturn, diags[0].Kind)
	assert.Equal(t, "m", diags[0].Func)
	assert.Equal(t, 3, diags[0].Start.Line)
}

func TestKind(t *testing.T) {
	t.Parallel()
	for _, k := range Kinds {
		k := k
		t.Run(k.String(), func(t *testing.T) {
			t.Parallel()
			assert.NotEmpty(t, k.Rule())
			assert.NotEmpty(t, k.Code())
			assert.NotEmpty(t, k.Message())

			for _, s := range []string{k.String(), k.Rule(), k.Code()} {
				got, err := ParseKind(s)
				require.NoError(t, err)
				assert.Equal(t, k, got)
			}
		})
	}

	_, err := ParseKind("R999")
	assert.Error(t, err)
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.Equal(t, "R503", ImplicitReturn.Code())
	assert.Equal(t, "unnecessary-assign", UnnecessaryAssign.Rule())
}

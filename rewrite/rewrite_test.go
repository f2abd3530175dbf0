package rewrite_test

import (
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/on-the-ground/memogen/rewrite"
	"github.com/on-the-ground/memogen/transform"
)

const fibFile = `//go:build memogen

// Package fib computes Fibonacci numbers.
package fib

// Fib returns the n-th Fibonacci number.
//
//memogen:memoize
func Fib(n uint64) uint64 {
	// base case
	if n < 2 {
		return n
	}
	return Fib(n-2) + Fib(n-1)
}

//memogen:memoize
func Lengths(xs []int) int {
	return len(xs)
}

// Plain is not memoized.
func Plain() int { return 1 }
`

func TestFile(t *testing.T) {
	res, err := rewrite.File("fib.go", []byte(fibFile), rewrite.Options{})
	require.NoError(t, err)
	out := string(res.Source)

	assert.True(t, strings.HasPrefix(out,
		"// Code generated by memogen from fib.go; DO NOT EDIT.\n// memogen:checksum "+rewrite.Checksum([]byte(fibFile))+"\n"))
	assert.True(t, res.Constrained)
	assert.Contains(t, out, "//go:build !memogen\n")
	assert.NotContains(t, out, "//go:build memogen")
	assert.Contains(t, out, "// Package fib computes Fibonacci numbers.\npackage fib")
	assert.Contains(t, out, `import "github.com/on-the-ground/memogen/memo"`)

	assert.Contains(t, out, "var _FIB_CACHE = memo.NewCache(func() memo.Store[uint64, uint64] {")
	assert.Contains(t, out, "// Fib returns the n-th Fibonacci number.\nfunc Fib(n uint64) uint64 {")
	assert.Contains(t, out, "\tvalue := _Fib_aux(n)\n")
	assert.Contains(t, out, "// _Fib_aux is the uncached Fib.\nfunc _Fib_aux(n uint64) uint64 {\n\t// base case\n")
	assert.Contains(t, out, "return Fib(n-2) + Fib(n-1)")
	assert.Equal(t, 1, strings.Count(out, "//memogen:memoize"), "only the rejected function keeps its directive")
	assert.Contains(t, out, "//memogen:memoize\nfunc Lengths(xs []int) int {")
	assert.Contains(t, out, "// Plain is not memoized.\nfunc Plain() int { return 1 }")

	require.Len(t, res.Functions, 1)
	assert.Equal(t, rewrite.Function{
		Name:      "Fib",
		CacheName: "_FIB_CACHE",
		InnerName: "_Fib_aux",
		Container: transform.HashContainer,
	}, res.Functions[0])

	require.Len(t, res.Diagnostics, 1)
	diag := res.Diagnostics[0]
	assert.Equal(t, transform.IncomparableKey, diag.Kind)
	assert.Equal(t, "fib.go", diag.Position.Filename)
	assert.Equal(t, 18, diag.Position.Line)
	assert.ErrorIs(t, res.Err(), transform.ErrIncomparableKey)
	assert.Contains(t, res.Err().Error(), "fib.go:18:")

	_, err = parser.ParseFile(token.NewFileSet(), "fib_memo.go", res.Source, parser.ParseComments)
	require.NoError(t, err)
	formatted, err := format.Source(res.Source)
	require.NoError(t, err)
	assert.Equal(t, out, string(formatted))
}

func TestFile_OrderedContainerImportsCmp(t *testing.T) {
	src := `//go:build memogen

package p

//memogen:memoize
func Fib(n int) int { return n }
`
	res, err := rewrite.File("p.go", []byte(src), rewrite.Options{Container: "tree"})
	require.NoError(t, err)
	require.NoError(t, res.Err())

	out := string(res.Source)
	assert.Contains(t, out, "\"cmp\"\n")
	assert.Contains(t, out, "memo.NewTreeStore[int, int](cmp.Compare[int])")
	require.Len(t, res.Functions, 1)
	assert.Equal(t, transform.TreeContainer, res.Functions[0].Container)
}

func TestFile_ShadowingParametersAndTaggedResults(t *testing.T) {
	src := `//go:build memogen

package p

import "time"

//memogen:memoize
func Slots(time time.Duration, step time.Duration) int64 { return int64(time / step) }

//memogen:memoize
func Tagged(n int) struct {
	A int ` + "`json:\"a\"`" + `
} {
	return struct {
		A int ` + "`json:\"a\"`" + `
	}{n}
}
`
	res, err := rewrite.File("p.go", []byte(src), rewrite.Options{})
	require.NoError(t, err)
	require.NoError(t, res.Err())
	require.Len(t, res.Functions, 2)

	out := string(res.Source)
	assert.Contains(t, out, "type _Slots_key struct {")
	assert.Contains(t, out, "var _SLOTS_CACHE = memo.NewCache(func() memo.Store[_Slots_key, int64] {")
	assert.Contains(t, out, "\tkey := _Slots_key{time, step}\n")
	assert.Equal(t, 1, strings.Count(out, "\"time\""))

	assert.Contains(t, out, "func Tagged(n int) struct {\n\tA int `json:\"a\"`\n} {")
	assert.Equal(t, 5, strings.Count(out, "A int `json:\"a\"`"), "store type and constructor, wrapper, original signature and body")

	f, err := parser.ParseFile(token.NewFileSet(), "p_memo.go", res.Source, 0)
	require.NoError(t, err)
	var decls []string
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			decls = append(decls, d.Tok.String())
		case *ast.FuncDecl:
			decls = append(decls, d.Name.Name)
		}
	}
	assert.Equal(t, []string{"import", "type", "var", "Slots", "_Slots_aux", "var", "Tagged", "_Tagged_aux"}, decls)
}

func TestFile_KeepsExistingImports(t *testing.T) {
	src := `//go:build memogen

package p

import "strings"

//memogen:memoize
func Upper(s string) string { return strings.ToUpper(s) }
`
	res, err := rewrite.File("p.go", []byte(src), rewrite.Options{})
	require.NoError(t, err)

	out := string(res.Source)
	assert.Contains(t, out, "\"strings\"")
	assert.Contains(t, out, "\"github.com/on-the-ground/memogen/memo\"")
	assert.Contains(t, out, "return strings.ToUpper(s)")
}

func TestFile_NameCollisions(t *testing.T) {
	src := `//go:build memogen

package p

var _FIB_CACHE = 0

//memogen:memoize
func Fib(n int) int { return n }

//memogen:memoize
func Double(n int) int { return n * 2 }

//memogen:memoize
func DOUBLE(n int) int { return n * 2 }
`
	res, err := rewrite.File("p.go", []byte(src), rewrite.Options{})
	require.NoError(t, err)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "Double", res.Functions[0].Name)

	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, transform.NameCollision, res.Diagnostics[0].Kind)
	assert.Contains(t, res.Diagnostics[0].Message, "already declared")
	assert.Equal(t, 8, res.Diagnostics[0].Position.Line)
	assert.Equal(t, transform.NameCollision, res.Diagnostics[1].Kind)
	assert.Contains(t, res.Diagnostics[1].Message, "already generated for Double")
	assert.ErrorIs(t, res.Err(), transform.ErrNameCollision)
}

func TestFile_BuildConstraints(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "tag", line: "//go:build memogen", want: "//go:build !memogen"},
		{name: "expression", line: "//go:build memogen && linux", want: "//go:build !(memogen && linux)"},
		{name: "negated", line: "//go:build !nomemo", want: "//go:build nomemo"},
		{name: "plus build", line: "//go:build memogen\n// +build memogen", want: "//go:build !memogen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.line + "\n\npackage p\n\n//memogen:memoize\nfunc F(n int) int { return n }\n"
			res, err := rewrite.File("p.go", []byte(src), rewrite.Options{})
			require.NoError(t, err)
			out := string(res.Source)
			assert.Contains(t, out, tt.want+"\n")
			assert.NotContains(t, out, "+build")
			assert.Equal(t, 1, strings.Count(out, "//go:build"))
		})
	}
}

func TestFile_WarnsWithoutConstraint(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := "package p\n\n//memogen:memoize\nfunc F(n int) int { return n }\n"

	res, err := rewrite.File("p.go", []byte(src), rewrite.Options{Logger: zap.New(core)})
	require.NoError(t, err)
	assert.False(t, res.Constrained)
	assert.NotContains(t, string(res.Source), "//go:build")

	assert.Equal(t, 1, logs.FilterMessageSnippet("no //go:build line").Len())
	memoized := logs.FilterMessage("memoized function").All()
	require.Len(t, memoized, 1)
	assert.Equal(t, "F", memoized[0].ContextMap()["func"])
	assert.Equal(t, "p.go", memoized[0].ContextMap()["file"])
}

func TestFile_LogsRejectedFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := "//go:build memogen\n\npackage p\n\n//memogen:memoize\nfunc F(n int) {}\n"

	res, err := rewrite.File("p.go", []byte(src), rewrite.Options{Logger: zap.New(core)})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)

	rejected := logs.FilterMessage("function left unmemoized").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "MissingReturnType", rejected[0].ContextMap()["kind"])
}

func TestFile_NoDirectives(t *testing.T) {
	src := "//go:build memogen\n\npackage p\n\nfunc F() int { return 1 }\n"
	res, err := rewrite.File("p.go", []byte(src), rewrite.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Functions)
	assert.NoError(t, res.Err())
	assert.NotContains(t, string(res.Source), "memogen/memo")
	assert.Contains(t, string(res.Source), "func F() int { return 1 }")
}

func TestFile_ParseError(t *testing.T) {
	_, err := rewrite.File("bad.go", []byte("package p\nfunc {"), rewrite.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rewrite: parse bad.go")
}

package transform_test

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

// parseFunc parses src as the body of package p and returns its first
// function declaration.
func parseFunc(t *testing.T, src string) (*token.FileSet, *ast.FuncDecl) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "input.go", "package p\n\n"+src, parser.ParseComments)
	require.NoError(t, err)
	for _, d := range f.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			return fset, fd
		}
	}
	t.Fatal("no function declaration in source")
	return nil, nil
}

// render prints a generated node. Generated nodes carry no file positions, so
// a fresh FileSet is enough.
func render(t *testing.T, node any) string {
	t.Helper()
	if fd, ok := node.(*ast.FuncDecl); ok {
		cp := *fd
		cp.Doc = nil
		node = &cp
	}
	var buf bytes.Buffer
	require.NoError(t, format.Node(&buf, token.NewFileSet(), node))
	return buf.String()
}

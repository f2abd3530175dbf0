// Package memocheck defines an Analyzer that checks functions marked
// //memogen:memoize before any code is generated.
//
// It reports everything memogen itself would reject, at the same positions,
// and adds the checks that need type information: every retained parameter
// must have a comparable type, tree and sorted containers need ordered key
// types, and the generated identifiers must be free in the package.
package memocheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/on-the-ground/memogen/transform"
)

const doc = `check //memogen:memoize directives

Reports memoized functions that memogen cannot expand (methods, functions
without results, generic functions, untyped parameters, missing bodies,
invalid container names) and keys that would not compile once generated.`

// Analyzer reports memoization directives that memogen rejects or whose
// generated code would not type-check.
var Analyzer = &analysis.Analyzer{
	Name:     "memocheck",
	Doc:      doc,
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

var container string

func init() {
	Analyzer.Flags.StringVar(&container, "container", "", "container used by directives that name none (hash, tree, sorted or a type)")
}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	opts := transform.Options{Container: container}
	generated := make(map[string]string)

	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fd := n.(*ast.FuncDecl)
		if _, ok := transform.FindDirective(fd); !ok {
			return
		}
		art, err := transform.Function(fd, opts)
		if err != nil {
			if d, ok := transform.AsDiagnostic(err); ok {
				report(pass, d.Kind, d.Pos, d.End, d.Message)
			}
			return
		}
		checkKeys(pass, art)
		checkNames(pass, fd, art, generated)
	})
	return nil, nil
}

func report(pass *analysis.Pass, kind transform.Kind, pos, end token.Pos, msg string) {
	pass.Report(analysis.Diagnostic{Pos: pos, End: end, Category: kind.String(), Message: msg})
}

func checkKeys(pass *analysis.Pass, art *transform.Artifact) {
	for _, p := range art.Params.Retained() {
		t := pass.TypesInfo.TypeOf(p.Type)
		if t == nil {
			continue
		}
		typ := types.TypeString(t, types.RelativeTo(pass.Pkg))
		if !types.Comparable(t) {
			report(pass, transform.IncomparableKey, p.Type.Pos(), p.Type.End(), fmt.Sprintf(
				"Parameter %s has type %s, which cannot be part of a cache key.", p.Name, typ))
			continue
		}
		if art.Container.Kind.Ordered() && !ordered(t) {
			report(pass, transform.InvalidContainer, p.Type.Pos(), p.Type.End(), fmt.Sprintf(
				"Container %s needs ordered keys, but parameter %s has type %s.", art.Container.Kind, p.Name, typ))
		}
	}
}

// ordered reports whether t satisfies cmp.Ordered.
func ordered(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsOrdered != 0
}

func checkNames(pass *analysis.Pass, fd *ast.FuncDecl, art *transform.Artifact, generated map[string]string) {
	names := art.Generated()
	for _, name := range names {
		if owner, ok := generated[name]; ok {
			report(pass, transform.NameCollision, fd.Name.Pos(), fd.Name.End(), fmt.Sprintf(
				"Generated identifier %s is already generated for %s.", name, owner))
			return
		}
		if pass.Pkg.Scope().Lookup(name) != nil {
			report(pass, transform.NameCollision, fd.Name.Pos(), fd.Name.End(), fmt.Sprintf(
				"Generated identifier %s is already declared in package %s.", name, pass.Pkg.Name()))
			return
		}
	}
	for _, name := range names {
		generated[name] = fd.Name.Name
	}
}

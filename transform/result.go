package transform

import (
	"fmt"
	"go/ast"
)

// Result describes a function's results as the cache stores them.
type Result struct {
	// Types holds one type per result value, with grouped names expanded.
	Types []ast.Expr
	// ErrorLast is set when the last result is the predeclared error type.
	// A non-nil error is returned to the caller and never cached.
	ErrorLast bool
	// Names holds the declared result names, if the results are named.
	Names []string
}

// ExtractResult reads fd's results. A function without results is rejected.
func ExtractResult(fd *ast.FuncDecl) (Result, error) {
	results := fd.Type.Results
	if results == nil || results.NumFields() == 0 {
		var at ast.Node = fd.Type
		if fd.Body != nil {
			at = fd.Body
		}
		return Result{}, newDiagnostic(MissingReturnType, at,
			"There's no point in caching the output of a function that doesn't return anything.")
	}

	var r Result
	for _, f := range results.List {
		if isPlaceholderType(f.Type) {
			return Result{}, newDiagnostic(UntypedParameter, f, "Result types must be explicit.")
		}
		for _, name := range f.Names {
			r.Names = append(r.Names, name.Name)
		}
		n := len(f.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			r.Types = append(r.Types, f.Type)
		}
	}
	if last, ok := r.Types[len(r.Types)-1].(*ast.Ident); ok && last.Name == "error" {
		r.ErrorLast = true
	}
	return r, nil
}

// fieldName names the i-th value in a multi-result struct.
func (r Result) fieldName(i int) string {
	return fmt.Sprintf("r%d", i)
}

// ValueType returns a fresh node for the cached value type of funcName: the
// result type itself, or the named struct ResultTypeName(funcName) declared
// by BuildTypeDecl for several results.
func (r Result) ValueType(funcName string) ast.Expr {
	if len(r.Types) == 1 {
		return cloneExpr(r.Types[0])
	}
	return ast.NewIdent(ResultTypeName(funcName))
}

// valueStruct is struct{ r0 T0; r1 T1; ... }, one field per result.
func (r Result) valueStruct() *ast.StructType {
	fields := &ast.FieldList{}
	for i, t := range r.Types {
		fields.List = append(fields.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(r.fieldName(i))},
			Type:  cloneExpr(t),
		})
	}
	return &ast.StructType{Fields: fields}
}

package transform

import (
	"fmt"
	"go/ast"
	"go/types"
)

// ParamForm classifies a declared parameter.
type ParamForm int

const (
	// Simple is a named, explicitly typed parameter. It is part of the key.
	Simple ParamForm = iota
	// Ignored is a "_" or unnamed parameter. It is left out of the key but
	// still forwarded whenever the original runs.
	Ignored
	// Receiver is a method receiver. Unsupported.
	Receiver
	// Untyped is a parameter whose type is a placeholder. Unsupported.
	Untyped
)

func (f ParamForm) String() string {
	switch f {
	case Simple:
		return "simple"
	case Ignored:
		return "ignored"
	case Receiver:
		return "receiver"
	case Untyped:
		return "untyped"
	default:
		return fmt.Sprintf("ParamForm(%d)", int(f))
	}
}

// Param is one declared parameter, ungrouped: "a, b int" yields two Params.
type Param struct {
	// Name is the declared name: an identifier, "_" or "" when unnamed.
	Name string
	// CallName is the name the wrapper declares and forwards. It equals Name
	// for Simple parameters and is synthesized for Ignored ones.
	CallName string
	// Type is the declared type. For a variadic parameter it is the *ast.Ellipsis.
	Type     ast.Expr
	Form     ParamForm
	Variadic bool
}

// Params is an ordered parameter list.
type Params []Param

// Retained returns the parameters that form the key, in declared order.
func (ps Params) Retained() Params {
	var out Params
	for _, p := range ps {
		if p.Form == Simple {
			out = append(out, p)
		}
	}
	return out
}

// Analyze classifies fd's parameters. It fails on receivers, type parameters,
// placeholder types and retained parameters that can never be compared.
func Analyze(fd *ast.FuncDecl) (Params, error) {
	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		return nil, newDiagnostic(UnsupportedParameterForm, fd.Recv, "Methods are not supported.")
	}
	if fd.Type.TypeParams != nil && fd.Type.TypeParams.NumFields() > 0 {
		return nil, newDiagnostic(UnsupportedTypeParameters, fd.Type.TypeParams, "Generic functions are not supported.")
	}
	if fd.Type.Params == nil {
		return nil, nil
	}

	taken := declaredNames(fd.Type)
	var params Params
	for _, field := range fd.Type.Params.List {
		if isPlaceholderType(field.Type) {
			return nil, newDiagnostic(UntypedParameter, field, "Parameters' types must be explicit.")
		}
		_, variadic := field.Type.(*ast.Ellipsis)

		if len(field.Names) == 0 {
			params = append(params, Param{Type: field.Type, Form: Ignored, Variadic: variadic})
			continue
		}
		for _, name := range field.Names {
			p := Param{Name: name.Name, Type: field.Type, Form: Simple, Variadic: variadic}
			if name.Name == "_" {
				p.Form = Ignored
			} else {
				p.CallName = name.Name
				if variadic || !comparableSyntax(field.Type) {
					return nil, newDiagnostic(IncomparableKey, field.Type, fmt.Sprintf(
						"Parameter %s has type %s, which cannot be part of a cache key.",
						name.Name, typeString(field.Type)))
				}
			}
			params = append(params, p)
		}
	}

	for i := range params {
		if params[i].Form == Ignored {
			params[i].CallName = freshName(taken, fmt.Sprintf("_p%d", i))
		}
	}
	return params, nil
}

// declaredNames collects parameter and result names of a signature.
func declaredNames(ft *ast.FuncType) map[string]bool {
	names := make(map[string]bool)
	for _, fl := range []*ast.FieldList{ft.Params, ft.Results} {
		if fl == nil {
			continue
		}
		for _, f := range fl.List {
			for _, n := range f.Names {
				names[n.Name] = true
			}
		}
	}
	return names
}

// isPlaceholderType reports a missing type, a parse error, or "_" written
// where a type belongs.
func isPlaceholderType(e ast.Expr) bool {
	switch x := e.(type) {
	case nil, *ast.BadExpr:
		return true
	case *ast.Ident:
		return x.Name == "_"
	case *ast.Ellipsis:
		return isPlaceholderType(x.Elt)
	case *ast.ParenExpr:
		return isPlaceholderType(x.X)
	}
	return false
}

// comparableSyntax rejects the types that are incomparable whatever their
// element types: slices, maps and funcs, also when nested in arrays or
// structs. Everything else is left to the compiler.
func comparableSyntax(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.ArrayType:
		if x.Len == nil {
			return false
		}
		return comparableSyntax(x.Elt)
	case *ast.MapType, *ast.FuncType:
		return false
	case *ast.ParenExpr:
		return comparableSyntax(x.X)
	case *ast.StructType:
		for _, f := range x.Fields.List {
			if !comparableSyntax(f.Type) {
				return false
			}
		}
	}
	return true
}

func typeString(e ast.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return types.ExprString(e)
}

// freshName returns base, or base with a numeric suffix, such that the result
// is not in taken. The result is added to taken.
func freshName(taken map[string]bool, base string) string {
	name := base
	for i := 1; taken[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	taken[name] = true
	return name
}

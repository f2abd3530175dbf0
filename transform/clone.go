package transform

import (
	"go/ast"
	"go/token"
)

// sentinelPos is a valid position that belongs to no file. Generated nodes use
// it where the printer needs a position to be set at all: the "..." of a
// forwarded variadic argument, and struct braces that should stay on one line.
const sentinelPos = token.Pos(1)

// cloneExpr returns a position-free deep copy of a type expression. Generated
// declarations never share nodes with the input, so printing them cannot drag
// along comments or line breaks from the original file. Struct tags are part
// of a type's identity and are copied with their fields.
func cloneExpr(e ast.Expr) ast.Expr {
	switch x := e.(type) {
	case nil:
		return nil
	case *ast.Ident:
		return ast.NewIdent(x.Name)
	case *ast.BasicLit:
		return &ast.BasicLit{Kind: x.Kind, Value: x.Value}
	case *ast.SelectorExpr:
		return &ast.SelectorExpr{X: cloneExpr(x.X), Sel: ast.NewIdent(x.Sel.Name)}
	case *ast.StarExpr:
		return &ast.StarExpr{X: cloneExpr(x.X)}
	case *ast.ParenExpr:
		return &ast.ParenExpr{X: cloneExpr(x.X)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{Op: x.Op, X: cloneExpr(x.X)}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{X: cloneExpr(x.X), Op: x.Op, Y: cloneExpr(x.Y)}
	case *ast.CallExpr:
		// unsafe.Sizeof and friends in array lengths.
		call := &ast.CallExpr{Fun: cloneExpr(x.Fun), Args: cloneExprs(x.Args)}
		if x.Ellipsis.IsValid() {
			call.Ellipsis = sentinelPos
		}
		return call
	case *ast.Ellipsis:
		return &ast.Ellipsis{Elt: cloneExpr(x.Elt)}
	case *ast.ArrayType:
		return &ast.ArrayType{Len: cloneExpr(x.Len), Elt: cloneExpr(x.Elt)}
	case *ast.MapType:
		return &ast.MapType{Key: cloneExpr(x.Key), Value: cloneExpr(x.Value)}
	case *ast.ChanType:
		return &ast.ChanType{Dir: x.Dir, Value: cloneExpr(x.Value)}
	case *ast.FuncType:
		return &ast.FuncType{
			TypeParams: cloneFieldList(x.TypeParams),
			Params:     cloneFieldList(x.Params),
			Results:    cloneFieldList(x.Results),
		}
	case *ast.StructType:
		return &ast.StructType{Fields: cloneBraced(x.Fields)}
	case *ast.InterfaceType:
		return &ast.InterfaceType{Methods: cloneBraced(x.Methods)}
	case *ast.IndexExpr:
		return &ast.IndexExpr{X: cloneExpr(x.X), Index: cloneExpr(x.Index)}
	case *ast.IndexListExpr:
		return &ast.IndexListExpr{X: cloneExpr(x.X), Indices: cloneExprs(x.Indices)}
	}
	// Not a type expression; nothing generated refers to one.
	return e
}

func cloneExprs(list []ast.Expr) []ast.Expr {
	if list == nil {
		return nil
	}
	out := make([]ast.Expr, len(list))
	for i, e := range list {
		out[i] = cloneExpr(e)
	}
	return out
}

func cloneFieldList(fl *ast.FieldList) *ast.FieldList {
	if fl == nil {
		return nil
	}
	out := &ast.FieldList{List: make([]*ast.Field, 0, len(fl.List))}
	for _, f := range fl.List {
		field := &ast.Field{Type: cloneExpr(f.Type)}
		for _, n := range f.Names {
			field.Names = append(field.Names, ast.NewIdent(n.Name))
		}
		if f.Tag != nil {
			field.Tag = &ast.BasicLit{Kind: f.Tag.Kind, Value: f.Tag.Value}
		}
		out.List = append(out.List, field)
	}
	return out
}

// cloneBraced copies the field list of a struct or interface type. Empty
// lists keep their braces on one line.
func cloneBraced(fl *ast.FieldList) *ast.FieldList {
	out := cloneFieldList(fl)
	if out == nil {
		out = &ast.FieldList{}
	}
	if len(out.List) == 0 {
		out.Opening, out.Closing = sentinelPos, sentinelPos
	}
	return out
}

package transform

import (
	"go/ast"
	"go/token"
)

// RuntimeImportPath is the package generated code calls into.
const RuntimeImportPath = "github.com/on-the-ground/memogen/memo"

const runtimeName = "memo"

func runtimeSel(name string) *ast.SelectorExpr {
	return &ast.SelectorExpr{X: ast.NewIdent(runtimeName), Sel: ast.NewIdent(name)}
}

// KeyType returns a fresh node for the key type of the retained parameters of
// funcName: struct{} for none, the parameter's type for one, and the named
// struct KeyTypeName(funcName) declared by BuildTypeDecl otherwise.
func KeyType(retained Params, funcName string) ast.Expr {
	switch len(retained) {
	case 0:
		return &ast.StructType{Fields: &ast.FieldList{Opening: sentinelPos, Closing: sentinelPos}}
	case 1:
		return cloneExpr(retained[0].Type)
	}
	return ast.NewIdent(KeyTypeName(funcName))
}

// KeyStruct returns the struct underlying a key of several parameters, with
// one field per retained parameter, in order.
func KeyStruct(retained Params) *ast.StructType {
	fields := &ast.FieldList{}
	for _, p := range retained {
		fields.List = append(fields.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(p.Name)},
			Type:  cloneExpr(p.Type),
		})
	}
	return &ast.StructType{Fields: fields}
}

// KeyExpr builds the key value from the retained parameters. It is evaluated
// inside the wrapper, where parameters may shadow package names, so it never
// spells out a parameter's type.
func KeyExpr(retained Params, funcName string) ast.Expr {
	switch len(retained) {
	case 0:
		return &ast.CompositeLit{Type: KeyType(retained, funcName)}
	case 1:
		return ast.NewIdent(retained[0].CallName)
	}
	lit := &ast.CompositeLit{Type: KeyType(retained, funcName)}
	for _, p := range retained {
		lit.Elts = append(lit.Elts, ast.NewIdent(p.CallName))
	}
	return lit
}

// BuildTypeDecl declares the named key and result structs funcName needs, or
// returns nil when its key and value are plain types.
func BuildTypeDecl(retained Params, result Result, funcName string) *ast.GenDecl {
	decl := &ast.GenDecl{Tok: token.TYPE}
	if len(retained) > 1 {
		decl.Specs = append(decl.Specs, &ast.TypeSpec{
			Name: ast.NewIdent(KeyTypeName(funcName)),
			Type: KeyStruct(retained),
		})
	}
	if len(result.Types) > 1 {
		decl.Specs = append(decl.Specs, &ast.TypeSpec{
			Name: ast.NewIdent(ResultTypeName(funcName)),
			Type: result.valueStruct(),
		})
	}
	if len(decl.Specs) == 0 {
		return nil
	}
	return decl
}

// BuildCacheDecl declares the cache of funcName:
//
//	var _NAME_CACHE = memo.NewCache(func() memo.Store[K, V] {
//		return <store for c>
//	})
//
// The store is created on the first call of the memoized function.
func BuildCacheDecl(c Container, retained Params, result Result, funcName string) *ast.GenDecl {
	storeType := &ast.IndexListExpr{
		X:       runtimeSel("Store"),
		Indices: []ast.Expr{KeyType(retained, funcName), result.ValueType(funcName)},
	}
	constructor := &ast.FuncLit{
		Type: &ast.FuncType{
			Params:  &ast.FieldList{},
			Results: &ast.FieldList{List: []*ast.Field{{Type: storeType}}},
		},
		Body: &ast.BlockStmt{List: []ast.Stmt{
			&ast.ReturnStmt{Results: []ast.Expr{storeExpr(c, retained, result, funcName)}},
		}},
	}

	return &ast.GenDecl{
		Tok: token.VAR,
		Specs: []ast.Spec{&ast.ValueSpec{
			Names: []*ast.Ident{ast.NewIdent(CacheName(funcName))},
			Values: []ast.Expr{&ast.CallExpr{
				Fun:  runtimeSel("NewCache"),
				Args: []ast.Expr{constructor},
			}},
		}},
	}
}

func storeExpr(c Container, retained Params, result Result, funcName string) ast.Expr {
	typeArgs := func(x ast.Expr) ast.Expr {
		return &ast.IndexListExpr{X: x, Indices: []ast.Expr{KeyType(retained, funcName), result.ValueType(funcName)}}
	}
	switch c.Kind {
	case TreeContainer:
		return &ast.CallExpr{Fun: typeArgs(runtimeSel("NewTreeStore")), Args: []ast.Expr{compareExpr(retained, funcName)}}
	case SortedContainer:
		return &ast.CallExpr{Fun: typeArgs(runtimeSel("NewSortedStore")), Args: []ast.Expr{compareExpr(retained, funcName)}}
	case CustomContainer:
		return &ast.CallExpr{Fun: ast.NewIdent("new"), Args: []ast.Expr{typeArgs(cloneExpr(c.Type))}}
	default:
		return &ast.CallExpr{Fun: typeArgs(runtimeSel("NewHashStore"))}
	}
}

// compareExpr orders keys for the ordered containers: cmp.Compare[K] for a
// single key, field-by-field cmp.Compare otherwise.
func compareExpr(retained Params, funcName string) ast.Expr {
	if len(retained) == 1 {
		return &ast.IndexExpr{
			X:     &ast.SelectorExpr{X: ast.NewIdent("cmp"), Sel: ast.NewIdent("Compare")},
			Index: cloneExpr(retained[0].Type),
		}
	}

	sig := &ast.FuncType{
		Params: &ast.FieldList{List: []*ast.Field{{
			Names: []*ast.Ident{ast.NewIdent("a"), ast.NewIdent("b")},
			Type:  KeyType(retained, funcName),
		}}},
		Results: &ast.FieldList{List: []*ast.Field{{Type: ast.NewIdent("int")}}},
	}
	if len(retained) == 0 {
		return &ast.FuncLit{Type: sig, Body: &ast.BlockStmt{List: []ast.Stmt{
			&ast.ReturnStmt{Results: []ast.Expr{&ast.BasicLit{Kind: token.INT, Value: "0"}}},
		}}}
	}

	compareField := func(name string) *ast.CallExpr {
		return &ast.CallExpr{
			Fun: &ast.SelectorExpr{X: ast.NewIdent("cmp"), Sel: ast.NewIdent("Compare")},
			Args: []ast.Expr{
				&ast.SelectorExpr{X: ast.NewIdent("a"), Sel: ast.NewIdent(name)},
				&ast.SelectorExpr{X: ast.NewIdent("b"), Sel: ast.NewIdent(name)},
			},
		}
	}
	body := &ast.BlockStmt{}
	last := len(retained) - 1
	for _, p := range retained[:last] {
		body.List = append(body.List, &ast.IfStmt{
			Init: &ast.AssignStmt{
				Lhs: []ast.Expr{ast.NewIdent("c")},
				Tok: token.DEFINE,
				Rhs: []ast.Expr{compareField(p.Name)},
			},
			Cond: &ast.BinaryExpr{X: ast.NewIdent("c"), Op: token.NEQ, Y: &ast.BasicLit{Kind: token.INT, Value: "0"}},
			Body: &ast.BlockStmt{List: []ast.Stmt{&ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent("c")}}}},
		})
	}
	body.List = append(body.List, &ast.ReturnStmt{Results: []ast.Expr{compareField(retained[last].Name)}})
	return &ast.FuncLit{Type: sig, Body: body}
}

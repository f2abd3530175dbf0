package transform

import (
	"go/ast"
	"go/token"
)

// SynthesizeBody writes the wrapper body:
//
//	key := <retained parameters>
//	if cached, ok := CACHE.Get(key); ok {
//		return cached
//	}
//	value := INNER(<all parameters>)
//	return CACHE.InsertAndGet(key, value)
//
// The cache lock is taken inside Get and InsertAndGet only, so INNER runs with
// the cache unlocked and may recurse into the wrapper. With several results the
// value is a struct of them; with a trailing error result, a non-nil error is
// returned before anything is inserted.
//
// Parameters may shadow package names inside the body, so the body names no
// parameter or result type: composite keys and values use the structs
// declared by BuildTypeDecl.
func SynthesizeBody(params Params, result Result, funcName string) *ast.BlockStmt {
	cacheID, innerID := CacheName(funcName), InnerName(funcName)
	taken := map[string]bool{cacheID: true, innerID: true}
	for _, p := range params {
		taken[p.CallName] = true
	}
	for _, name := range result.Names {
		taken[name] = true
	}
	keyVar := freshName(taken, "key")
	cachedVar := freshName(taken, "cached")
	okVar := freshName(taken, "ok")

	var resultVars []string
	if len(result.Types) == 1 {
		resultVars = []string{freshName(taken, "value")}
	} else {
		for i := range result.Types {
			resultVars = append(resultVars, freshName(taken, result.fieldName(i)))
		}
	}

	cacheCall := func(method string, args ...ast.Expr) *ast.CallExpr {
		return &ast.CallExpr{
			Fun:  &ast.SelectorExpr{X: ast.NewIdent(cacheID), Sel: ast.NewIdent(method)},
			Args: args,
		}
	}
	// unpack turns a cached value back into the function's results.
	unpack := func(v string) []ast.Expr {
		if len(result.Types) == 1 {
			return []ast.Expr{ast.NewIdent(v)}
		}
		out := make([]ast.Expr, len(result.Types))
		for i := range result.Types {
			out[i] = &ast.SelectorExpr{X: ast.NewIdent(v), Sel: ast.NewIdent(result.fieldName(i))}
		}
		return out
	}

	body := &ast.BlockStmt{}

	// key := ...
	body.List = append(body.List, define([]string{keyVar}, KeyExpr(params.Retained(), funcName)))

	// if cached, ok := CACHE.Get(key); ok { return cached }
	body.List = append(body.List, &ast.IfStmt{
		Init: define([]string{cachedVar, okVar}, cacheCall("Get", ast.NewIdent(keyVar))),
		Cond: ast.NewIdent(okVar),
		Body: &ast.BlockStmt{List: []ast.Stmt{&ast.ReturnStmt{Results: unpack(cachedVar)}}},
	})

	// value := INNER(args...)
	call := &ast.CallExpr{Fun: ast.NewIdent(innerID)}
	for _, p := range params {
		call.Args = append(call.Args, ast.NewIdent(p.CallName))
	}
	if len(params) > 0 && params[len(params)-1].Variadic {
		call.Ellipsis = sentinelPos
	}
	body.List = append(body.List, define(resultVars, call))

	if result.ErrorLast {
		errVar := resultVars[len(resultVars)-1]
		returned := make([]ast.Expr, len(resultVars))
		for i, v := range resultVars {
			returned[i] = ast.NewIdent(v)
		}
		body.List = append(body.List, &ast.IfStmt{
			Cond: &ast.BinaryExpr{X: ast.NewIdent(errVar), Op: token.NEQ, Y: ast.NewIdent("nil")},
			Body: &ast.BlockStmt{List: []ast.Stmt{&ast.ReturnStmt{Results: returned}}},
		})
	}

	if len(result.Types) == 1 {
		body.List = append(body.List, &ast.ReturnStmt{Results: []ast.Expr{
			cacheCall("InsertAndGet", ast.NewIdent(keyVar), ast.NewIdent(resultVars[0])),
		}})
		return body
	}

	packed := &ast.CompositeLit{Type: result.ValueType(funcName)}
	for _, v := range resultVars {
		packed.Elts = append(packed.Elts, ast.NewIdent(v))
	}
	storedVar := freshName(taken, "value")
	body.List = append(body.List,
		define([]string{storedVar}, cacheCall("InsertAndGet", ast.NewIdent(keyVar), packed)),
		&ast.ReturnStmt{Results: unpack(storedVar)},
	)
	return body
}

func define(names []string, rhs ast.Expr) *ast.AssignStmt {
	lhs := make([]ast.Expr, len(names))
	for i, n := range names {
		lhs[i] = ast.NewIdent(n)
	}
	return &ast.AssignStmt{Lhs: lhs, Tok: token.DEFINE, Rhs: []ast.Expr{rhs}}
}

// wrapperType rebuilds the signature with one field per parameter so that
// ignored parameters get their forwarding names. Results are kept as declared.
func wrapperType(params Params, results *ast.FieldList) *ast.FuncType {
	fields := &ast.FieldList{}
	for _, p := range params {
		fields.List = append(fields.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(p.CallName)},
			Type:  cloneExpr(p.Type),
		})
	}
	return &ast.FuncType{Params: fields, Results: cloneFieldList(results)}
}

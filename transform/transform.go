package transform

import (
	"fmt"
	"go/ast"
)

// Options configures Function.
type Options struct {
	// Container is the container token used when the directive names none.
	// Empty selects the hash container.
	Container string
	// Aliases maps short container tokens to full ones.
	Aliases map[string]string
}

// Import is a package the generated declarations refer to.
type Import struct {
	Name string // empty for the default package name
	Path string
}

// Artifact holds the declarations that replace a memoized function.
type Artifact struct {
	// Types declares the key and result structs of a function with several
	// retained parameters or several results. It is nil otherwise.
	Types *ast.GenDecl
	// Cache declares the cache instance.
	Cache *ast.GenDecl
	// Wrapper keeps the original name and signature.
	Wrapper *ast.FuncDecl
	// Original is the input declaration renamed to InnerName, body unchanged.
	Original *ast.FuncDecl

	CacheName string
	InnerName string
	Container Container
	Imports   []Import
	// Params and Result are the analyzed signature.
	Params Params
	Result Result
}

// Decls returns the declarations in emission order: types if any, cache,
// wrapper, original.
func (a *Artifact) Decls() []ast.Decl {
	decls := []ast.Decl{a.Cache, a.Wrapper, a.Original}
	if a.Types != nil {
		decls = append([]ast.Decl{a.Types}, decls...)
	}
	return decls
}

// Generated lists the package-level identifiers the artifact declares besides
// the wrapper.
func (a *Artifact) Generated() []string {
	names := []string{a.CacheName, a.InnerName}
	if a.Types != nil {
		for _, spec := range a.Types.Specs {
			names = append(names, spec.(*ast.TypeSpec).Name.Name)
		}
	}
	return names
}

// Function memoizes fd. It runs the stages
//
//	Parse -> Validate -> BuildCacheDecl -> BuildWrapper -> RenameOriginal -> Emit
//
// and returns either all of its declarations or exactly one *Diagnostic;
// validation failures are never partially generated. fd is not modified.
func Function(fd *ast.FuncDecl, opts Options) (*Artifact, error) {
	// Parse
	tok := opts.Container
	var at ast.Node = fd.Name
	if dir, ok := FindDirective(fd); ok {
		at = dir.Comment
		if dir.Arg != "" {
			tok = dir.Arg
		}
	}
	container, err := ParseContainer(tok, opts.Aliases)
	if err != nil {
		return nil, newDiagnostic(InvalidContainer, at, err.Error())
	}

	// Validate
	params, err := Analyze(fd)
	if err != nil {
		return nil, err
	}
	result, err := ExtractResult(fd)
	if err != nil {
		return nil, err
	}
	if fd.Body == nil {
		return nil, newDiagnostic(MissingBody, fd.Name, fmt.Sprintf("Function %s has no body to cache.", fd.Name.Name))
	}
	name := fd.Name.Name
	cacheName, innerName := CacheName(name), InnerName(name)
	generated := map[string]bool{
		cacheName:            true,
		innerName:            true,
		KeyTypeName(name):    true,
		ResultTypeName(name): true,
	}
	for _, fl := range []*ast.FieldList{fd.Type.Params, fd.Type.Results} {
		if fl == nil {
			continue
		}
		for _, f := range fl.List {
			for _, id := range f.Names {
				if generated[id.Name] {
					return nil, newDiagnostic(NameCollision, id,
						fmt.Sprintf("Parameter %s shadows the generated identifier of the same name.", id.Name))
				}
			}
		}
	}

	// BuildCacheDecl
	types := BuildTypeDecl(params.Retained(), result, name)
	cache := BuildCacheDecl(container, params.Retained(), result, name)

	// BuildWrapper
	wrapper := &ast.FuncDecl{
		Doc:  DocWithoutDirective(fd.Doc),
		Name: ast.NewIdent(fd.Name.Name),
		Type: wrapperType(params, fd.Type.Results),
		Body: SynthesizeBody(params, result, name),
	}

	// RenameOriginal
	original := *fd
	original.Doc = nil
	original.Name = &ast.Ident{NamePos: fd.Name.NamePos, Name: innerName}

	// Emit
	imports := []Import{{Path: RuntimeImportPath}}
	if container.Kind.Ordered() && len(params.Retained()) > 0 {
		imports = append(imports, Import{Path: "cmp"})
	}
	if container.ImportPath != "" {
		imports = append(imports, Import{Name: container.ImportName, Path: container.ImportPath})
	}

	return &Artifact{
		Types:     types,
		Cache:     cache,
		Wrapper:   wrapper,
		Original:  &original,
		CacheName: cacheName,
		InnerName: innerName,
		Container: container,
		Imports:   imports,
		Params:    params,
		Result:    result,
	}, nil
}

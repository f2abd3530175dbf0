package transform

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"regexp"
	"strings"
)

// ContainerKind selects the Store a generated cache is built on.
type ContainerKind int

const (
	// HashContainer is memo.HashStore, the default.
	HashContainer ContainerKind = iota
	// TreeContainer is memo.TreeStore, ordered by key.
	TreeContainer
	// SortedContainer is memo.SortedStore, ordered by key.
	SortedContainer
	// CustomContainer is a user type T such that *T[K, V] implements memo.Store[K, V].
	CustomContainer
)

func (k ContainerKind) String() string {
	switch k {
	case HashContainer:
		return "hash"
	case TreeContainer:
		return "tree"
	case SortedContainer:
		return "sorted"
	case CustomContainer:
		return "custom"
	default:
		return fmt.Sprintf("ContainerKind(%d)", int(k))
	}
}

// Ordered reports whether the kind needs a key comparator.
func (k ContainerKind) Ordered() bool {
	return k == TreeContainer || k == SortedContainer
}

// Container is a resolved container token.
type Container struct {
	Kind ContainerKind
	// Token is the token as written, after alias resolution.
	Token string
	// Type is the generic type of a CustomContainer, e.g. lru.Store.
	Type ast.Expr
	// ImportPath and ImportName are set when Token named a full import path.
	ImportPath string
	ImportName string
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// ParseContainer resolves a container token. Aliases are consulted first, one
// level deep.
func ParseContainer(tok string, aliases map[string]string) (Container, error) {
	tok = strings.TrimSpace(tok)
	if target, ok := aliases[tok]; ok {
		tok = strings.TrimSpace(target)
	}

	switch tok {
	case "", "hash", "HashMap":
		return Container{Kind: HashContainer, Token: tok}, nil
	case "tree", "ordered", "BTreeMap":
		return Container{Kind: TreeContainer, Token: tok}, nil
	case "sorted":
		return Container{Kind: SortedContainer, Token: tok}, nil
	}

	if strings.Contains(tok, "/") {
		return parseImportedContainer(tok)
	}

	expr, err := parser.ParseExpr(tok)
	if err != nil {
		return Container{}, fmt.Errorf("%w: %q is not a type name", ErrInvalidContainer, tok)
	}
	switch x := expr.(type) {
	case *ast.Ident:
		if x.Name == "_" {
			return Container{}, fmt.Errorf("%w: %q is not a type name", ErrInvalidContainer, tok)
		}
	case *ast.SelectorExpr:
		if _, ok := x.X.(*ast.Ident); !ok {
			return Container{}, fmt.Errorf("%w: %q is not a type name", ErrInvalidContainer, tok)
		}
	default:
		return Container{}, fmt.Errorf("%w: %q is not a type name", ErrInvalidContainer, tok)
	}
	return Container{Kind: CustomContainer, Token: tok, Type: expr}, nil
}

// parseImportedContainer handles "example.com/pkg/lru.Store".
func parseImportedContainer(tok string) (Container, error) {
	dot := strings.LastIndex(tok, ".")
	if dot < strings.LastIndex(tok, "/") {
		return Container{}, fmt.Errorf("%w: %q has no type name after the import path", ErrInvalidContainer, tok)
	}
	importPath, typeName := tok[:dot], tok[dot+1:]
	if !token.IsIdentifier(typeName) {
		return Container{}, fmt.Errorf("%w: %q is not an identifier", ErrInvalidContainer, typeName)
	}

	name := path.Base(importPath)
	if majorVersion.MatchString(name) && path.Dir(importPath) != "." {
		name = path.Base(path.Dir(importPath))
	}
	name = sanitizeIdent(name)
	if !token.IsIdentifier(name) {
		return Container{}, fmt.Errorf("%w: cannot derive a package name from %q", ErrInvalidContainer, importPath)
	}

	return Container{
		Kind:       CustomContainer,
		Token:      tok,
		Type:       &ast.SelectorExpr{X: ast.NewIdent(name), Sel: ast.NewIdent(typeName)},
		ImportPath: importPath,
		ImportName: name,
	}, nil
}

func sanitizeIdent(s string) string {
	s = strings.TrimPrefix(s, "go-")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}

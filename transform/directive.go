package transform

import (
	"go/ast"
	"strings"
)

// DirectiveName marks a function for memoization. An optional argument names
// the container kind:
//
//	//memogen:memoize
//	//memogen:memoize tree
//	//memogen:memoize example.com/lru.Store
const DirectiveName = "//memogen:memoize"

// Directive is a parsed //memogen:memoize line.
type Directive struct {
	Comment *ast.Comment
	Arg     string
}

// FindDirective returns the memoize directive in fd's doc comment, if any.
func FindDirective(fd *ast.FuncDecl) (Directive, bool) {
	if fd.Doc == nil {
		return Directive{}, false
	}
	for _, c := range fd.Doc.List {
		if arg, ok := parseDirective(c.Text); ok {
			return Directive{Comment: c, Arg: arg}, true
		}
	}
	return Directive{}, false
}

func parseDirective(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, DirectiveName)
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		// e.g. //memogen:memoizer
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// DocWithoutDirective copies doc without memoize directives and without the
// blank "//" lines that separated them from the prose. It returns nil when
// nothing is left.
func DocWithoutDirective(doc *ast.CommentGroup) *ast.CommentGroup {
	if doc == nil {
		return nil
	}
	var kept []*ast.Comment
	for _, c := range doc.List {
		if _, ok := parseDirective(c.Text); ok {
			continue
		}
		kept = append(kept, &ast.Comment{Slash: c.Slash, Text: c.Text})
	}
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1].Text) == "//" {
		kept = kept[:len(kept)-1]
	}
	if len(kept) == 0 {
		return nil
	}
	return &ast.CommentGroup{List: kept}
}

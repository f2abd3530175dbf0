package rewrite

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"

	"github.com/on-the-ground/memogen/transform"
)

// Options configures File.
type Options struct {
	// Container is the container used when a directive names none.
	Container string
	// Aliases maps short container tokens to full ones.
	Aliases map[string]string
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Function describes one memoized function of a file.
type Function struct {
	Name      string
	CacheName string
	InnerName string
	Container transform.ContainerKind
}

// Diagnostic is a transform diagnostic resolved to its file position.
type Diagnostic struct {
	Position token.Position
	Kind     transform.Kind
	Message  string

	err *transform.Diagnostic
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Position, d.Message)
}

// Unwrap returns the underlying *transform.Diagnostic, which in turn unwraps
// to the sentinel error of its kind.
func (d Diagnostic) Unwrap() error {
	return d.err
}

// Result is the outcome of rewriting one file.
type Result struct {
	Filename string
	// Source is the generated file, formatted.
	Source []byte
	// Functions lists the memoized functions in source order.
	Functions []Function
	// Diagnostics lists the functions that were left unmemoized.
	Diagnostics []Diagnostic
	// Constrained reports whether the input carried a //go:build line.
	Constrained bool
}

// Err combines the diagnostics into one error, or returns nil.
func (r *Result) Err() error {
	var err error
	for _, d := range r.Diagnostics {
		err = multierr.Append(err, d)
	}
	return err
}

type edit struct {
	start, end int
	text       string
}

// File rewrites the source of one Go file. Every function carrying a
// //memogen:memoize directive is replaced by its cache, wrapper and renamed
// original; a function that cannot be memoized is copied unchanged and
// reported in Result.Diagnostics. The returned error is reserved for input
// that does not parse or output that cannot be formatted.
//
// The output starts with a generated-code header recording Checksum(src), and
// its build constraint is the negation of the input's, so exactly one of the
// two files is compiled at a time.
func File(filename string, src []byte, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("file", filename))

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("rewrite: parse %s: %w", filename, err)
	}
	tf := fset.File(f.Pos())

	expr, buildRanges, err := buildLines(tf, f)
	if err != nil {
		return nil, err
	}
	res := &Result{Filename: filename, Constrained: expr != nil}
	if expr == nil {
		logger.Warn("source has no //go:build line and will be compiled together with the generated file")
	}

	var (
		edits   []edit
		needed  []transform.Import
		taken   = topLevelNames(f)
		options = transform.Options{Container: opts.Container, Aliases: opts.Aliases}
	)
	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if _, ok := transform.FindDirective(fd); !ok {
			continue
		}

		art, err := transform.Function(fd, options)
		if err == nil {
			err = claim(taken, fd, art)
		}
		if err != nil {
			d, ok := transform.AsDiagnostic(err)
			if !ok {
				return nil, err
			}
			diag := Diagnostic{Position: fset.Position(d.Pos), Kind: d.Kind, Message: d.Message, err: d}
			res.Diagnostics = append(res.Diagnostics, diag)
			logger.Warn("function left unmemoized",
				zap.String("func", fd.Name.Name),
				zap.Stringer("kind", d.Kind),
				zap.String("pos", diag.Position.String()),
				zap.String("reason", d.Message))
			continue
		}

		text, err := replacement(tf, src, fd, art)
		if err != nil {
			return nil, fmt.Errorf("rewrite: print %s: %w", fd.Name.Name, err)
		}
		start := fd.Pos()
		if fd.Doc != nil {
			start = fd.Doc.Pos()
		}
		edits = append(edits, edit{start: tf.Offset(start), end: tf.Offset(fd.End()), text: text})
		needed = append(needed, art.Imports...)
		res.Functions = append(res.Functions, Function{
			Name:      fd.Name.Name,
			CacheName: art.CacheName,
			InnerName: art.InnerName,
			Container: art.Container.Kind,
		})
		logger.Debug("memoized function",
			zap.String("func", fd.Name.Name),
			zap.Stringer("container", art.Container.Kind),
			zap.String("cache", art.CacheName))
	}
	for _, r := range buildRanges {
		edits = append(edits, edit{start: r[0], end: lineEnd(src, r[1])})
	}

	var out bytes.Buffer
	out.WriteString(header(filename, src))
	if expr != nil {
		out.WriteString("\n" + negate(expr) + "\n")
	}
	out.WriteString("\n")
	out.Write(bytes.TrimLeft(apply(src, edits), "\n"))

	res.Source, err = finish(filename, out.Bytes(), needed)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// replacement renders the declarations that take the place of fd: the key and
// result types, the cache, the wrapper under fd's doc comment, and fd's own
// text under its new name.
func replacement(tf *token.File, src []byte, fd *ast.FuncDecl, art *transform.Artifact) (string, error) {
	var b bytes.Buffer
	if art.Types != nil {
		if err := format.Node(&b, token.NewFileSet(), art.Types); err != nil {
			return "", err
		}
		b.WriteString("\n\n")
	}
	if err := format.Node(&b, token.NewFileSet(), art.Cache); err != nil {
		return "", err
	}
	b.WriteString("\n\n")

	if art.Wrapper.Doc != nil {
		for _, c := range art.Wrapper.Doc.List {
			b.WriteString(c.Text)
			b.WriteByte('\n')
		}
	}
	wrapper := *art.Wrapper
	wrapper.Doc = nil
	if err := format.Node(&b, token.NewFileSet(), &wrapper); err != nil {
		return "", err
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "// %s is the uncached %s.\n", art.InnerName, fd.Name.Name)
	b.Write(src[tf.Offset(fd.Pos()):tf.Offset(fd.Name.Pos())])
	b.WriteString(art.InnerName)
	b.Write(src[tf.Offset(fd.Name.End()):tf.Offset(fd.End())])
	return b.String(), nil
}

func apply(src []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var out bytes.Buffer
	last := 0
	for _, e := range edits {
		out.Write(src[last:e.start])
		out.WriteString(e.text)
		last = e.end
	}
	out.Write(src[last:])
	return out.Bytes()
}

func lineEnd(src []byte, off int) int {
	if off < len(src) && src[off] == '\n' {
		return off + 1
	}
	return off
}

// finish adds the imports the generated declarations need and formats the
// file the way goimports does.
func finish(filename string, src []byte, needed []transform.Import) ([]byte, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("rewrite: generated source for %s does not parse: %w", filename, err)
	}
	for _, imp := range needed {
		astutil.AddNamedImport(fset, f, imp.Name, imp.Path)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, f); err != nil {
		return nil, fmt.Errorf("rewrite: format %s: %w", filename, err)
	}
	out, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("rewrite: format %s: %w", filename, err)
	}
	return out, nil
}

// topLevelNames maps the package-level identifiers declared in f to "" so that
// claim can tell them apart from generated ones.
func topLevelNames(f *ast.File) map[string]string {
	names := make(map[string]string)
	add := func(id *ast.Ident) {
		if id != nil && id.Name != "_" {
			names[id.Name] = ""
		}
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				add(d.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, n := range s.Names {
						add(n)
					}
				case *ast.TypeSpec:
					add(s.Name)
				}
			}
		}
	}
	return names
}

// claim reserves the identifiers generated for fd, or reports the declaration
// or generated function that already owns one of them.
func claim(taken map[string]string, fd *ast.FuncDecl, art *transform.Artifact) error {
	generated := art.Generated()
	for _, name := range generated {
		owner, ok := taken[name]
		if !ok {
			continue
		}
		msg := fmt.Sprintf("Generated identifier %s is already declared in this file.", name)
		if owner != "" {
			msg = fmt.Sprintf("Generated identifier %s is already generated for %s.", name, owner)
		}
		return &transform.Diagnostic{
			Kind:    transform.NameCollision,
			Pos:     fd.Name.Pos(),
			End:     fd.Name.End(),
			Message: msg,
		}
	}
	for _, name := range generated {
		taken[name] = fd.Name.Name
	}
	return nil
}

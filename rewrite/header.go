package rewrite

import (
	"bufio"
	"bytes"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultSuffix replaces ".go" in the name of a generated file.
const DefaultSuffix = "_memo.go"

const checksumPrefix = "// memogen:checksum "

// Checksum fingerprints a source file. Generated files record the checksum of
// the source they were generated from.
func Checksum(src []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(src))
}

// ReadChecksum returns the checksum recorded in the header of a generated
// file, if there is one. Only the lines before the package clause are read.
func ReadChecksum(generated []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(generated))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if sum, ok := strings.CutPrefix(line, checksumPrefix); ok {
			return strings.TrimSpace(sum), true
		}
		if strings.HasPrefix(line, "package ") {
			break
		}
	}
	return "", false
}

// OutputPath names the generated file for input: "fib.go" becomes
// "fib_memo.go" with the default suffix. Test files stay test files.
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	dir, base := filepath.Split(input)
	if stem, ok := strings.CutSuffix(base, "_test.go"); ok {
		return filepath.Join(dir, stem+strings.TrimSuffix(suffix, ".go")+"_test.go")
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ".go")+suffix)
}

func header(filename string, src []byte) string {
	return fmt.Sprintf("// Code generated by memogen from %s; DO NOT EDIT.\n%s%s\n",
		filepath.Base(filename), checksumPrefix, Checksum(src))
}

// buildLines finds the build constraint lines above the package clause. It
// returns the parsed //go:build expression, if any, and the byte ranges of
// every constraint line, "// +build" lines included.
func buildLines(tf *token.File, f *ast.File) (constraint.Expr, [][2]int, error) {
	var (
		expr   constraint.Expr
		ranges [][2]int
	)
	for _, group := range f.Comments {
		if group.Pos() >= f.Package {
			break
		}
		for _, c := range group.List {
			if !constraint.IsGoBuild(c.Text) && !constraint.IsPlusBuild(c.Text) {
				continue
			}
			if constraint.IsGoBuild(c.Text) {
				x, err := constraint.Parse(c.Text)
				if err != nil {
					return nil, nil, fmt.Errorf("rewrite: %s: %w", tf.Position(c.Pos()), err)
				}
				expr = x
			}
			ranges = append(ranges, [2]int{tf.Offset(c.Pos()), tf.Offset(c.End())})
		}
	}
	return expr, ranges, nil
}

// negate returns the constraint line for the generated file.
func negate(expr constraint.Expr) string {
	if not, ok := expr.(*constraint.NotExpr); ok {
		return "//go:build " + not.X.String()
	}
	return "//go:build " + (&constraint.NotExpr{X: expr}).String()
}

// Memovet reports //memogen:memoize directives that memogen would reject or
// whose generated code would not compile.
//
// Source files meant for memogen usually carry a build constraint, so pass
// the tag along:
//
//	memovet -tags memogen ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/on-the-ground/memogen/analysis/memocheck"
)

func main() {
	singlechecker.Main(memocheck.Analyzer)
}

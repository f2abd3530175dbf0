// Memogen generates memoized versions of Go functions.
//
// Mark a function in a file built with the memogen tag:
//
//	//go:build memogen
//
//	//memogen:memoize
//	func Fib(n uint64) uint64 { ... }
//
// and run
//
//	memogen generate fib.go
//
// to write fib_memo.go, which is built without the tag.
package main

import (
	"os"

	"github.com/on-the-ground/memogen/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

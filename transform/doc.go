// Package transform turns one memoizable function declaration into three or four.
//
// Given
//
//	//memogen:memoize
//	func Fib(n uint64) uint64 { ... }
//
// Function produces, in order:
//
//	var _FIB_CACHE = memo.NewCache(func() memo.Store[uint64, uint64] {
//		return memo.NewHashStore[uint64, uint64]()
//	})
//
//	func Fib(n uint64) uint64 { /* lookup, compute via _Fib_aux, insert */ }
//
//	func _Fib_aux(n uint64) uint64 { ... } // original body, unchanged
//
// preceded, for keys of several parameters or functions with several results,
// by the named structs that hold them:
//
//	type _Paths_key struct {
//		r int
//		c int
//	}
//
// or exactly one Diagnostic and nothing else. The pass is pure: it reads the
// declaration and builds new nodes, it never mutates its input.
//
// The pipeline is split the way the stages run:
//
//   - Analyze classifies parameters into retained and ignored ones.
//   - ExtractResult derives the cached value type from the results.
//   - BuildTypeDecl declares the composite key and result structs.
//   - BuildCacheDecl declares the cache for a container kind.
//   - SynthesizeBody writes the lookup-or-compute wrapper body.
//   - Function sequences the stages and renames the original.
package transform

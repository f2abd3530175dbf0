// Package memo is the runtime used by code that memogen generates.
//
// A memoized function owns one Cache. The Cache maps the tuple of the
// function's retained arguments to its result and hands every lookup and every
// insertion to a Store, the minimal associative capability:
//
//	Get(key) (value, ok)
//	Insert(key, value)
//
// HashStore, TreeStore and SortedStore are the built-in stores. Any other type
// whose pointer satisfies Store and whose zero value is ready to use can be
// named in a //memogen:memoize directive.
//
// Each memoized function has exactly one Cache, a package-level variable, and
// every goroutine calling the function shares it and its lock. There is no
// per-goroutine cache: a result computed on one goroutine is a hit on all
// others, and concurrent callers serialize on the lock for each lookup and
// insertion.
//
// The Cache never holds its lock while user code runs. A memoized function that
// recurses into itself performs its own lookups and insertions during the
// computation of the outer call, so each call acquires and releases the lock
// on its own and acquisitions never nest.
//
// The Tableize family memoizes closures at run time, for code that is not run
// through the generator:
//
//	var fib func(uint64) uint64
//	fib = memo.TableizeI1O1(func(n uint64) uint64 {
//		if n < 2 {
//			return 1
//		}
//		return fib(n-2) + fib(n-1)
//	})
//
// WARNING: memoizing an impure function (time, I/O, randomness) silently
// returns stale results. Entries are never evicted.
package memo

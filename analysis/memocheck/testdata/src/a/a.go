package a

import "time"

//memogen:memoize
func Fib(n uint64) uint64 {
	if n < 2 {
		return n
	}
	return Fib(n-2) + Fib(n-1)
}

type T struct{}

//memogen:memoize
func (T) Method(n int) int { return n } // want "Methods are not supported."

//memogen:memoize
func Nothing(n int) {} // want "There's no point in caching the output"

//memogen:memoize
func Generic[K comparable](k K) K { return k } // want "Generic functions are not supported."

//memogen:memoize
func Slice(xs []int) int { return len(xs) } // want `Parameter xs has type \[\]int, which cannot be part of a cache key.`

type Key struct{ parts []string }

//memogen:memoize
func Lookup(k Key) int { return len(k.parts) } // want `Parameter k has type Key, which cannot be part of a cache key.`

//memogen:memoize
func Ignored(n int, _ Key) int { return n }

//memogen:memoize
func Any(v any) int { return 0 }

//memogen:memoize tree
func Since(d time.Duration, label string) int { return int(d) + len(label) }

type Point struct{ X, Y int }

//memogen:memoize tree
func Dist(p Point) int { return p.X + p.Y } // want `Container tree needs ordered keys, but parameter p has type Point.`

//memogen:memoize []int // want `invalid container`
func BadContainer(n int) int { return n }

var _DUP_CACHE = 0

//memogen:memoize
func Dup(n int) int { return n } // want `Generated identifier _DUP_CACHE is already declared in package a.`

//memogen:memoize
func Twice(n int) int { return 2 * n }

//memogen:memoize
func TWICE(n int) int { return 2 * n } // want `Generated identifier _TWICE_CACHE is already generated for Twice.`

type _Pair_key struct{}

//memogen:memoize
func Pair(a, b int) int { return a + b } // want `Generated identifier _Pair_key is already declared in package a.`

//memogen:memoize
func Window(time time.Duration, n int) (time.Duration, error) { return time * 2, nil }

func Plain(xs []int) int { return len(xs) }

package b

type Pair struct{ A, B int }

//memogen:memoize
func Sum(p Pair) int { return p.A + p.B } // want `Container sorted needs ordered keys, but parameter p has type Pair.`

//memogen:memoize hash
func Hashed(p Pair) int { return p.A * p.B }

//memogen:memoize
func Scaled(n float64, name string) float64 { return n * float64(len(name)) }

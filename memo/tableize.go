package memo

type key2[I1, I2 comparable] struct {
	i1 I1
	i2 I2
}

type key3[I1, I2, I3 comparable] struct {
	i1 I1
	i2 I2
	i3 I3
}

type result2[O1, O2 any] struct {
	o1 O1
	o2 O2
}

func newHashCache[K comparable, V any]() *Cache[K, V] {
	return NewCache(func() Store[K, V] { return NewHashStore[K, V]() })
}

// TableizeI1O1 memoizes a pure one-argument function.
func TableizeI1O1[I1 comparable, O1 any](pureFn func(I1) O1) func(I1) O1 {
	c := newHashCache[I1, O1]()
	return func(i1 I1) O1 {
		return Memoize(c, i1, func() O1 { return pureFn(i1) })
	}
}

// TableizeI2O1 memoizes a pure two-argument function. Argument order is part
// of the key.
func TableizeI2O1[I1, I2 comparable, O1 any](pureFn func(I1, I2) O1) func(I1, I2) O1 {
	c := newHashCache[key2[I1, I2], O1]()
	return func(i1 I1, i2 I2) O1 {
		return Memoize(c, key2[I1, I2]{i1, i2}, func() O1 { return pureFn(i1, i2) })
	}
}

// TableizeI3O1 memoizes a pure three-argument function.
func TableizeI3O1[I1, I2, I3 comparable, O1 any](pureFn func(I1, I2, I3) O1) func(I1, I2, I3) O1 {
	c := newHashCache[key3[I1, I2, I3], O1]()
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return Memoize(c, key3[I1, I2, I3]{i1, i2, i3}, func() O1 { return pureFn(i1, i2, i3) })
	}
}

// TableizeI1O2 memoizes a pure one-argument function with two results.
func TableizeI1O2[I1 comparable, O1, O2 any](pureFn func(I1) (O1, O2)) func(I1) (O1, O2) {
	c := newHashCache[I1, result2[O1, O2]]()
	return func(i1 I1) (O1, O2) {
		res := Memoize(c, i1, func() result2[O1, O2] {
			o1, o2 := pureFn(i1)
			return result2[O1, O2]{o1, o2}
		})
		return res.o1, res.o2
	}
}

// TableizeI2O2 memoizes a pure two-argument function with two results.
func TableizeI2O2[I1, I2 comparable, O1, O2 any](pureFn func(I1, I2) (O1, O2)) func(I1, I2) (O1, O2) {
	c := newHashCache[key2[I1, I2], result2[O1, O2]]()
	return func(i1 I1, i2 I2) (O1, O2) {
		res := Memoize(c, key2[I1, I2]{i1, i2}, func() result2[O1, O2] {
			o1, o2 := pureFn(i1, i2)
			return result2[O1, O2]{o1, o2}
		})
		return res.o1, res.o2
	}
}

package getnext

// Func enumerates a level that needs no outer keys: the outermost level of
// a dependent walker, or any level of an independent one. It returns the
// smallest value strictly greater than *cur, or the smallest value when cur
// is nil. ok is false when no such value exists.
type Func[K any] func(cur *K) (next K, ok bool, err error)

// Func1 enumerates a level whose values depend on one outer key.
type Func1[O1, K any] func(cur *K, o1 O1) (next K, ok bool, err error)

// Func2 enumerates a level whose values depend on two outer keys.
type Func2[O1, O2, K any] func(cur *K, o1 O1, o2 O2) (next K, ok bool, err error)

// Func3 enumerates a level whose values depend on three outer keys.
type Func3[O1, O2, O3, K any] func(cur *K, o1 O1, o2 O2, o3 O3) (next K, ok bool, err error)

// Func4 enumerates a level whose values depend on four outer keys.
type Func4[O1, O2, O3, O4, K any] func(cur *K, o1 O1, o2 O2, o3 O3, o4 O4) (next K, ok bool, err error)

func (f Func[K]) level() levelFunc {
	return erase(func(cur *K, _ []any) (K, bool, error) {
		return f(cur)
	})
}

func (f Func1[O1, K]) level() levelFunc {
	return erase(func(cur *K, o []any) (K, bool, error) {
		return f(cur, o[0].(O1))
	})
}

func (f Func2[O1, O2, K]) level() levelFunc {
	return erase(func(cur *K, o []any) (K, bool, error) {
		return f(cur, o[0].(O1), o[1].(O2))
	})
}

func (f Func3[O1, O2, O3, K]) level() levelFunc {
	return erase(func(cur *K, o []any) (K, bool, error) {
		return f(cur, o[0].(O1), o[1].(O2), o[2].(O3))
	})
}

func (f Func4[O1, O2, O3, O4, K]) level() levelFunc {
	return erase(func(cur *K, o []any) (K, bool, error) {
		return f(cur, o[0].(O1), o[1].(O2), o[2].(O3), o[3].(O4))
	})
}

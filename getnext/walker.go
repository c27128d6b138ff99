package getnext

import (
	"log/slog"

	"github.com/golangsnmp/ospf6/internal/types"
)

// Row2 is a two-column key tuple.
type Row2[A, B any] struct {
	K1 A
	K2 B
}

// Row3 is a three-column key tuple.
type Row3[A, B, C any] struct {
	K1 A
	K2 B
	K3 C
}

// Row4 is a four-column key tuple.
type Row4[A, B, C, D any] struct {
	K1 A
	K2 B
	K3 C
	K4 D
}

// Row5 is a five-column key tuple.
type Row5[A, B, C, D, E any] struct {
	K1 A
	K2 B
	K3 C
	K4 D
	K5 E
}

// Walker1 walks a single-column table.
type Walker1[A any] struct{ e engine }

// Single returns a walker over one level. Its Next behaves exactly like
// calling f directly.
func Single[A any](f Func[A]) *Walker1[A] {
	return &Walker1[A]{e: engine{levels: []levelFunc{f.level()}}}
}

// WithLogger enables trace logging of level queries.
func (w *Walker1[A]) WithLogger(l *slog.Logger) *Walker1[A] {
	w.e.log = types.Logger{L: l}
	return w
}

// Next returns the first value after k1, or the first value when k1 is nil.
func (w *Walker1[A]) Next(k1 *A) (A, bool, error) {
	var zero A
	v, ok, err := w.e.next([]slot{slotOf(k1)})
	if err != nil || !ok {
		return zero, false, err
	}
	return v[0].(A), true, nil
}

// Walker2 walks a two-column table.
type Walker2[A, B any] struct{ e engine }

// Dependent2 composes levels where f2's values depend on the key chosen by f1.
func Dependent2[A, B any](f1 Func[A], f2 Func1[A, B]) *Walker2[A, B] {
	return &Walker2[A, B]{e: engine{levels: []levelFunc{f1.level(), f2.level()}}}
}

// Independent2 composes levels whose value sets do not depend on each other.
func Independent2[A, B any](f1 Func[A], f2 Func[B]) *Walker2[A, B] {
	return &Walker2[A, B]{e: engine{
		levels:      []levelFunc{f1.level(), f2.level()},
		independent: true,
	}}
}

// WithLogger enables trace logging of level queries.
func (w *Walker2[A, B]) WithLogger(l *slog.Logger) *Walker2[A, B] {
	w.e.log = types.Logger{L: l}
	return w
}

// Next returns the row following (k1, k2). Nil keys are omitted; see the
// package documentation for how partial keys are treated.
func (w *Walker2[A, B]) Next(k1 *A, k2 *B) (Row2[A, B], bool, error) {
	v, ok, err := w.e.next([]slot{slotOf(k1), slotOf(k2)})
	if err != nil || !ok {
		return Row2[A, B]{}, false, err
	}
	return Row2[A, B]{K1: v[0].(A), K2: v[1].(B)}, true, nil
}

// Walker3 walks a three-column table.
type Walker3[A, B, C any] struct{ e engine }

// Dependent3 composes three levels, each depending on all keys to its left.
func Dependent3[A, B, C any](f1 Func[A], f2 Func1[A, B], f3 Func2[A, B, C]) *Walker3[A, B, C] {
	return &Walker3[A, B, C]{e: engine{levels: []levelFunc{f1.level(), f2.level(), f3.level()}}}
}

// Independent3 composes three mutually independent levels.
func Independent3[A, B, C any](f1 Func[A], f2 Func[B], f3 Func[C]) *Walker3[A, B, C] {
	return &Walker3[A, B, C]{e: engine{
		levels:      []levelFunc{f1.level(), f2.level(), f3.level()},
		independent: true,
	}}
}

// WithLogger enables trace logging of level queries.
func (w *Walker3[A, B, C]) WithLogger(l *slog.Logger) *Walker3[A, B, C] {
	w.e.log = types.Logger{L: l}
	return w
}

// Next returns the row following (k1, k2, k3).
func (w *Walker3[A, B, C]) Next(k1 *A, k2 *B, k3 *C) (Row3[A, B, C], bool, error) {
	v, ok, err := w.e.next([]slot{slotOf(k1), slotOf(k2), slotOf(k3)})
	if err != nil || !ok {
		return Row3[A, B, C]{}, false, err
	}
	return Row3[A, B, C]{K1: v[0].(A), K2: v[1].(B), K3: v[2].(C)}, true, nil
}

// Walker4 walks a four-column table.
type Walker4[A, B, C, D any] struct{ e engine }

// Dependent4 composes four levels, each depending on all keys to its left.
func Dependent4[A, B, C, D any](f1 Func[A], f2 Func1[A, B], f3 Func2[A, B, C], f4 Func3[A, B, C, D]) *Walker4[A, B, C, D] {
	return &Walker4[A, B, C, D]{e: engine{levels: []levelFunc{f1.level(), f2.level(), f3.level(), f4.level()}}}
}

// Independent4 composes four mutually independent levels.
func Independent4[A, B, C, D any](f1 Func[A], f2 Func[B], f3 Func[C], f4 Func[D]) *Walker4[A, B, C, D] {
	return &Walker4[A, B, C, D]{e: engine{
		levels:      []levelFunc{f1.level(), f2.level(), f3.level(), f4.level()},
		independent: true,
	}}
}

// WithLogger enables trace logging of level queries.
func (w *Walker4[A, B, C, D]) WithLogger(l *slog.Logger) *Walker4[A, B, C, D] {
	w.e.log = types.Logger{L: l}
	return w
}

// Next returns the row following (k1, k2, k3, k4).
func (w *Walker4[A, B, C, D]) Next(k1 *A, k2 *B, k3 *C, k4 *D) (Row4[A, B, C, D], bool, error) {
	v, ok, err := w.e.next([]slot{slotOf(k1), slotOf(k2), slotOf(k3), slotOf(k4)})
	if err != nil || !ok {
		return Row4[A, B, C, D]{}, false, err
	}
	return Row4[A, B, C, D]{K1: v[0].(A), K2: v[1].(B), K3: v[2].(C), K4: v[3].(D)}, true, nil
}

// Walker5 walks a five-column table.
type Walker5[A, B, C, D, E any] struct{ e engine }

// Dependent5 composes five levels, each depending on all keys to its left.
func Dependent5[A, B, C, D, E any](f1 Func[A], f2 Func1[A, B], f3 Func2[A, B, C], f4 Func3[A, B, C, D], f5 Func4[A, B, C, D, E]) *Walker5[A, B, C, D, E] {
	return &Walker5[A, B, C, D, E]{e: engine{levels: []levelFunc{f1.level(), f2.level(), f3.level(), f4.level(), f5.level()}}}
}

// Independent5 composes five mutually independent levels.
func Independent5[A, B, C, D, E any](f1 Func[A], f2 Func[B], f3 Func[C], f4 Func[D], f5 Func[E]) *Walker5[A, B, C, D, E] {
	return &Walker5[A, B, C, D, E]{e: engine{
		levels:      []levelFunc{f1.level(), f2.level(), f3.level(), f4.level(), f5.level()},
		independent: true,
	}}
}

// WithLogger enables trace logging of level queries.
func (w *Walker5[A, B, C, D, E]) WithLogger(l *slog.Logger) *Walker5[A, B, C, D, E] {
	w.e.log = types.Logger{L: l}
	return w
}

// Next returns the row following (k1, k2, k3, k4, k5).
func (w *Walker5[A, B, C, D, E]) Next(k1 *A, k2 *B, k3 *C, k4 *D, k5 *E) (Row5[A, B, C, D, E], bool, error) {
	v, ok, err := w.e.next([]slot{slotOf(k1), slotOf(k2), slotOf(k3), slotOf(k4), slotOf(k5)})
	if err != nil || !ok {
		return Row5[A, B, C, D, E]{}, false, err
	}
	return Row5[A, B, C, D, E]{K1: v[0].(A), K2: v[1].(B), K3: v[2].(C), K4: v[3].(D), K5: v[4].(E)}, true, nil
}

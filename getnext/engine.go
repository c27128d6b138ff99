package getnext

import (
	"fmt"
	"log/slog"

	"github.com/golangsnmp/ospf6/internal/types"
)

// slot is one position of a partially specified key tuple.
type slot struct {
	v   any
	set bool
}

func slotOf[K any](p *K) slot {
	if p == nil {
		return slot{}
	}
	return slot{v: *p, set: true}
}

// levelFunc is the type-erased form of a level function.
type levelFunc func(cur slot, outer []any) (any, bool, error)

// erase adapts a typed level call to levelFunc.
func erase[K any](call func(cur *K, outer []any) (K, bool, error)) levelFunc {
	return func(cur slot, outer []any) (any, bool, error) {
		var p *K
		if cur.set {
			k := cur.v.(K)
			p = &k
		}
		v, ok, err := call(p, outer)
		if err != nil || !ok {
			return nil, false, err
		}
		return v, true, nil
	}
}

type firstState uint8

const (
	firstUnknown firstState = iota
	firstFound
	firstEmpty
)

// engine resolves GetNext over an ordered list of levels. It is the only
// traversal loop in the package; the typed walkers only convert keys.
type engine struct {
	levels      []levelFunc
	independent bool
	log         types.Logger
}

// next returns the tuple following cur, which has one slot per level.
//
// When every slot is set the result is strictly greater than cur. Otherwise
// the leading set slots are kept and the first unset level starts from its
// first value. Slots after the first unset one are ignored.
func (e *engine) next(cur []slot) ([]any, bool, error) {
	n := len(e.levels)
	if len(cur) != n {
		return nil, false, fmt.Errorf("getnext: %d keys for %d levels", len(cur), n)
	}

	chosen := make([]any, n)
	m := 0
	for m < n && cur[m].set {
		chosen[m] = cur[m].v
		m++
	}

	i := m
	var after slot
	if m == n {
		i = n - 1
		after = cur[n-1]
	}

	// Independent levels do not look at outer keys, so each level's first
	// value is the same on every carry and is resolved once.
	var firsts []firstState
	var firstVals []any
	if e.independent {
		firsts = make([]firstState, n)
		firstVals = make([]any, n)
	}

	for {
		if i == n {
			return chosen, true, nil
		}
		if i < 0 {
			return nil, false, nil
		}

		var (
			v   any
			ok  bool
			err error
		)
		if e.independent && !after.set && firsts[i] != firstUnknown {
			v, ok = firstVals[i], firsts[i] == firstFound
		} else {
			v, ok, err = e.levels[i](after, chosen[:i])
			if err != nil {
				return nil, false, fmt.Errorf("getnext: level %d: %w", i+1, err)
			}
			if e.independent && !after.set {
				firstVals[i] = v
				firsts[i] = firstEmpty
				if ok {
					firsts[i] = firstFound
				}
			}
		}

		if e.log.TraceEnabled() {
			e.log.Trace("level query",
				slog.Int("level", i+1),
				slog.Bool("first", !after.set),
				slog.Bool("found", ok))
		}

		if ok {
			chosen[i] = v
			i++
			after = slot{}
			continue
		}

		// An empty independent column means no tuple exists at all.
		if e.independent && firsts[i] == firstEmpty {
			return nil, false, nil
		}

		// Carry: advance the level to the left past its current value and
		// re-resolve everything to its right from the first value.
		i--
		if i >= 0 {
			after = slot{v: chosen[i], set: true}
		}
	}
}

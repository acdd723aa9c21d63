package framework

type guardState uint8

const (
	stateProducing guardState = iota
	stateExhausted
	stateClosed
)

// IterGuard wraps a live ExtensionIter and guarantees the underlying
// solve handle is reclaimed exactly once, whether the caller drains the
// iterator, abandons it early, or hits an error mid-stream.
//
// Callers defer Close immediately after obtaining a guard. After
// exhaustion or an error, further Next calls report no more items.
type IterGuard[E Extension] struct {
	iter  ExtensionIter[E]
	state guardState
}

// NewIterGuard wraps an iterator that is already mid-solve.
func NewIterGuard[E Extension](iter ExtensionIter[E]) *IterGuard[E] {
	return &IterGuard[E]{iter: iter, state: stateProducing}
}

// Next returns the next extension. ok=false signals exhaustion. On an
// engine error the guard closes itself, reclaiming the handle, and then
// surfaces the error; the guard is terminal afterwards.
func (g *IterGuard[E]) Next() (E, bool, error) {
	var zero E
	if g.state != stateProducing {
		return zero, false, nil
	}
	ext, ok, err := g.iter.Next()
	if err != nil {
		g.state = stateClosed
		_ = g.iter.Close()
		return zero, false, err
	}
	if !ok {
		g.state = stateExhausted
		return zero, false, nil
	}
	return ext, true, nil
}

// Close releases the underlying iterator, returning the solve handle to
// its session. Safe to call from any state, any number of times.
func (g *IterGuard[E]) Close() error {
	if g.state == stateClosed {
		return nil
	}
	g.state = stateClosed
	return g.iter.Close()
}

package celengine

import (
	"fmt"
	"math/bits"

	"github.com/google/cel-go/cel"

	"github.com/dasplabs/dasp/pkg/engine"
)

// solveHandle walks the candidate space one accepted model per Resume.
// The cursor is a bitmask over the grounded argument list.
type solveHandle struct {
	eng      *Engine
	programs []cel.Program
	universe *universe

	cursor uint64
	limit  uint64
	model  *modelView
	closed bool
}

// Resume advances to the next accepted candidate, or to exhaustion.
func (h *solveHandle) Resume() error {
	if h.closed {
		return fmt.Errorf("%w: resume on a closed solve handle", engine.ErrEngineFault)
	}
	for h.cursor < h.limit {
		candidate := h.subset(h.cursor)
		h.cursor++
		ok, err := h.accepted(candidate)
		if err != nil {
			return err
		}
		if ok {
			h.model = newModelView(candidate)
			return nil
		}
	}
	h.model = nil
	return nil
}

// Model returns the current model, or nil once the search is exhausted.
func (h *solveHandle) Model() (engine.ModelView, error) {
	if h.closed {
		return nil, fmt.Errorf("%w: model on a closed solve handle", engine.ErrEngineFault)
	}
	if h.model == nil {
		return nil, nil
	}
	return h.model, nil
}

// Close hands control back to the engine. Idempotent.
func (h *solveHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.model = nil
	h.eng.endSolve()
	return nil
}

func (h *solveHandle) subset(mask uint64) []string {
	members := make([]string, 0, bits.OnesCount64(mask))
	for i, id := range h.universe.args {
		if mask&(uint64(1)<<i) != 0 {
			members = append(members, id)
		}
	}
	return members
}

func (h *solveHandle) accepted(candidate []string) (bool, error) {
	activation := map[string]any{
		"args": h.universe.args,
		"atts": h.universe.atts,
		"set":  candidate,
	}
	for _, prg := range h.programs {
		out, _, err := prg.Eval(activation)
		if err != nil {
			return false, fmt.Errorf("%w: evaluating candidate: %v", engine.ErrEngineFault, err)
		}
		accepted, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("%w: program result is not boolean", engine.ErrEngineFault)
		}
		if !accepted {
			return false, nil
		}
	}
	return true, nil
}

// modelView renders an accepted candidate as shown in/1 atoms. String
// arguments carry quotes, mirroring solver symbol output; decoders strip
// them.
type modelView struct {
	shown []engine.Symbol
}

func newModelView(candidate []string) *modelView {
	shown := make([]engine.Symbol, 0, len(candidate))
	for _, id := range candidate {
		shown = append(shown, engine.NewSymbol(PredicateIn, `"`+id+`"`))
	}
	return &modelView{shown: shown}
}

func (m *modelView) ShownSymbols() []engine.Symbol {
	return m.shown
}

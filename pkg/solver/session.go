package solver

import (
	"fmt"

	"github.com/dasplabs/dasp/pkg/af"
	"github.com/dasplabs/dasp/pkg/engine"
	"github.com/dasplabs/dasp/pkg/engine/celengine"
	"github.com/dasplabs/dasp/pkg/store"
)

// basePart names the single program part the session grounds.
const basePart = "base"

// initialize asserts the revision-0 facts, submits the semantics
// fragment and grounds the session. Non-optional elements become
// immutable facts; optional ones become externals carrying their current
// truth, so later revisions only flip toggles.
func (f *ArgumentationFramework) initialize() error {
	argStates, attStates := f.store.FullView()
	for _, s := range argStates {
		sym := argumentSymbol(s.ID)
		if s.Optional {
			if err := f.eng.AssertExternal(sym, s.Alive); err != nil {
				return fmt.Errorf("asserting %s: %w", sym, err)
			}
		} else if err := f.eng.AssertFact(sym); err != nil {
			return fmt.Errorf("asserting %s: %w", sym, err)
		}
	}
	for _, s := range attStates {
		sym := attackSymbol(s.From, s.To)
		if s.Optional {
			if err := f.eng.AssertExternal(sym, s.Alive); err != nil {
				return fmt.Errorf("asserting %s: %w", sym, err)
			}
		} else if err := f.eng.AssertFact(sym); err != nil {
			return fmt.Errorf("asserting %s: %w", sym, err)
		}
	}
	if err := f.eng.SubmitProgram(basePart, f.sem.Base, nil); err != nil {
		return err
	}
	return f.eng.Ground([]engine.Part{{Name: basePart}})
}

// propagate pushes a committed changeset into the session by flipping
// the matching external toggles, then regrounds. Every flipped element
// was declared optional at load, so its external must exist; a miss is
// an engine fault, not a user error.
func (f *ArgumentationFramework) propagate(cs *store.Changeset) error {
	for _, fact := range cs.Facts {
		var sym engine.Symbol
		if fact.Kind == af.KindArgument {
			sym = argumentSymbol(fact.Argument.ID)
		} else {
			sym = attackSymbol(fact.Attack.From, fact.Attack.To)
		}
		h, ok := f.eng.FindSymbol(sym.Predicate, sym.Args...)
		if !ok {
			return fmt.Errorf("%w: external %s missing from session", engine.ErrSymbolNotFound, sym)
		}
		if err := f.eng.AssignExternal(h, fact.Alive); err != nil {
			return err
		}
	}
	return f.eng.Ground([]engine.Part{{Name: basePart}})
}

func argumentSymbol(id af.ArgumentID) engine.Symbol {
	return engine.NewSymbol(celengine.PredicateArgument, id)
}

func attackSymbol(from, to af.ArgumentID) engine.Symbol {
	return engine.NewSymbol(celengine.PredicateAttack, from, to)
}

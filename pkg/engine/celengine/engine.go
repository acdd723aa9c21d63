// Package celengine is the bundled declarative engine behind the
// engine.Engine boundary. Semantics fragments are CEL boolean programs
// over three variables: args (the alive argument IDs), atts (the alive
// attacks as [from, to] pairs), and set (the candidate extension). The
// engine enumerates candidate sets and keeps those every submitted
// program accepts.
package celengine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/dasplabs/dasp/pkg/engine"
)

const (
	// PredicateArgument is the fact predicate declaring an argument.
	PredicateArgument = "argument"
	// PredicateAttack is the fact predicate declaring an attack.
	PredicateAttack = "attack"
	// PredicateIn is the shown predicate marking extension membership.
	PredicateIn = "in"
)

type fact struct {
	sym      engine.Symbol
	external bool
	truth    bool
}

// universe is the grounded view the solver searches over.
type universe struct {
	args []string
	atts [][]string
}

// Engine implements engine.Engine on top of cel-go.
type Engine struct {
	mu       sync.RWMutex
	env      *cel.Env
	programs map[string]cel.Program
	order    []string

	facts []fact
	bySig map[string]engine.SymbolHandle

	ground  *universe
	solving bool
}

// New builds an empty engine.
func New() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("args", cel.ListType(cel.StringType)),
		cel.Variable("atts", cel.ListType(cel.ListType(cel.StringType))),
		cel.Variable("set", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}
	return &Engine{
		env:      env,
		programs: make(map[string]cel.Program),
		bySig:    make(map[string]engine.SymbolHandle),
	}, nil
}

// SubmitProgram compiles and caches the fragment under the given name.
// Params are accepted for interface compatibility and ignored; CEL parts
// are not parameterized.
func (e *Engine) SubmitProgram(name, source string, _ []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.programs[name]; exists {
		return fmt.Errorf("%w: program %q submitted twice", engine.ErrEngineFault, name)
	}
	ast, issues := e.env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("%w: compiling program %q: %v", engine.ErrEngineFault, name, issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return fmt.Errorf("%w: building program %q: %v", engine.ErrEngineFault, name, err)
	}
	e.programs[name] = prg
	e.order = append(e.order, name)
	return nil
}

// AssertFact adds an immutable fact. Re-asserting the same fact is a
// no-op.
func (e *Engine) AssertFact(sym engine.Symbol) error {
	return e.addFact(sym, false, true)
}

// AssertExternal adds a toggleable fact with the given initial truth.
func (e *Engine) AssertExternal(sym engine.Symbol, truth bool) error {
	return e.addFact(sym, true, truth)
}

func (e *Engine) addFact(sym engine.Symbol, external, truth bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	sig := sym.String()
	if _, exists := e.bySig[sig]; exists {
		return nil
	}
	e.bySig[sig] = engine.SymbolHandle(len(e.facts))
	e.facts = append(e.facts, fact{sym: sym, external: external, truth: truth})
	return nil
}

// AssignExternal flips the truth of an external fact. Assigning the value
// it already holds is a no-op.
func (e *Engine) AssignExternal(h engine.SymbolHandle, truth bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h < 0 || int(h) >= len(e.facts) {
		return fmt.Errorf("%w: handle %d out of range", engine.ErrSymbolNotFound, h)
	}
	f := &e.facts[h]
	if !f.external {
		return fmt.Errorf("%w: %s is not an external fact", engine.ErrEngineFault, f.sym)
	}
	f.truth = truth
	return nil
}

// FindSymbol looks up a fact by predicate and arguments.
func (e *Engine) FindSymbol(predicate string, args ...string) (engine.SymbolHandle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	h, ok := e.bySig[engine.NewSymbol(predicate, args...).String()]
	return h, ok
}

// Ground recomputes the searched universe from the currently true facts.
// Part names are accepted for interface compatibility; the CEL engine
// grounds everything at once.
func (e *Engine) Ground(_ []engine.Part) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.solving {
		return fmt.Errorf("%w: grounding while a solve handle is checked out", engine.ErrEngineFault)
	}
	u := &universe{}
	for _, f := range e.facts {
		if !f.truth {
			continue
		}
		switch f.sym.Predicate {
		case PredicateArgument:
			if len(f.sym.Args) == 1 {
				u.args = append(u.args, f.sym.Args[0])
			}
		case PredicateAttack:
			if len(f.sym.Args) == 2 {
				u.atts = append(u.atts, []string{f.sym.Args[0], f.sym.Args[1]})
			}
		}
	}
	sort.Strings(u.args)
	sort.Slice(u.atts, func(i, j int) bool {
		if u.atts[i][0] != u.atts[j][0] {
			return u.atts[i][0] < u.atts[j][0]
		}
		return u.atts[i][1] < u.atts[j][1]
	})
	e.ground = u
	return nil
}

// BeginSolve checks the engine out to a resumable solve handle. The
// engine refuses further solves and grounding until the handle is closed.
func (e *Engine) BeginSolve() (engine.SolveHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ground == nil || len(e.programs) == 0 {
		return nil, engine.ErrNotInitialized
	}
	if e.solving {
		return nil, fmt.Errorf("%w: solve handle already checked out", engine.ErrEngineFault)
	}
	n := len(e.ground.args)
	if n > 63 {
		return nil, fmt.Errorf("%w: %d alive arguments exceed the bundled engine's search bound", engine.ErrEngineFault, n)
	}
	programs := make([]cel.Program, 0, len(e.order))
	for _, name := range e.order {
		programs = append(programs, e.programs[name])
	}
	e.solving = true
	return &solveHandle{
		eng:      e,
		programs: programs,
		universe: e.ground,
		limit:    uint64(1) << n,
	}, nil
}

func (e *Engine) endSolve() {
	e.mu.Lock()
	e.solving = false
	e.mu.Unlock()
}

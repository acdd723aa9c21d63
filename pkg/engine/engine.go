// Package engine defines the boundary to the declarative constraint
// engine that performs the combinatorial search for extensions. The
// solving session adapter consumes this narrow contract only; the bundled
// CEL-backed implementation lives in the celengine subpackage and an
// industrial ASP backend can be substituted without touching callers.
package engine

import "strings"

// Symbol is a ground fact or shown atom: a predicate applied to constant
// arguments, e.g. argument("a1") or attack("a1","a2").
type Symbol struct {
	Predicate string
	Args      []string
}

// NewSymbol builds a symbol value.
func NewSymbol(predicate string, args ...string) Symbol {
	return Symbol{Predicate: predicate, Args: args}
}

func (s Symbol) String() string {
	if len(s.Args) == 0 {
		return s.Predicate
	}
	return s.Predicate + "(" + strings.Join(s.Args, ",") + ")"
}

// SymbolHandle refers to a fact inside the engine's symbol table.
// Handles are only valid for the engine that issued them.
type SymbolHandle int

// Part names a program part to ground, optionally with parameters.
type Part struct {
	Name   string
	Params []string
}

// ModelView exposes one satisfying assignment produced by a solve.
type ModelView interface {
	// ShownSymbols returns the model's shown atoms. String arguments
	// carry the engine's internal quoting; decoders strip it.
	ShownSymbols() []Symbol
}

// SolveHandle is a resumable, single-owner handle on a running search.
// No model is computed until Resume is called. Close returns control to
// the engine and must be called on every exit path; it is idempotent.
type SolveHandle interface {
	// Resume advances the search to the next model, or to exhaustion.
	Resume() error
	// Model returns the current model, or nil once the search is
	// exhausted. Only meaningful after a successful Resume.
	Model() (ModelView, error)
	// Close ends the search and makes the engine usable again.
	Close() error
}

// Engine is the contract required of the external solving collaborator.
//
// The expected call sequence is: AssertFact / AssertExternal for the
// initial facts, SubmitProgram for the semantics fragments, Ground, then
// any number of AssignExternal + Ground rounds interleaved with solves.
// At most one SolveHandle may be open at a time.
type Engine interface {
	// SubmitProgram registers a named logic fragment. Params are passed
	// through to backends that support parameterized parts.
	SubmitProgram(name, source string, params []string) error
	// Ground instantiates the given program parts over the current facts.
	Ground(parts []Part) error
	// AssertFact adds an immutable fact.
	AssertFact(sym Symbol) error
	// AssertExternal adds a toggleable fact with the given initial truth.
	AssertExternal(sym Symbol, truth bool) error
	// AssignExternal flips the truth value of an external fact.
	// Assignments are idempotent.
	AssignExternal(h SymbolHandle, truth bool) error
	// FindSymbol looks up a fact in the symbol table.
	FindSymbol(predicate string, args ...string) (SymbolHandle, bool)
	// BeginSolve starts a resumable search and transfers exclusive
	// ownership of the engine to the returned handle until Close.
	BeginSolve() (SolveHandle, error)
}

// Package semantics enumerates the acceptance criteria the solver
// supports and the declarative fragment each one submits to the engine.
//
// A fragment is a boolean CEL expression over three variables: args (the
// alive argument IDs), atts (the alive attacks as [from, to] pairs), and
// set (the candidate extension). The engine guesses candidate sets; the
// fragment is the check half of the guess-and-check encoding.
package semantics

import "fmt"

// Name tags one supported semantics. The set is closed.
type Name string

const (
	ConflictFree Name = "conflict-free"
	Admissible   Name = "admissible"
	Complete     Name = "complete"
	Stable       Name = "stable"
	Ground       Name = "ground"
)

// Descriptor describes the logic an engine must evaluate for one
// semantics, plus decoding peculiarities.
type Descriptor struct {
	Name Name
	// Base is the acceptance fragment, grounded once per session.
	Base string
	// LeastOnly marks semantics whose result is the unique
	// subset-minimal accepted set rather than every accepted set.
	LeastOnly bool
}

// The chosen set must not contain two arguments joined by an alive
// attack; a self-attacking argument excludes itself.
const fragmentConflictFree = `
	atts.all(a, !(a[0] in set) || !(a[1] in set))
`

// Conflict-free, and every attacker of a member is counter-attacked by
// the set.
const fragmentAdmissible = fragmentConflictFree + ` &&
	atts.all(a, !(a[1] in set) || atts.exists(d, d[0] in set && d[1] == a[0]))
`

// Admissible, and every argument the set defends is a member. An
// argument is defended when each of its attackers is attacked by the set;
// unattacked arguments are defended vacuously.
const fragmentComplete = fragmentAdmissible + ` &&
	args.all(x, (x in set) ||
		!atts.all(a, a[1] != x || atts.exists(d, d[0] in set && d[1] == a[0])))
`

// Conflict-free, and every argument outside the set is attacked by it.
const fragmentStable = fragmentConflictFree + ` &&
	args.all(x, (x in set) || atts.exists(a, a[0] in set && a[1] == x))
`

var descriptors = map[Name]Descriptor{
	ConflictFree: {Name: ConflictFree, Base: fragmentConflictFree},
	Admissible:   {Name: Admissible, Base: fragmentAdmissible},
	Complete:     {Name: Complete, Base: fragmentComplete},
	Stable:       {Name: Stable, Base: fragmentStable},
	// The ground extension is the least fixed point of defense: the
	// unique subset-minimal complete extension.
	Ground: {Name: Ground, Base: fragmentComplete, LeastOnly: true},
}

// Get returns the descriptor for the given name.
func Get(n Name) (Descriptor, error) {
	d, ok := descriptors[n]
	if !ok {
		return Descriptor{}, fmt.Errorf("unsupported semantics %q", n)
	}
	return d, nil
}

// MustGet is Get for the compile-time-known names used across the module.
func MustGet(n Name) Descriptor {
	d, err := Get(n)
	if err != nil {
		panic(err)
	}
	return d
}

// All returns every supported descriptor.
func All() []Descriptor {
	return []Descriptor{
		descriptors[ConflictFree],
		descriptors[Admissible],
		descriptors[Complete],
		descriptors[Stable],
		descriptors[Ground],
	}
}

// ByCode resolves the two-letter competition code (cf, ad, co, st, gr).
func ByCode(code string) (Descriptor, error) {
	switch code {
	case "cf":
		return descriptors[ConflictFree], nil
	case "ad":
		return descriptors[Admissible], nil
	case "co":
		return descriptors[Complete], nil
	case "st":
		return descriptors[Stable], nil
	case "gr":
		return descriptors[Ground], nil
	default:
		return Descriptor{}, fmt.Errorf("unknown semantics code %q", code)
	}
}

// Code returns the two-letter competition code for the descriptor.
func (d Descriptor) Code() string {
	switch d.Name {
	case ConflictFree:
		return "cf"
	case Admissible:
		return "ad"
	case Complete:
		return "co"
	case Stable:
		return "st"
	default:
		return "gr"
	}
}

// Package af models Dung's abstract argumentation frameworks: arguments,
// attacks, extensions, patches, and the textual formats they are read
// from and written to.
package af

// ArgumentID identifies an argument. IDs are opaque tokens taken from the
// input file; two arguments are the same entity iff their IDs match.
type ArgumentID = string

// Argument is a node of the framework. Optional arguments start Dead and
// may be toggled by patches; non-optional arguments are permanently Alive
// once loaded. Equality and ordering are by ID only.
type Argument struct {
	ID       ArgumentID
	Optional bool
}

// NewArgument builds an argument value.
func NewArgument(id ArgumentID, optional bool) Argument {
	return Argument{ID: id, Optional: optional}
}

// Attack is a directed edge between two arguments. Self-loops are allowed.
// Equality is by the (From, To) pair only.
type Attack struct {
	From     ArgumentID
	To       ArgumentID
	Optional bool
}

// NewAttack builds an attack value.
func NewAttack(from, to ArgumentID, optional bool) Attack {
	return Attack{From: from, To: to, Optional: optional}
}

// Same reports whether both values denote the same attack, ignoring the
// optional flag.
func (a Attack) Same(o Attack) bool {
	return a.From == o.From && a.To == o.To
}

// SelfLoop reports whether the attack's endpoints coincide.
func (a Attack) SelfLoop() bool {
	return a.From == a.To
}

// Package store owns the canonical revisioned state of a framework:
// which arguments and attacks exist, which are alive, and how many
// update lines have been applied. It is the single source of truth; the
// solving session only holds a transient view for grounding.
package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dasplabs/dasp/pkg/af"
)

var (
	// ErrUnknownElement reports a patch against an argument or attack
	// that does not exist in the store.
	ErrUnknownElement = errors.New("unknown element")

	// ErrIllegalTransition reports a patch that violates the lifecycle
	// invariant: non-optional elements are permanently alive.
	ErrIllegalTransition = errors.New("illegal lifecycle transition")
)

// ArgumentState pairs an argument with its current lifecycle status.
type ArgumentState struct {
	af.Argument
	Alive bool
}

// AttackState pairs an attack with its current lifecycle status.
type AttackState struct {
	af.Attack
	Alive bool
}

// ChangedFact records one status flip for the session to propagate.
type ChangedFact struct {
	Kind     af.ElementKind
	Argument af.Argument
	Attack   af.Attack
	Alive    bool
}

// Changeset is the effect of one applied update: the new revision and
// every fact whose status flipped. Facts may be empty when the update
// was a redundant toggle.
type Changeset struct {
	Revision uint64
	Facts    []ChangedFact
}

type attackKey struct {
	from, to af.ArgumentID
}

type argRecord struct {
	arg   af.Argument
	alive bool
}

type attRecord struct {
	att   af.Attack
	alive bool
}

// Store holds the revisioned framework state.
type Store struct {
	args     map[af.ArgumentID]*argRecord
	atts     map[attackKey]*attRecord
	revision uint64
}

// Load builds the revision-0 state: optional elements start dead, all
// others alive. Duplicate argument IDs or attack pairs fail with
// ErrMalformedInput.
func Load(args []af.Argument, atts []af.Attack) (*Store, error) {
	s := &Store{
		args: make(map[af.ArgumentID]*argRecord, len(args)),
		atts: make(map[attackKey]*attRecord, len(atts)),
	}
	for _, arg := range args {
		if _, dup := s.args[arg.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate argument %q", af.ErrMalformedInput, arg.ID)
		}
		s.args[arg.ID] = &argRecord{arg: arg, alive: !arg.Optional}
	}
	for _, att := range atts {
		key := attackKey{from: att.From, to: att.To}
		if _, dup := s.atts[key]; dup {
			return nil, fmt.Errorf("%w: duplicate attack (%s,%s)", af.ErrMalformedInput, att.From, att.To)
		}
		s.atts[key] = &attRecord{att: att, alive: !att.Optional}
	}
	return s, nil
}

// Revision returns the number of applied updates since load.
func (s *Store) Revision() uint64 {
	return s.revision
}

// flip is one planned status change, validated before commit.
type flip struct {
	argRec *argRecord
	attRec *attRecord
	alive  bool
}

// Apply validates the given patch chain against the current state and,
// if every patch is legal, commits all flips as one revision. On error
// the store is unchanged and the revision does not advance. A chain
// whose patches are all redundant toggles still consumes a revision.
func (s *Store) Apply(patches ...af.Patch) (*Changeset, error) {
	var flips []flip
	// pending tracks statuses as the chain would leave them, so later
	// patches in the chain see the effect of earlier ones.
	pendingArgs := make(map[*argRecord]bool)
	pendingAtts := make(map[*attRecord]bool)

	argAlive := func(r *argRecord) bool {
		if v, ok := pendingArgs[r]; ok {
			return v
		}
		return r.alive
	}
	attAlive := func(r *attRecord) bool {
		if v, ok := pendingAtts[r]; ok {
			return v
		}
		return r.alive
	}

	for _, p := range patches {
		switch p.Kind {
		case af.KindArgument:
			rec, ok := s.args[p.Argument.ID]
			if !ok {
				return nil, fmt.Errorf("%w: argument %q", ErrUnknownElement, p.Argument.ID)
			}
			switch p.Action {
			case af.Enable:
				if argAlive(rec) {
					if !rec.arg.Optional {
						return nil, fmt.Errorf("%w: argument %q is not optional and already alive", ErrIllegalTransition, p.Argument.ID)
					}
					// Redundant enable of an optional element: no-op.
				} else {
					pendingArgs[rec] = true
					flips = append(flips, flip{argRec: rec, alive: true})
				}
			case af.Disable:
				if !rec.arg.Optional {
					return nil, fmt.Errorf("%w: argument %q is not optional and cannot be disabled", ErrIllegalTransition, p.Argument.ID)
				}
				if argAlive(rec) {
					pendingArgs[rec] = false
					flips = append(flips, flip{argRec: rec, alive: false})
				}
			}
			// Companion attacks are enabled alongside a fresh argument;
			// companions that are no longer dead are skipped, unknown
			// companions fail the whole chain.
			for _, with := range p.With {
				key := attackKey{from: with.From, to: with.To}
				rec, ok := s.atts[key]
				if !ok {
					return nil, fmt.Errorf("%w: attack (%s,%s)", ErrUnknownElement, with.From, with.To)
				}
				if attAlive(rec) {
					continue
				}
				pendingAtts[rec] = true
				flips = append(flips, flip{attRec: rec, alive: true})
			}
		case af.KindAttack:
			key := attackKey{from: p.Attack.From, to: p.Attack.To}
			rec, ok := s.atts[key]
			if !ok {
				return nil, fmt.Errorf("%w: attack (%s,%s)", ErrUnknownElement, p.Attack.From, p.Attack.To)
			}
			switch p.Action {
			case af.Enable:
				if attAlive(rec) {
					if !rec.att.Optional {
						return nil, fmt.Errorf("%w: attack (%s,%s) is not optional and already alive", ErrIllegalTransition, p.Attack.From, p.Attack.To)
					}
				} else {
					pendingAtts[rec] = true
					flips = append(flips, flip{attRec: rec, alive: true})
				}
			case af.Disable:
				if !rec.att.Optional {
					return nil, fmt.Errorf("%w: attack (%s,%s) is not optional and cannot be disabled", ErrIllegalTransition, p.Attack.From, p.Attack.To)
				}
				if attAlive(rec) {
					pendingAtts[rec] = false
					flips = append(flips, flip{attRec: rec, alive: false})
				}
			}
		}
	}

	s.revision++
	cs := &Changeset{Revision: s.revision}
	for _, f := range flips {
		if f.argRec != nil {
			f.argRec.alive = f.alive
			cs.Facts = append(cs.Facts, ChangedFact{Kind: af.KindArgument, Argument: f.argRec.arg, Alive: f.alive})
		} else {
			f.attRec.alive = f.alive
			cs.Facts = append(cs.Facts, ChangedFact{Kind: af.KindAttack, Attack: f.attRec.att, Alive: f.alive})
		}
	}
	return cs, nil
}

// AliveView returns only the alive elements, ordered by ID and by
// (from, to). This is the projection handed to the solver and emitted as
// intermediate snapshots.
func (s *Store) AliveView() ([]af.Argument, []af.Attack) {
	var args []af.Argument
	for _, rec := range s.args {
		if rec.alive {
			args = append(args, rec.arg)
		}
	}
	var atts []af.Attack
	for _, rec := range s.atts {
		if rec.alive {
			atts = append(atts, rec.att)
		}
	}
	sortArgs(args)
	sortAtts(atts)
	return args, atts
}

// FullView returns every element with its status, ordered. Used for the
// annotated textual projection and for audit snapshots.
func (s *Store) FullView() ([]ArgumentState, []AttackState) {
	args := make([]ArgumentState, 0, len(s.args))
	for _, rec := range s.args {
		args = append(args, ArgumentState{Argument: rec.arg, Alive: rec.alive})
	}
	atts := make([]AttackState, 0, len(s.atts))
	for _, rec := range s.atts {
		atts = append(atts, AttackState{Attack: rec.att, Alive: rec.alive})
	}
	sort.Slice(args, func(i, j int) bool { return args[i].ID < args[j].ID })
	sort.Slice(atts, func(i, j int) bool {
		if atts[i].From != atts[j].From {
			return atts[i].From < atts[j].From
		}
		return atts[i].To < atts[j].To
	})
	return args, atts
}

func sortArgs(args []af.Argument) {
	sort.Slice(args, func(i, j int) bool { return args[i].ID < args[j].ID })
}

func sortAtts(atts []af.Attack) {
	sort.Slice(atts, func(i, j int) bool {
		if atts[i].From != atts[j].From {
			return atts[i].From < atts[j].From
		}
		return atts[i].To < atts[j].To
	})
}

package af

import "fmt"

// PatchAction selects between enabling and disabling an element.
type PatchAction uint8

const (
	// Enable flips an element from Dead to Alive.
	Enable PatchAction = iota
	// Disable flips an optional element from Alive to Dead.
	Disable
)

func (a PatchAction) String() string {
	if a == Enable {
		return "enable"
	}
	return "disable"
}

// ElementKind distinguishes the two element families a patch can target.
type ElementKind uint8

const (
	KindArgument ElementKind = iota
	KindAttack
)

func (k ElementKind) String() string {
	if k == KindArgument {
		return "argument"
	}
	return "attack"
}

// Patch is one incremental edit against the framework. Exactly one of
// Argument or Attack is meaningful, selected by Kind. An enable-argument
// patch may carry companion attacks to activate in the same revision.
type Patch struct {
	Action   PatchAction
	Kind     ElementKind
	Argument Argument
	Attack   Attack
	// With lists attacks enabled together with a freshly enabled
	// argument. Only valid for Action == Enable, Kind == KindArgument.
	With []Attack
}

// EnableArgument builds a patch enabling the argument with the given ID,
// optionally activating the listed companion attacks in the same revision.
func EnableArgument(id ArgumentID, with ...Attack) Patch {
	return Patch{Action: Enable, Kind: KindArgument, Argument: Argument{ID: id}, With: with}
}

// DisableArgument builds a patch disabling the argument with the given ID.
func DisableArgument(id ArgumentID) Patch {
	return Patch{Action: Disable, Kind: KindArgument, Argument: Argument{ID: id}}
}

// EnableAttack builds a patch enabling the attack (from, to).
func EnableAttack(from, to ArgumentID) Patch {
	return Patch{Action: Enable, Kind: KindAttack, Attack: Attack{From: from, To: to}}
}

// DisableAttack builds a patch disabling the attack (from, to).
func DisableAttack(from, to ArgumentID) Patch {
	return Patch{Action: Disable, Kind: KindAttack, Attack: Attack{From: from, To: to}}
}

func (p Patch) String() string {
	switch p.Kind {
	case KindArgument:
		if len(p.With) > 0 {
			return fmt.Sprintf("%s argument %s (+%d attacks)", p.Action, p.Argument.ID, len(p.With))
		}
		return fmt.Sprintf("%s argument %s", p.Action, p.Argument.ID)
	default:
		return fmt.Sprintf("%s attack (%s,%s)", p.Action, p.Attack.From, p.Attack.To)
	}
}

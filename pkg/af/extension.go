package af

import (
	"sort"
	"strings"
)

// Extension is a set of arguments jointly satisfying an acceptance
// semantics. IDs are kept sorted; the empty extension is a valid value.
type Extension struct {
	ids []ArgumentID
}

// NewExtension builds an extension from the given argument IDs.
// Duplicates are collapsed and the IDs are ordered.
func NewExtension(ids ...ArgumentID) Extension {
	sorted := make([]ArgumentID, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	dedup := sorted[:0]
	for i, id := range sorted {
		if i == 0 || sorted[i-1] != id {
			dedup = append(dedup, id)
		}
	}
	return Extension{ids: dedup}
}

// Contains reports whether the extension includes the given argument.
func (e Extension) Contains(id ArgumentID) bool {
	i := sort.SearchStrings(e.ids, id)
	return i < len(e.ids) && e.ids[i] == id
}

// IDs returns the member IDs in order. The slice must not be mutated.
func (e Extension) IDs() []ArgumentID {
	return e.ids
}

// Len returns the number of members.
func (e Extension) Len() int {
	return len(e.ids)
}

// SubsetOf reports whether every member of e is also a member of o.
func (e Extension) SubsetOf(o Extension) bool {
	for _, id := range e.ids {
		if !o.Contains(id) {
			return false
		}
	}
	return true
}

// Equal reports whether both extensions hold the same argument-ID set.
func (e Extension) Equal(o Extension) bool {
	if len(e.ids) != len(o.ids) {
		return false
	}
	for i := range e.ids {
		if e.ids[i] != o.ids[i] {
			return false
		}
	}
	return true
}

// Format renders the extension in the competition output format:
// comma-joined IDs in brackets, the empty extension as "[]".
func (e Extension) Format() string {
	return "[" + strings.Join(e.ids, ",") + "]"
}

package solver

import (
	"strings"

	"github.com/dasplabs/dasp/pkg/af"
	"github.com/dasplabs/dasp/pkg/engine"
	"github.com/dasplabs/dasp/pkg/engine/celengine"
	"github.com/dasplabs/dasp/pkg/framework"
)

// extensionIter adapts a checked-out solve handle to the generic
// iterator contract, decoding shown in/1 atoms into extensions.
type extensionIter struct {
	handle    engine.SolveHandle
	leastOnly bool
	done      bool
}

var _ framework.ExtensionIter[af.Extension] = (*extensionIter)(nil)

func (it *extensionIter) Next() (af.Extension, bool, error) {
	if it.done {
		return af.Extension{}, false, nil
	}
	if it.leastOnly {
		return it.nextLeast()
	}
	ext, ok, err := it.nextModel()
	if err != nil || !ok {
		it.done = true
		return af.Extension{}, false, err
	}
	return ext, true, nil
}

// nextLeast drains the search and yields the subset-least accepted set
// exactly once. The base fragment guarantees a least element exists, so
// keeping whichever result is a subset of the best so far converges on
// it.
func (it *extensionIter) nextLeast() (af.Extension, bool, error) {
	it.done = true
	var best *af.Extension
	for {
		ext, ok, err := it.nextModel()
		if err != nil {
			return af.Extension{}, false, err
		}
		if !ok {
			break
		}
		if best == nil || ext.SubsetOf(*best) {
			e := ext
			best = &e
		}
	}
	if best == nil {
		return af.Extension{}, false, nil
	}
	return *best, true, nil
}

func (it *extensionIter) nextModel() (af.Extension, bool, error) {
	if err := it.handle.Resume(); err != nil {
		return af.Extension{}, false, err
	}
	model, err := it.handle.Model()
	if err != nil {
		return af.Extension{}, false, err
	}
	if model == nil {
		return af.Extension{}, false, nil
	}
	return decodeExtension(model), true, nil
}

func (it *extensionIter) Close() error {
	it.done = true
	return it.handle.Close()
}

// decodeExtension collects the model's in/1 atoms, stripping the
// engine's string quoting.
func decodeExtension(model engine.ModelView) af.Extension {
	var ids []af.ArgumentID
	for _, sym := range model.ShownSymbols() {
		if sym.Predicate != celengine.PredicateIn || len(sym.Args) != 1 {
			continue
		}
		ids = append(ids, strings.Trim(sym.Args[0], `"`))
	}
	return af.NewExtension(ids...)
}

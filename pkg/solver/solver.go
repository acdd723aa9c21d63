// Package solver binds the revisioned store to a solving session: it
// loads a framework, keeps the engine's external toggles in lockstep
// with the store, and exposes guarded extension enumeration plus the
// textual update protocol.
package solver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dasplabs/dasp/pkg/af"
	"github.com/dasplabs/dasp/pkg/engine"
	"github.com/dasplabs/dasp/pkg/engine/celengine"
	"github.com/dasplabs/dasp/pkg/framework"
	"github.com/dasplabs/dasp/pkg/semantics"
	"github.com/dasplabs/dasp/pkg/store"
)

// Recorder persists applied changesets for audit replay. The SQLite
// journal implements it; tests substitute in-memory fakes.
type Recorder interface {
	Record(ctx context.Context, cs *store.Changeset) error
}

// ArgumentationFramework is a loaded framework under one semantics. It
// implements the generic framework contract over af.Extension.
type ArgumentationFramework struct {
	id      string
	sem     semantics.Descriptor
	store   *store.Store
	eng     engine.Engine
	journal Recorder
	log     *slog.Logger
}

var _ framework.Framework[af.Extension] = (*ArgumentationFramework)(nil)

// Option customizes framework construction.
type Option func(*ArgumentationFramework)

// WithEngine substitutes the solving backend. The default is the
// bundled CEL engine.
func WithEngine(eng engine.Engine) Option {
	return func(f *ArgumentationFramework) { f.eng = eng }
}

// WithJournal attaches a changeset recorder; every applied update is
// persisted after it takes effect.
func WithJournal(j Recorder) Option {
	return func(f *ArgumentationFramework) { f.journal = j }
}

// WithLogger substitutes the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *ArgumentationFramework) { f.log = l }
}

// New loads the given elements at revision 0 and initializes a solving
// session for the semantics.
func New(args []af.Argument, atts []af.Attack, sem semantics.Descriptor, opts ...Option) (*ArgumentationFramework, error) {
	st, err := store.Load(args, atts)
	if err != nil {
		return nil, err
	}
	f := &ArgumentationFramework{
		id:    uuid.NewString(),
		sem:   sem,
		store: st,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.eng == nil {
		eng, err := celengine.New()
		if err != nil {
			return nil, err
		}
		f.eng = eng
	}
	f.log = f.log.With("framework", f.id, "semantics", string(sem.Name))
	if err := f.initialize(); err != nil {
		return nil, err
	}
	f.log.Debug("framework loaded", "arguments", len(args), "attacks", len(atts))
	return f, nil
}

// Parse builds a framework from an initial file in either supported
// format.
func Parse(input string, sem semantics.Descriptor, opts ...Option) (*ArgumentationFramework, error) {
	args, atts, err := af.ParseFramework(input)
	if err != nil {
		return nil, err
	}
	return New(args, atts, sem, opts...)
}

// ID returns the session identifier used in logs and journal rows.
func (f *ArgumentationFramework) ID() string {
	return f.id
}

// Semantics returns the loaded semantics descriptor.
func (f *ArgumentationFramework) Semantics() semantics.Descriptor {
	return f.sem
}

// Revision returns the number of applied updates since load.
func (f *ArgumentationFramework) Revision() uint64 {
	return f.store.Revision()
}

// Update parses one update line, applies it as a single revision,
// propagates the flips into the session, and records the changeset when
// a journal is attached. On error the framework state is unchanged and
// the revision does not advance.
func (f *ArgumentationFramework) Update(line string) error {
	patches, err := af.ParseUpdateLine(line)
	if err != nil {
		return err
	}
	cs, err := f.store.Apply(patches...)
	if err != nil {
		return err
	}
	if err := f.propagate(cs); err != nil {
		return err
	}
	f.log.Debug("update applied", "revision", cs.Revision, "flips", len(cs.Facts))
	if f.journal != nil {
		if err := f.journal.Record(context.Background(), cs); err != nil {
			return fmt.Errorf("recording revision %d: %w", cs.Revision, err)
		}
	}
	return nil
}

// EnumerateExtensions checks out the session's solve handle and wraps it
// in a guard. The session refuses updates and further enumerations until
// the guard is closed.
func (f *ArgumentationFramework) EnumerateExtensions() (*framework.IterGuard[af.Extension], error) {
	h, err := f.eng.BeginSolve()
	if err != nil {
		return nil, err
	}
	return framework.NewIterGuard[af.Extension](&extensionIter{
		handle:    h,
		leastOnly: f.sem.LeastOnly,
	}), nil
}

// FullFramework renders every element, dead or alive, with optionality
// markers.
func (f *ArgumentationFramework) FullFramework(format af.FileFormat) (string, error) {
	argStates, attStates := f.store.FullView()
	args := make([]af.Argument, len(argStates))
	for i, s := range argStates {
		args[i] = s.Argument
	}
	atts := make([]af.Attack, len(attStates))
	for i, s := range attStates {
		atts[i] = s.Attack
	}
	var buf strings.Builder
	if err := af.WriteFramework(&buf, format, args, atts, true); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// AliveFramework renders the alive projection the solver currently sees.
func (f *ArgumentationFramework) AliveFramework(format af.FileFormat) (string, error) {
	args, atts := f.store.AliveView()
	var buf strings.Builder
	if err := af.WriteFramework(&buf, format, args, atts, false); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package solver_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasplabs/dasp/pkg/af"
	"github.com/dasplabs/dasp/pkg/engine"
	"github.com/dasplabs/dasp/pkg/framework"
	"github.com/dasplabs/dasp/pkg/semantics"
	"github.com/dasplabs/dasp/pkg/solver"
	"github.com/dasplabs/dasp/pkg/store"
)

func newFramework(t *testing.T, input string, sem semantics.Name, opts ...solver.Option) *solver.ArgumentationFramework {
	t.Helper()
	fw, err := solver.Parse(input, semantics.MustGet(sem), opts...)
	require.NoError(t, err)
	return fw
}

// extensions drains one enumeration and returns the sorted formatted
// results.
func extensions(t *testing.T, fw *solver.ArgumentationFramework) []string {
	t.Helper()
	guard, err := fw.EnumerateExtensions()
	require.NoError(t, err)
	defer func() { _ = guard.Close() }()

	var out []string
	for {
		ext, ok, err := guard.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, ext.Format())
	}
	require.NoError(t, guard.Close())
	sort.Strings(out)
	return out
}

func TestEmptyFramework_HasOnlyTheEmptyExtension(t *testing.T) {
	for _, sem := range []semantics.Name{
		semantics.ConflictFree,
		semantics.Admissible,
		semantics.Complete,
		semantics.Stable,
		semantics.Ground,
	} {
		fw := newFramework(t, "", sem)
		assert.Equal(t, []string{"[]"}, extensions(t, fw), "semantics %s", sem)
	}
}

func TestConflictFree_ExcludesAttackedPairs(t *testing.T) {
	fw := newFramework(t, `
		arg(a). arg(b).
		att(a,b).
	`, semantics.ConflictFree)
	assert.Equal(t, []string{"[]", "[a]", "[b]"}, extensions(t, fw))
}

func TestAdmissible_Simple(t *testing.T) {
	fw := newFramework(t, `
		arg(a1).
		arg(a2).
		arg(a3).
		att(a1, a3).
		att(a2, a3).
		att(a3, a2).
	`, semantics.Admissible)
	assert.Equal(t, []string{"[]", "[a1]", "[a1,a2]", "[a2]"}, extensions(t, fw))
}

func TestComplete_Simple(t *testing.T) {
	fw := newFramework(t, `
		arg(1). arg(2). arg(3).
		att(1, 3).
		att(2, 3).
		att(3, 2).
	`, semantics.Complete)
	assert.Equal(t, []string{"[1,2]"}, extensions(t, fw))

	fw = newFramework(t, `
		arg(1). arg(2). arg(3).
		att(1, 2).
		att(2, 1).
	`, semantics.Complete)
	assert.Equal(t, []string{"[1,3]", "[2,3]", "[3]"}, extensions(t, fw))
}

func TestStable_Simple(t *testing.T) {
	fw := newFramework(t, `
		arg(1). arg(2). arg(3).
		att(1, 3).
		att(2, 3).
		att(3, 2).
	`, semantics.Stable)
	assert.Equal(t, []string{"[1,2]"}, extensions(t, fw))

	fw = newFramework(t, "arg(1).", semantics.Stable)
	assert.Equal(t, []string{"[1]"}, extensions(t, fw))

	fw = newFramework(t, `
		arg(1). arg(2).
		att(1, 2).
		att(2, 1).
	`, semantics.Stable)
	assert.Equal(t, []string{"[1]", "[2]"}, extensions(t, fw))
}

// TestStable_SelfAttackerMayLeaveNoExtension verifies the empty result
// set (not the empty extension) for a framework whose only candidate
// attacker excludes itself.
func TestStable_SelfAttackerMayLeaveNoExtension(t *testing.T) {
	fw := newFramework(t, `
		arg(1). arg(2).
		att(1, 2).
		att(1, 1).
	`, semantics.Stable)
	assert.Empty(t, extensions(t, fw))
}

func TestGround_IsTheLeastCompleteExtension(t *testing.T) {
	fw := newFramework(t, `
		arg(1). arg(2). arg(3).
		att(1, 3).
		att(2, 3).
		att(3, 2).
	`, semantics.Ground)
	assert.Equal(t, []string{"[1,2]"}, extensions(t, fw))

	fw = newFramework(t, "arg(1).", semantics.Ground)
	assert.Equal(t, []string{"[1]"}, extensions(t, fw))

	fw = newFramework(t, `
		arg(1). arg(2).
		att(1, 2).
		att(2, 1).
	`, semantics.Ground)
	assert.Equal(t, []string{"[]"}, extensions(t, fw))
}

func TestTerseInputFormat(t *testing.T) {
	fw := newFramework(t, "1\n2\n#\n2 1", semantics.Stable)
	assert.Equal(t, []string{"[2]"}, extensions(t, fw))
}

// TestUpdate_TogglingAttacks mirrors a session that flips optional
// attacks on and off and re-enumerates after every revision.
func TestUpdate_TogglingAttacks(t *testing.T) {
	fw := newFramework(t, `
		arg(alpha).
		arg(beta).

		att(alpha, beta).
		opt(att(alpha, beta)).

		att(alpha, alpha).
		opt(att(alpha, alpha)).
	`, semantics.Admissible)

	require.NoError(t, fw.Update("+att(alpha, beta)."))
	assert.Equal(t, []string{"[]", "[alpha]"}, extensions(t, fw))

	require.NoError(t, fw.Update("+att(alpha, alpha)."))
	assert.Equal(t, []string{"[]"}, extensions(t, fw))

	require.NoError(t, fw.Update("-att(alpha, beta)."))
	assert.Equal(t, []string{"[]", "[beta]"}, extensions(t, fw))

	assert.Equal(t, uint64(3), fw.Revision())
}

func TestUpdate_ReEnablingArguments(t *testing.T) {
	fw := newFramework(t, `
		arg(a1).
		arg(a2).

		opt(arg(a1)).
	`, semantics.Admissible)

	require.NoError(t, fw.Update("+arg(a1)."))
	assert.Equal(t, []string{"[]", "[a1]", "[a1,a2]", "[a2]"}, extensions(t, fw))

	require.NoError(t, fw.Update("-arg(a1)."))
	assert.Equal(t, []string{"[]", "[a2]"}, extensions(t, fw))

	require.NoError(t, fw.Update("+arg(a1)."))
	assert.Equal(t, []string{"[]", "[a1]", "[a1,a2]", "[a2]"}, extensions(t, fw))
}

// TestUpdate_ChainedEnable verifies one line enabling an argument plus
// its attacks lands as a single revision.
func TestUpdate_ChainedEnable(t *testing.T) {
	fw := newFramework(t, `
		arg(a1). arg(a2).
		arg(a4). opt(arg(a4)).
		att(a4, a1). opt(att(a4, a1)).
		att(a2, a4). opt(att(a2, a4)).
	`, semantics.ConflictFree)

	require.NoError(t, fw.Update("+arg(a4):att(a4, a1):att(a2, a4)."))
	assert.Equal(t, uint64(1), fw.Revision())

	exts := extensions(t, fw)
	assert.NotContains(t, exts, "[a1,a4]")
	assert.NotContains(t, exts, "[a2,a4]")
	assert.Contains(t, exts, "[a4]")
}

func TestUpdate_ErrorsDoNotAdvanceRevision(t *testing.T) {
	fw := newFramework(t, `
		arg(a1).
		arg(a2). opt(arg(a2)).
	`, semantics.Admissible)

	err := fw.Update("not an update line")
	assert.ErrorIs(t, err, af.ErrMalformedInput)
	assert.Equal(t, uint64(0), fw.Revision())

	err = fw.Update("+arg(a9).")
	assert.ErrorIs(t, err, store.ErrUnknownElement)
	assert.Equal(t, uint64(0), fw.Revision())

	err = fw.Update("-arg(a1).")
	assert.ErrorIs(t, err, store.ErrIllegalTransition)
	assert.Equal(t, uint64(0), fw.Revision())

	// Redundant toggles still consume a revision.
	require.NoError(t, fw.Update("-arg(a2)."))
	require.NoError(t, fw.Update("-arg(a2)."))
	assert.Equal(t, uint64(2), fw.Revision())
	assert.Equal(t, []string{"[]", "[a1]"}, extensions(t, fw))
}

// TestEnumerate_SessionIsExclusive verifies the engine refuses a second
// enumeration while a guard holds the solve handle.
func TestEnumerate_SessionIsExclusive(t *testing.T) {
	fw := newFramework(t, "arg(a1).", semantics.Admissible)

	guard, err := fw.EnumerateExtensions()
	require.NoError(t, err)

	_, err = fw.EnumerateExtensions()
	assert.ErrorIs(t, err, engine.ErrEngineFault)

	require.NoError(t, guard.Close())

	assert.Equal(t, []string{"[]", "[a1]"}, extensions(t, fw))
}

// TestEnumerate_EarlyAbandonment verifies dropping an enumeration early
// returns the handle and leaves the session usable.
func TestEnumerate_EarlyAbandonment(t *testing.T) {
	fw := newFramework(t, "arg(a1). arg(a2). opt(arg(a2)).", semantics.ConflictFree)

	guard, err := fw.EnumerateExtensions()
	require.NoError(t, err)
	_, ok, err := guard.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, guard.Close())

	// The session accepts updates and fresh enumerations afterwards.
	require.NoError(t, fw.Update("+arg(a2)."))
	assert.Len(t, extensions(t, fw), 4)
}

func TestDerivedOperations(t *testing.T) {
	fw := newFramework(t, `
		arg(a1). arg(a2). arg(a3).
		att(a1, a3).
		att(a2, a3).
		att(a3, a2).
	`, semantics.Admissible)

	n, err := framework.CountExtensions[af.Extension](fw)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, ok, err := framework.SampleExtension[af.Extension](fw)
	require.NoError(t, err)
	assert.True(t, ok)

	yes, err := framework.IsCredulouslyAccepted[af.Extension](fw, "a1")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := framework.IsCredulouslyAccepted[af.Extension](fw, "a3")
	require.NoError(t, err)
	assert.False(t, no)

	// The empty extension is admissible, so nothing holds skeptically.
	no, err = framework.IsSkepticallyAccepted[af.Extension](fw, "a1")
	require.NoError(t, err)
	assert.False(t, no)
}

func TestSkepticalAcceptance_UnderComplete(t *testing.T) {
	fw := newFramework(t, `
		arg(1). arg(2). arg(3).
		att(1, 3).
		att(2, 3).
		att(3, 2).
	`, semantics.Complete)

	yes, err := framework.IsSkepticallyAccepted[af.Extension](fw, "1")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := framework.IsSkepticallyAccepted[af.Extension](fw, "3")
	require.NoError(t, err)
	assert.False(t, no)
}

func TestSampleExtension_NoneForUnsatisfiableStable(t *testing.T) {
	fw := newFramework(t, `
		arg(1). arg(2).
		att(1, 2).
		att(1, 1).
	`, semantics.Stable)

	_, ok, err := framework.SampleExtension[af.Extension](fw)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnumerate_RefusesOversizedFrameworks(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 64; i++ {
		fmt.Fprintf(&b, "arg(a%02d).\n", i)
	}
	fw := newFramework(t, b.String(), semantics.ConflictFree)

	_, err := fw.EnumerateExtensions()
	assert.ErrorIs(t, err, engine.ErrEngineFault)
}

// recorderFunc adapts a function to the Recorder interface.
type recorderFunc func(ctx context.Context, cs *store.Changeset) error

func (f recorderFunc) Record(ctx context.Context, cs *store.Changeset) error { return f(ctx, cs) }

func TestUpdate_RecordsChangesets(t *testing.T) {
	var recorded []*store.Changeset
	rec := recorderFunc(func(_ context.Context, cs *store.Changeset) error {
		recorded = append(recorded, cs)
		return nil
	})

	fw := newFramework(t, `
		arg(a1). opt(arg(a1)).
	`, semantics.Admissible, solver.WithJournal(rec))

	require.NoError(t, fw.Update("+arg(a1)."))
	require.NoError(t, fw.Update("+arg(a1)."))

	require.Len(t, recorded, 2)
	assert.Equal(t, uint64(1), recorded[0].Revision)
	require.Len(t, recorded[0].Facts, 1)
	assert.True(t, recorded[0].Facts[0].Alive)
	assert.Equal(t, uint64(2), recorded[1].Revision)
	assert.Empty(t, recorded[1].Facts)
}

func TestUpdate_RecorderFailureSurfaces(t *testing.T) {
	boom := errors.New("journal unavailable")
	rec := recorderFunc(func(context.Context, *store.Changeset) error { return boom })

	fw := newFramework(t, "arg(a1). opt(arg(a1)).", semantics.Admissible, solver.WithJournal(rec))
	assert.ErrorIs(t, fw.Update("+arg(a1)."), boom)
}

func TestTextualProjections(t *testing.T) {
	fw := newFramework(t, `
		arg(a1).
		arg(a2). opt(arg(a2)).
		att(a1, a2). opt(att(a1, a2)).
	`, semantics.Admissible)

	full, err := fw.FullFramework(af.FormatAPX)
	require.NoError(t, err)
	assert.Contains(t, full, "arg(a1).")
	assert.Contains(t, full, "arg(a2).")
	assert.Contains(t, full, "opt(arg(a2)).")
	assert.Contains(t, full, "opt(att(a1,a2)).")

	alive, err := fw.AliveFramework(af.FormatAPX)
	require.NoError(t, err)
	assert.Equal(t, "arg(a1).\n", alive)

	require.NoError(t, fw.Update("+arg(a2)."))
	alive, err = fw.AliveFramework(af.FormatTGF)
	require.NoError(t, err)
	assert.Equal(t, "a1\na2\n#\n", alive)
}

func TestParse_MalformedInput(t *testing.T) {
	_, err := solver.Parse("genuinely malformed(", semantics.MustGet(semantics.Admissible))
	assert.ErrorIs(t, err, af.ErrMalformedInput)

	_, err = solver.Parse("arg(a1). arg(a1).", semantics.MustGet(semantics.Admissible))
	assert.ErrorIs(t, err, af.ErrMalformedInput)
}

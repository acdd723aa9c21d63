package framework_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasplabs/dasp/pkg/framework"
)

// fakeFramework hands out one scripted iteration per enumeration call.
type fakeFramework struct {
	results []fakeExtension
	err     error
	iters   []*fakeIter
}

func (f *fakeFramework) EnumerateExtensions() (*framework.IterGuard[fakeExtension], error) {
	it := &fakeIter{results: f.results, err: f.err}
	f.iters = append(f.iters, it)
	return framework.NewIterGuard[fakeExtension](it), nil
}

func (f *fakeFramework) Update(string) error { return nil }

func (f *fakeFramework) assertAllReclaimed(t *testing.T) {
	t.Helper()
	for i, it := range f.iters {
		assert.Equal(t, 1, it.closed, "iterator %d not reclaimed exactly once", i)
	}
}

func TestCountExtensions(t *testing.T) {
	f := &fakeFramework{results: []fakeExtension{ext(), ext("a"), ext("b")}}
	n, err := framework.CountExtensions[fakeExtension](f)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	f.assertAllReclaimed(t)
}

func TestSampleExtension(t *testing.T) {
	f := &fakeFramework{results: []fakeExtension{ext("a"), ext("b")}}
	sample, ok, err := framework.SampleExtension[fakeExtension](f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sample.Contains("a"))

	empty := &fakeFramework{}
	_, ok, err = framework.SampleExtension[fakeExtension](empty)
	require.NoError(t, err)
	assert.False(t, ok)

	f.assertAllReclaimed(t)
	empty.assertAllReclaimed(t)
}

func TestIsCredulouslyAccepted(t *testing.T) {
	f := &fakeFramework{results: []fakeExtension{ext(), ext("a"), ext("a", "b")}}

	yes, err := framework.IsCredulouslyAccepted[fakeExtension](f, "b")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := framework.IsCredulouslyAccepted[fakeExtension](f, "c")
	require.NoError(t, err)
	assert.False(t, no)

	f.assertAllReclaimed(t)
}

func TestIsSkepticallyAccepted(t *testing.T) {
	f := &fakeFramework{results: []fakeExtension{ext("a"), ext("a", "b")}}

	yes, err := framework.IsSkepticallyAccepted[fakeExtension](f, "a")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := framework.IsSkepticallyAccepted[fakeExtension](f, "b")
	require.NoError(t, err)
	assert.False(t, no)

	// Vacuously true without extensions.
	empty := &fakeFramework{}
	yes, err = framework.IsSkepticallyAccepted[fakeExtension](empty, "a")
	require.NoError(t, err)
	assert.True(t, yes)

	f.assertAllReclaimed(t)
}

// TestDerivedOperations_SurfaceErrors verifies iteration errors are
// reported and the handle still reclaimed.
func TestDerivedOperations_SurfaceErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFramework{results: []fakeExtension{ext("a")}, err: boom}

	_, err := framework.CountExtensions[fakeExtension](f)
	assert.ErrorIs(t, err, boom)

	_, err = framework.IsCredulouslyAccepted[fakeExtension](f, "z")
	assert.ErrorIs(t, err, boom)

	f.assertAllReclaimed(t)
}

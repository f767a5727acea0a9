package automaton

import (
	"testing"

	"github.com/nihei9/srng/pattern"
	"github.com/stretchr/testify/require"
)

func TestAttrKey(t *testing.T) {
	require.Equal(t, "a", AttrKey("", "a"))
	require.Equal(t, "{urn:x}a", AttrKey("urn:x", "a"))
}

func TestSimulator_attribute(t *testing.T) {
	ctx := pattern.NewContext()
	sim := NewSimulator(ctx)

	root, err := sim.Simulate(ctx.Define("A", ctx.Attribute("", "a")))
	require.NoError(t, err)

	require.False(t, root.IsNullable)
	require.Empty(t, root.ChildStates)
	require.Empty(t, root.NullableDefines)
	require.Len(t, root.AttrStates, 1)

	next := root.AttrStates["a"]
	require.NotNil(t, next)
	require.True(t, next.IsNullable)
	require.Empty(t, next.AttrStates)
	require.Empty(t, next.ChildStates)
	require.Contains(t, next.NullableDefines, "A")

	require.Len(t, sim.states, 2)
}

func TestSimulator_namespacedAttribute(t *testing.T) {
	ctx := pattern.NewContext()
	sim := NewSimulator(ctx)

	root, err := sim.Simulate(ctx.Define("A", ctx.Attribute("urn:x", "a")))
	require.NoError(t, err)
	require.Contains(t, root.AttrStates, "{urn:x}a")
}

func TestSimulator_recursion(t *testing.T) {
	ctx := pattern.NewContext()
	sim := NewSimulator(ctx)

	body := ctx.Choice(ctx.Empty(), ctx.Ref("T"))
	root, err := sim.Simulate(ctx.Define("T", body))
	require.NoError(t, err)

	require.True(t, root.IsNullable)
	require.Contains(t, root.NullableDefines, "T")
	require.Len(t, root.ChildStates, 1)

	next := root.ChildStates["T"]
	require.NotNil(t, next)
	require.True(t, next.IsNullable)
	require.Contains(t, next.NullableDefines, "T")
	require.Empty(t, next.ChildStates)

	require.Len(t, sim.states, 2)
}

// A union of defines sharing a tag records exactly the defines whose
// bodies are nullable in the state.
func TestSimulator_unionNullableDefines(t *testing.T) {
	ctx := pattern.NewContext()
	sim := NewSimulator(ctx)

	union := ctx.Choice(
		ctx.Define("X", ctx.Empty()),
		ctx.Define("Y", ctx.OneOrMore(ctx.Ref("Z"))),
	)
	root, err := sim.Simulate(union)
	require.NoError(t, err)

	require.Contains(t, root.NullableDefines, "X")
	require.NotContains(t, root.NullableDefines, "Y")
}

// Simulating the same pattern again returns the memoized state and
// creates nothing new.
func TestSimulator_sharedStates(t *testing.T) {
	ctx := pattern.NewContext()
	sim := NewSimulator(ctx)

	p := ctx.Define("A", ctx.Group(ctx.Ref("B"), ctx.Ref("C")))
	st1, err := sim.Simulate(p)
	require.NoError(t, err)
	created := len(sim.states)

	st2, err := sim.Simulate(p)
	require.NoError(t, err)
	require.Same(t, st1, st2)
	require.Len(t, sim.states, created)
}

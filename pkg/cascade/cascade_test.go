package cascade_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe-project/wardrobe/pkg/cascade"
)

func TestValue_StandaloneStartsAbsent(t *testing.T) {
	v := cascade.New[string]()

	got, ok := v.Get()
	assert.False(t, ok)
	assert.Equal(t, "", got)
	assert.False(t, v.Inheriting())
}

func TestValue_NewWithHoldsValue(t *testing.T) {
	v := cascade.NewWith(5)

	got, ok := v.Get()
	require.True(t, ok)
	assert.Equal(t, 5, got)
}

func TestValue_ChildInheritsParent(t *testing.T) {
	parent := cascade.NewWith("parent value")
	child := cascade.NewChild(parent)

	got, ok := child.Get()
	require.True(t, ok)
	assert.Equal(t, "parent value", got)
	assert.True(t, child.Inheriting())
}

func TestValue_NearestAncestorWins(t *testing.T) {
	// A chain of depth four: the leaf reads the nearest explicitly set
	// ancestor, not the root.
	root := cascade.NewWith("root")
	mid := cascade.NewChild(root)
	inner := cascade.NewChild(mid)
	leaf := cascade.NewChild(inner)

	got, ok := leaf.Get()
	require.True(t, ok)
	assert.Equal(t, "root", got)

	mid.Set("mid")
	got, ok = leaf.Get()
	require.True(t, ok)
	assert.Equal(t, "mid", got)

	inner.Set("inner")
	got, _ = leaf.Get()
	assert.Equal(t, "inner", got)
}

func TestValue_ChainWithNoValueAnywhere(t *testing.T) {
	root := cascade.New[int]()
	leaf := cascade.NewChild(cascade.NewChild(root))

	_, ok := leaf.Get()
	assert.False(t, ok)
}

func TestValue_SetDetaches(t *testing.T) {
	parent := cascade.NewWith(1)
	child := cascade.NewChild(parent)

	child.Set(2)
	assert.False(t, child.Inheriting())

	parent.Set(3)
	got, _ := child.Get()
	assert.Equal(t, 2, got, "detached child must not see parent changes")
}

func TestValue_SetWithEqualValueStillDetaches(t *testing.T) {
	parent := cascade.NewWith("same")
	child := cascade.NewChild(parent)

	// Setting the value the child already inherits must still detach it.
	child.Set("same")
	require.False(t, child.Inheriting())

	parent.Set("changed")
	got, _ := child.Get()
	assert.Equal(t, "same", got)
}

func TestValue_SetNeverWritesThroughToParent(t *testing.T) {
	parent := cascade.NewWith("parent")
	child := cascade.NewChild(parent)

	child.Set("child")

	got, _ := parent.Get()
	assert.Equal(t, "parent", got)
}

func TestValue_ResetReattaches(t *testing.T) {
	parent := cascade.NewWith(10)
	child := cascade.NewChild(parent)

	child.Set(20)
	child.Reset()

	require.True(t, child.Inheriting())
	got, ok := child.Get()
	require.True(t, ok)
	assert.Equal(t, 10, got)
}

func TestValue_ResetWithoutParentClears(t *testing.T) {
	v := cascade.NewWith("something")

	v.Reset()

	got, ok := v.Get()
	assert.False(t, ok)
	assert.Equal(t, "", got)
}

func TestValue_SetParentRebinds(t *testing.T) {
	a := cascade.NewWith("a")
	b := cascade.NewWith("b")
	child := cascade.NewChild(a)

	child.SetParent(b)

	got, _ := child.Get()
	assert.Equal(t, "b", got)
	assert.Same(t, b, child.Parent())
}

func TestValue_SetParentNilExposesStoredValue(t *testing.T) {
	parent := cascade.NewWith("parent")
	child := cascade.NewChild(parent)
	child.Set("own")
	child.Reset() // masked again, reads go to parent

	got, _ := child.Get()
	require.Equal(t, "parent", got)

	child.SetParent(nil)
	got, ok := child.Get()
	require.True(t, ok)
	assert.Equal(t, "own", got, "without a parent the masked value serves reads")
	assert.False(t, child.Inheriting())
}

func TestValue_StructPointers(t *testing.T) {
	type place struct{ host string }

	parent := cascade.NewWith(&place{host: "a.example.de"})
	child := cascade.NewChild(parent)

	got, ok := child.Get()
	require.True(t, ok)
	assert.Equal(t, "a.example.de", got.host)
}

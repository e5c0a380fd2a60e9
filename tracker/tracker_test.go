package tracker_test

import (
	"testing"

	"github.com/lukeod/nodetracker/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build returns a tracker holding nodes in order.
func build(nodes ...string) *tracker.NodeTracker[string] {
	tr := tracker.New[string]()
	for i, n := range nodes {
		tr.Add(i, n)
	}
	return tr
}

func TestNewIsEmpty(t *testing.T) {
	tr := tracker.New[string]()

	assert.Empty(t, tr.GetNodes())
	assert.Equal(t, 0, tr.Len())
	assert.False(t, tr.HasActiveHelperNode())

	helper, ok := tr.GetHelperNode()
	assert.False(t, ok, "fresh tracker should have no helper node")
	assert.Equal(t, "", helper)
}

func TestZeroValueIsUsable(t *testing.T) {
	var tr tracker.NodeTracker[int]
	tr.Add(0, 7)
	tr.Remove(0)
	tr.Remove(0)

	assert.Empty(t, tr.GetNodes())
}

func TestAddScenario(t *testing.T) {
	tr := tracker.New[string]()
	tr.Add(0, "a")
	tr.Add(1, "b")
	tr.Add(0, "c")

	assert.Equal(t, []string{"c", "a", "b"}, tr.GetNodes())
	assert.Equal(t, 3, tr.Len())
}

func TestRemoveScenario(t *testing.T) {
	tr := build("c", "a", "b")
	tr.Remove(1)

	assert.Equal(t, []string{"c", "b"}, tr.GetNodes())
}

func TestAddIndexes(t *testing.T) {
	tests := []struct {
		name  string
		start []string
		index int
		want  []string
	}{
		{name: "front", start: []string{"a", "b"}, index: 0, want: []string{"x", "a", "b"}},
		{name: "middle", start: []string{"a", "b"}, index: 1, want: []string{"a", "x", "b"}},
		{name: "append at len", start: []string{"a", "b"}, index: 2, want: []string{"a", "b", "x"}},
		{name: "past end clamps to append", start: []string{"a", "b"}, index: 10, want: []string{"a", "b", "x"}},
		{name: "minus one inserts before last", start: []string{"a", "b"}, index: -1, want: []string{"a", "x", "b"}},
		{name: "minus len inserts at front", start: []string{"a", "b"}, index: -2, want: []string{"x", "a", "b"}},
		{name: "far negative clamps to front", start: []string{"a", "b"}, index: -10, want: []string{"x", "a", "b"}},
		{name: "empty negative", start: nil, index: -1, want: []string{"x"}},
		{name: "empty past end", start: nil, index: 3, want: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := build(tt.start...)
			tr.Add(tt.index, "x")
			assert.Equal(t, tt.want, tr.GetNodes())
		})
	}
}

func TestRemoveIndexes(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{name: "first", index: 0, want: []string{"b", "c"}},
		{name: "last", index: 2, want: []string{"a", "b"}},
		{name: "at len is a no-op", index: 3, want: []string{"a", "b", "c"}},
		{name: "past end is a no-op", index: 42, want: []string{"a", "b", "c"}},
		{name: "minus one removes last", index: -1, want: []string{"a", "b"}},
		{name: "minus len removes first", index: -3, want: []string{"b", "c"}},
		{name: "far negative removes first", index: -9, want: []string{"b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := build("a", "b", "c")
			tr.Remove(tt.index)
			assert.Equal(t, tt.want, tr.GetNodes())
		})
	}
}

func TestRemoveOnEmpty(t *testing.T) {
	tr := tracker.New[string]()
	for _, i := range []int{-1, 0, 1} {
		tr.Remove(i)
	}
	assert.Empty(t, tr.GetNodes())
}

func TestAddThenRemoveRestores(t *testing.T) {
	start := []string{"a", "b", "c", "d"}
	for i := 0; i <= len(start); i++ {
		tr := build(start...)
		tr.Add(i, "x")
		require.Equal(t, len(start)+1, tr.Len())
		tr.Remove(i)
		assert.Equal(t, start, tr.GetNodes(), "index %d", i)
	}
}

func TestDuplicatesAllowed(t *testing.T) {
	tr := build("a", "a")
	tr.Add(1, "a")

	assert.Equal(t, []string{"a", "a", "a"}, tr.GetNodes())
}

func TestGetNodesReturnsCopy(t *testing.T) {
	tr := build("a", "b")
	nodes := tr.GetNodes()
	nodes[0] = "z"

	assert.Equal(t, []string{"a", "b"}, tr.GetNodes())
}

func TestHelperNode(t *testing.T) {
	tr := tracker.New[string]()

	tr.SetHelperNode("h")
	helper, ok := tr.GetHelperNode()
	require.True(t, ok)
	assert.Equal(t, "h", helper)
	assert.True(t, tr.HasActiveHelperNode())

	tr.UnsetHelperNode()
	assert.False(t, tr.HasActiveHelperNode())
	helper, ok = tr.GetHelperNode()
	require.True(t, ok, "unset keeps the stored reference")
	assert.Equal(t, "h", helper)

	tr.SetHelperNode("k")
	helper, _ = tr.GetHelperNode()
	assert.Equal(t, "k", helper)
	assert.True(t, tr.HasActiveHelperNode())
}

func TestUnsetWithoutSet(t *testing.T) {
	tr := tracker.New[string]()
	tr.UnsetHelperNode()

	_, ok := tr.GetHelperNode()
	assert.False(t, ok)
	assert.False(t, tr.HasActiveHelperNode())
}

func TestHelperIndependentOfNodes(t *testing.T) {
	type elem struct{ id int }
	a, b := &elem{1}, &elem{2}

	tr := tracker.New[*elem]()
	tr.Add(0, a)
	tr.Add(1, b)
	tr.SetHelperNode(a)
	tr.Remove(0)

	helper, ok := tr.GetHelperNode()
	require.True(t, ok)
	assert.Same(t, a, helper, "removing a node does not touch the helper slot")
	assert.Equal(t, []*elem{b}, tr.GetNodes())
}

func TestSnapshot(t *testing.T) {
	tr := build("a", "b")
	tr.SetHelperNode("h")
	tr.UnsetHelperNode()

	snap := tr.Snapshot()
	assert.Equal(t, tracker.Snapshot[string]{
		Nodes:        []string{"a", "b"},
		HelperNode:   "h",
		HasHelper:    true,
		HelperActive: false,
	}, snap)

	snap.Nodes[0] = "z"
	assert.Equal(t, []string{"a", "b"}, tr.GetNodes(), "snapshot must not alias the tracker")
}

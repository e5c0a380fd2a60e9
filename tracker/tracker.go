// Package tracker keeps an ordered sequence of caller-owned nodes together
// with a single "helper" node slot.
package tracker

import "slices"

// NodeTracker holds an ordered sequence of nodes and one helper node.
// Nodes are opaque to the tracker: it never compares, validates or
// deduplicates them. The zero value is an empty tracker ready to use.
//
// A NodeTracker is not safe for concurrent use.
type NodeTracker[T any] struct {
	nodes []T

	helperNode         T
	hasHelperNode      bool
	isHelperNodeActive bool
}

// Snapshot is a value copy of a tracker's state.
type Snapshot[T any] struct {
	Nodes        []T  `json:"nodes"`
	HelperNode   T    `json:"helperNode"`
	HasHelper    bool `json:"hasHelper"`
	HelperActive bool `json:"helperActive"`
}

// New returns an empty tracker with no helper node.
func New[T any]() *NodeTracker[T] {
	return &NodeTracker[T]{}
}

// SetHelperNode stores node as the helper node and marks it active.
func (t *NodeTracker[T]) SetHelperNode(node T) {
	t.helperNode = node
	t.hasHelperNode = true
	t.isHelperNodeActive = true
}

// UnsetHelperNode marks the helper node inactive. The stored reference is
// kept and still returned by GetHelperNode.
func (t *NodeTracker[T]) UnsetHelperNode() {
	t.isHelperNodeActive = false
}

// Add inserts el at index, shifting later nodes right.
//
// A negative index counts from the end (-1 is the position before the last
// node) and is clamped to 0. An index past the end is clamped to Len, so
// Add(Len(), el) appends.
func (t *NodeTracker[T]) Add(index int, el T) {
	t.nodes = slices.Insert(t.nodes, t.position(index), el)
}

// Remove deletes the node at index, shifting later nodes left.
// Negative indexes count from the end like Add. An index at or past the end
// removes nothing.
func (t *NodeTracker[T]) Remove(index int) {
	i := t.position(index)
	if i == len(t.nodes) {
		return
	}
	t.nodes = slices.Delete(t.nodes, i, i+1)
}

// GetHelperNode returns the last node passed to SetHelperNode.
// The boolean is false if SetHelperNode was never called.
func (t *NodeTracker[T]) GetHelperNode() (T, bool) {
	return t.helperNode, t.hasHelperNode
}

// HasActiveHelperNode reports whether the helper node is currently active.
func (t *NodeTracker[T]) HasActiveHelperNode() bool {
	return t.isHelperNodeActive
}

// GetNodes returns a copy of the tracked nodes in order.
func (t *NodeTracker[T]) GetNodes() []T {
	nodes := make([]T, len(t.nodes))
	copy(nodes, t.nodes)
	return nodes
}

// Len returns the number of tracked nodes.
func (t *NodeTracker[T]) Len() int {
	return len(t.nodes)
}

// Snapshot returns a copy of the current state.
func (t *NodeTracker[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{
		Nodes:        t.GetNodes(),
		HelperNode:   t.helperNode,
		HasHelper:    t.hasHelperNode,
		HelperActive: t.isHelperNodeActive,
	}
}

// position maps index onto [0, len(t.nodes)] the way a splice does.
func (t *NodeTracker[T]) position(index int) int {
	n := len(t.nodes)
	switch {
	case index < 0:
		index += n
		if index < 0 {
			return 0
		}
		return index
	case index > n:
		return n
	}
	return index
}

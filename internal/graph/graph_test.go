package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockNode struct {
	id   int
	succ []int
}

func (m mockNode) ID() int            { return m.id }
func (m mockNode) Successors() []int { return m.succ }

func buildGraph(nodes ...mockNode) *Graph[int, mockNode] {
	g := New[int, mockNode]()
	for _, n := range nodes {
		g.AddNode(n)
	}
	return g
}

func TestChainLinearBlocks(t *testing.T) {
	g := buildGraph(
		mockNode{id: 1, succ: []int{2}},
		mockNode{id: 2, succ: []int{3}},
		mockNode{id: 3, succ: nil},
	)

	all := g.ChainIter().Flatten().All()
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, ids(all))
}

func TestChainBranchedBlocks(t *testing.T) {
	// 1 -> {2, 3} -> 4
	g := buildGraph(
		mockNode{id: 1, succ: []int{2, 3}},
		mockNode{id: 2, succ: []int{4}},
		mockNode{id: 3, succ: []int{4}},
		mockNode{id: 4, succ: nil},
	)

	c := g.ChainIter()
	first, ok := c.Next()
	require.True(t, ok)
	require.Equal(t, EntryNode, first.Kind())
	assert.Equal(t, 1, first.(NodeEntry[int, mockNode]).Node.ID())

	second, ok := c.Next()
	require.True(t, ok)
	require.Equal(t, EntryBranched, second.Kind())
	branched := second.(BranchedEntry[int, mockNode])
	assert.Equal(t, []int{2}, ids(branched.Left.Flatten().All()))

	third, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, 4, third.(NodeEntry[int, mockNode]).Node.ID())

	_, ok = c.Next()
	assert.False(t, ok)
}

func TestChainCycle(t *testing.T) {
	// 1 -> 2 -> {1 (back edge), 3}
	g := buildGraph(
		mockNode{id: 1, succ: []int{2}},
		mockNode{id: 2, succ: []int{1, 3}},
		mockNode{id: 3, succ: nil},
	)

	all := g.ChainIter().Flatten().All()
	assert.Equal(t, []int{1, 2, 3}, ids(all))
}

func TestFlattenVisitsOnce(t *testing.T) {
	g := buildGraph(
		mockNode{id: 1, succ: []int{2, 3}},
		mockNode{id: 2, succ: []int{4}},
		mockNode{id: 3, succ: []int{4}},
		mockNode{id: 4, succ: nil},
	)

	all := g.ChainIter().Flatten().All()
	seen := map[int]int{}
	for _, n := range all {
		seen[n.ID()]++
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "node %d visited %d times", id, count)
	}
	assert.Len(t, all, 4)
}

func ids(nodes []mockNode) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

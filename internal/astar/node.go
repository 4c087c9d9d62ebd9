package astar

import (
	"github.com/joeycumines/goap/internal/goap"
)

// node is a world state reached during one search.
type node struct {
	ws     goap.WorldState // state of the world at this node
	g      int             // cost so far
	h      int             // estimate of the remaining cost
	f      int             // g + h
	action string          // action that produced ws, "" for the start node
	parent goap.WorldState // state the action was taken from
	seq    uint64          // insertion order, breaks ties between equal f
}

// nodeSet is a bounded, unordered collection of nodes keyed by the values
// bitfield of their world state. Removal swaps with the last element.
type nodeSet struct {
	nodes []node
}

func newNodeSet(limit int) nodeSet {
	return nodeSet{nodes: make([]node, 0, limit)}
}

func (s *nodeSet) reset() { s.nodes = s.nodes[:0] }

func (s *nodeSet) len() int { return len(s.nodes) }

func (s *nodeSet) full() bool { return len(s.nodes) == cap(s.nodes) }

// add appends n. Callers check full first.
func (s *nodeSet) add(n node) { s.nodes = append(s.nodes, n) }

func (s *nodeSet) find(ws goap.WorldState) int {
	for i := range s.nodes {
		if s.nodes[i].ws.Values == ws.Values {
			return i
		}
	}
	return -1
}

func (s *nodeSet) remove(i int) node {
	n := s.nodes[i]
	last := len(s.nodes) - 1
	s.nodes[i] = s.nodes[last]
	s.nodes = s.nodes[:last]
	return n
}

// lowest returns the index of the node with the smallest f, preferring the
// earliest inserted among equals. The set must not be empty.
func (s *nodeSet) lowest() int {
	best := 0
	for i := 1; i < len(s.nodes); i++ {
		n, b := &s.nodes[i], &s.nodes[best]
		if n.f < b.f || (n.f == b.f && n.seq < b.seq) {
			best = i
		}
	}
	return best
}

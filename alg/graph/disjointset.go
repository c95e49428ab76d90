// Package graph holds the disjoint-set forest used to close accepted mention pairs
// transitively into clusters.
package graph

import "fmt"

// DisjointSet is a union-find forest over the ids 0..Len()-1; parent[i] == i marks a
// root.
//
// Find compresses only the queried node (it is pointed straight at its root) and
// Union links roots without rank or size. A query can therefore cost time linear in
// the forest size on adversarial union orders; forests here are built per document
// and hold tens to low hundreds of mentions.
type DisjointSet struct {
	parent []int
}

func NewDisjointSet(n int) *DisjointSet {
	s := &DisjointSet{parent: make([]int, n)}
	for i := range s.parent {
		s.parent[i] = i
	}
	return s
}

func (s *DisjointSet) Len() int {
	return len(s.parent)
}

// Find returns the root of i.
func (s *DisjointSet) Find(i int) int {
	root := i
	for steps := 0; s.parent[root] != root; steps++ {
		if steps > len(s.parent) {
			panic(fmt.Sprintf("disjoint set: cycle reached from %d", i))
		}
		root = s.parent[root]
	}
	s.parent[i] = root
	return root
}

// Union merges the sets of i and j; the root of j's set becomes the root.
func (s *DisjointSet) Union(i, j int) {
	s.parent[s.Find(i)] = s.Find(j)
}

func (s *DisjointSet) Connected(i, j int) bool {
	return s.Find(i) == s.Find(j)
}

// Parents returns the raw parent array.
func (s *DisjointSet) Parents() []int {
	return s.parent
}

package graph

import (
	"math/rand"
	"testing"
)

// components labels every node with the smallest node of its connected component by
// flood filling the union edges.
func components(n int, edges [][2]int) []int {
	adj := make([][]int, n)
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	label := make([]int, n)
	for i := range label {
		label[i] = -1
	}
	for i := 0; i < n; i++ {
		if label[i] >= 0 {
			continue
		}
		stack := []int{i}
		label[i] = i
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adj[cur] {
				if label[next] < 0 {
					label[next] = i
					stack = append(stack, next)
				}
			}
		}
	}
	return label
}

func TestDisjointSetMatchesComponents(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 10, 100, 1000} {
		for trial := 0; trial < 5; trial++ {
			s := NewDisjointSet(n)
			edges := make([][2]int, r.Intn(n+1))
			for i := range edges {
				edges[i] = [2]int{r.Intn(n), r.Intn(n)}
				s.Union(edges[i][0], edges[i][1])
			}
			label := components(n, edges)
			for q := 0; q < 2000; q++ {
				a, b := r.Intn(n), r.Intn(n)
				if s.Connected(a, b) != (label[a] == label[b]) {
					t.Fatalf("n=%d: Connected(%d,%d)=%v, reference %v", n, a, b, s.Connected(a, b), label[a] == label[b])
				}
			}
		}
	}
}

func TestFindCompressesQueriedNode(t *testing.T) {
	s := NewDisjointSet(4)
	s.Union(0, 1)
	s.Union(1, 2)
	s.Union(2, 3)
	// chain 0 -> 1 -> 2 -> 3
	root := s.Find(0)
	if root != 3 {
		t.Fatalf("Expected root 3, got %d", root)
	}
	if s.Parents()[0] != 3 {
		t.Errorf("Queried node not compressed: %v", s.Parents())
	}
	if s.Parents()[1] != 2 {
		t.Errorf("Nodes on the path should keep their parent: %v", s.Parents())
	}
}

func TestUnionSelf(t *testing.T) {
	s := NewDisjointSet(3)
	s.Union(1, 1)
	if s.Find(1) != 1 || s.Connected(0, 1) {
		t.Errorf("Self union changed the forest: %v", s.Parents())
	}
}

func TestCyclePanics(t *testing.T) {
	s := NewDisjointSet(2)
	s.parent[0], s.parent[1] = 1, 0
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on a cycle")
		}
	}()
	s.Find(0)
}

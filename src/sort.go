package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Kahn-style topological linearization with width-first
 *		scheduling constraints (spec.md section 4.7).
 *
 *------------------------------------------------------------------*/

import "sort"

// topoSort linearizes nodes so that every node referenced by an OutputRef
// input precedes the node holding that input, and every non-width-first node is scheduled after every
// width-first node inserted earlier in the original list. Ties are
// broken by original insertion order throughout.
func topoSort(nodes []*Node) ([]*Node, error) {
	index := make(map[*Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	antecedents := make([]map[*Node]bool, len(nodes))
	descendants := make([]map[*Node]bool, len(nodes))
	for i := range nodes {
		antecedents[i] = map[*Node]bool{}
		descendants[i] = map[*Node]bool{}
	}

	addEdge := func(from, to int) {
		if from == to {
			return
		}
		if !antecedents[to][nodes[from]] {
			antecedents[to][nodes[from]] = true
			descendants[from][nodes[to]] = true
		}
	}

	var widthFirstBefore []int // width-first node indices, in insertion order

	for i, n := range nodes {
		for _, in := range n.Inputs {
			collectRefs(in, func(ref *Node) {
				if j, ok := index[ref]; ok {
					addEdge(j, i)
				}
			})
		}
		if !n.WidthFirst {
			for _, j := range widthFirstBefore {
				addEdge(j, i)
			}
		}
		if n.WidthFirst {
			widthFirstBefore = append(widthFirstBefore, i)
		}
	}

	antecedentCount := make([]int, len(nodes))
	for i := range nodes {
		antecedentCount[i] = len(antecedents[i])
	}

	sortedDescendants := make([][]int, len(nodes))
	for i := range nodes {
		ds := make([]int, 0, len(descendants[i]))
		for d := range descendants[i] {
			ds = append(ds, index[d])
		}
		sort.Ints(ds)
		sortedDescendants[i] = ds
	}

	var worklist []int
	for i := len(nodes) - 1; i >= 0; i-- {
		if antecedentCount[i] == 0 {
			worklist = append(worklist, i)
		}
	}

	out := make([]*Node, 0, len(nodes))
	for len(worklist) > 0 {
		i := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		out = append(out, nodes[i])

		ds := sortedDescendants[i]
		for k := len(ds) - 1; k >= 0; k-- {
			j := ds[k]
			antecedentCount[j]--
			if antecedentCount[j] == 0 {
				worklist = append(worklist, j)
			}
		}
	}

	if len(out) != len(nodes) {
		return nil, newError(ErrCyclicGraph, "graph contains a cycle; cannot linearize")
	}
	return out, nil
}

// collectRefs invokes fn for every node reachable as a direct OutputRef
// within v, recursing into Vector.
func collectRefs(v Value, fn func(*Node)) {
	switch t := v.(type) {
	case OutputRef:
		fn(t.Node)
	case Vector:
		for _, e := range t.Elems {
			collectRefs(e, fn)
		}
	}
}

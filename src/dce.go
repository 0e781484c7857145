package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Dead-code elimination over pure, descendant-less nodes
 *		(spec.md section 4.8). Runs after linearization, on the
 *		final node order.
 *
 *------------------------------------------------------------------*/

// eliminateDeadCode removes nodes that are pure and have no descendants,
// cascading: removing a node may make one of its antecedents eligible in
// turn. Impure and output-sink nodes are never removed.
func eliminateDeadCode(nodes []*Node) []*Node {
	index := make(map[*Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	descendantCount := make(map[*Node]int, len(nodes))
	antecedentsOf := make(map[*Node][]*Node, len(nodes))
	for _, n := range nodes {
		for _, in := range n.Inputs {
			collectRefs(in, func(ref *Node) {
				descendantCount[ref]++
				antecedentsOf[n] = append(antecedentsOf[n], ref)
			})
		}
	}

	removed := make(map[*Node]bool, len(nodes))

	var tryEliminate func(n *Node)
	tryEliminate = func(n *Node) {
		if removed[n] || !n.Pure || n.OutputSink {
			return
		}
		if descendantCount[n] != 0 {
			return
		}
		removed[n] = true
		for _, ante := range antecedentsOf[n] {
			descendantCount[ante]--
			tryEliminate(ante)
		}
	}

	// Iterate in linearized order; the cascade makes the removed set
	// independent of visiting order.
	for _, n := range nodes {
		tryEliminate(n)
	}

	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if !removed[n] {
			out = append(out, n)
		}
	}
	return out
}

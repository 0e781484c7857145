package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Scratch-capacity pass (spec.md section 4.6): the engine
 *		needs to know up front how many scratch buffers a graph
 *		may have in flight, so one capacity-declaring node is
 *		synthesized ahead of the first node that needs one.
 *
 *------------------------------------------------------------------*/

const kindScratchCapacity = "ScratchCapacity"

// scratchAllocating reports whether n is a node kind that consumes one
// scratch buffer and therefore carries a trailing unfilled input slot for
// the capacity node's OutputRef. The catalog marks such kinds with
// needsScratch and a trailing derived "scratch" port that binding leaves
// unfilled; the node carries it as NeedsScratch.
func scratchAllocating(n *Node) bool {
	return n.NeedsScratch
}

// insertScratchCapacity implements spec.md section 4.6. It strips any
// stale capacity node (lowering passes rebuild it fresh every Build),
// and if at least one scratch-allocating node remains, synthesizes one
// and wires it into each consumer's trailing input slot, positioned
// immediately before the first consumer.
func insertScratchCapacity(nodes []*Node) []*Node {
	filtered := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != kindScratchCapacity {
			filtered = append(filtered, n)
		}
	}

	firstIdx := -1
	count := 0
	for i, n := range filtered {
		if scratchAllocating(n) {
			count++
			if firstIdx == -1 {
				firstIdx = i
			}
		}
	}
	if count == 0 {
		return filtered
	}

	capNode := &Node{
		Kind:       kindScratchCapacity,
		Rate:       ScalarRate,
		NumOutputs: 1,
		WidthFirst: true,
		Inputs:     []Value{Constant{Val: float32(count)}},
		PortNames:  []string{"count"},
	}

	for _, n := range filtered {
		if scratchAllocating(n) {
			n.Inputs = append(n.Inputs, capNode.output(0))
			n.PortNames = append(n.PortNames, "scratch")
			n.PortIndices = append(n.PortIndices, 0)
		}
	}

	out := make([]*Node, 0, len(filtered)+1)
	out = append(out, filtered[:firstIdx]...)
	out = append(out, capNode)
	out = append(out, filtered[firstIdx:]...)
	return out
}

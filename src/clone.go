package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Deep-clone the node arena at the start of Build so lowering
 *		passes never mutate the builder's original graph, keeping
 *		the builder reusable afterward.
 *
 *------------------------------------------------------------------*/

// cloneGraph returns a deep copy of orig: new Node values with their own
// input slices, and every OutputRef/Vector rewritten to point at the
// clones instead of the originals.
func cloneGraph(orig []*Node) []*Node {
	rewrite := make(map[*Node]*Node, len(orig))
	clones := make([]*Node, len(orig))

	for i, n := range orig {
		c := *n
		c.Inputs = append([]Value(nil), n.Inputs...)
		c.PortNames = append([]string(nil), n.PortNames...)
		c.PortIndices = append([]int(nil), n.PortIndices...)
		c.ParamDefaults = append([]float32(nil), n.ParamDefaults...)
		clones[i] = &c
		rewrite[n] = &c
	}

	for _, c := range clones {
		c.Inputs = rewriteInputs(c.Inputs, rewrite)
	}

	return clones
}

func rewriteInputs(vals []Value, rewrite map[*Node]*Node) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		out[i] = rewriteValue(v, rewrite)
	}
	return out
}

func rewriteValue(v Value, rewrite map[*Node]*Node) Value {
	switch t := v.(type) {
	case OutputRef:
		if repl, ok := rewrite[t.Node]; ok {
			return OutputRef{Node: repl, Index: t.Index}
		}
		return t
	case Vector:
		elems := make([]Value, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = rewriteValue(e, rewrite)
		}
		return Vector{Elems: elems}
	default:
		return v
	}
}

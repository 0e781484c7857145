package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	The Node model: an ordered sequence of input values, a
 *		calculation rate, a special-index, output arity, and the
 *		five behavior flags.
 *
 *------------------------------------------------------------------*/

// Node is one UGen in the synthesis graph.
type Node struct {
	Kind         string
	Inputs       []Value
	Rate         CalcRate
	SpecialIndex int
	NumOutputs   int

	Pure                 bool // eligible for dead-code elimination
	WidthFirst           bool // scheduled before later non-width-first nodes
	DoneFlag             bool // participates in engine lifecycle signaling
	OutputSink           bool // zero outputs, root of the dataflow
	InputFeedbackAllowed bool // permits an edge to a later-inserted node

	// PortNames[i] / PortIndices[i] describe which declared port Inputs[i]
	// came from and its position within that port's (possibly unexpanded)
	// run. Neither the codec nor Dump reads them.
	PortNames   []string
	PortIndices []int

	scopeID uint64 // identity of the builder this node was constructed in
	seq     int    // original insertion order within its builder

	// Parameter-only fields (Kind == "Parameter"); zero value otherwise.
	ParamName     string
	ParamDefaults []float32
	ParamRate     ParamRate
	ParamLag      float32

	// Aggregate-control-only fields (Kind one of Control/TrigControl/
	// AudioControl/LagControl); nil/zero otherwise.
	CtrlParams     []*Node
	CtrlStartIndex int

	// NeedsScratch marks a scratch-allocating node kind (e.g. a spectral
	// transform); the scratch-capacity pass appends an OutputRef to the
	// synthesized capacity node as this node's last input.
	NeedsScratch bool
}

// nodeSpec bundles the arguments to newNode. PortIndices may be left nil,
// in which case every input is treated as the sole (index 0) element of
// its named port.
type nodeSpec struct {
	Kind         string
	Rate         CalcRate
	SpecialIndex int
	NumOutputs   int

	Pure                 bool
	WidthFirst           bool
	DoneFlag             bool
	OutputSink           bool
	InputFeedbackAllowed bool
	NeedsScratch         bool

	Inputs      []Value
	PortNames   []string
	PortIndices []int
}

// newNode registers a node with the calling goroutine's active builder.
// It performs the cross-scope check of spec.md invariant 1 before the
// node is appended to the builder's node list -- on failure nothing is
// registered.
func newNode(spec nodeSpec) (*Node, error) {
	b := currentBuilder()
	if b == nil {
		return nil, newNodeError(ErrNoActiveBuilder, "no active builder; construct nodes inside a Builder scope", spec.Kind)
	}

	if err := checkCrossScope(b, spec.Kind, spec.Inputs); err != nil {
		return nil, err
	}

	portIndices := spec.PortIndices
	if portIndices == nil {
		portIndices = make([]int, len(spec.Inputs))
	}

	node := &Node{
		Kind:                 spec.Kind,
		Inputs:               spec.Inputs,
		Rate:                 spec.Rate,
		SpecialIndex:         spec.SpecialIndex,
		NumOutputs:           spec.NumOutputs,
		Pure:                 spec.Pure,
		WidthFirst:           spec.WidthFirst,
		DoneFlag:             spec.DoneFlag,
		OutputSink:           spec.OutputSink,
		InputFeedbackAllowed: spec.InputFeedbackAllowed,
		NeedsScratch:         spec.NeedsScratch,
		PortNames:            spec.PortNames,
		PortIndices:          portIndices,
		scopeID:              b.id,
		seq:                  len(b.nodes),
	}
	b.nodes = append(b.nodes, node)
	return node, nil
}

// checkCrossScope verifies every OutputRef reachable from inputs (directly
// or via a Vector) belongs to the builder currently under construction.
func checkCrossScope(b *Builder, kind string, inputs []Value) error {
	for _, in := range inputs {
		if err := checkCrossScopeValue(b, kind, in); err != nil {
			return err
		}
	}
	return nil
}

func checkCrossScopeValue(b *Builder, kind string, v Value) error {
	switch t := v.(type) {
	case OutputRef:
		if t.Node.scopeID != b.id {
			return newNodeError(ErrCrossScope, "input references a node from a different builder scope", kind)
		}
	case Vector:
		for _, e := range t.Elems {
			if err := checkCrossScopeValue(b, kind, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// output returns the i-th output of the node as a Value, unwrapped to a
// bare OutputRef -- the form used once a node has a known identity.
func (n *Node) output(i int) Value {
	return OutputRef{Node: n, Index: i}
}

// outputs returns all of the node's outputs, gathered into a Vector when
// there is more than one, or unwrapped to a single OutputRef when there
// is exactly one (per spec.md section 4.3 step 5).
func (n *Node) outputs() Value {
	if n.NumOutputs == 1 {
		return n.output(0)
	}
	elems := make([]Value, n.NumOutputs)
	for i := range elems {
		elems[i] = n.output(i)
	}
	return Vector{Elems: elems}
}

package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Parameter lowering (spec.md section 4.5): Parameter nodes
 *		are not real UGens -- they are collapsed into one
 *		aggregate-control node per parameter-rate class, and every
 *		reference to a parameter's output is rewritten to point at
 *		the aggregate instead.
 *
 *------------------------------------------------------------------*/

import "sort"

const kindParameter = "Parameter"

// aggregateKind names the node kind lowering produces for a given
// parameter-rate class.
func aggregateKind(rate ParamRate, anyLag bool) string {
	switch rate {
	case ParamScalar:
		return "Control"
	case ParamTrigger:
		return "TrigControl"
	case ParamAudio:
		return "AudioControl"
	default:
		if anyLag {
			return "LagControl"
		}
		return "Control"
	}
}

// NewParameter declares a named external input. defaults is the
// parameter's (possibly multi-valued) initial value; rate selects which
// aggregate-control variant it lowers into; lag is the per-output lag
// time honored only for ParamControl-rate parameters with a nonzero
// value. It registers a Parameter-kind node and returns its output(s)
// unwrapped per the usual single/Vector convention.
func NewParameter(name string, defaults []float32, rate ParamRate, lag float32) Value {
	b := currentBuilder()
	if b == nil {
		return failValue(newNodeError(ErrNoActiveBuilder, "no active builder; construct nodes inside a Builder scope", kindParameter))
	}
	if err := b.registerParameter(name); err != nil {
		return failValue(err)
	}

	node, err := newNode(nodeSpec{
		Kind:       kindParameter,
		Rate:       rate.calcRateFor(),
		NumOutputs: len(defaults),
		Pure:       false,
	})
	if err != nil {
		return failValue(err)
	}
	node.ParamName = name
	node.ParamDefaults = append([]float32(nil), defaults...)
	node.ParamRate = rate
	node.ParamLag = lag

	return node.outputs()
}

// paramInfo is the finalized (descriptor, starting control index) entry
// for one parameter, as recorded in a Definition's parameter map and the
// codec's parameter name index.
type paramInfo struct {
	Name        string
	Defaults    []float32
	Rate        ParamRate
	Lag         float32
	StartIndex  int // this parameter's own absolute offset into the control array
	AggregateAt int // index within CtrlParams of its aggregate node; lowerParameters leaves it zero and nothing reads it
}

// lowerParameters implements spec.md section 4.5. It returns the node
// list with every Parameter node removed and one aggregate-control node
// per nonempty rate class prepended in lowerRateOrder, plus the
// finalized per-parameter index used by Definition and the codec.
func lowerParameters(nodes []*Node) ([]*Node, []paramInfo, error) {
	var params []*Node
	var rest []*Node
	for _, n := range nodes {
		if n.Kind == kindParameter {
			params = append(params, n)
		} else {
			rest = append(rest, n)
		}
	}

	if len(params) == 0 {
		return rest, nil, nil
	}

	byRate := map[ParamRate][]*Node{}
	for _, p := range params {
		byRate[p.ParamRate] = append(byRate[p.ParamRate], p)
	}
	for _, class := range byRate {
		sort.Slice(class, func(i, j int) bool { return class[i].ParamName < class[j].ParamName })
	}

	rewrite := map[*Node]*Node{} // original Parameter node -> its aggregate
	offset := map[*Node]int{}    // original Parameter node -> its first output's index within the aggregate

	var aggregates []*Node
	var infos []paramInfo
	runningIndex := 0

	for _, rate := range lowerRateOrder {
		class := byRate[rate]
		if len(class) == 0 {
			continue
		}

		anyLag := false
		if rate == ParamControl {
			for _, p := range class {
				if p.ParamLag != 0 {
					anyLag = true
					break
				}
			}
		}
		kind := aggregateKind(rate, anyLag)

		startIndex := runningIndex
		totalOutputs := 0
		for _, p := range class {
			totalOutputs += len(p.ParamDefaults)
		}

		agg := &Node{
			Kind:           kind,
			Rate:           rate.calcRateFor(),
			NumOutputs:     totalOutputs,
			Pure:           false,
			WidthFirst:     true,
			CtrlParams:     append([]*Node(nil), class...),
			CtrlStartIndex: startIndex,
			// special_index on the wire is the aggregate's starting
			// control index (original_source/.../synthdef.py:1340-1368,
			// compiler.py:51), not an operator selector like the
			// arithmetic UGens use this field for.
			SpecialIndex: startIndex,
		}
		if kind == "LagControl" {
			lags := make([]Value, 0, totalOutputs)
			for _, p := range class {
				for range p.ParamDefaults {
					lags = append(lags, Constant{Val: p.ParamLag})
				}
			}
			agg.Inputs = lags
			agg.PortNames = make([]string, len(lags))
			for i := range agg.PortNames {
				agg.PortNames[i] = "lag"
			}
		}
		aggregates = append(aggregates, agg)

		within := 0
		for _, p := range class {
			rewrite[p] = agg
			offset[p] = within
			infos = append(infos, paramInfo{
				Name:       p.ParamName,
				Defaults:   append([]float32(nil), p.ParamDefaults...),
				Rate:       p.ParamRate,
				Lag:        p.ParamLag,
				StartIndex: runningIndex,
			})
			within += len(p.ParamDefaults)
			runningIndex += len(p.ParamDefaults)
		}
	}

	for _, n := range rest {
		n.Inputs = rewriteParamInputs(n.Inputs, rewrite, offset)
	}

	out := make([]*Node, 0, len(aggregates)+len(rest))
	out = append(out, aggregates...)
	out = append(out, rest...)
	return out, infos, nil
}

func rewriteParamInputs(vals []Value, rewrite map[*Node]*Node, offset map[*Node]int) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		out[i] = rewriteParamValue(v, rewrite, offset)
	}
	return out
}

func rewriteParamValue(v Value, rewrite map[*Node]*Node, offset map[*Node]int) Value {
	switch t := v.(type) {
	case OutputRef:
		if agg, ok := rewrite[t.Node]; ok {
			return OutputRef{Node: agg, Index: offset[t.Node] + t.Index}
		}
		return t
	case Vector:
		elems := make([]Value, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = rewriteParamValue(e, rewrite, offset)
		}
		return Vector{Elems: elems}
	default:
		return v
	}
}

package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	The flexible per-port argument type and multi-channel
 *		expansion algorithm (spec.md sections 4.2-4.3): turn a
 *		keyword-argument map into one or more concrete node
 *		instances, cycling and recursing over sequence-valued
 *		ports.
 *
 *------------------------------------------------------------------*/

import "fmt"

// Arg is anything that can be bound to a declared UGen port: a single
// value, a numeric literal, an envelope descriptor (serialized before
// binding), or a sequence of any of those (which multichannel-expands
// the node unless the port is declared unexpanded).
type Arg interface {
	argTag()
}

type argValue struct{ v Value }

func (argValue) argTag() {}

// Val wraps an already-constructed Value (typically the output of
// another node) as a port argument.
func Val(v Value) Arg { return argValue{v} }

type argNum struct{ v float32 }

func (argNum) argTag() {}

// N wraps a host numeric literal as a port argument.
func N[T ~float32 | ~float64 | ~int | ~int32 | ~int64](v T) Arg { return argNum{float32(v)} }

type argEnv struct{ e *Envelope }

func (argEnv) argTag() {}

// EnvArg wraps an envelope descriptor; it is flattened to a value
// sequence before binding and must land on an unexpanded port.
func EnvArg(e *Envelope) Arg { return argEnv{e} }

type argSeq struct{ elems []Arg }

func (argSeq) argTag() {}

// Seq wraps a sequence of arguments: on an ordinary port it drives
// multichannel expansion; on an unexpanded port it is passed through
// as-is (with recursion into any nested Seq).
func Seq(elems ...Arg) Arg { return argSeq{elems} }

// Args is the keyword-argument map passed to a per-rate constructor,
// keyed by declared port name.
type Args map[string]Arg

// resolved is the post-step-1 form of one port's argument: domain
// descriptors already flattened to a value sequence.
type resolved struct {
	seq   []Arg // non-nil for a sequence (flat or nested)
	scalar Value
	isSeq bool
}

func resolveArg(a Arg) resolved {
	switch t := a.(type) {
	case argEnv:
		vals := t.e.serialize()
		elems := make([]Arg, len(vals))
		for i, v := range vals {
			elems[i] = argValue{v}
		}
		return resolved{seq: elems, isSeq: true}
	case argSeq:
		return resolved{seq: t.elems, isSeq: true}
	case argValue:
		if vec, ok := t.v.(Vector); ok {
			elems := make([]Arg, len(vec.Elems))
			for i, e := range vec.Elems {
				elems[i] = argValue{e}
			}
			return resolved{seq: elems, isSeq: true}
		}
		return resolved{scalar: t.v}
	case argNum:
		return resolved{scalar: Constant{Val: t.v}}
	default:
		return resolved{scalar: Constant{Val: 0}}
	}
}

// instantiate runs the full section 4.2/4.3 pipeline for one UGen kind
// at one rate: validate ports, compute the expansion width, and emit
// either a single node or a Vector of clones.
func instantiate(kind string, rate CalcRate, args Args) Value {
	spec, ok := lookupUGen(kind)
	if !ok {
		return failValue(newNodeError(ErrBadValueType, "unknown UGen kind in catalog", kind))
	}

	res := make(map[string]resolved, len(args))
	for name, a := range args {
		port := spec.port(name)
		if port == nil {
			return failValue(newPortError(ErrUnknownPort, fmt.Sprintf("no port named %q on %s", name, kind), kind, name))
		}
		r := resolveArg(a)
		if r.isSeq && !port.Unexpanded {
			// Sequences on ordinary ports drive expansion rather than
			// failing outright; only a sequence surviving all the way
			// to a single clone's scalar bind (below) is an error.
		}
		res[name] = r
	}

	width := 0
	for _, p := range spec.Ports {
		if p.Unexpanded {
			continue
		}
		r, ok := res[p.Name]
		if !ok || !r.isSeq {
			continue
		}
		if len(r.seq) > width {
			width = len(r.seq)
		}
	}

	if width == 0 {
		node, err := bindOne(spec, kind, rate, res, 0)
		if err != nil {
			return failValue(err)
		}
		return node.outputs()
	}

	outs := make([]Value, width)
	for i := 0; i < width; i++ {
		node, err := bindOne(spec, kind, rate, res, i)
		if err != nil {
			return failValue(err)
		}
		outs[i] = node.outputs()
	}
	return Vector{Elems: outs}
}

// bindOne performs section 4.2's input binding for a single node
// instance: clone index i selects the i-th (mod length) element at
// every expanded sequence-valued port, unexpanded ports pass their raw
// sequence through untouched (recursing into nested sequences),
// missing ports take their declared default, and derived ports are
// left unfilled (the scratch-capacity pass appends the trailing scratch
// input at Build time).
func bindOne(spec *ugenSpec, kind string, rate CalcRate, res map[string]resolved, clone int) (*Node, error) {
	var inputs []Value
	var portNames []string
	var portIndices []int

	for _, p := range spec.Ports {
		r, present := res[p.Name]
		if !present {
			if p.Derived {
				continue
			}
			inputs = append(inputs, Constant{Val: p.Default})
			portNames = append(portNames, p.Name)
			portIndices = append(portIndices, 0)
			continue
		}

		if p.Unexpanded {
			vals := flattenUnexpanded(r, clone)
			for idx, v := range vals {
				inputs = append(inputs, v)
				portNames = append(portNames, p.Name)
				portIndices = append(portIndices, idx)
			}
			continue
		}

		var elemArg Arg
		if r.isSeq {
			elemArg = r.seq[clone%len(r.seq)]
		}

		var v Value
		if r.isSeq {
			inner := resolveArg(elemArg)
			if inner.isSeq {
				return nil, newPortError(ErrSequenceOnScalarPort, "nested sequence on an expanded (non-unexpanded) port", kind, p.Name)
			}
			v = inner.scalar
		} else {
			v = r.scalar
		}
		inputs = append(inputs, v)
		portNames = append(portNames, p.Name)
		portIndices = append(portIndices, 0)
	}

	node, err := newNode(nodeSpec{
		Kind:                 kind,
		Rate:                 rate,
		SpecialIndex:         spec.SpecialIndex,
		NumOutputs:           spec.NumOutputs,
		Pure:                 spec.Pure,
		WidthFirst:           spec.WidthFirst,
		DoneFlag:             spec.DoneFlag,
		OutputSink:           spec.OutputSink,
		InputFeedbackAllowed: spec.InputFeedbackAllowed,
		NeedsScratch:         spec.NeedsScratch,
		Inputs:               inputs,
		PortNames:            portNames,
		PortIndices:          portIndices,
	})
	return node, err
}

// flattenUnexpanded resolves an unexpanded port's raw argument to a
// flat []Value for clone index i: a flat scalar sequence passes
// through whole and unchanged; a sequence-of-sequences selects the
// i-th (mod length) outer element and recurses.
func flattenUnexpanded(r resolved, clone int) []Value {
	if !r.isSeq {
		return []Value{r.scalar}
	}

	allScalar := true
	for _, a := range r.seq {
		if resolveArg(a).isSeq {
			allScalar = false
			break
		}
	}
	if allScalar {
		out := make([]Value, len(r.seq))
		for i, a := range r.seq {
			out[i] = resolveArg(a).scalar
		}
		return out
	}

	elem := r.seq[clone%len(r.seq)]
	return flattenUnexpanded(resolveArg(elem), clone)
}

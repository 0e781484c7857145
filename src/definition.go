package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Definition finalization (spec.md section 4.10): wraps a
 *		linearized, lowered node list into an immutable value that
 *		carries its serialized form and content hash, both computed
 *		once at construction.
 *
 *------------------------------------------------------------------*/

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const maxPstringLen = 255

// Definition is the finalized output of Builder.Build: a linearized
// graph plus everything the binary codec needs to serialize it.
type Definition struct {
	name     string
	nodes    []*Node
	constant []float32       // dedup pool, first-seen order
	constIdx map[float32]int // value -> pool index

	controlDefaults []float32 // concatenated, in aggregate-control order
	params          []paramInfo

	body []byte // cached graph_body (section 4.11), name-independent
	hash string // md5 of body, computed in newDefinition

	nodeIdx map[*Node]int
}

// newDefinition validates name lengths, builds the constant pool and
// control-default table, and serializes the graph body once so bytes()
// and AnonymousName() never recompute it.
func newDefinition(name string, nodes []*Node, params []paramInfo) (*Definition, error) {
	if len(name) > maxPstringLen {
		return nil, newError(ErrNameTooLong, fmt.Sprintf("definition name %q exceeds 255 bytes", name))
	}
	for _, n := range nodes {
		if len(n.Kind) > maxPstringLen {
			return nil, newNodeError(ErrNameTooLong, "node type name exceeds 255 bytes", n.Kind)
		}
	}

	d := &Definition{
		name:     name,
		nodes:    nodes,
		params:   params,
		constIdx: map[float32]int{},
		nodeIdx:  make(map[*Node]int, len(nodes)),
	}
	for i, n := range nodes {
		d.nodeIdx[n] = i
	}

	for _, n := range nodes {
		for _, in := range n.Inputs {
			if c, ok := in.(Constant); ok {
				d.internConstant(c.Val)
			}
		}
	}

	for _, p := range params {
		d.controlDefaults = append(d.controlDefaults, p.Defaults...)
	}

	body, err := encodeGraphBody(d)
	if err != nil {
		return nil, err
	}
	d.body = body

	sum := md5.Sum(body)
	d.hash = hex.EncodeToString(sum[:])

	return d, nil
}

func (d *Definition) internConstant(v float32) int {
	if idx, ok := d.constIdx[v]; ok {
		return idx
	}
	idx := len(d.constant)
	d.constant = append(d.constant, v)
	d.constIdx[v] = idx
	return idx
}

// indexOfNode returns the position of n in the linearized list.
func (d *Definition) indexOfNode(n *Node) int {
	if i, ok := d.nodeIdx[n]; ok {
		return i
	}
	return -1
}

// Name returns the user-chosen name, or "" if the definition is
// anonymous.
func (d *Definition) Name() string { return d.name }

// EffectiveName returns the user-chosen name, falling back to
// AnonymousName when none was given.
func (d *Definition) EffectiveName() string {
	if d.name != "" {
		return d.name
	}
	return d.AnonymousName()
}

// AnonymousName returns the hex MD5 digest of the serialized graph
// body: deterministic, content-addressed, independent of the chosen
// name.
func (d *Definition) AnonymousName() string { return d.hash }

// Bytes serializes this single definition into a one-definition
// top-level container (section 4.11).
func (d *Definition) Bytes() []byte {
	return encodeContainer([]*Definition{d}, false)
}

// BytesAnonymous is Bytes but the definition's name field is the
// content hash rather than the user-chosen name, matching the
// use_anonymous_name flag of the reference implementation.
func (d *Definition) BytesAnonymous() []byte {
	return encodeContainer([]*Definition{d}, true)
}

// Compile is the free-function form of spec.md section 6:
// compile(definitions...) -> bytes, emitting one top-level container
// for all of them.
func Compile(defs ...*Definition) []byte {
	return encodeContainer(defs, false)
}

// Dump renders a human-readable listing: the definition name, then one
// line per linearized node with index, type, rate token, its inputs
// (constants by value, node references as Kind[position]), and, for
// nodes with more than one output, the output count.
func (d *Definition) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", d.EffectiveName())
	for i, n := range d.nodes {
		fmt.Fprintf(&sb, "  [%d] %s.%s", i, n.Kind, n.Rate.token())
		if len(n.Inputs) > 0 {
			sb.WriteString("(")
			for j, in := range n.Inputs {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(d.dumpInput(in))
			}
			sb.WriteString(")")
		}
		if n.NumOutputs > 1 {
			fmt.Fprintf(&sb, " -> %d outputs", n.NumOutputs)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *Definition) dumpInput(v Value) string {
	switch t := v.(type) {
	case Constant:
		return fmt.Sprintf("%g", t.Val)
	case OutputRef:
		idx := d.indexOfNode(t.Node)
		return fmt.Sprintf("%s[%d]", t.Node.Kind, idx)
	default:
		return "?"
	}
}

package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	The tagged value tree (Constant, OutputRef, Vector) and
 *		the operator mixin that lifts arithmetic into graph nodes.
 *
 *------------------------------------------------------------------*/

// Value is the sum type flowing through every node input: a finite
// constant, a reference to one output of another node, or a flattened
// vector of values produced by multi-channel expansion.
type Value interface {
	Rate() CalcRate
	isValue()
}

// Constant is a finite 32-bit float with a derived scalar rate.
type Constant struct {
	Val float32
}

func (Constant) Rate() CalcRate { return ScalarRate }
func (Constant) isValue()       {}

// Num is a convenience constructor for Constant from any numeric type.
func Num[T ~float32 | ~float64 | ~int | ~int32 | ~int64](v T) Constant {
	return Constant{Val: float32(v)}
}

// OutputRef references one output of a node. Its rate is the referenced
// node's rate.
type OutputRef struct {
	Node  *Node
	Index int
}

func (o OutputRef) Rate() CalcRate { return o.Node.Rate }
func (OutputRef) isValue()         {}

// Vector is an ordered collection of values, arising from multi-channel
// expansion. It is flattened once and never nested at the node-input
// level. Its rate is the maximum of its elements' rates.
type Vector struct {
	Elems []Value
}

func (v Vector) Rate() CalcRate {
	rates := make([]CalcRate, len(v.Elems))
	for i, e := range v.Elems {
		rates[i] = e.Rate()
	}
	return maxRateOf(rates)
}
func (Vector) isValue() {}

func (v Vector) Len() int { return len(v.Elems) }

// constantVal reports whether v is a Constant and, if so, its value.
func constantVal(v Value) (float32, bool) {
	if c, ok := v.(Constant); ok {
		return c.Val, true
	}
	return 0, false
}

// AsBool always fails: the value algebra refuses implicit boolean
// coercion. A comparison produces a signal node, not a host boolean;
// branching on a Value is a programmer error the library surfaces rather
// than silently misinterpreting.
func AsBool(Value) (bool, error) {
	return false, newError(ErrMisuseInContext, "signal value used in host boolean context; compare with Select/explicit logic instead of a Go if")
}

// ---------------------------------------------------------------------
// Binary operators
// ---------------------------------------------------------------------

// ApplyBinary is the generic binary-operator emitter: broadcast over
// Vector operands, apply algebraic identities, constant-fold when
// possible, otherwise emit a binary-operator node at
// max(a.Rate(), b.Rate()).
func ApplyBinary(op BinaryOp, a, b Value) Value {
	if va, ok := a.(Vector); ok {
		return broadcastBinary(op, va, b)
	}
	if vb, ok := b.(Vector); ok {
		return broadcastBinary(op, a, vb)
	}

	if rewritten, ok := applyBinaryIdentity(op, a, b); ok {
		return rewritten
	}

	if ca, okA := constantVal(a); okA {
		if cb, okB := constantVal(b); okB {
			if folded, okFold := binaryHostAnalogue(op, ca, cb); okFold {
				return Constant{Val: folded}
			}
		}
	}

	return emitBinaryNode(op, a, b)
}

func broadcastBinary(op BinaryOp, a, b Value) Value {
	aElems := asElems(a)
	bElems := asElems(b)
	width := max(len(aElems), len(bElems))
	out := make([]Value, width)
	for i := 0; i < width; i++ {
		out[i] = ApplyBinary(op, aElems[i%len(aElems)], bElems[i%len(bElems)])
	}
	return Vector{Elems: out}
}

func asElems(v Value) []Value {
	if vec, ok := v.(Vector); ok {
		return vec.Elems
	}
	return []Value{v}
}

func emitBinaryNode(op BinaryOp, a, b Value) Value {
	rate := maxRate(a.Rate(), b.Rate())
	node, err := newNode(nodeSpec{
		Kind:         "BinaryOpUGen",
		Rate:         rate,
		SpecialIndex: int(op),
		NumOutputs:   1,
		Pure:         true,
		Inputs:       []Value{a, b},
		PortNames:    []string{"left", "right"},
	})
	if err != nil {
		return failValue(err)
	}
	return OutputRef{Node: node, Index: 0}
}

// failValue reports err to the active builder's sticky first-error slot
// (surfaced by Builder.Build) and returns an inert placeholder so callers
// that chain arithmetic on the result don't nil-panic. With no active
// builder there is nothing to attach the error to, so construction that
// reaches this point outside a builder is a genuine programming error.
func failValue(err error) Value {
	b := currentBuilder()
	if b == nil {
		panic(err)
	}
	b.fail(err)
	return Constant{Val: 0}
}

// Named binary operators. Of these, Add, Sub, Mul, Div and Pow are the
// ones applyBinaryIdentity rewrites.
func Add(a, b Value) Value { return ApplyBinary(OpAdd, a, b) }
func Sub(a, b Value) Value { return ApplyBinary(OpSub, a, b) }
func Mul(a, b Value) Value { return ApplyBinary(OpMul, a, b) }
func Div(a, b Value) Value { return ApplyBinary(OpFDiv, a, b) }
func Mod(a, b Value) Value { return ApplyBinary(OpMod, a, b) }
func IDiv(a, b Value) Value { return ApplyBinary(OpIDiv, a, b) }
func Pow(a, b Value) Value { return ApplyBinary(OpPow, a, b) }
func Min(a, b Value) Value { return ApplyBinary(OpMin, a, b) }
func Max(a, b Value) Value { return ApplyBinary(OpMax, a, b) }
func LT(a, b Value) Value  { return ApplyBinary(OpLT, a, b) }
func GT(a, b Value) Value  { return ApplyBinary(OpGT, a, b) }
func LE(a, b Value) Value  { return ApplyBinary(OpLE, a, b) }
func GE(a, b Value) Value  { return ApplyBinary(OpGE, a, b) }
func EQ(a, b Value) Value  { return ApplyBinary(OpEQ, a, b) }
func NE(a, b Value) Value  { return ApplyBinary(OpNE, a, b) }

// ---------------------------------------------------------------------
// Unary operators
// ---------------------------------------------------------------------

// ApplyUnary is the generic unary-operator emitter.
func ApplyUnary(op UnaryOp, a Value) Value {
	if va, ok := a.(Vector); ok {
		out := make([]Value, len(va.Elems))
		for i, e := range va.Elems {
			out[i] = ApplyUnary(op, e)
		}
		return Vector{Elems: out}
	}

	if ca, ok := constantVal(a); ok {
		if folded, okFold := unaryHostAnalogue(op, ca); okFold {
			return Constant{Val: folded}
		}
	}

	node, err := newNode(nodeSpec{
		Kind:         "UnaryOpUGen",
		Rate:         a.Rate(),
		SpecialIndex: int(op),
		NumOutputs:   1,
		Pure:         true,
		Inputs:       []Value{a},
		PortNames:    []string{"source"},
	})
	if err != nil {
		return failValue(err)
	}
	return OutputRef{Node: node, Index: 0}
}

// Neg is -a: constant input folds; otherwise emits a unary-negate node at
// the operand's rate.
func Neg(a Value) Value { return ApplyUnary(OpNeg, a) }

func Abs(a Value) Value  { return ApplyUnary(OpAbs, a) }
func Sqrt(a Value) Value { return ApplyUnary(OpSqrt, a) }

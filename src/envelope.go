package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Envelope descriptor (spec.md section 4.9): a domain helper,
 *		not a node, that a user passes to an envelope-generator
 *		node's port and which is serialized to a flat value
 *		sequence during input binding.
 *
 *------------------------------------------------------------------*/

// EnvelopeShape selects a segment's interpolation curve.
type EnvelopeShape int

const (
	ShapeStep EnvelopeShape = iota
	ShapeLinear
	ShapeExponential
	ShapeSine
	ShapeWelch
	ShapeCustom
	ShapeSquared
	ShapeCubed
	ShapeHold
)

// EnvelopeSegment is one leg of a piecewise envelope curve: reach
// Target over Duration seconds along Shape. Curvature is only
// meaningful when Shape is ShapeCustom; it is serialized for every
// segment.
type EnvelopeSegment struct {
	Target    float32
	Duration  float32
	Shape     EnvelopeShape
	Curvature float32
}

// Envelope is a piecewise curve descriptor: an initial level followed
// by an ordered list of segments, plus optional release/loop node
// indices used by gated envelope generators.
type Envelope struct {
	Initial     float32
	Segments    []EnvelopeSegment
	ReleaseNode int // -99 if none
	LoopNode    int // -99 if none
}

const noEnvelopeNode = -99

// NewEnvelope builds a descriptor with no release or loop point.
func NewEnvelope(initial float32, segments ...EnvelopeSegment) *Envelope {
	return &Envelope{Initial: initial, Segments: segments, ReleaseNode: noEnvelopeNode, LoopNode: noEnvelopeNode}
}

// serialize flattens the envelope to the value sequence spec.md section
// 4.9 describes: [initial, segment_count, release_node_index,
// loop_node_index, then per segment: target, duration, shape_code,
// curvature]. Each segment's Shape is written as given; a nonzero
// Curvature does not select ShapeCustom on its own.
func (e *Envelope) serialize() []Value {
	out := make([]Value, 0, 4+4*len(e.Segments))
	out = append(out,
		Constant{Val: e.Initial},
		Constant{Val: float32(len(e.Segments))},
		Constant{Val: float32(e.ReleaseNode)},
		Constant{Val: float32(e.LoopNode)},
	)
	for _, seg := range e.Segments {
		out = append(out,
			Constant{Val: seg.Target},
			Constant{Val: seg.Duration},
			Constant{Val: float32(seg.Shape)},
			Constant{Val: seg.Curvature},
		)
	}
	return out
}

// ADSR builds the familiar four-stage attack/decay/sustain/release
// envelope, held at sustainLevel until released.
func ADSR(attack, decay, sustainLevel, release float32) *Envelope {
	e := NewEnvelope(0,
		EnvelopeSegment{Target: 1, Duration: attack, Shape: ShapeExponential},
		EnvelopeSegment{Target: sustainLevel, Duration: decay, Shape: ShapeExponential},
		EnvelopeSegment{Target: sustainLevel, Duration: 1, Shape: ShapeHold},
		EnvelopeSegment{Target: 0, Duration: release, Shape: ShapeExponential},
	)
	e.ReleaseNode = 2
	return e
}

// ASR builds a two-stage attack/sustain/release envelope.
func ASR(attack, sustainLevel, release float32) *Envelope {
	e := NewEnvelope(0,
		EnvelopeSegment{Target: sustainLevel, Duration: attack, Shape: ShapeExponential},
		EnvelopeSegment{Target: sustainLevel, Duration: 1, Shape: ShapeHold},
		EnvelopeSegment{Target: 0, Duration: release, Shape: ShapeExponential},
	)
	e.ReleaseNode = 1
	return e
}

// Linen builds a fixed-duration attack/sustain/release envelope with
// no gate or release point.
func Linen(attack, sustainLevel, sustainDuration, release float32) *Envelope {
	return NewEnvelope(0,
		EnvelopeSegment{Target: sustainLevel, Duration: attack, Shape: ShapeLinear},
		EnvelopeSegment{Target: sustainLevel, Duration: sustainDuration, Shape: ShapeHold},
		EnvelopeSegment{Target: 0, Duration: release, Shape: ShapeLinear},
	)
}

// Percussive builds a fast-attack, slower-decay one-shot envelope with
// no sustain.
func Percussive(attack, release float32) *Envelope {
	return NewEnvelope(0,
		EnvelopeSegment{Target: 1, Duration: attack, Shape: ShapeExponential},
		EnvelopeSegment{Target: 0, Duration: release, Shape: ShapeExponential},
	)
}

// Triangle builds a symmetric rise/fall envelope of total duration dur.
func Triangle(dur, level float32) *Envelope {
	half := dur / 2
	return NewEnvelope(0,
		EnvelopeSegment{Target: level, Duration: half, Shape: ShapeLinear},
		EnvelopeSegment{Target: 0, Duration: half, Shape: ShapeLinear},
	)
}

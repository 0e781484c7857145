package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Calculation-rate and parameter-rate enumerations shared
 *		by every value and node in the graph.
 *
 *------------------------------------------------------------------*/

// CalcRate is how often a node computes new output values.
type CalcRate int

const (
	ScalarRate CalcRate = iota
	ControlRate
	AudioRate
	DemandRate
)

// token returns the two-letter rate token used in UGen constructor names
// (SinOsc.ar, SinOsc.kr, ...) and in dump() output.
func (r CalcRate) token() string {
	switch r {
	case ScalarRate:
		return "ir"
	case ControlRate:
		return "kr"
	case AudioRate:
		return "ar"
	case DemandRate:
		return "dr"
	default:
		return "new"
	}
}

func (r CalcRate) String() string {
	return r.token()
}

// maxRate returns the higher of two rates under the total order
// scalar < control < audio/demand used when deriving a result rate
// from an operand set. Rates compare by numeric value, so demand (3)
// ranks above audio (2) and a mix of the two yields demand.
func maxRate(a, b CalcRate) CalcRate {
	if b > a {
		return b
	}
	return a
}

// maxRateOf folds maxRate over a non-empty slice of rates.
func maxRateOf(rates []CalcRate) CalcRate {
	result := ScalarRate
	for _, r := range rates {
		result = maxRate(result, r)
	}
	return result
}

// ParamRate controls how a named external input is exposed, orthogonal
// to CalcRate: it selects which aggregate-control node kind a Parameter
// lowers into.
type ParamRate int

const (
	ParamScalar ParamRate = iota
	ParamTrigger
	ParamAudio
	ParamControl
)

func (r ParamRate) String() string {
	switch r {
	case ParamScalar:
		return "scalar"
	case ParamTrigger:
		return "trigger"
	case ParamAudio:
		return "audio"
	case ParamControl:
		return "control"
	default:
		return "unknown"
	}
}

// calcRateFor returns the CalcRate a given ParamRate maps to. Used when a
// Parameter node (pre-lowering) needs a calculation rate of its own.
func (r ParamRate) calcRateFor() CalcRate {
	switch r {
	case ParamAudio:
		return AudioRate
	case ParamScalar:
		return ScalarRate
	default:
		return ControlRate
	}
}

// lowerRateOrder is the fixed partition order parameter lowering processes
// rate classes in: scalar, trigger, audio, control. This determines the
// order aggregate-control nodes are prepended to the node list.
var lowerRateOrder = [...]ParamRate{ParamScalar, ParamTrigger, ParamAudio, ParamControl}

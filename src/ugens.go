package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Hand-written, typed entry points over the declarative
 *		catalog (catalog.go/ugens.yaml). Each function validates
 *		the requested rate against the catalog entry and delegates
 *		to instantiate for port binding and multi-channel
 *		expansion.
 *
 *------------------------------------------------------------------*/

func mustRate(kind string, rate CalcRate) Value {
	spec, ok := lookupUGen(kind)
	if !ok || !spec.supportsRate(rate.token()) {
		return failValue(newNodeError(ErrBadValueType, "unsupported calculation rate for "+kind, kind))
	}
	return nil
}

// SinOsc is a sinusoidal oscillator.
func SinOsc(rate CalcRate, freq, phase Arg) Value {
	if v := mustRate("SinOsc", rate); v != nil {
		return v
	}
	return instantiate("SinOsc", rate, Args{"freq": freq, "phase": phase})
}

// LFNoise2 is a quadratically-interpolated low-frequency noise source.
func LFNoise2(rate CalcRate, freq Arg) Value {
	if v := mustRate("LFNoise2", rate); v != nil {
		return v
	}
	return instantiate("LFNoise2", rate, Args{"freq": freq})
}

// Line generates a linear ramp from start to end over dur seconds,
// firing doneAction on completion.
func Line(rate CalcRate, start, end, dur Arg, doneAction DoneAction) Value {
	if v := mustRate("Line", rate); v != nil {
		return v
	}
	return instantiate("Line", rate, Args{"start": start, "end": end, "dur": dur, "doneAction": N(int(doneAction))})
}

// In reads a contiguous run of channels starting at bus.
func In(rate CalcRate, bus Arg) Value {
	if v := mustRate("In", rate); v != nil {
		return v
	}
	return instantiate("In", rate, Args{"bus": bus})
}

// Out is the output-sink node: write input to the channels starting at
// bus. channels may be a single value or a sequence of values, passed
// through its unexpanded port unchanged.
func Out(rate CalcRate, bus Arg, channels Arg) Value {
	if v := mustRate("Out", rate); v != nil {
		return v
	}
	return instantiate("Out", rate, Args{"bus": bus, "channels": channels})
}

// FFT performs a forward fast Fourier transform of input into the
// spectral buffer buf, consuming one scratch buffer slot.
func FFT(buf, input, hop Arg) Value {
	return instantiate("FFT", ControlRate, Args{"buf": buf, "input": input, "hop": hop})
}

// IFFT performs an inverse fast Fourier transform of the spectral
// buffer buf, consuming one scratch buffer slot.
func IFFT(rate CalcRate, buf Arg) Value {
	if v := mustRate("IFFT", rate); v != nil {
		return v
	}
	return instantiate("IFFT", rate, Args{"buf": buf})
}

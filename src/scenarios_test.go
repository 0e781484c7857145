package nanosynth

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeSpecialIndices walks a graph_body's node records (section 4.11
// layout) and returns each node's wire special_index in order, so tests
// can assert on the serialized bytes rather than the in-memory Node.
func decodeSpecialIndices(t *testing.T, body []byte) []uint16 {
	t.Helper()
	r := bytes.NewReader(body)

	readPstring := func() string {
		n, err := r.ReadByte()
		require.NoError(t, err)
		buf := make([]byte, n)
		_, err = io.ReadFull(r, buf)
		require.NoError(t, err)
		return string(buf)
	}
	readU32 := func() uint32 {
		var v uint32
		require.NoError(t, binary.Read(r, binary.BigEndian, &v))
		return v
	}
	skip := func(n int64) {
		_, err := r.Seek(n, 1)
		require.NoError(t, err)
	}

	constCount := readU32()
	skip(int64(constCount) * 4)
	defaultsCount := readU32()
	skip(int64(defaultsCount) * 4)
	paramCount := readU32()
	for i := uint32(0); i < paramCount; i++ {
		readPstring()
		readU32()
	}

	nodeCount := readU32()
	specials := make([]uint16, 0, nodeCount)
	for i := uint32(0); i < nodeCount; i++ {
		readPstring()
		skip(1) // rate
		inputCount := readU32()
		outputCount := readU32()
		var special uint16
		require.NoError(t, binary.Read(r, binary.BigEndian, &special))
		specials = append(specials, special)
		skip(int64(inputCount) * 8)
		skip(int64(outputCount))
	}

	return specials
}

func TestS1_MinimalPassThrough(t *testing.T) {
	def, err := BuildGraph("s1", func() {
		sine := SinOsc(AudioRate, N(440.0), N(0.0))
		Out(AudioRate, N(0.0), Val(sine))
	})
	require.NoError(t, err)

	require.Len(t, def.nodes, 2)
	assert.Equal(t, "SinOsc", def.nodes[0].Kind)
	assert.Equal(t, "Out", def.nodes[1].Kind)

	assert.ElementsMatch(t, []float32{440.0, 0.0}, def.constant)

	b := def.Bytes()
	require.True(t, len(b) > 10)
	assert.Equal(t, "SCgf", string(b[0:4]))
	assert.Equal(t, []byte{0, 0, 0, 2}, b[4:8])
	assert.Equal(t, []byte{0, 1}, b[8:10])
	nameLen := int(b[10])
	assert.Equal(t, "s1", string(b[11:11+nameLen]))
}

func TestS2_AlgebraicSimplification(t *testing.T) {
	def, err := BuildGraph("s2", func() {
		sine := SinOsc(AudioRate, N(440.0), N(0.0))
		result := Add(Mul(sine, Num(1)), Num(0))
		Out(AudioRate, N(0.0), Val(result))
	})
	require.NoError(t, err)

	for _, n := range def.nodes {
		assert.NotEqual(t, "BinaryOpUGen", n.Kind)
	}
	require.Len(t, def.nodes, 2)
}

func TestS3_ConstantFolding(t *testing.T) {
	result := Add(Num(2.0), Num(3.0))
	c, ok := result.(Constant)
	require.True(t, ok)
	assert.Equal(t, float32(5.0), c.Val)
}

func TestS4_MultichannelExpansion(t *testing.T) {
	def, err := BuildGraph("s4", func() {
		sines := SinOsc(AudioRate, Seq(N(440), N(443), N(447)), N(0.0))
		Out(AudioRate, N(0.0), Val(sines))
	})
	require.NoError(t, err)

	var sineCount int
	var freqs []float32
	for _, n := range def.nodes {
		if n.Kind == "SinOsc" {
			sineCount++
			freqs = append(freqs, n.Inputs[0].(Constant).Val)
		}
	}
	assert.Equal(t, 3, sineCount)
	assert.ElementsMatch(t, []float32{440, 443, 447}, freqs)
}

func TestS5_ParameterLoweringMixedRates(t *testing.T) {
	def, err := BuildGraph("s5", func() {
		freq := NewParameter("freq", []float32{440}, ParamControl, 0)
		amp := NewParameter("amp", []float32{0.3}, ParamControl, 0.1)
		bus := NewParameter("bus", []float32{0}, ParamScalar, 0)
		sine := SinOsc(AudioRate, Val(freq), N(0.0))
		Out(AudioRate, Val(bus), Val(Mul(sine, amp)))
	})
	require.NoError(t, err)

	require.Len(t, def.nodes, 5) // Control(bus), LagControl(amp,freq), SinOsc, BinaryOpUGen(sine*amp), Out
	assert.Equal(t, "Control", def.nodes[0].Kind)
	assert.Equal(t, 0, def.nodes[0].CtrlStartIndex)
	assert.Equal(t, "LagControl", def.nodes[1].Kind)
	assert.Equal(t, 1, def.nodes[1].CtrlStartIndex)

	byName := map[string]paramInfo{}
	for _, p := range def.params {
		byName[p.Name] = p
	}
	assert.Equal(t, 0, byName["bus"].StartIndex)
	assert.Equal(t, 1, byName["amp"].StartIndex)
	assert.Equal(t, 2, byName["freq"].StartIndex)

	assert.ElementsMatch(t, []float32{0.1, 0.0},
		[]float32{def.nodes[1].Inputs[0].(Constant).Val, def.nodes[1].Inputs[1].(Constant).Val})

	specials := decodeSpecialIndices(t, def.body)
	require.Len(t, specials, 5)
	assert.Equal(t, uint16(0), specials[0]) // Control(bus), starts at 0
	assert.Equal(t, uint16(1), specials[1]) // LagControl(amp,freq), starts at 1
}

func TestS6_ScratchCapacityInsertion(t *testing.T) {
	def, err := BuildGraph("s6", func() {
		spectrumA := FFT(N(0), N(0), N(0.5))
		spectrumB := FFT(N(1), N(0), N(0.5))
		Out(ControlRate, N(0), Val(Add(spectrumA, spectrumB)))
	}, WithDeadCodeElimination(false))
	require.NoError(t, err)

	capIdx := -1
	firstScratchIdx := -1
	scratchCount := 0
	for i, n := range def.nodes {
		if n.Kind == kindScratchCapacity {
			capIdx = i
		}
		if n.NeedsScratch {
			scratchCount++
			if firstScratchIdx == -1 {
				firstScratchIdx = i
			}
		}
	}
	require.NotEqual(t, -1, capIdx)
	assert.Less(t, capIdx, firstScratchIdx)
	assert.Equal(t, float32(scratchCount), def.nodes[capIdx].Inputs[0].(Constant).Val)

	for _, n := range def.nodes {
		if n.NeedsScratch {
			last := n.Inputs[len(n.Inputs)-1]
			ref, ok := last.(OutputRef)
			require.True(t, ok)
			assert.Equal(t, kindScratchCapacity, ref.Node.Kind)
		}
	}
}

func TestS7_CrossScopeRejection(t *testing.T) {
	b1 := NewBuilder()
	var s Value
	b1.Scope(func() {
		s = SinOsc(AudioRate, N(440), N(0))
	})

	b2 := NewBuilder()
	b2.Enter()
	defer b2.Exit()

	result := Out(AudioRate, N(0), Val(s))
	_, ok := result.(Constant)
	require.True(t, ok, "cross-scope use should fail and return an inert placeholder")

	_, err := b2.Build("s7")
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCrossScope, ce.Kind)
}

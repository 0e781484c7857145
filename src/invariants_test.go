package nanosynth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBuild_EmptyGraphFails(t *testing.T) {
	b := NewBuilder()
	_, err := b.Build("empty")
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrEmptyGraph, ce.Kind)
}

func TestNewNode_NoActiveBuilderFails(t *testing.T) {
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		SinOsc(AudioRate, N(440), N(0))
	}()
	ce, ok := recovered.(*CompileError)
	require.True(t, ok, "construction outside any builder scope should panic with a *CompileError")
	assert.Equal(t, ErrNoActiveBuilder, ce.Kind)
}

func TestNestedSequenceOnScalarPortRejected(t *testing.T) {
	_, err := BuildGraph("nested-seq", func() {
		sine := SinOsc(AudioRate, Seq(Seq(N(1), N(2)), N(3)), N(0))
		Out(AudioRate, N(0), Val(sine))
	})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrSequenceOnScalarPort, ce.Kind)
}

func TestDuplicateParameterRejected(t *testing.T) {
	_, err := BuildGraph("dup", func() {
		NewParameter("freq", []float32{440}, ParamControl, 0)
		NewParameter("freq", []float32{220}, ParamControl, 0)
		SinOsc(AudioRate, N(1), N(0))
	})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrDuplicateParameter, ce.Kind)
}

func TestNameTooLong(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err := BuildGraph(string(long), func() {
		SinOsc(AudioRate, N(1), N(0))
	})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrNameTooLong, ce.Kind)
}

func TestAsBoolAlwaysFails(t *testing.T) {
	_, err := AsBool(Constant{Val: 1})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrMisuseInContext, ce.Kind)
}

// TestDeadCodeElimination_RemovesUnreferencedPureNode checks section 4.8:
// a pure node with no descendants after lowering does not survive.
func TestDeadCodeElimination_RemovesUnreferencedPureNode(t *testing.T) {
	def, err := BuildGraph("dce", func() {
		SinOsc(AudioRate, N(200), N(0)) // built, never wired to a sink
		live := SinOsc(AudioRate, N(440), N(0))
		Out(AudioRate, N(0), Val(live))
	})
	require.NoError(t, err)

	var sineCount int
	for _, n := range def.nodes {
		if n.Kind == "SinOsc" {
			sineCount++
		}
	}
	assert.Equal(t, 1, sineCount, "the unreferenced SinOsc should be eliminated")
}

// TestTopoSort_RespectsOutputRefOrdering is the first universal invariant
// of section 8: every OutputRef(n, _) input satisfies position(n) <
// position(self).
func TestTopoSort_RespectsOutputRefOrdering(t *testing.T) {
	def, err := BuildGraph("order", func() {
		a := SinOsc(AudioRate, N(100), N(0))
		b := SinOsc(AudioRate, N(200), N(0))
		sum := Add(a, b)
		Out(AudioRate, N(0), Val(sum))
	}, WithDeadCodeElimination(false))
	require.NoError(t, err)

	pos := make(map[*Node]int, len(def.nodes))
	for i, n := range def.nodes {
		pos[n] = i
	}
	for i, n := range def.nodes {
		for _, in := range n.Inputs {
			if ref, ok := in.(OutputRef); ok {
				assert.Less(t, pos[ref.Node], i)
			}
		}
	}
}

// TestCompile_Deterministic is the compile() determinism invariant: two
// separate builds of the same graph emit byte-identical output.
func TestCompile_Deterministic(t *testing.T) {
	build := func() []byte {
		def, err := BuildGraph("det", func() {
			sine := SinOsc(AudioRate, N(440), N(0))
			Out(AudioRate, N(0), Val(sine))
		})
		require.NoError(t, err)
		return def.Bytes()
	}
	first := build()
	second := build()
	assert.Equal(t, first, second)
}

// TestConstantPool_NoDuplicates is a universal invariant from section 8.
func TestConstantPool_NoDuplicates(t *testing.T) {
	def, err := BuildGraph("pool", func() {
		a := SinOsc(AudioRate, N(440), N(0))
		b := SinOsc(AudioRate, N(440), N(0))
		Out(AudioRate, N(0), Val(Add(a, b)))
	})
	require.NoError(t, err)

	seen := map[float32]bool{}
	for _, c := range def.constant {
		assert.False(t, seen[c], "constant pool must not contain duplicates")
		seen[c] = true
	}
}

// TestAlgebraicIdentities_PropertyBased fuzzes part of the identity
// rewrite table of section 4.1: s*1, s+0, s*0 and 0+c must never emit an
// operator node, where s is a SinOsc whose frequency is a random finite
// float32 x.
func TestAlgebraicIdentities_PropertyBased(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.Float32Range(-1e6, 1e6).Draw(rt, "x")

		def, err := BuildGraph("identity", func() {
			sine := SinOsc(AudioRate, N(x), N(0))
			a := Mul(sine, Num(1))
			b := Add(a, Num(0))
			c := Mul(b, Num(0))
			Out(AudioRate, N(0), Val(Add(c, Num(5))))
		})
		require.NoError(rt, err)

		for _, n := range def.nodes {
			assert.NotEqual(rt, "BinaryOpUGen", n.Kind)
			assert.NotEqual(rt, "UnaryOpUGen", n.Kind)
		}
	})
}

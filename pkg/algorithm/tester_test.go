package algorithm

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/gate-repair/pkg/circuit"
)

func TestVectors(t *testing.T) {
	vectors := Vectors(3)

	// Bit 0 has no carry in, so three vectors instead of six
	require.Len(t, vectors, 3+6+6)

	want := []Vector{
		{X: 0b001, Y: 0b000, Bit: 0},
		{X: 0b000, Y: 0b001, Bit: 0},
		{X: 0b001, Y: 0b001, Bit: 0},
		{X: 0b010, Y: 0b000, Bit: 1},
		{X: 0b011, Y: 0b001, Bit: 1},
		{X: 0b000, Y: 0b010, Bit: 1},
		{X: 0b001, Y: 0b011, Bit: 1},
		{X: 0b010, Y: 0b010, Bit: 1},
		{X: 0b011, Y: 0b011, Bit: 1},
	}
	if diff := cmp.Diff(want, vectors[:len(want)]); diff != "" {
		t.Errorf("Vectors(3) mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, uint64(0b110), Vector{X: 0b011, Y: 0b011}.Expected())
	assert.Empty(t, Vectors(0))
}

func TestErrorMaskCorrectAdder(t *testing.T) {
	for _, n := range []int{1, 2, 8, 45} {
		c, _ := parseCircuit(t, adderInput(n, 0, 0))
		tester, err := NewTester(c.Wires())
		require.NoError(t, err)

		assert.Equal(t, uint64(0), tester.ErrorMask(c), "%d bits", n)
		assert.Empty(t, tester.SuspectWires(c), "%d bits", n)
		assert.Equal(t, len(tester.Vectors()), tester.Evaluations/2)
	}
}

func TestEvaluateAdderInput(t *testing.T) {
	const n = 16
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		x, y := rng.Uint64()&(1<<n-1), rng.Uint64()&(1<<n-1)
		c, in := parseCircuit(t, adderInput(n, x, y))
		assert.Equal(t, x+y, c.Evaluate(in.Initial), "%d + %d", x, y)
	}
}

func TestErrorMaskSwappedOutputs(t *testing.T) {
	c, _ := parseCircuit(t, adderInput(4, 0, 0, [2]string{"z01", "z02"}))
	tester, err := NewTester(c.Wires())
	require.NoError(t, err)

	assert.Equal(t, uint64(0b0110), tester.ErrorMask(c))
}

func TestSuspectWires(t *testing.T) {
	tests := []struct {
		name string
		swap [2]string
	}{
		{"sum outputs", [2]string{"z01", "z02"}},
		{"sum and carry", [2]string{"z02", "c02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := parseCircuit(t, adderInput(4, 0, 0, tt.swap))
			tester, err := NewTester(c.Wires())
			require.NoError(t, err)

			suspects := tester.SuspectWires(c)
			names := wireNames(c, suspects)
			assert.Contains(t, names, tt.swap[0])
			assert.Contains(t, names, tt.swap[1])

			for i, id := range suspects {
				assert.False(t, c.Wires().IsInput(id), "input %s reported", names[i])
				if i > 0 {
					assert.Less(t, suspects[i-1], id)
				}
			}
		})
	}
}

func TestTesterLeavesCircuitUntouched(t *testing.T) {
	c, _ := parseCircuit(t, adderInput(4, 0, 0, [2]string{"z01", "z02"}))
	before := append([]circuit.Gate(nil), c.Gates()...)

	tester, err := NewTester(c.Wires())
	require.NoError(t, err)
	first := tester.ErrorMask(c)
	tester.SuspectWires(c)

	assert.Equal(t, before, c.Gates())
	assert.Equal(t, first, tester.ErrorMask(c))
}

func TestNewTesterBusMismatch(t *testing.T) {
	r := circuit.NewWireRegistry()
	r.Register("x00")
	r.Register("x01")
	r.Register("y00")

	_, err := NewTester(r)
	assert.ErrorIs(t, err, ErrBusMismatch)
}

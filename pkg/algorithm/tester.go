package algorithm

import (
	"errors"
	"fmt"

	"github.com/fyerfyer/gate-repair/pkg/circuit"
)

// ErrBusMismatch is returned when the X and Y buses differ in width
var ErrBusMismatch = errors.New("input buses have different widths")

// Vector is one arithmetic test case
type Vector struct {
	X, Y uint64
	Bit  int // Bit position under test
}

// Expected returns the correct sum
func (v Vector) Expected() uint64 {
	return v.X + v.Y
}

// Vectors generates the test family for an adder with the given input width.
// For each bit it sets x only, y only and both, each with and without a
// carry into the bit. The carry comes from setting bit-1 on both buses and
// is skipped for bit 0.
func Vectors(width int) []Vector {
	modes := [3][2]bool{{true, false}, {false, true}, {true, true}}

	vectors := make([]Vector, 0, width*6)
	for bit := 0; bit < width; bit++ {
		for _, mode := range modes {
			for _, carry := range [2]bool{false, true} {
				if carry && bit == 0 {
					continue
				}

				var carryVal uint64
				if carry {
					carryVal = 1 << uint(bit-1)
				}

				v := Vector{Bit: bit, X: carryVal, Y: carryVal}
				if mode[0] {
					v.X |= 1 << uint(bit)
				}
				if mode[1] {
					v.Y |= 1 << uint(bit)
				}
				vectors = append(vectors, v)
			}
		}
	}
	return vectors
}

// Tester runs the generated vectors against circuits sharing one registry
type Tester struct {
	width   int
	vectors []Vector
	state   circuit.WireState // Scratch, cleared before every vector

	// Evaluations counts circuit runs since the tester was created
	Evaluations int
}

// NewTester creates a tester for circuits built on wires
func NewTester(wires *circuit.WireRegistry) (*Tester, error) {
	x, y := wires.BusWidth(circuit.BusX), wires.BusWidth(circuit.BusY)
	if x != y {
		return nil, fmt.Errorf("%w: x has %d bits, y has %d", ErrBusMismatch, x, y)
	}

	return &Tester{
		width:   x,
		vectors: Vectors(x),
		state:   wires.NewState(),
	}, nil
}

// Width returns the input bus width under test
func (t *Tester) Width() int {
	return t.width
}

// Vectors returns the test family
func (t *Tester) Vectors() []Vector {
	return t.vectors
}

// run evaluates one vector on the scratch state and returns Z
func (t *Tester) run(c *circuit.Circuit, v Vector) uint64 {
	t.state.Reset()
	t.state.SetBus(circuit.BusX, t.width, v.X)
	t.state.SetBus(circuit.BusY, t.width, v.Y)
	t.Evaluations++
	return c.Run(t.state)
}

// ErrorMask ORs together actual XOR expected over every vector. Bit i is set
// when output bit i is wrong for at least one vector.
func (t *Tester) ErrorMask(c *circuit.Circuit) uint64 {
	var mask uint64
	for _, v := range t.vectors {
		mask |= t.run(c, v) ^ v.Expected()
	}
	return mask
}

// SuspectWires returns, in ascending order, every non-input wire that was
// high during at least one failing vector
func (t *Tester) SuspectWires(c *circuit.Circuit) []circuit.WireID {
	wires := c.Wires()
	suspect := make([]bool, wires.Len())
	for _, v := range t.vectors {
		if t.run(c, v) == v.Expected() {
			continue
		}
		for w, high := range t.state {
			if high && !wires.IsInput(circuit.WireID(w)) {
				suspect[w] = true
			}
		}
	}

	var out []circuit.WireID
	for w, s := range suspect {
		if s {
			out = append(out, circuit.WireID(w))
		}
	}
	return out
}

package circuit

import (
	"fmt"
	"testing"
)

// rippleAdder builds a correct n-bit ripple-carry adder. Bit 0 is a half
// adder; every other bit is a full adder whose carry out feeds the next bit.
// The last carry drives z<n>.
func rippleAdder(t *testing.T, n int) *Circuit {
	t.Helper()

	r := NewWireRegistry()
	var gates []Gate
	add := func(a string, op Op, b string, out string) {
		gates = append(gates, Gate{A: r.Register(a), B: r.Register(b), Out: r.Register(out), Op: op})
	}
	carry := func(i int) string {
		if i == n-1 {
			return fmt.Sprintf("z%02d", n)
		}
		return fmt.Sprintf("c%02d", i)
	}

	for i := 0; i < n; i++ {
		x, y, z := fmt.Sprintf("x%02d", i), fmt.Sprintf("y%02d", i), fmt.Sprintf("z%02d", i)
		if i == 0 {
			add(x, XOR, y, z)
			add(x, AND, y, carry(0))
			continue
		}
		p, g, c := fmt.Sprintf("p%02d", i), fmt.Sprintf("g%02d", i), fmt.Sprintf("t%02d", i)
		add(x, XOR, y, p)
		add(x, AND, y, g)
		add(p, XOR, carry(i-1), z)
		add(p, AND, carry(i-1), c)
		add(g, OR, c, carry(i))
	}

	return NewCircuit(r, gates)
}

// wire looks a wire up by name and fails the test when it is missing
func wire(t *testing.T, c *Circuit, name string) WireID {
	t.Helper()
	id, ok := c.Wires().IDFor(name)
	if !ok {
		t.Fatalf("wire %s not registered", name)
	}
	return id
}

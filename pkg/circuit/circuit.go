package circuit

import (
	"fmt"
	"strings"
)

// Assignment sets a primary input wire to a level
type Assignment struct {
	Wire  WireID
	Value bool
}

// Circuit is an immutable gate network. The registry and fan-out index are
// shared between a circuit and every circuit derived from it by WithSwap;
// only the gate list is copied.
type Circuit struct {
	wires  *WireRegistry
	gates  []Gate
	fanout [][]int // Wire -> indices of gates reading it
}

// NewCircuit creates a circuit over the given registry and gates. The
// registry must already contain every wire the gates reference.
func NewCircuit(wires *WireRegistry, gates []Gate) *Circuit {
	fanout := make([][]int, wires.Len())
	for i, g := range gates {
		fanout[g.A] = append(fanout[g.A], i)
		fanout[g.B] = append(fanout[g.B], i)
	}

	return &Circuit{
		wires:  wires,
		gates:  gates,
		fanout: fanout,
	}
}

// Wires returns the shared wire registry
func (c *Circuit) Wires() *WireRegistry {
	return c.wires
}

// Gates returns the gate list. Callers must not modify it.
func (c *Circuit) Gates() []Gate {
	return c.gates
}

// Fanout returns the indices of the gates reading wire w
func (c *Circuit) Fanout(w WireID) []int {
	return c.fanout[w]
}

// Driver returns the index of the gate driving w, or -1
func (c *Circuit) Driver(w WireID) int {
	for i, g := range c.gates {
		if g.Out == w {
			return i
		}
	}
	return -1
}

// Run propagates the primary inputs already set in s until every wire is
// stable and returns the value of bus Z. All non-input wires of s must be
// false on entry.
//
// Only gates whose inputs changed are re-evaluated, and a gate's output is
// written and propagated only when it differs from the stored level. Every
// consumer of a changed wire is therefore re-queued, so a gate evaluated on
// a stale input combination is always corrected later. The graph is acyclic,
// which bounds the number of changes per wire.
func (c *Circuit) Run(s WireState) uint64 {
	queue := make([]int, 0, len(c.gates))
	for w, v := range s {
		if v {
			queue = append(queue, c.fanout[w]...)
		}
	}

	for head := 0; head < len(queue); head++ {
		g := c.gates[queue[head]]
		v := g.Evaluate(s)
		if s[g.Out] != v {
			s[g.Out] = v
			queue = append(queue, c.fanout[g.Out]...)
		}
	}

	return s.Bus(BusZ, c.wires.BusWidth(BusZ))
}

// Evaluate runs the circuit on a fresh state seeded with the assignments
func (c *Circuit) Evaluate(inputs []Assignment) uint64 {
	s := c.wires.NewState()
	for _, a := range inputs {
		s[a.Wire] = a.Value
	}
	return c.Run(s)
}

// WithSwap returns a circuit in which the gates driving w1 and w2 drive
// each other's wire. It returns false when the swap would close a loop.
// The receiver is left untouched.
func (c *Circuit) WithSwap(w1, w2 WireID) (*Circuit, bool) {
	gates := make([]Gate, len(c.gates))
	for i, g := range c.gates {
		switch g.Out {
		case w1:
			g.Out = w2
		case w2:
			g.Out = w1
		}
		gates[i] = g
	}

	// Any new loop passes through one of the rewired gates and so through
	// w1 or w2.
	seen := make([]bool, len(c.fanout))
	for _, w := range [2]WireID{w1, w2} {
		if c.reaches(gates, w, seen) {
			return nil, false
		}
		clear(seen)
	}

	return &Circuit{
		wires:  c.wires,
		gates:  gates,
		fanout: c.fanout,
	}, true
}

// reaches walks forward from start over gates and reports whether start is
// reachable from itself
func (c *Circuit) reaches(gates []Gate, start WireID, seen []bool) bool {
	seen[start] = true
	queue := append([]int(nil), c.fanout[start]...)
	for head := 0; head < len(queue); head++ {
		out := gates[queue[head]].Out
		if out == start {
			return true
		}
		if seen[out] {
			continue
		}
		seen[out] = true
		queue = append(queue, c.fanout[out]...)
	}
	return false
}

// String returns the gate list in puzzle syntax
func (c *Circuit) String() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Circuit: %d gates, %d wires\n", len(c.gates), c.wires.Count()))
	for _, g := range c.gates {
		builder.WriteString(g.Format(c.wires))
		builder.WriteString("\n")
	}
	return builder.String()
}

package circuit

import (
	"errors"
	"fmt"
)

var (
	// ErrMultipleDrivers is returned when two gates drive the same wire
	ErrMultipleDrivers = errors.New("wire driven by more than one gate")
	// ErrDrivenInput is returned when a gate drives a bit of bus X or Y
	ErrDrivenInput = errors.New("primary input driven by a gate")
	// ErrCycle is returned when the gate graph contains a loop
	ErrCycle = errors.New("gate graph contains a cycle")
)

// Topology contains structural information about a circuit
type Topology struct {
	Circuit  *Circuit
	LevelMap map[WireID]int // Wire -> longest gate path from a primary input
	MaxLevel int
	OpCount  map[Op]int
	Fanouts  int // Wires read by more than one gate
}

// NewTopology creates a new topology analyzer for the given circuit
func NewTopology(c *Circuit) *Topology {
	return &Topology{
		Circuit:  c,
		LevelMap: make(map[WireID]int),
		OpCount:  make(map[Op]int),
	}
}

// Analyze validates the circuit and computes its levels
func (t *Topology) Analyze() error {
	if err := t.checkDrivers(); err != nil {
		return err
	}

	t.countGates()
	return t.ComputeLevels()
}

// checkDrivers verifies that each wire has at most one driver and that no
// gate drives a primary input
func (t *Topology) checkDrivers() error {
	wires := t.Circuit.Wires()
	driven := make(map[WireID]bool, len(t.Circuit.Gates()))
	for _, g := range t.Circuit.Gates() {
		if wires.IsInput(g.Out) {
			return fmt.Errorf("%w: %s", ErrDrivenInput, wires.NameFor(g.Out))
		}
		if driven[g.Out] {
			return fmt.Errorf("%w: %s", ErrMultipleDrivers, wires.NameFor(g.Out))
		}
		driven[g.Out] = true
	}
	return nil
}

func (t *Topology) countGates() {
	for _, g := range t.Circuit.Gates() {
		t.OpCount[g.Op]++
	}
	t.Fanouts = 0
	for w := 0; w < t.Circuit.Wires().Len(); w++ {
		if len(t.Circuit.Fanout(WireID(w))) > 1 {
			t.Fanouts++
		}
	}
}

// ComputeLevels assigns a level to each driven wire. Undriven wires are
// level 0. Gates are released once both inputs have a level; gates left
// over at the end sit on a loop.
func (t *Topology) ComputeLevels() error {
	gates := t.Circuit.Gates()
	wires := t.Circuit.Wires()

	driver := make([]int, wires.Len())
	for i := range driver {
		driver[i] = -1
	}
	for i, g := range gates {
		driver[g.Out] = i
	}

	// pending counts the inputs of each gate still waiting for a level
	pending := make([]int, len(gates))
	level := make([]int, wires.Len())
	queue := make([]int, 0, len(gates))
	for i, g := range gates {
		for _, in := range [2]WireID{g.A, g.B} {
			if driver[in] >= 0 {
				pending[i]++
			}
		}
		if pending[i] == 0 {
			queue = append(queue, i)
		}
	}

	t.MaxLevel = 0
	for head := 0; head < len(queue); head++ {
		g := gates[queue[head]]
		l := max(level[g.A], level[g.B]) + 1
		level[g.Out] = l
		t.LevelMap[g.Out] = l
		if l > t.MaxLevel {
			t.MaxLevel = l
		}
		for _, next := range t.Circuit.Fanout(g.Out) {
			pending[next]--
			if pending[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(queue) != len(gates) {
		for i, g := range gates {
			if pending[i] > 0 {
				return fmt.Errorf("%w: through %s", ErrCycle, wires.NameFor(g.Out))
			}
		}
		return ErrCycle
	}
	return nil
}

// Validate checks the structural assumptions the evaluator relies on
func Validate(c *Circuit) error {
	return NewTopology(c).Analyze()
}

package circuit

import "fmt"

// Op represents the operator of a two-input gate
type Op int

const (
	AND Op = iota
	OR
	XOR
)

// String returns a string representation of the operator
func (op Op) String() string {
	switch op {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case XOR:
		return "XOR"
	default:
		return "UNKNOWN"
	}
}

// ParseOp converts an operator name to an Op
func ParseOp(s string) (Op, error) {
	switch s {
	case "AND":
		return AND, nil
	case "OR":
		return OR, nil
	case "XOR":
		return XOR, nil
	default:
		return 0, fmt.Errorf("invalid operation %q", s)
	}
}

// Apply computes the operator on two levels
func (op Op) Apply(a, b bool) bool {
	switch op {
	case AND:
		return a && b
	case OR:
		return a || b
	case XOR:
		return a != b
	default:
		return false
	}
}

// Gate is a two-input logic gate driving a single wire
type Gate struct {
	A, B WireID // Input wires
	Out  WireID // Output wire
	Op   Op
}

// Evaluate computes the gate output from the current state
func (g Gate) Evaluate(s WireState) bool {
	return g.Op.Apply(s[g.A], s[g.B])
}

// Format renders the gate in puzzle syntax using the registry's names
func (g Gate) Format(r *WireRegistry) string {
	return fmt.Sprintf("%s %s %s -> %s", r.NameFor(g.A), g.Op, r.NameFor(g.B), r.NameFor(g.Out))
}

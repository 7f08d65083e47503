package utils

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyerfyer/gate-repair/pkg/circuit"
)

// Input is a parsed puzzle file: the initial input levels followed by the
// gate list
type Input struct {
	Wires   *circuit.WireRegistry
	Initial []circuit.Assignment
	Gates   []circuit.Gate
}

// Circuit builds the gate network of the input
func (in *Input) Circuit() *circuit.Circuit {
	return circuit.NewCircuit(in.Wires, in.Gates)
}

// ParseFile reads a puzzle file
func ParseFile(filename string) (*Input, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads the two sections of a puzzle input. The first section holds
// lines like "x00: 1" and ends at the first blank line; the second holds
// gates like "x00 AND y00 -> z00".
func Parse(r io.Reader) (*Input, error) {
	in := &Input{Wires: circuit.NewWireRegistry()}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	// Initial levels
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		name, value, found := strings.Cut(line, ": ")
		if !found {
			return nil, errors.Errorf("line %d: invalid input %q", lineNo, line)
		}

		var level bool
		switch value {
		case "0":
		case "1":
			level = true
		default:
			return nil, errors.Errorf("line %d: invalid input %q: invalid state %q", lineNo, line, value)
		}

		id := in.Wires.Register(name)
		if !in.Wires.IsInput(id) {
			return nil, errors.Errorf("line %d: invalid initial state %q: expected an x or y wire", lineNo, line)
		}
		in.Initial = append(in.Initial, circuit.Assignment{Wire: id, Value: level})
	}

	// Gates
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		gate, err := parseGate(in.Wires, line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		in.Gates = append(in.Gates, gate)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading input")
	}
	return in, nil
}

// parseGate parses "A OP B -> OUT"
func parseGate(wires *circuit.WireRegistry, line string) (circuit.Gate, error) {
	parts := strings.Fields(line)
	if len(parts) != 5 || parts[3] != "->" {
		return circuit.Gate{}, errors.Errorf("invalid logic gate def: %q", line)
	}

	op, err := circuit.ParseOp(parts[1])
	if err != nil {
		return circuit.Gate{}, errors.Wrapf(err, "invalid logic gate def: %q", line)
	}

	return circuit.Gate{
		A:   wires.Register(parts[0]),
		B:   wires.Register(parts[2]),
		Out: wires.Register(parts[4]),
		Op:  op,
	}, nil
}

// FormatGates writes the gate list back in puzzle syntax
func FormatGates(w io.Writer, c *circuit.Circuit) error {
	writer := bufio.NewWriter(w)
	for _, g := range c.Gates() {
		if _, err := writer.WriteString(g.Format(c.Wires()) + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

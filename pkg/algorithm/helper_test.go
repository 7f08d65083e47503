package algorithm

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/gate-repair/pkg/circuit"
	"github.com/fyerfyer/gate-repair/pkg/utils"
)

// adderInput renders an n-bit ripple-carry adder in puzzle syntax with
// x = xv and y = yv. Each pair in swaps exchanges the output names of the
// two gates driving those wires.
func adderInput(n int, xv, yv uint64, swaps ...[2]string) string {
	rename := map[string]string{}
	for _, s := range swaps {
		rename[s[0]], rename[s[1]] = s[1], s[0]
	}
	return renamedAdderInput(n, xv, yv, rename)
}

// renamedAdderInput is adderInput with the gate driving wire k writing to
// rename[k] instead
func renamedAdderInput(n int, xv, yv uint64, rename map[string]string) string {
	var b strings.Builder
	for _, bus := range []struct {
		prefix string
		v      uint64
	}{{"x", xv}, {"y", yv}} {
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "%s%02d: %d\n", bus.prefix, i, (bus.v>>uint(i))&1)
		}
	}
	b.WriteString("\n")

	gate := func(a, op, c, out string) {
		if r, ok := rename[out]; ok {
			out = r
		}
		fmt.Fprintf(&b, "%s %s %s -> %s\n", a, op, c, out)
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
			gate(x, "XOR", y, z)
			gate(x, "AND", y, carry(0))
			continue
		}
		p, g, t := fmt.Sprintf("p%02d", i), fmt.Sprintf("g%02d", i), fmt.Sprintf("t%02d", i)
		gate(x, "XOR", y, p)
		gate(x, "AND", y, g)
		gate(p, "XOR", carry(i-1), z)
		gate(p, "AND", carry(i-1), t)
		gate(g, "OR", t, carry(i))
	}
	return b.String()
}

// parseCircuit parses puzzle text into a circuit
func parseCircuit(t *testing.T, text string) (*circuit.Circuit, *utils.Input) {
	t.Helper()
	in, err := utils.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return in.Circuit(), in
}

// quietLogger discards everything
func quietLogger() *utils.Logger {
	logger := utils.NewLogger(utils.TraceLevel)
	logger.SetOutput(io.Discard)
	return logger
}

// wireNames maps ids to names
func wireNames(c *circuit.Circuit, ids []circuit.WireID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = c.Wires().NameFor(id)
	}
	return names
}

package algorithm

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"
	"time"

	"github.com/fyerfyer/gate-repair/pkg/circuit"
	"github.com/fyerfyer/gate-repair/pkg/metrics"
	"github.com/fyerfyer/gate-repair/pkg/utils"
)

// ErrNoSolution is returned when no swap improves the circuit
var ErrNoSolution = errors.New("could not find solution")

// Stats contains statistics about a repair run
type Stats struct {
	Iterations      int           // Repair iterations started
	CandidatesTried int           // Swaps that were built and scored
	CyclesRejected  int           // Swaps skipped because they close a loop
	Evaluations     int           // Circuit runs
	SwapsApplied    int           // Accepted swaps
	TotalTime       time.Duration // Total execution time
}

// Result is the outcome of a successful repair
type Result struct {
	Wires   []string    // Names of every swapped wire, sorted and unique
	Pairs   [][2]string // Accepted swaps in application order
	Circuit *circuit.Circuit
}

// String renders the swapped wires as a comma separated list
func (r *Result) String() string {
	return strings.Join(r.Wires, ",")
}

// Repairer searches for output swaps that turn a circuit back into an adder
type Repairer struct {
	Circuit *circuit.Circuit
	Logger  *utils.Logger
	Tester  *Tester
	Stats   Stats

	// MaxIterations caps the number of repair iterations; 0 means no cap
	MaxIterations int
}

// NewRepairer creates a repair search for c
func NewRepairer(c *circuit.Circuit, logger *utils.Logger) (*Repairer, error) {
	tester, err := NewTester(c.Wires())
	if err != nil {
		return nil, err
	}

	return &Repairer{
		Circuit: c,
		Logger:  logger,
		Tester:  tester,
	}, nil
}

// candidate is a scored swap
type candidate struct {
	a, b      circuit.WireID
	circuit   *circuit.Circuit
	reduction int
}

// Repair greedily applies the swap that removes the most wrong output bits
// without breaking a correct one, until every test vector passes.
func (r *Repairer) Repair() (*Result, error) {
	startTime := time.Now()
	r.Stats = Stats{}
	evalStart := r.Tester.Evaluations

	result, err := r.run()

	r.Stats.Evaluations = r.Tester.Evaluations - evalStart
	r.Stats.TotalTime = time.Since(startTime)
	metrics.Evaluations.Add(float64(r.Stats.Evaluations))
	metrics.ObserveRepair(r.Stats.TotalTime.Seconds(), err)
	r.logStats()

	return result, err
}

func (r *Repairer) run() (*Result, error) {
	wires := r.Circuit.Wires()
	current := r.Circuit
	result := &Result{}
	swapped := make([]bool, wires.Len())

	r.Logger.Info("Starting repair: %d gates, %d input bits", len(current.Gates()), r.Tester.Width())

	for {
		mask := r.Tester.ErrorMask(current)
		wrong := bits.OnesCount64(mask)
		metrics.ErrorBits.Set(float64(wrong))
		if wrong == 0 {
			break
		}

		if r.MaxIterations > 0 && r.Stats.Iterations >= r.MaxIterations {
			r.Logger.Warning("Repair reached iteration limit (%d)", r.MaxIterations)
			return nil, fmt.Errorf("%w: iteration limit %d reached", ErrNoSolution, r.MaxIterations)
		}
		r.Stats.Iterations++

		suspects := r.Tester.SuspectWires(current)
		r.Logger.Algorithm("Iteration %d: %d wrong bits (mask %#x), %d suspect wires",
			r.Stats.Iterations, wrong, mask, len(suspects))

		best := r.bestSwap(current, mask, suspects)
		if best == nil {
			r.Logger.Algorithm("No swap reduces the error bits")
			return nil, fmt.Errorf("%w: %d wrong bits remain (mask %#x)", ErrNoSolution, wrong, mask)
		}

		nameA, nameB := wires.NameFor(best.a), wires.NameFor(best.b)
		r.Logger.Decision("Swap %s <-> %s removes %d wrong bits", nameA, nameB, best.reduction)
		current = best.circuit
		result.Pairs = append(result.Pairs, [2]string{nameA, nameB})
		swapped[best.a], swapped[best.b] = true, true
		r.Stats.SwapsApplied++
		metrics.SwapsApplied.Inc()
	}

	// A wire moved by more than one swap is reported once
	for w, moved := range swapped {
		if moved {
			result.Wires = append(result.Wires, wires.NameFor(circuit.WireID(w)))
		}
	}
	sort.Strings(result.Wires)
	result.Circuit = current
	r.Logger.Info("Repair complete: %d swaps", len(result.Pairs))
	return result, nil
}

// bestSwap scores every pair of suspects and returns the swap with the
// largest reduction in wrong bits whose error mask is a subset of mask.
// Ties keep the first pair found.
func (r *Repairer) bestSwap(c *circuit.Circuit, mask uint64, suspects []circuit.WireID) *candidate {
	wires := c.Wires()
	wrong := bits.OnesCount64(mask)

	r.Logger.Indent()
	defer r.Logger.Outdent()

	var best *candidate
	for i, a := range suspects {
		for _, b := range suspects[i+1:] {
			swapped, ok := c.WithSwap(a, b)
			if !ok {
				r.Stats.CyclesRejected++
				metrics.CyclesRejected.Inc()
				continue
			}
			r.Stats.CandidatesTried++
			metrics.CandidatesTried.Inc()

			m := r.Tester.ErrorMask(swapped)
			n := bits.OnesCount64(m)
			if m|mask != mask || n >= wrong {
				continue
			}

			reduction := wrong - n
			r.Logger.Candidate("%s <-> %s: %d -> %d wrong bits",
				wires.NameFor(a), wires.NameFor(b), wrong, n)
			if best == nil || reduction > best.reduction {
				best = &candidate{a: a, b: b, circuit: swapped, reduction: reduction}
			}
		}
	}
	return best
}

// logStats logs the current statistics
func (r *Repairer) logStats() {
	r.Logger.Info("Repair statistics:")
	r.Logger.Info("- Iterations: %d", r.Stats.Iterations)
	r.Logger.Info("- Swap candidates scored: %d", r.Stats.CandidatesTried)
	r.Logger.Info("- Swaps rejected for loops: %d", r.Stats.CyclesRejected)
	r.Logger.Info("- Circuit evaluations: %d", r.Stats.Evaluations)
	r.Logger.Info("- Swaps applied: %d", r.Stats.SwapsApplied)
	r.Logger.Info("- Total time: %v", r.Stats.TotalTime)
}

// Repair is a convenience wrapper that repairs c with the default logger
func Repair(c *circuit.Circuit) (*Result, error) {
	r, err := NewRepairer(c, utils.DefaultLogger)
	if err != nil {
		return nil, err
	}
	return r.Repair()
}

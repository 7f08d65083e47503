package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	Outcome   = "outcome"
	Succeeded = "succeeded"
	Failed    = "failed"
)

var (
	// Registry holds every collector of this package. It is private so that
	// tests and the CLI see only repair metrics.
	Registry = prometheus.NewRegistry()

	Evaluations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gaterepair_evaluations_total",
			Help: "Monotonic count of circuit evaluations",
		},
	)

	CandidatesTried = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gaterepair_swap_candidates_total",
			Help: "Monotonic count of swap candidates scored",
		},
	)

	CyclesRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gaterepair_swap_cycles_total",
			Help: "Monotonic count of swap candidates rejected because they close a loop",
		},
	)

	SwapsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gaterepair_swaps_applied_total",
			Help: "Monotonic count of swaps accepted by the repair search",
		},
	)

	ErrorBits = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gaterepair_error_bits",
			Help: "Number of wrong output bits of the current circuit",
		},
	)

	repairDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "gaterepair_repair_duration_seconds",
			Help:       "The duration of a repair run",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01},
		},
		[]string{Outcome},
	)
)

func init() {
	Registry.MustRegister(Evaluations)
	Registry.MustRegister(CandidatesTried)
	Registry.MustRegister(CyclesRejected)
	Registry.MustRegister(SwapsApplied)
	Registry.MustRegister(ErrorBits)
	Registry.MustRegister(repairDuration)
}

// ObserveRepair records the duration of a repair run
func ObserveRepair(seconds float64, err error) {
	outcome := Succeeded
	if err != nil {
		outcome = Failed
	}
	repairDuration.WithLabelValues(outcome).Observe(seconds)
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node exporter textfile collector
func WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, Registry)
}

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/gate-repair/pkg/algorithm"
	"github.com/fyerfyer/gate-repair/pkg/circuit"
	"github.com/fyerfyer/gate-repair/pkg/metrics"
	"github.com/fyerfyer/gate-repair/pkg/utils"
)

type options struct {
	configFile      string
	logLevel        string
	logFormat       string
	logFile         string
	metricsTextfile string
	maxIterations   int
	outputFile      string

	config utils.Config
	logger *utils.Logger
}

// newRootCmd returns the root command and the options it fills in. The
// caller must call close once the command has run.
func newRootCmd() (*cobra.Command, *options) {
	o := &options{}

	cmd := &cobra.Command{
		Use:          "gaterepair",
		Short:        "Evaluates and repairs gate networks that should add two buses",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.complete(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if o.config.Metrics.Textfile == "" {
				return nil
			}
			if err := metrics.WriteTextfile(o.config.Metrics.Textfile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "path to a YAML config file")
	flags.StringVar(&o.logLevel, "log-level", "", "log level: error, warning, info, debug or trace")
	flags.StringVar(&o.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&o.logFile, "log-file", "", "log file (default: stdout)")
	flags.StringVar(&o.metricsTextfile, "metrics-textfile", "", "write prometheus metrics to this file on exit")

	cmd.AddCommand(newEvaluateCmd(o), newRepairCmd(o), newInfoCmd(o))
	return cmd, o
}

// complete merges the config file, environment and flags and builds the logger
func (o *options) complete(cmd *cobra.Command) error {
	config, err := utils.LoadConfig(o.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		config.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		config.Log.Format = o.logFormat
	}
	if flags.Changed("log-file") {
		config.Log.File = o.logFile
	}
	if flags.Changed("metrics-textfile") {
		config.Metrics.Textfile = o.metricsTextfile
	}
	if flags.Changed("max-iterations") {
		config.Repair.MaxIterations = o.maxIterations
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger, err := utils.NewLoggerFromConfig(config.Log)
	if err != nil {
		return err
	}
	o.config = config
	o.logger = logger
	utils.SetDefaultLogLevel(logger.Level())
	return nil
}

// close releases the log file, if one was opened
func (o *options) close() error {
	if o.logger == nil {
		return nil
	}
	return o.logger.Close()
}

// load parses and validates a puzzle file
func (o *options) load(filename string) (*utils.Input, *circuit.Circuit, error) {
	o.logger.Info("Parsing circuit from %s", filename)
	in, err := utils.ParseFile(filename)
	if err != nil {
		return nil, nil, err
	}

	c := in.Circuit()
	if err := circuit.Validate(c); err != nil {
		return nil, nil, err
	}
	o.logger.Circuit("%d gates, %d wires", len(c.Gates()), c.Wires().Count())
	return in, c, nil
}

func newEvaluateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate FILE",
		Short: "Runs the circuit on the initial wire values and prints the z bus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, c, err := o.load(args[0])
			if err != nil {
				return err
			}

			z := c.Evaluate(in.Initial)
			fmt.Fprintln(cmd.OutOrStdout(), z)
			return nil
		},
	}
}

func newRepairCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair FILE",
		Short: "Finds the swapped gate outputs and prints the wires involved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := o.load(args[0])
			if err != nil {
				return err
			}

			logger := o.logger.WithField("run", uuid.NewString())
			r, err := algorithm.NewRepairer(c, logger)
			if err != nil {
				return err
			}
			r.MaxIterations = o.config.Repair.MaxIterations

			result, err := r.Repair()
			if err != nil {
				logger.Error("Repair failed: %v", err)
				return err
			}

			if o.outputFile != "" {
				if err := writeGates(o.outputFile, result.Circuit); err != nil {
					return err
				}
				logger.Info("Wrote repaired circuit to %s", o.outputFile)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}

	cmd.Flags().IntVar(&o.maxIterations, "max-iterations", 0, "stop after this many repair iterations (0: no limit)")
	cmd.Flags().StringVar(&o.outputFile, "output", "", "write the repaired gate list to this file")
	return cmd
}

func writeGates(filename string, c *circuit.Circuit) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return utils.FormatGates(file, c)
}

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Prints bus widths and structural statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := o.load(args[0])
			if err != nil {
				return err
			}

			topo := circuit.NewTopology(c)
			if err := topo.Analyze(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			wires := c.Wires()
			internal := 0
			for w := circuit.WireID(0); int(w) < wires.Len(); w++ {
				if bus, _ := circuit.BusOf(w); bus == circuit.NoBus {
					internal++
				}
			}
			fmt.Fprintf(out, "buses: x=%d y=%d z=%d\n",
				wires.BusWidth(circuit.BusX), wires.BusWidth(circuit.BusY), wires.BusWidth(circuit.BusZ))
			fmt.Fprintf(out, "gates: %d\n", len(c.Gates()))

			ops := make([]circuit.Op, 0, len(topo.OpCount))
			for op := range topo.OpCount {
				ops = append(ops, op)
			}
			sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
			for _, op := range ops {
				fmt.Fprintf(out, "  %s: %d\n", op, topo.OpCount[op])
			}
			fmt.Fprintf(out, "internal wires: %d\n", internal)
			fmt.Fprintf(out, "fan-out wires: %d\n", topo.Fanouts)
			fmt.Fprintf(out, "depth: %d\n", topo.MaxLevel)
			return nil
		},
	}
}

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/benchmarks"
)

// BenchOptions holds the flags of the bench command
type BenchOptions struct {
	ConfigFile     string
	Runs           int
	Seed           uint64
	Generations    int32
	PopulationSize int32
}

func (o *BenchOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to a SchedulerArgs YAML file.")
	fs.IntVar(&o.Runs, "runs", o.Runs, "Runs per instance.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Seed of the first run, run r uses seed+r.")
	fs.Int32Var(&o.Generations, "generations", o.Generations, "Number of generations per run.")
	fs.Int32Var(&o.PopulationSize, "population", o.PopulationSize, "Population size.")
}

func NewBenchCommand() *cobra.Command {
	o := &BenchOptions{Runs: 3, Generations: 30, PopulationSize: 30}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the scheduler on generated instances and log IGD and spacing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			_, err := o.Run(ctx)
			return err
		},
	}
	o.AddFlags(cmd.Flags())
	return cmd
}

func (o *BenchOptions) Run(ctx context.Context) ([]benchmarks.Report, error) {
	args, err := LoadArgs(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	args.Seed = ptr.To(o.Seed)
	args.Generations = o.Generations
	args.PopulationSize = o.PopulationSize

	suite := benchmarks.NewTestSuite(args, o.Runs)
	suite.AddStandardInstances()
	reports, err := suite.Run(ctx)
	if err != nil {
		return reports, err
	}
	klog.FromContext(ctx).Info("Benchmarks finished", "reports", len(reports))
	return reports, nil
}

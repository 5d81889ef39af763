package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/conversion"
	"github.com/greenfab/eedfjsp/pkg/metrics"
	"github.com/greenfab/eedfjsp/pkg/scheduler"
)

// RunOptions holds the flags of the run command
type RunOptions struct {
	InstanceFile       string
	ConfigFile         string
	OutputFile         string
	Seed               uint64
	Generations        int32
	PopulationSize     int32
	MetricsBindAddress string
}

func (o *RunOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.InstanceFile, "instance", o.InstanceFile, "Path to the Instance YAML file.")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to a SchedulerArgs YAML file.")
	fs.StringVarP(&o.OutputFile, "output", "o", o.OutputFile, "Path of the ScheduleReport YAML file, stdout when empty.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Random seed, overrides the config file.")
	fs.Int32Var(&o.Generations, "generations", o.Generations, "Number of generations, overrides the config file.")
	fs.Int32Var(&o.PopulationSize, "population", o.PopulationSize, "Population size, overrides the config file.")
	fs.StringVar(&o.MetricsBindAddress, "metrics-bind-address", o.MetricsBindAddress, "Address serving Prometheus metrics, disabled when empty.")
}

func NewRunCommand() *cobra.Command {
	o := &RunOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Schedule an instance and write the final Pareto front",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return o.Run(ctx, cmd.OutOrStdout(), cmd.Flags())
		},
	}
	o.AddFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("instance")
	return cmd
}

// Run loads the instance and arguments, runs the scheduler and writes the
// report. Flags that were set on fs override the config file and environment.
func (o *RunOptions) Run(ctx context.Context, out io.Writer, fs *pflag.FlagSet) error {
	logger := klog.FromContext(ctx)

	args, err := LoadArgs(o.ConfigFile)
	if err != nil {
		return err
	}
	if fs != nil {
		if fs.Changed("seed") {
			args.Seed = ptr.To(o.Seed)
		}
		if fs.Changed("generations") {
			args.Generations = o.Generations
		}
		if fs.Changed("population") {
			args.PopulationSize = o.PopulationSize
		}
	}

	in, problem, err := LoadInstance(o.InstanceFile)
	if err != nil {
		return err
	}

	var opts []scheduler.Option
	if o.MetricsBindAddress != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, scheduler.WithMetrics(metrics.NewRecorder(reg)))

		server, err := serveMetrics(ctx, o.MetricsBindAddress, reg)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error(err, "Failed to stop metrics server")
			}
		}()
	}

	s, err := scheduler.New(ctx, args, problem, opts...)
	if err != nil {
		return err
	}
	logger.Info("Scheduling instance", "instance", in.Name, "runID", s.RunID(),
		"jobs", len(problem.Jobs), "machines", len(problem.Machines), "generations", args.Generations)

	result, runErr := s.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	report := conversion.ConvertFront(result.RunID, result.Generations, problem, result.Front, result.Best)
	if err := writeYAML(out, o.OutputFile, report); err != nil {
		return err
	}
	if runErr != nil {
		logger.Info("Wrote partial report", "generations", result.Generations)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) (*http.Server, error) {
	logger := klog.FromContext(ctx)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Metrics server failed", "address", addr)
		}
	}()
	logger.Info("Serving metrics", "address", ln.Addr().String(), "path", "/metrics")
	return server, nil
}

// Package app implements the eedfjsp command line.
package app

import (
	goflag "flag"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

// NewEEDFJSPCommand creates the root command with the run, generate and
// bench subcommands. klog flags are registered as persistent flags.
func NewEEDFJSPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eedfjsp",
		Short: "eedfjsp schedules flexible job shops for makespan, energy and workload",
		Long: `eedfjsp searches Pareto-optimal schedules for flexible job shops whose
machines may break down, using NSGA-II with variable neighbourhood search and
energy-aware post-processing.`,
		SilenceUsage: true,
	}

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)

	cmd.AddCommand(
		NewRunCommand(),
		NewGenerateCommand(),
		NewBenchCommand(),
	)
	return cmd
}

// normalizeFlagName accepts underscores in place of dashes
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	out := []byte(name)
	for i, c := range out {
		if c == '_' {
			out[i] = '-'
		}
	}
	return pflag.NormalizedName(out)
}

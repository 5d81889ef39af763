package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/exp/rand"

	"github.com/greenfab/eedfjsp/pkg/benchmarks"
	"github.com/greenfab/eedfjsp/pkg/conversion"
)

// GenerateOptions holds the flags of the generate command
type GenerateOptions struct {
	Jobs       int
	Machines   int
	Seed       uint64
	OutputFile string
}

func (o *GenerateOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Jobs, "jobs", o.Jobs, "Number of jobs.")
	fs.IntVar(&o.Machines, "machines", o.Machines, "Number of machines.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Random seed.")
	fs.StringVarP(&o.OutputFile, "output", "o", o.OutputFile, "Path of the Instance YAML file, stdout when empty.")
}

func NewGenerateCommand() *cobra.Command {
	o := &GenerateOptions{Jobs: 10, Machines: 6, Seed: 1}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random Instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.OutOrStdout())
		},
	}
	o.AddFlags(cmd.Flags())
	return cmd
}

func (o *GenerateOptions) Run(out io.Writer) error {
	config := benchmarks.DefaultGeneratorConfig(o.Jobs, o.Machines)
	problem, err := benchmarks.GenerateInstance(config, rand.New(rand.NewSource(o.Seed)))
	if err != nil {
		return err
	}
	name := fmt.Sprintf("generated-%dx%d-%d", o.Jobs, o.Machines, o.Seed)
	return writeYAML(out, o.OutputFile, conversion.ConvertProblem(name, problem))
}

package app

import (
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/greenfab/eedfjsp/pkg/api/v1alpha1"
	"github.com/greenfab/eedfjsp/pkg/conversion"
	"github.com/greenfab/eedfjsp/pkg/framework"
	"github.com/greenfab/eedfjsp/pkg/scheduler"
)

// EnvPrefix prefixes every environment override of SchedulerArgs
const EnvPrefix = "EEDFJSP_"

func checkKind(tm metav1.TypeMeta, kind string) error {
	if tm.Kind != "" && tm.Kind != kind {
		return fmt.Errorf("expected kind %s, got %s", kind, tm.Kind)
	}
	if tm.APIVersion != "" && tm.APIVersion != v1alpha1.SchemeGroupVersion.String() {
		return fmt.Errorf("unsupported apiVersion %s", tm.APIVersion)
	}
	return nil
}

// LoadArgs reads SchedulerArgs from path, when set, then applies environment
// overrides and defaults. Flags are applied by the caller before validation.
func LoadArgs(path string) (*v1alpha1.SchedulerArgs, error) {
	args := &v1alpha1.SchedulerArgs{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, args); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := checkKind(args.TypeMeta, "SchedulerArgs"); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(args, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	scheme, err := scheduler.NewScheme()
	if err != nil {
		return nil, err
	}
	scheme.Default(args)
	return args, nil
}

// LoadInstance reads an Instance from path and converts it into a problem
func LoadInstance(path string) (*v1alpha1.Instance, *framework.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read instance: %w", err)
	}
	in := &v1alpha1.Instance{}
	if err := yaml.UnmarshalStrict(data, in); err != nil {
		return nil, nil, fmt.Errorf("failed to parse instance %s: %w", path, err)
	}
	if err := checkKind(in.TypeMeta, "Instance"); err != nil {
		return nil, nil, fmt.Errorf("instance %s: %w", path, err)
	}
	problem, err := conversion.ConvertInstance(in)
	if err != nil {
		return nil, nil, err
	}
	return in, problem, nil
}

// writeYAML marshals obj to path, or to out when path is empty or "-"
func writeYAML(out io.Writer, path string, obj interface{}) error {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	if path == "" || path == "-" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

/*
Copyright 2024 The EEDFJSP Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package scheduler

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/api/v1alpha1"
)

func addDefaultingFuncs(scheme *runtime.Scheme) error {
	return RegisterDefaults(scheme)
}

func RegisterDefaults(scheme *runtime.Scheme) error {
	klog.V(5).InfoS("Registering defaults", "kind", "SchedulerArgs")
	scheme.AddTypeDefaultingFunc(&v1alpha1.SchedulerArgs{}, func(obj interface{}) {
		SetDefaults_SchedulerArgs(obj.(*v1alpha1.SchedulerArgs))
	})
	return nil
}

// NewScheme returns a scheme with the v1alpha1 kinds and their defaults
func NewScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()
	if err := v1alpha1.AddToScheme(scheme); err != nil {
		return nil, err
	}
	if err := addDefaultingFuncs(scheme); err != nil {
		return nil, err
	}
	return scheme, nil
}

func SetDefaults_SchedulerArgs(obj runtime.Object) {
	args := obj.(*v1alpha1.SchedulerArgs)

	if args.APIVersion == "" {
		args.APIVersion = v1alpha1.SchemeGroupVersion.String()
	}
	if args.Kind == "" {
		args.Kind = "SchedulerArgs"
	}
	if args.PopulationSize == 0 {
		args.PopulationSize = 50
	}
	if args.Generations == 0 {
		args.Generations = 50
	}
	if args.Controller == "" {
		args.Controller = v1alpha1.ControllerQLearning
	}
	if args.CrossoverProbability == nil {
		args.CrossoverProbability = ptr.To(0.8)
	}
	if args.MutationProbability == nil {
		args.MutationProbability = ptr.To(0.1)
	}
	if args.SARSAFraction == nil {
		args.SARSAFraction = ptr.To(0.8)
	}

	if args.VNS.Enabled == nil {
		args.VNS.Enabled = ptr.To(true)
	}
	if args.VNS.Candidates == 0 {
		args.VNS.Candidates = 5
	}
	if args.VNS.TabuSize == 0 {
		args.VNS.TabuSize = 10
	}
	if args.VNS.MaxIterations == 0 {
		args.VNS.MaxIterations = 30
	}

	if args.EnergyStrategies.Enabled == nil {
		args.EnergyStrategies.Enabled = ptr.To(true)
	}
	if args.EnergyStrategies.ZZRate == nil {
		args.EnergyStrategies.ZZRate = ptr.To(0.3)
	}
	if args.EnergyStrategies.XXRate == nil {
		args.EnergyStrategies.XXRate = ptr.To(0.7)
	}

	rates := &args.Initialization
	if rates.RandomRate == nil && rates.MinProcessingTimeRate == nil && rates.MaxRemainingTimeRate == nil && rates.MinWorkloadRate == nil {
		rates.RandomRate = ptr.To(0.25)
		rates.MinProcessingTimeRate = ptr.To(0.25)
		rates.MaxRemainingTimeRate = ptr.To(0.25)
		rates.MinWorkloadRate = ptr.To(0.25)
	}

	if args.Breakdowns.Enabled == nil {
		args.Breakdowns.Enabled = ptr.To(true)
	}
}

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
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/api/v1alpha1"
)

// ValidateSchedulerArgs validates defaulted scheduler arguments. Zero counts
// are replaced by defaulting, so every count must be at least 1.
func ValidateSchedulerArgs(obj runtime.Object) error {
	args := obj.(*v1alpha1.SchedulerArgs)
	var errs field.ErrorList

	if args.PopulationSize < 2 {
		errs = append(errs, field.Invalid(field.NewPath("populationSize"), args.PopulationSize, "must be at least 2"))
	}
	if args.Generations < 1 {
		errs = append(errs, field.Invalid(field.NewPath("generations"), args.Generations, "must be at least 1"))
	}

	switch args.Controller {
	case v1alpha1.ControllerQLearning, v1alpha1.ControllerFixed:
	default:
		errs = append(errs, field.NotSupported(field.NewPath("controller"), args.Controller,
			[]string{string(v1alpha1.ControllerQLearning), string(v1alpha1.ControllerFixed)}))
	}

	errs = append(errs, validateProbability(field.NewPath("crossoverProbability"), args.CrossoverProbability)...)
	errs = append(errs, validateProbability(field.NewPath("mutationProbability"), args.MutationProbability)...)
	errs = append(errs, validateProbability(field.NewPath("sarsaFraction"), args.SARSAFraction)...)

	vnsPath := field.NewPath("vns")
	if args.VNS.Candidates < 1 {
		errs = append(errs, field.Invalid(vnsPath.Child("candidates"), args.VNS.Candidates, "must be at least 1"))
	}
	if args.VNS.TabuSize < 1 {
		errs = append(errs, field.Invalid(vnsPath.Child("tabuSize"), args.VNS.TabuSize, "must be at least 1"))
	}
	if args.VNS.MaxIterations < 1 {
		errs = append(errs, field.Invalid(vnsPath.Child("maxIterations"), args.VNS.MaxIterations, "must be at least 1"))
	}

	esPath := field.NewPath("energyStrategies")
	errs = append(errs, validateProbability(esPath.Child("zzRate"), args.EnergyStrategies.ZZRate)...)
	errs = append(errs, validateProbability(esPath.Child("xxRate"), args.EnergyStrategies.XXRate)...)
	if zz, xx := ptr.Deref(args.EnergyStrategies.ZZRate, 0), ptr.Deref(args.EnergyStrategies.XXRate, 0); zz > xx {
		errs = append(errs, field.Invalid(esPath.Child("zzRate"), zz, "must not exceed xxRate"))
	}

	initPath := field.NewPath("initialization")
	rates := map[string]*float64{
		"randomRate":            args.Initialization.RandomRate,
		"minProcessingTimeRate": args.Initialization.MinProcessingTimeRate,
		"maxRemainingTimeRate":  args.Initialization.MaxRemainingTimeRate,
		"minWorkloadRate":       args.Initialization.MinWorkloadRate,
	}
	for _, name := range []string{"randomRate", "minProcessingTimeRate", "maxRemainingTimeRate", "minWorkloadRate"} {
		if v := rates[name]; v != nil && *v < 0 {
			errs = append(errs, field.Invalid(initPath.Child(name), *v, "must be non-negative"))
		}
	}

	return errs.ToAggregate()
}

func validateProbability(path *field.Path, v *float64) field.ErrorList {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 1 {
		return field.ErrorList{field.Invalid(path, *v, "must be between 0 and 1")}
	}
	return nil
}

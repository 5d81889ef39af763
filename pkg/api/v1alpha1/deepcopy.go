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

package v1alpha1

import (
	runtime "k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *Assignment) DeepCopyInto(out *Assignment) {
	*out = *in
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new Assignment.
func (in *Assignment) DeepCopy() *Assignment {
	if in == nil {
		return nil
	}
	out := new(Assignment)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *BreakdownArgs) DeepCopyInto(out *BreakdownArgs) {
	*out = *in
	if in.Enabled != nil {
		in, out := &in.Enabled, &out.Enabled
		*out = new(bool)
		**out = **in
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new BreakdownArgs.
func (in *BreakdownArgs) DeepCopy() *BreakdownArgs {
	if in == nil {
		return nil
	}
	out := new(BreakdownArgs)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *BreakdownCoefficients) DeepCopyInto(out *BreakdownCoefficients) {
	*out = *in
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new BreakdownCoefficients.
func (in *BreakdownCoefficients) DeepCopy() *BreakdownCoefficients {
	if in == nil {
		return nil
	}
	out := new(BreakdownCoefficients)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *EnergyBreakdown) DeepCopyInto(out *EnergyBreakdown) {
	*out = *in
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new EnergyBreakdown.
func (in *EnergyBreakdown) DeepCopy() *EnergyBreakdown {
	if in == nil {
		return nil
	}
	out := new(EnergyBreakdown)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *EnergyStrategyArgs) DeepCopyInto(out *EnergyStrategyArgs) {
	*out = *in
	if in.Enabled != nil {
		in, out := &in.Enabled, &out.Enabled
		*out = new(bool)
		**out = **in
	}
	if in.ZZRate != nil {
		in, out := &in.ZZRate, &out.ZZRate
		*out = new(float64)
		**out = **in
	}
	if in.XXRate != nil {
		in, out := &in.XXRate, &out.XXRate
		*out = new(float64)
		**out = **in
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new EnergyStrategyArgs.
func (in *EnergyStrategyArgs) DeepCopy() *EnergyStrategyArgs {
	if in == nil {
		return nil
	}
	out := new(EnergyStrategyArgs)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *InitializationArgs) DeepCopyInto(out *InitializationArgs) {
	*out = *in
	if in.RandomRate != nil {
		in, out := &in.RandomRate, &out.RandomRate
		*out = new(float64)
		**out = **in
	}
	if in.MinProcessingTimeRate != nil {
		in, out := &in.MinProcessingTimeRate, &out.MinProcessingTimeRate
		*out = new(float64)
		**out = **in
	}
	if in.MaxRemainingTimeRate != nil {
		in, out := &in.MaxRemainingTimeRate, &out.MaxRemainingTimeRate
		*out = new(float64)
		**out = **in
	}
	if in.MinWorkloadRate != nil {
		in, out := &in.MinWorkloadRate, &out.MinWorkloadRate
		*out = new(float64)
		**out = **in
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new InitializationArgs.
func (in *InitializationArgs) DeepCopy() *InitializationArgs {
	if in == nil {
		return nil
	}
	out := new(InitializationArgs)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *Instance) DeepCopyInto(out *Instance) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new Instance.
func (in *Instance) DeepCopy() *Instance {
	if in == nil {
		return nil
	}
	out := new(Instance)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject is an deepcopy function, copying the receiver, creating a new runtime.Object.
func (in *Instance) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *InstanceSpec) DeepCopyInto(out *InstanceSpec) {
	*out = *in
	if in.Machines != nil {
		in, out := &in.Machines, &out.Machines
		*out = make([]MachineSpec, len(*in))
		copy(*out, *in)
	}
	if in.Jobs != nil {
		in, out := &in.Jobs, &out.Jobs
		*out = make([]JobSpec, len(*in))
		for i := range *in {
			(*in)[i].DeepCopyInto(&(*out)[i])
		}
	}
	if in.TransportTime != nil {
		in, out := &in.TransportTime, &out.TransportTime
		*out = make([][]float64, len(*in))
		for i := range *in {
			if (*in)[i] != nil {
				in, out := &(*in)[i], &(*out)[i]
				*out = make([]float64, len(*in))
				copy(*out, *in)
			}
		}
	}
	if in.CommonEnergy != nil {
		in, out := &in.CommonEnergy, &out.CommonEnergy
		*out = new(float64)
		**out = **in
	}
	if in.TransportEnergy != nil {
		in, out := &in.TransportEnergy, &out.TransportEnergy
		*out = new(float64)
		**out = **in
	}
	if in.Breakdown != nil {
		in, out := &in.Breakdown, &out.Breakdown
		*out = new(BreakdownCoefficients)
		**out = **in
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new InstanceSpec.
func (in *InstanceSpec) DeepCopy() *InstanceSpec {
	if in == nil {
		return nil
	}
	out := new(InstanceSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *JobSpec) DeepCopyInto(out *JobSpec) {
	*out = *in
	if in.Operations != nil {
		in, out := &in.Operations, &out.Operations
		*out = make([]OperationSpec, len(*in))
		for i := range *in {
			(*in)[i].DeepCopyInto(&(*out)[i])
		}
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new JobSpec.
func (in *JobSpec) DeepCopy() *JobSpec {
	if in == nil {
		return nil
	}
	out := new(JobSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *MachineBreakdowns) DeepCopyInto(out *MachineBreakdowns) {
	*out = *in
	if in.Windows != nil {
		in, out := &in.Windows, &out.Windows
		*out = make([]Window, len(*in))
		copy(*out, *in)
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new MachineBreakdowns.
func (in *MachineBreakdowns) DeepCopy() *MachineBreakdowns {
	if in == nil {
		return nil
	}
	out := new(MachineBreakdowns)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *MachineOptionSpec) DeepCopyInto(out *MachineOptionSpec) {
	*out = *in
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new MachineOptionSpec.
func (in *MachineOptionSpec) DeepCopy() *MachineOptionSpec {
	if in == nil {
		return nil
	}
	out := new(MachineOptionSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *MachineSpec) DeepCopyInto(out *MachineSpec) {
	*out = *in
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new MachineSpec.
func (in *MachineSpec) DeepCopy() *MachineSpec {
	if in == nil {
		return nil
	}
	out := new(MachineSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *OperationSpec) DeepCopyInto(out *OperationSpec) {
	*out = *in
	if in.Options != nil {
		in, out := &in.Options, &out.Options
		*out = make([]MachineOptionSpec, len(*in))
		copy(*out, *in)
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new OperationSpec.
func (in *OperationSpec) DeepCopy() *OperationSpec {
	if in == nil {
		return nil
	}
	out := new(OperationSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *ScheduleReport) DeepCopyInto(out *ScheduleReport) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new ScheduleReport.
func (in *ScheduleReport) DeepCopy() *ScheduleReport {
	if in == nil {
		return nil
	}
	out := new(ScheduleReport)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject is an deepcopy function, copying the receiver, creating a new runtime.Object.
func (in *ScheduleReport) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *ScheduleReportStatus) DeepCopyInto(out *ScheduleReportStatus) {
	*out = *in
	if in.Best != nil {
		in, out := &in.Best, &out.Best
		*out = new(Solution)
		(*in).DeepCopyInto(*out)
	}
	if in.Front != nil {
		in, out := &in.Front, &out.Front
		*out = make([]Solution, len(*in))
		for i := range *in {
			(*in)[i].DeepCopyInto(&(*out)[i])
		}
	}
	if in.Breakdowns != nil {
		in, out := &in.Breakdowns, &out.Breakdowns
		*out = make([]MachineBreakdowns, len(*in))
		for i := range *in {
			(*in)[i].DeepCopyInto(&(*out)[i])
		}
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new ScheduleReportStatus.
func (in *ScheduleReportStatus) DeepCopy() *ScheduleReportStatus {
	if in == nil {
		return nil
	}
	out := new(ScheduleReportStatus)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *SchedulerArgs) DeepCopyInto(out *SchedulerArgs) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	if in.Seed != nil {
		in, out := &in.Seed, &out.Seed
		*out = new(uint64)
		**out = **in
	}
	if in.CrossoverProbability != nil {
		in, out := &in.CrossoverProbability, &out.CrossoverProbability
		*out = new(float64)
		**out = **in
	}
	if in.MutationProbability != nil {
		in, out := &in.MutationProbability, &out.MutationProbability
		*out = new(float64)
		**out = **in
	}
	if in.SARSAFraction != nil {
		in, out := &in.SARSAFraction, &out.SARSAFraction
		*out = new(float64)
		**out = **in
	}
	in.VNS.DeepCopyInto(&out.VNS)
	in.EnergyStrategies.DeepCopyInto(&out.EnergyStrategies)
	in.Initialization.DeepCopyInto(&out.Initialization)
	in.Breakdowns.DeepCopyInto(&out.Breakdowns)
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new SchedulerArgs.
func (in *SchedulerArgs) DeepCopy() *SchedulerArgs {
	if in == nil {
		return nil
	}
	out := new(SchedulerArgs)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject is an deepcopy function, copying the receiver, creating a new runtime.Object.
func (in *SchedulerArgs) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *Solution) DeepCopyInto(out *Solution) {
	*out = *in
	out.Energies = in.Energies
	if in.Assignments != nil {
		in, out := &in.Assignments, &out.Assignments
		*out = make([]Assignment, len(*in))
		copy(*out, *in)
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new Solution.
func (in *Solution) DeepCopy() *Solution {
	if in == nil {
		return nil
	}
	out := new(Solution)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *VNSArgs) DeepCopyInto(out *VNSArgs) {
	*out = *in
	if in.Enabled != nil {
		in, out := &in.Enabled, &out.Enabled
		*out = new(bool)
		**out = **in
	}
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new VNSArgs.
func (in *VNSArgs) DeepCopy() *VNSArgs {
	if in == nil {
		return nil
	}
	out := new(VNSArgs)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto is an deepcopy function, copying the receiver, writing into out. in must be non-nil.
func (in *Window) DeepCopyInto(out *Window) {
	*out = *in
}

// DeepCopy is an deepcopy function, copying the receiver, creating a new Window.
func (in *Window) DeepCopy() *Window {
	if in == nil {
		return nil
	}
	out := new(Window)
	in.DeepCopyInto(out)
	return out
}

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

package conversion

import (
	"fmt"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/greenfab/eedfjsp/pkg/api/v1alpha1"
	"github.com/greenfab/eedfjsp/pkg/framework"
)

const (
	labelRunID = "eedfjsp.greenfab.io/run-id"
)

// GenerateReportName generates a consistent name for a ScheduleReport based on the run id
func GenerateReportName(runID string) string {
	return fmt.Sprintf("schedule-report-%s", runID)
}

// ConvertInstance builds a validated problem from an Instance
func ConvertInstance(in *v1alpha1.Instance) (*framework.Problem, error) {
	spec := in.Spec

	machines := make([]*framework.Machine, len(spec.Machines))
	for i, m := range spec.Machines {
		machines[i] = &framework.Machine{
			ID:         int(m.ID),
			IdleEnergy: m.IdleEnergy,
			Age:        m.Age,
		}
	}

	jobs := make([]*framework.Job, len(spec.Jobs))
	for i, j := range spec.Jobs {
		job := &framework.Job{ID: int(j.ID)}
		for index, op := range j.Operations {
			options := make(map[int]framework.MachineOption, len(op.Options))
			for _, o := range op.Options {
				options[int(o.Machine)] = framework.MachineOption{
					ProcessingTime:   o.ProcessingTime,
					ProcessingEnergy: o.ProcessingEnergy,
					SetupTime:        o.SetupTime,
					SetupEnergy:      o.SetupEnergy,
				}
			}
			job.Operations = append(job.Operations, framework.NewOperation(job.ID, index, options))
		}
		jobs[i] = job
	}
	sort.SliceStable(jobs, func(a, b int) bool { return jobs[a].ID < jobs[b].ID })

	params := framework.DefaultParameters(len(machines))
	if spec.TransportTime != nil {
		params.TransportTime = spec.TransportTime
	}
	params.CommonEnergy = ptr.Deref(spec.CommonEnergy, params.CommonEnergy)
	params.TransportEnergy = ptr.Deref(spec.TransportEnergy, params.TransportEnergy)
	if spec.Breakdown != nil {
		params.Breakdown = framework.BreakdownCoefficients(*spec.Breakdown)
	}

	p, err := framework.NewProblem(jobs, machines, params)
	if err != nil {
		return nil, fmt.Errorf("invalid instance %q: %w", in.Name, err)
	}
	return p, nil
}

// ConvertProblem describes a problem as an Instance
func ConvertProblem(name string, p *framework.Problem) *v1alpha1.Instance {
	in := &v1alpha1.Instance{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.SchemeGroupVersion.String(),
			Kind:       "Instance",
		},
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: v1alpha1.InstanceSpec{
			TransportTime:   p.Params.TransportTime,
			CommonEnergy:    ptr.To(p.Params.CommonEnergy),
			TransportEnergy: ptr.To(p.Params.TransportEnergy),
			Breakdown:       ptr.To(v1alpha1.BreakdownCoefficients(p.Params.Breakdown)),
		},
	}

	for _, m := range p.Machines {
		in.Spec.Machines = append(in.Spec.Machines, v1alpha1.MachineSpec{
			ID:         int32(m.ID),
			IdleEnergy: m.IdleEnergy,
			Age:        m.Age,
		})
	}
	for _, j := range p.Jobs {
		job := v1alpha1.JobSpec{ID: int32(j.ID)}
		for _, op := range j.Operations {
			spec := v1alpha1.OperationSpec{}
			for _, m := range op.Machines {
				o := op.Options[m]
				spec.Options = append(spec.Options, v1alpha1.MachineOptionSpec{
					Machine:          int32(m),
					ProcessingTime:   o.ProcessingTime,
					ProcessingEnergy: o.ProcessingEnergy,
					SetupTime:        o.SetupTime,
					SetupEnergy:      o.SetupEnergy,
				})
			}
			job.Operations = append(job.Operations, spec)
		}
		in.Spec.Jobs = append(in.Spec.Jobs, job)
	}
	return in
}

// ConvertFront converts the final front of a run into a ScheduleReport
func ConvertFront(
	runID string,
	generations int,
	p *framework.Problem,
	front []*framework.Chromosome,
	best *framework.Chromosome,
) *v1alpha1.ScheduleReport {
	now := metav1.Now()
	report := &v1alpha1.ScheduleReport{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.SchemeGroupVersion.String(),
			Kind:       "ScheduleReport",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:              GenerateReportName(runID),
			CreationTimestamp: now,
			Labels: map[string]string{
				labelRunID: runID,
			},
		},
		Status: v1alpha1.ScheduleReportStatus{
			RunID:       runID,
			Generations: int32(generations),
			Front:       make([]v1alpha1.Solution, 0, len(front)),
		},
	}

	// Sort by makespan so reports read from the fastest schedule
	sorted := append([]*framework.Chromosome(nil), front...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Makespan < sorted[j].Makespan })
	for _, c := range sorted {
		report.Status.Front = append(report.Status.Front, ConvertChromosome(c))
	}
	if best != nil {
		report.Status.Best = ptr.To(ConvertChromosome(best))
	}

	for _, m := range p.Machines {
		if len(m.Breakdowns) == 0 {
			continue
		}
		mb := v1alpha1.MachineBreakdowns{Machine: int32(m.ID)}
		for _, w := range m.Breakdowns {
			mb.Windows = append(mb.Windows, v1alpha1.Window{Start: w.Start, End: w.End})
		}
		report.Status.Breakdowns = append(report.Status.Breakdowns, mb)
	}

	return report
}

// ConvertChromosome converts a decoded chromosome into a Solution with one
// assignment per operation, ordered by machine and start time
func ConvertChromosome(c *framework.Chromosome) v1alpha1.Solution {
	solution := v1alpha1.Solution{
		Makespan: c.Makespan,
		Energy:   c.Energy,
		Workload: c.Workload,
	}
	if c.Schedule == nil {
		return solution
	}

	e := c.Schedule.Energy
	solution.Energies = v1alpha1.EnergyBreakdown{
		Processing: e.Processing,
		Setup:      e.Setup,
		Transport:  e.Transport,
		Idle:       e.Idle,
		Common:     e.Common,
	}
	for _, timeline := range c.Schedule.Timelines {
		for _, b := range timeline {
			if !b.IsOperation() {
				continue
			}
			solution.Assignments = append(solution.Assignments, v1alpha1.Assignment{
				Job:       int32(b.Op.Job),
				Operation: int32(b.Op.Index),
				Machine:   int32(b.Machine),
				Start:     b.Start,
				End:       b.End,
			})
		}
	}
	return solution
}

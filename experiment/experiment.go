// Package experiment describes an A/B experiment: how it was planned and
// what each group observed.
package experiment

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/domino14/splittest/proportion"
)

type PlanSpec struct {
	BaselineRate float64                `yaml:"baseline_rate"`
	TargetRate   float64                `yaml:"target_rate"`
	Alpha        float64                `yaml:"alpha"`
	Power        float64                `yaml:"power"`
	Alternative  proportion.Alternative `yaml:"alternative"`
}

type GroupSpec struct {
	Name      string `yaml:"name,omitempty"`
	Size      int    `yaml:"size"`
	Successes int    `yaml:"successes"`
}

type Experiment struct {
	Name      string    `yaml:"name"`
	Plan      PlanSpec  `yaml:"plan"`
	Control   GroupSpec `yaml:"control"`
	Treatment GroupSpec `yaml:"treatment"`
}

// Default is the second-course recommendation rollout: conversion was
// 3.2% and the recommendations are expected to lift it to 4%.
func Default() *Experiment {
	return &Experiment{
		Name: "second-course-recommendations",
		Plan: PlanSpec{
			BaselineRate: 0.032,
			TargetRate:   0.04,
			Alpha:        0.05,
			Power:        0.8,
			Alternative:  proportion.Greater,
		},
		Control:   GroupSpec{Name: "control", Size: 8732, Successes: 293},
		Treatment: GroupSpec{Name: "treatment", Size: 8847, Successes: 347},
	}
}

func (e *Experiment) ProportionPlan() proportion.Plan {
	return proportion.Plan{
		BaselineRate: e.Plan.BaselineRate,
		TargetRate:   e.Plan.TargetRate,
		Alpha:        e.Plan.Alpha,
		Power:        e.Plan.Power,
		Alternative:  e.Plan.Alternative,
	}
}

func (g GroupSpec) Sample() proportion.Sample {
	return proportion.Sample{Size: g.Size, Successes: g.Successes}
}

// Validate checks the plan and both groups.
func (e *Experiment) Validate() error {
	if err := e.ProportionPlan().Validate(); err != nil {
		return fmt.Errorf("experiment %q: %w", e.Name, err)
	}
	if err := e.Control.Sample().Validate(); err != nil {
		return fmt.Errorf("experiment %q: control group: %w", e.Name, err)
	}
	if err := e.Treatment.Sample().Validate(); err != nil {
		return fmt.Errorf("experiment %q: treatment group: %w", e.Name, err)
	}
	return nil
}

// Parse decodes a YAML experiment. Missing group names default to
// "control" and "treatment".
func Parse(r io.Reader) (*Experiment, error) {
	e := &Experiment{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(e); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty experiment file")
		}
		return nil, fmt.Errorf("decoding experiment: %w", err)
	}
	if e.Control.Name == "" {
		e.Control.Name = "control"
	}
	if e.Treatment.Name == "" {
		e.Treatment.Name = "treatment"
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Load reads an experiment from a YAML file.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// Marshal encodes the experiment as YAML.
func (e *Experiment) Marshal() ([]byte, error) {
	return yaml.Marshal(e)
}

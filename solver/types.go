// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package solver

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

var (
	ErrNoVariables       = errors.New("problem has no variables")
	ErrDimensionMismatch = errors.New("constraint dimension does not match problem dimension")
	ErrNilObjective      = errors.New("problem objective is nil")
)

// Objective is a scalar function of the weight vector to be minimized
type Objective interface {
	Func(x []float64) float64
}

// Gradient is implemented by objectives that know their analytic gradient.
// Grad stores the gradient of Func at x in grad
type Gradient interface {
	Grad(grad, x []float64)
}

// ConstraintKind identifies the equality constraint variants understood by the solver
type ConstraintKind int

const (
	SumToOneKind ConstraintKind = iota + 1
	ReturnEqualsKind
)

func (k ConstraintKind) String() string {
	switch k {
	case SumToOneKind:
		return "sum-to-one"
	case ReturnEqualsKind:
		return "return-equals-target"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}

// Constraint is a linear equality constraint Coeffs·x == Target
type Constraint struct {
	Kind   ConstraintKind
	Coeffs []float64
	Target float64
}

// SumToOne requires the weights to sum to 1
func SumToOne() Constraint {
	return Constraint{
		Kind:   SumToOneKind,
		Target: 1,
	}
}

// ReturnEquals requires the expected return w·mu to equal target
func ReturnEquals(mu []float64, target float64) Constraint {
	coeffs := make([]float64, len(mu))
	copy(coeffs, mu)
	return Constraint{
		Kind:   ReturnEqualsKind,
		Coeffs: coeffs,
		Target: target,
	}
}

// Residual returns Coeffs·x - Target; zero when the constraint holds
func (c Constraint) Residual(x []float64) float64 {
	if c.Kind == SumToOneKind {
		return floats.Sum(x) - c.Target
	}
	return floats.Dot(c.Coeffs, x) - c.Target
}

// addGrad adds scale * ∇(Coeffs·x) to grad
func (c Constraint) addGrad(grad []float64, scale float64) {
	if c.Kind == SumToOneKind {
		for idx := range grad {
			grad[idx] += scale
		}
		return
	}
	floats.AddScaled(grad, scale, c.Coeffs)
}

func (c Constraint) validate(dim int) error {
	switch c.Kind {
	case SumToOneKind:
		return nil
	case ReturnEqualsKind:
		if len(c.Coeffs) != dim {
			return ErrDimensionMismatch
		}
		return nil
	default:
		return fmt.Errorf("unknown constraint kind %d", int(c.Kind))
	}
}

// Problem describes a minimization over weight vectors of length Dim with
// every weight bounded to [0, 1]
type Problem struct {
	Objective   Objective
	Constraints []Constraint
	Dim         int
}

// Settings control termination of the solver
type Settings struct {
	// MaxIterations bounds the projected gradient iterations of each major iteration
	MaxIterations int

	// MaxMajorIterations bounds the number of multiplier updates
	MaxMajorIterations int

	// StepTolerance is the projected gradient step size below which the
	// current point is considered stationary
	StepTolerance float64

	// ConstraintTolerance is the largest absolute residual accepted for the
	// equality constraints that are not enforced by projection
	ConstraintTolerance float64
}

// DefaultSettings returns the settings used when nil is passed to Minimize
func DefaultSettings() *Settings {
	return &Settings{
		MaxIterations:       1000,
		MaxMajorIterations:  50,
		StepTolerance:       1e-10,
		ConstraintTolerance: 1e-9,
	}
}

// Result is the best point found by the solver. Status reports whether the
// solver converged; callers that need guarantees must check it as the solver
// does not return an error when it runs out of iterations
type Result struct {
	X               []float64
	F               float64
	Status          optimize.Status
	Iterations      int
	MajorIterations int
	Violation       float64
}

// Converged returns true if the solver terminated because a convergence
// criterion was met
func (r *Result) Converged() bool {
	return Converged(r.Status)
}

// Converged returns true if status is one of the convergence statuses
// reported by Minimize
func Converged(status optimize.Status) bool {
	switch status {
	case optimize.Success, optimize.FunctionConvergence, optimize.StepConvergence, optimize.GradientThreshold:
		return true
	default:
		return false
	}
}

// MarshalZerologObject implement the log marshaller interface for zerolog
func (r *Result) MarshalZerologObject(e *zerolog.Event) {
	e.Floats64("X", r.X).
		Float64("F", r.F).
		Str("Status", r.Status.String()).
		Int("Iterations", r.Iterations).
		Int("MajorIterations", r.MajorIterations).
		Float64("Violation", r.Violation)
}

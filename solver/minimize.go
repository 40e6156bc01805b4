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
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

const (
	armijo           = 1e-4
	maxBacktracks    = 100
	minStep          = 1e-10
	maxStep          = 1e6
	initialPenalty   = 10.0
	maxPenalty       = 1e10
	penaltyGrowth    = 10.0
	requiredProgress = 0.25
)

// Minimize solves problem starting from the equal-weight vector. Constraints
// of kind SumToOneKind are enforced exactly by projecting onto the probability
// simplex; the remaining equality constraints are handled with an augmented
// Lagrangian whose subproblems are solved with a spectral projected gradient
// method. The returned Result always holds the last iterate, its Status
// reports whether the solver converged.
func Minimize(problem Problem, settings *Settings) (*Result, error) {
	if problem.Objective == nil {
		log.Error().Stack().Err(ErrNilObjective).Msg("cannot minimize without an objective")
		return nil, ErrNilObjective
	}

	if problem.Dim <= 0 {
		log.Error().Stack().Err(ErrNoVariables).Int("Dim", problem.Dim).Msg("cannot minimize problem")
		return nil, ErrNoVariables
	}

	if settings == nil {
		settings = DefaultSettings()
	}

	var proj projector = &boxProjector{lower: 0, upper: 1}
	penalized := make([]Constraint, 0, len(problem.Constraints))
	for _, c := range problem.Constraints {
		if err := c.validate(problem.Dim); err != nil {
			log.Error().Stack().Err(err).Str("Kind", c.Kind.String()).Int("NumCoeffs", len(c.Coeffs)).Int("Dim", problem.Dim).Msg("invalid constraint")
			return nil, err
		}

		if c.Kind == SumToOneKind && c.Target == 1 {
			proj = &simplexProjector{total: 1}
			continue
		}
		penalized = append(penalized, c)
	}

	m := &minimizer{
		objective: problem.Objective,
		penalized: penalized,
		lambda:    make([]float64, len(penalized)),
		rho:       initialPenalty,
		proj:      proj,
		settings:  settings,
	}

	if grad, ok := problem.Objective.(Gradient); ok {
		m.gradient = grad
	}

	x := make([]float64, problem.Dim)
	for idx := range x {
		x[idx] = 1.0 / float64(problem.Dim)
	}
	proj.project(x)

	result := &Result{}
	prevViolation := m.violation(x)
	feasible := false

	for major := 0; major < settings.MaxMajorIterations; major++ {
		var iters int
		x, iters, result.Status = m.descend(x)
		result.Iterations += iters
		result.MajorIterations = major + 1

		violation := m.violation(x)
		if violation <= settings.ConstraintTolerance {
			feasible = true
			break
		}

		for idx, c := range penalized {
			m.lambda[idx] += m.rho * c.Residual(x)
		}

		if violation > requiredProgress*prevViolation {
			m.rho = math.Min(m.rho*penaltyGrowth, maxPenalty)
		}
		prevViolation = violation
	}

	if !feasible {
		result.Status = optimize.IterationLimit
	}

	result.X = x
	result.F = problem.Objective.Func(x)
	for _, c := range problem.Constraints {
		result.Violation = math.Max(result.Violation, math.Abs(c.Residual(x)))
	}

	if !result.Converged() {
		log.Debug().Object("Result", result).Msg("solver did not converge")
	}

	return result, nil
}

type minimizer struct {
	objective Objective
	gradient  Gradient
	penalized []Constraint
	lambda    []float64
	rho       float64
	proj      projector
	settings  *Settings
}

// violation is the largest absolute residual of the penalized constraints
func (m *minimizer) violation(x []float64) float64 {
	worst := 0.0
	for _, c := range m.penalized {
		worst = math.Max(worst, math.Abs(c.Residual(x)))
	}
	return worst
}

// lagrangian evaluates the augmented lagrangian
// f(x) + sum(lambda_i * c_i(x)) + rho/2 * sum(c_i(x)^2)
func (m *minimizer) lagrangian(x []float64) float64 {
	val := m.objective.Func(x)
	for idx, c := range m.penalized {
		r := c.Residual(x)
		val += m.lambda[idx]*r + 0.5*m.rho*r*r
	}
	return val
}

func (m *minimizer) lagrangianGrad(grad, x []float64) {
	if m.gradient != nil {
		m.gradient.Grad(grad, x)
	} else {
		fd.Gradient(grad, m.objective.Func, x, &fd.Settings{Formula: fd.Central})
	}

	for idx, c := range m.penalized {
		c.addGrad(grad, m.lambda[idx]+m.rho*c.Residual(x))
	}
}

// descend minimizes the augmented lagrangian over the feasible set using
// projected gradient steps with Barzilai-Borwein step lengths and an Armijo
// backtracking line search
func (m *minimizer) descend(x0 []float64) ([]float64, int, optimize.Status) {
	n := len(x0)
	x := make([]float64, n)
	copy(x, x0)
	m.proj.project(x)

	g := make([]float64, n)
	gNew := make([]float64, n)
	xNew := make([]float64, n)
	s := make([]float64, n)
	y := make([]float64, n)

	fx := m.lagrangian(x)
	m.lagrangianGrad(g, x)
	alpha := 1.0

	for iter := 0; iter < m.settings.MaxIterations; iter++ {
		// stationarity: the unit projected gradient step does not move x
		floats.AddScaledTo(xNew, x, -1, g)
		m.proj.project(xNew)
		floats.SubTo(s, xNew, x)
		if floats.Norm(s, math.Inf(1)) <= m.settings.StepTolerance {
			return x, iter, optimize.Success
		}

		step := alpha
		accepted := false
		var fNew float64
		for bt := 0; bt < maxBacktracks; bt++ {
			floats.AddScaledTo(xNew, x, -step, g)
			m.proj.project(xNew)
			floats.SubTo(s, xNew, x)

			if floats.Norm(s, math.Inf(1)) <= m.settings.StepTolerance {
				return x, iter, optimize.StepConvergence
			}

			fNew = m.lagrangian(xNew)
			if !math.IsNaN(fNew) && fNew <= fx+armijo*floats.Dot(g, s) {
				accepted = true
				break
			}
			step *= 0.5
		}

		if !accepted {
			return x, iter, optimize.Failure
		}

		m.lagrangianGrad(gNew, xNew)
		floats.SubTo(y, gNew, g)

		sy := floats.Dot(s, y)
		if sy > 0 {
			alpha = math.Min(math.Max(floats.Dot(s, s)/sy, minStep), maxStep)
		} else {
			alpha = maxStep
		}

		converged := math.Abs(fx-fNew) <= 1e-15*(1+math.Abs(fx))
		x, xNew = xNew, x
		g, gNew = gNew, g
		fx = fNew

		if converged {
			return x, iter + 1, optimize.FunctionConvergence
		}
	}

	return x, m.settings.MaxIterations, optimize.IterationLimit
}
